// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package filecrypto derives file keys from a mnemonic and applies the AES-CTR
// keystream used for uploaded content. CTR mode lets shards be encrypted
// independently at their offset within the file.
package filecrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	seedIterations = 2048
	seedLength     = 64
	// KeySize is the AES-256 key length.
	KeySize = 32
)

// Seed stretches a mnemonic phrase into a 64 byte seed the way BIP-39 wallets do.
func Seed(mnemonic string) []byte {
	phrase := strings.Join(strings.Fields(mnemonic), " ")
	return pbkdf2.Key([]byte(phrase), []byte("mnemonic"), seedIterations, seedLength, sha512.New)
}

// DeriveKey returns the key protecting files stored in bucketID.
func DeriveKey(mnemonic, bucketID string) []byte {
	h := sha256.New()
	h.Write(Seed(mnemonic))
	h.Write([]byte(bucketID))
	return h.Sum(nil)
}

// IV returns the deterministic initialization vector of a file.
func IV(bucketID, fileName string) []byte {
	sum := sha256.Sum256([]byte(bucketID + "/" + fileName))
	return sum[:aes.BlockSize]
}

// Stream applies the keystream of one file.
type Stream struct {
	block cipher.Block
	iv    []byte
}

// New returns a Stream for key and iv.
func New(key, iv []byte) (*Stream, error) {
	if len(key) != KeySize {
		return nil, errors.New("filecrypto: key must be 32 bytes")
	}
	if len(iv) != aes.BlockSize {
		return nil, errors.New("filecrypto: iv must be 16 bytes")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &Stream{block: block, iv: append([]byte(nil), iv...)}, nil
}

// ForFile is a convenience wrapper deriving key and iv for a bucket file.
func ForFile(mnemonic, bucketID, fileName string) (*Stream, error) {
	return New(DeriveKey(mnemonic, bucketID), IV(bucketID, fileName))
}

// At returns the keystream positioned at byte offset off of the file.
func (s *Stream) At(off int64) cipher.Stream {
	counter := addCounter(s.iv, uint64(off/aes.BlockSize))
	ctr := cipher.NewCTR(s.block, counter)
	if skip := int(off % aes.BlockSize); skip > 0 {
		discard := make([]byte, skip)
		ctr.XORKeyStream(discard, discard)
	}
	return ctr
}

// XORAt transforms src into dst as if src started at byte offset off of the file.
// Encryption and decryption are the same operation.
func (s *Stream) XORAt(dst, src []byte, off int64) {
	s.At(off).XORKeyStream(dst, src)
}

// Reader returns a reader transforming r from offset 0.
func (s *Stream) Reader(r io.Reader) io.Reader {
	return &cipher.StreamReader{S: s.At(0), R: r}
}

// addCounter adds n to the 128-bit big-endian counter iv.
func addCounter(iv []byte, n uint64) []byte {
	out := make([]byte, aes.BlockSize)
	hi := binary.BigEndian.Uint64(iv[:8])
	lo := binary.BigEndian.Uint64(iv[8:])
	sum := lo + n
	if sum < lo {
		hi++
	}
	binary.BigEndian.PutUint64(out[:8], hi)
	binary.BigEndian.PutUint64(out[8:], sum)
	return out
}
