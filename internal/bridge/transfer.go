// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package bridge

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"storj/cli/internal/filecrypto"
	"storj/cli/internal/logging"
	"storj/cli/internal/status"

	"golang.org/x/sync/errgroup"
)

type frame struct {
	ID string `json:"id"`
}

type fileEntry struct {
	Frame    string `json:"frame"`
	Filename string `json:"filename"`
	Mimetype string `json:"mimetype"`
	Size     int64  `json:"size"`
}

// StoreFile encrypts the file with a key derived from the mnemonic, uploads it
// as fixed-size shards into a new frame, and registers the frame as a file.
func (h *HTTP) StoreFile(ctx context.Context, opts UploadOptions, progress ProgressFunc) (string, error) {
	if opts.Mnemonic == "" {
		return "", status.Wrap(status.FileEncryptionError, errors.New("mnemonic is required"))
	}
	if opts.FileConcurrency < 1 || opts.ShardConcurrency < 1 {
		return "", status.Wrap(status.BridgeRequestError, errors.New("concurrency must be at least 1"))
	}

	f, err := os.Open(opts.FilePath)
	if err != nil {
		return "", status.Wrap(status.FileReadError, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", status.Wrap(status.FileReadError, err)
	}
	if info.IsDir() {
		return "", status.Wrap(status.FileReadError, fmt.Errorf("%s is a directory", opts.FilePath))
	}
	size := info.Size()
	name := filepath.Base(opts.FilePath)

	stream, err := filecrypto.ForFile(opts.Mnemonic, opts.BucketID, name)
	if err != nil {
		return "", status.Wrap(status.FileEncryptionError, err)
	}

	var fr frame
	if err := h.doJSON(ctx, http.MethodPost, "/frames", map[string]string{}, true, &fr); err != nil {
		return "", err
	}
	if fr.ID == "" {
		return "", status.Wrap(status.BridgeFrameError, errors.New("bridge returned an empty frame id"))
	}

	counter := newProgressCounter(size, progress)
	shards := shardCount(size, h.shardSize)
	logging.Debugf("bridge: uploading %s (%d bytes) as %d shards to frame %s", name, size, shards, fr.ID)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.ShardConcurrency)
	for i := int64(0); i < shards; i++ {
		i := i
		g.Go(func() error {
			return h.putShard(gctx, f, stream, fr.ID, i, size, counter)
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	mimetype := mime.TypeByExtension(filepath.Ext(name))
	if mimetype == "" {
		mimetype = "application/octet-stream"
	}
	var created File
	entry := fileEntry{Frame: fr.ID, Filename: name, Mimetype: mimetype, Size: size}
	if err := h.doJSON(ctx, http.MethodPost, "/buckets/"+url.PathEscape(opts.BucketID)+"/files", entry, true, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", status.Wrap(status.BridgeJSONError, errors.New("bridge returned an empty file id"))
	}
	counter.finish()
	return created.ID, nil
}

func (h *HTTP) putShard(ctx context.Context, f io.ReaderAt, stream *filecrypto.Stream, frameID string, index, size int64, counter *progressCounter) error {
	off := index * h.shardSize
	n := h.shardSize
	if off+n > size {
		n = size - off
	}

	buf := make([]byte, n)
	if _, err := f.ReadAt(buf, off); err != nil && !errors.Is(err, io.EOF) {
		return status.Wrap(status.FileReadError, err)
	}
	stream.XORAt(buf, buf, off)
	sum := sha256.Sum256(buf)

	path := fmt.Sprintf("/frames/%s/shards/%d", url.PathEscape(frameID), index)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, h.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return status.Wrap(status.BridgeRequestError, err)
	}
	h.setStandardHeaders(req)
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("X-Shard-Hash", hex.EncodeToString(sum[:]))
	req.Header.Set("X-Shard-Offset", strconv.FormatInt(off, 10))
	req.SetBasicAuth(h.user, h.passHash)

	resp, err := h.client.Do(req)
	if err != nil {
		return status.Wrap(transportStatus(err), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		code := httpStatus(resp.StatusCode)
		if code == status.BridgeRequestError {
			code = status.BridgeFrameError
		}
		return status.Wrap(code, fmt.Errorf("shard %d: %s: %s", index, resp.Status, bytes.TrimSpace(b)))
	}

	counter.add(n)
	return nil
}

// ResolveFile looks up the file, streams its content into w and, when a mnemonic
// is given, decrypts it on the way.
func (h *HTTP) ResolveFile(ctx context.Context, opts ResolveOptions, w io.Writer, progress ProgressFunc) error {
	base := "/buckets/" + url.PathEscape(opts.BucketID) + "/files/" + url.PathEscape(opts.FileID)

	var info File
	if err := h.doJSON(ctx, http.MethodGet, base+"/info", nil, true, &info); err != nil {
		return err
	}

	resp, err := h.do(ctx, http.MethodGet, base, nil, "", true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var src io.Reader = resp.Body
	if opts.Mnemonic != "" {
		stream, err := filecrypto.ForFile(opts.Mnemonic, opts.BucketID, info.Filename)
		if err != nil {
			return status.Wrap(status.FileEncryptionError, err)
		}
		src = stream.Reader(src)
	}

	counter := newProgressCounter(info.Size, progress)
	written, err := copyWithProgress(w, src, counter)
	if err != nil {
		return err
	}
	if info.Size > 0 && written != info.Size {
		return status.Wrap(status.FileIntegrityError,
			fmt.Errorf("received %d bytes, expected %d", written, info.Size))
	}
	counter.finish()
	return nil
}

// copyWithProgress copies src into dst, separating read failures (bridge side)
// from write failures (local file side).
func copyWithProgress(dst io.Writer, src io.Reader, counter *progressCounter) (int64, error) {
	buf := make([]byte, 32*1024)
	var written int64
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			nw, writeErr := dst.Write(buf[:n])
			written += int64(nw)
			if writeErr != nil {
				return written, status.Wrap(status.FileWriteError, writeErr)
			}
			if nw != n {
				return written, status.Wrap(status.FileWriteError, io.ErrShortWrite)
			}
			counter.add(int64(n))
		}
		if errors.Is(readErr, io.EOF) {
			return written, nil
		}
		if readErr != nil {
			return written, status.Wrap(transportStatus(readErr), readErr)
		}
	}
}

func shardCount(size, shardSize int64) int64 {
	if size == 0 {
		return 0
	}
	return (size + shardSize - 1) / shardSize
}

// progressCounter turns byte counts into throttled fractional progress reports.
// It reports at most once per percent and is safe for concurrent use.
type progressCounter struct {
	total    int64
	done     atomic.Int64
	reported atomic.Int64 // last reported percent
	fn       ProgressFunc
}

func newProgressCounter(total int64, fn ProgressFunc) *progressCounter {
	c := &progressCounter{total: total, fn: fn}
	c.reported.Store(-1)
	return c
}

func (c *progressCounter) add(n int64) {
	if c.fn == nil || c.total <= 0 {
		return
	}
	done := c.done.Add(n)
	pct := done * 100 / c.total
	if pct > 100 {
		pct = 100
	}
	for {
		last := c.reported.Load()
		if pct <= last {
			return
		}
		if c.reported.CompareAndSwap(last, pct) {
			c.fn(float64(pct) / 100)
			return
		}
	}
}

// finish reports completion if it has not been reported yet.
func (c *progressCounter) finish() {
	if c.fn == nil {
		return
	}
	if c.reported.Swap(100) != 100 {
		c.fn(1)
	}
}
