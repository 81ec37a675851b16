// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package bridge defines the client used to talk to a Storj bridge and its
// HTTP implementation.
//
// Every method blocks until the bridge answers. Failures are tagged with a
// status code from internal/status so callers can surface them unchanged.
// Transfers report fractional progress through a ProgressFunc, which may be
// invoked from several goroutines and must not block.
package bridge

import (
	"context"
	"io"
	"net/http"
	"time"

	"storj/cli/internal/endpoint"
)

// Bucket is a container of files on the bridge.
type Bucket struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Created string `json:"created,omitempty"`
}

// File describes a stored file.
type File struct {
	ID       string `json:"id"`
	Bucket   string `json:"bucket,omitempty"`
	Filename string `json:"filename"`
	Mimetype string `json:"mimetype,omitempty"`
	Size     int64  `json:"size"`
}

// ProgressFunc receives completion fractions between 0 and 1.
type ProgressFunc func(fraction float64)

// UploadOptions configures StoreFile.
type UploadOptions struct {
	BucketID string
	FilePath string
	Mnemonic string
	// FileConcurrency is the number of files transferred at once.
	FileConcurrency int
	// ShardConcurrency is the number of shards of one file transferred at once.
	ShardConcurrency int
}

// ResolveOptions configures ResolveFile.
type ResolveOptions struct {
	BucketID string
	FileID   string
	// Mnemonic, when set, decrypts the downloaded content.
	Mnemonic string
}

// Client is the set of bridge operations the CLI depends on.
// Implementations may call a real bridge or act as test doubles.
type Client interface {
	// GetInfo returns the bridge's self description as decoded JSON.
	GetInfo(ctx context.Context) (map[string]any, error)
	ListBuckets(ctx context.Context) ([]Bucket, error)
	CreateBucket(ctx context.Context, name string) (*Bucket, error)
	ListFiles(ctx context.Context, bucketID string) ([]File, error)
	// StoreFile encrypts and uploads a local file, returning the new file id.
	StoreFile(ctx context.Context, opts UploadOptions, progress ProgressFunc) (string, error)
	// ResolveFile downloads a file into w.
	ResolveFile(ctx context.Context, opts ResolveOptions, w io.Writer, progress ProgressFunc) error
	// Close releases idle connections.
	Close() error
}

// Options configures the HTTP client.
type Options struct {
	Endpoint  endpoint.Endpoint
	User      string
	Password  string
	UserAgent string
	// ShardSize is the upload shard size in bytes; DefaultShardSize when zero.
	ShardSize int64
	// HTTPClient overrides the default client with a 30 second timeout per request.
	HTTPClient *http.Client
}

// DefaultShardSize is the size of each uploaded shard.
const DefaultShardSize int64 = 4 << 20

// New creates a bridge client speaking JSON over HTTP.
func New(opts Options) Client {
	return newHTTP(opts)
}

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}
