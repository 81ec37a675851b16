// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package operation turns one command into one bridge operation and runs it to
// a single terminal outcome on the environment's loop.
package operation

import (
	"fmt"
	"strings"

	clierrors "storj/cli/internal/errors"
)

// Request is one of GetInfo, ListBuckets, ListFiles, AddBucket, UploadFile or
// DownloadFile. The set is closed.
type Request interface {
	// Command returns the command token that produces the request.
	Command() string
	isRequest()
}

type GetInfo struct{}

type ListBuckets struct{}

type ListFiles struct {
	BucketID string
}

type AddBucket struct {
	Name string
}

type UploadFile struct {
	BucketID string
	FilePath string
}

type DownloadFile struct {
	BucketID   string
	FileID     string
	OutputPath string
}

func (GetInfo) Command() string      { return "get-info" }
func (ListBuckets) Command() string  { return "list-buckets" }
func (ListFiles) Command() string    { return "list-files" }
func (AddBucket) Command() string    { return "add-bucket" }
func (UploadFile) Command() string   { return "upload-file" }
func (DownloadFile) Command() string { return "download-file" }

func (GetInfo) isRequest()      {}
func (ListBuckets) isRequest()  {}
func (ListFiles) isRequest()    {}
func (AddBucket) isRequest()    {}
func (UploadFile) isRequest()   {}
func (DownloadFile) isRequest() {}

// Command describes a bridge command and its positional arguments.
type Command struct {
	Name  string
	Args  []string
	Short string
	build func(args []string) Request
}

// Usage returns the command with its argument placeholders.
func (c Command) Usage() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " <" + strings.Join(c.Args, "> <") + ">"
}

var commands = []Command{
	{
		Name:  "get-info",
		Short: "get bridge API information",
		build: func([]string) Request { return GetInfo{} },
	},
	{
		Name:  "list-buckets",
		Short: "list available buckets",
		build: func([]string) Request { return ListBuckets{} },
	},
	{
		Name:  "list-files",
		Args:  []string{"bucket-id"},
		Short: "list files in a bucket",
		build: func(a []string) Request { return ListFiles{BucketID: a[0]} },
	},
	{
		Name:  "add-bucket",
		Args:  []string{"name"},
		Short: "make a bucket",
		build: func(a []string) Request { return AddBucket{Name: a[0]} },
	},
	{
		Name:  "upload-file",
		Args:  []string{"bucket-id", "path"},
		Short: "upload a file to a bucket",
		build: func(a []string) Request { return UploadFile{BucketID: a[0], FilePath: a[1]} },
	},
	{
		Name:  "download-file",
		Args:  []string{"bucket-id", "file-id", "path"},
		Short: "download a file from a bucket",
		build: func(a []string) Request { return DownloadFile{BucketID: a[0], FileID: a[1], OutputPath: a[2]} },
	},
}

// Commands lists the bridge commands in help order.
func Commands() []Command {
	out := make([]Command, len(commands))
	copy(out, commands)
	return out
}

// Lookup returns the description of a command token.
func Lookup(command string) (Command, bool) {
	for _, c := range commands {
		if c.Name == command {
			return c, true
		}
	}
	return Command{}, false
}

// Parse builds the request for command. Unknown commands and a wrong number of
// positional arguments are usage errors.
func Parse(command string, args []string) (Request, error) {
	if command == "" {
		return nil, clierrors.New(clierrors.Usage, "missing command")
	}
	c, ok := Lookup(command)
	if !ok {
		return nil, clierrors.New(clierrors.Usage, fmt.Sprintf("unknown command %q", command))
	}
	if len(args) != len(c.Args) {
		return nil, clierrors.New(clierrors.Usage,
			fmt.Sprintf("usage: storj %s (expected %d argument(s), got %d)", c.Usage(), len(c.Args), len(args)))
	}
	for i, a := range args {
		if strings.TrimSpace(a) == "" {
			return nil, clierrors.New(clierrors.Usage, fmt.Sprintf("usage: storj %s (empty %s)", c.Usage(), c.Args[i]))
		}
	}
	return c.build(args), nil
}

// NeedsMnemonic reports whether req cannot start without STORJ_CLI_MNEMONIC.
func NeedsMnemonic(req Request) bool {
	_, ok := req.(UploadFile)
	return ok
}
