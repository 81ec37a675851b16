// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package operation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"storj/cli/internal/bridge"
	"storj/cli/internal/credentials"
	"storj/cli/internal/environment"
	clierrors "storj/cli/internal/errors"
	"storj/cli/internal/httperrors"
	"storj/cli/internal/logging"
	"storj/cli/internal/status"

	"github.com/pterm/pterm"
)

// Transfer parameters handed to the bridge client for every upload.
const (
	FileConcurrency  = 1
	ShardConcurrency = 3
)

// ProgressReporter displays transfer progress.
type ProgressReporter interface {
	Update(fraction float64)
	Stop()
}

// Options configures an Orchestrator.
type Options struct {
	// Out receives results and failure messages; os.Stdout when nil.
	Out io.Writer
	// Err receives troubleshooting details; os.Stderr when nil.
	Err io.Writer
	// Progress starts a display for uploads and downloads. No progress is shown when nil.
	Progress func(title string) ProgressReporter
	// Create opens a download destination; CreateFile when nil.
	Create func(path string) (io.WriteCloser, error)
}

// CreateFile opens path for writing, truncating an existing file.
func CreateFile(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
}

type label struct {
	failure string
	doing   string
}

var labels = map[string]label{
	"get-info":      {"Get info failure", "getting bridge info"},
	"list-buckets":  {"List buckets failure", "listing buckets"},
	"list-files":    {"List files failure", "listing files"},
	"add-bucket":    {"Add bucket failure", "creating a bucket"},
	"upload-file":   {"Upload failure", "uploading a file"},
	"download-file": {"Download failure", "downloading a file"},
}

// Orchestrator issues one request on the environment's bridge client and turns
// its completion into exactly one Outcome.
//
// Start must be called from the goroutine that later runs the loop. All other
// methods run on that goroutine too, inside loop callbacks.
type Orchestrator struct {
	env  *environment.Env
	req  Request
	opts Options

	state      State
	history    []State
	completion Completion

	reporter ProgressReporter
	sink     io.WriteCloser
}

// New returns an idle orchestrator for req.
func New(env *environment.Env, req Request, opts Options) *Orchestrator {
	return &Orchestrator{
		env:     env,
		req:     req,
		opts:    opts,
		state:   Idle,
		history: []State{Idle},
	}
}

// State returns the current state.
func (o *Orchestrator) State() State { return o.state }

// History returns every state the orchestrator has been in, oldest first.
func (o *Orchestrator) History() []State {
	out := make([]State, len(o.history))
	copy(out, o.history)
	return out
}

// Outcome returns the terminal outcome once the completion callback has run.
func (o *Orchestrator) Outcome() (Outcome, bool) { return o.completion.Outcome() }

func (o *Orchestrator) transition(s State) {
	logging.Debugf("operation: %s %s -> %s", o.req.Command(), o.state, s)
	o.state = s
	o.history = append(o.history, s)
}

// Start validates preconditions, acquires the operation's resources and queues
// the bridge call. On error nothing is queued and no resource stays open.
func (o *Orchestrator) Start() error {
	if o.state != Idle {
		return fmt.Errorf("operation: %s already %s", o.req.Command(), o.state)
	}
	if NeedsMnemonic(o.req) && o.env.Credentials.Mnemonic == "" {
		return clierrors.New(clierrors.Config, "Set your "+credentials.EnvMnemonic)
	}
	o.transition(Requested)

	work, done, err := o.prepare()
	if err != nil {
		o.transition(Failed)
		return err
	}
	if err := o.env.Loop.Queue(work, done); err != nil {
		o.closeSink()
		o.stopProgress()
		o.transition(Failed)
		return clierrors.Wrap(clierrors.Shutdown, "unable to queue "+o.req.Command(), err)
	}
	o.transition(Running)
	return nil
}

// prepare builds the work function and its completion callback for the request.
func (o *Orchestrator) prepare() (func(context.Context) error, func(error), error) {
	client := o.env.Bridge

	switch r := o.req.(type) {
	case GetInfo:
		var info map[string]any
		work := func(ctx context.Context) error {
			var err error
			info, err = client.GetInfo(ctx)
			return err
		}
		return work, o.completer(func() error { return o.printInfo(info) }), nil

	case ListBuckets:
		var buckets []bridge.Bucket
		work := func(ctx context.Context) error {
			var err error
			buckets, err = client.ListBuckets(ctx)
			return err
		}
		return work, o.completer(func() error {
			if len(buckets) == 0 {
				fmt.Fprintln(o.out(), "No buckets.")
			}
			for _, b := range buckets {
				fmt.Fprintf(o.out(), "ID: %s\tName: %s\n", b.ID, b.Name)
			}
			return nil
		}), nil

	case ListFiles:
		var files []bridge.File
		work := func(ctx context.Context) error {
			var err error
			files, err = client.ListFiles(ctx, r.BucketID)
			return err
		}
		return work, o.completer(func() error {
			if len(files) == 0 {
				fmt.Fprintln(o.out(), "No files for bucket.")
			}
			for _, f := range files {
				fmt.Fprintf(o.out(), "ID: %s\tSize: %d bytes\tName: %s\n", f.ID, f.Size, f.Filename)
			}
			return nil
		}), nil

	case AddBucket:
		var created *bridge.Bucket
		work := func(ctx context.Context) error {
			var err error
			created, err = client.CreateBucket(ctx, r.Name)
			return err
		}
		return work, o.completer(func() error {
			if created == nil {
				return status.Wrap(status.BridgeJSONError, errors.New("bridge returned no bucket"))
			}
			fmt.Fprintf(o.out(), "ID: %s\tName: %s\n", created.ID, created.Name)
			return nil
		}), nil

	case UploadFile:
		var fileID string
		opts := bridge.UploadOptions{
			BucketID:         r.BucketID,
			FilePath:         r.FilePath,
			Mnemonic:         o.env.Credentials.Mnemonic,
			FileConcurrency:  FileConcurrency,
			ShardConcurrency: ShardConcurrency,
		}
		o.startProgress("Uploading")
		work := func(ctx context.Context) error {
			var err error
			fileID, err = client.StoreFile(ctx, opts, o.postProgress)
			return err
		}
		return work, o.completer(func() error {
			fmt.Fprintln(o.out(), "Upload Success!")
			logging.Debugf("upload-file: stored as %s", fileID)
			return nil
		}), nil

	case DownloadFile:
		create := o.opts.Create
		if create == nil {
			create = CreateFile
		}
		f, err := create(r.OutputPath)
		if err != nil {
			var pathErr *fs.PathError
			if errors.As(err, &pathErr) {
				err = pathErr.Err
			}
			return nil, nil, clierrors.Wrap(clierrors.Filesystem, "Unable to open "+r.OutputPath, err)
		}
		o.sink = f
		opts := bridge.ResolveOptions{
			BucketID: r.BucketID,
			FileID:   r.FileID,
			Mnemonic: o.env.Credentials.Mnemonic,
		}
		o.startProgress("Downloading")
		work := func(ctx context.Context) error {
			return client.ResolveFile(ctx, opts, f, o.postProgress)
		}
		return work, o.completer(func() error {
			fmt.Fprintln(o.out(), "Download Success!")
			return nil
		}), nil
	}
	return nil, nil, clierrors.New(clierrors.Usage, fmt.Sprintf("unsupported command %q", o.req.Command()))
}

// completer returns the loop callback that settles the operation. The output
// file, if any, is closed before the status is mapped; present runs only when
// the bridge call succeeded and may itself fail the operation.
func (o *Orchestrator) completer(present func() error) func(error) {
	return func(err error) {
		if _, done := o.completion.Outcome(); done {
			return
		}

		if closeErr := o.closeSink(); closeErr != nil && err == nil {
			err = status.Wrap(status.FileWriteError, closeErr)
		}
		o.stopProgress()

		detail := ""
		if err == nil {
			if err = present(); err != nil {
				var se *status.Error
				if errors.As(err, &se) && se.Err != nil {
					detail = se.Err.Error()
				}
			}
		}

		if err == nil {
			o.completion.Complete(Outcome{Status: status.OK})
			o.transition(Completed)
			return
		}

		code := status.Of(err)
		if code == status.OK {
			code = status.BridgeRequestError
		}
		l := labels[o.req.Command()]
		msg := fmt.Sprintf("%s: %s", l.failure, status.Text(code))
		if detail != "" {
			msg += " (" + detail + ")"
		}
		o.completion.Complete(Outcome{Status: code, Message: msg})
		o.transition(Failed)

		fmt.Fprintln(o.out(), msg)
		logging.Debugf("%s: %v", o.req.Command(), err)
		if logging.Verbose() {
			httperrors.Present(o.errOut(), err, httperrors.HostOf(o.env.Endpoint.BaseURL()), l.doing)
		}
		logging.PresentHints(o.errOut(), code)
	}
}

// postProgress is handed to the bridge client and may run on any goroutine.
// The update itself is applied on the loop.
func (o *Orchestrator) postProgress(fraction float64) {
	o.env.Loop.Post(func() {
		if o.state != Running || o.reporter == nil {
			return
		}
		o.reporter.Update(fraction)
	})
}

func (o *Orchestrator) startProgress(title string) {
	if o.opts.Progress != nil {
		o.reporter = o.opts.Progress(title)
	}
}

func (o *Orchestrator) stopProgress() {
	if o.reporter != nil {
		o.reporter.Stop()
		o.reporter = nil
	}
}

// closeSink closes the download destination once.
func (o *Orchestrator) closeSink() error {
	if o.sink == nil {
		return nil
	}
	err := o.sink.Close()
	o.sink = nil
	return err
}

func (o *Orchestrator) out() io.Writer {
	if o.opts.Out != nil {
		return o.opts.Out
	}
	return os.Stdout
}

func (o *Orchestrator) errOut() io.Writer {
	if o.opts.Err != nil {
		return o.opts.Err
	}
	return os.Stderr
}

// printInfo writes the four get-info lines to Out. Values are printed as JSON.
// Verbose runs also frame the same lines in a box on Err.
func (o *Orchestrator) printInfo(info map[string]any) error {
	body, err := formatInfo(info)
	if err != nil {
		return err
	}
	fmt.Fprint(o.out(), body)
	if logging.Verbose() {
		box := pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Storj Bridge")).
			WithTopPadding(1).WithBottomPadding(1).WithLeftPadding(1).WithRightPadding(1).
			Sprint(strings.TrimSuffix(body, "\n"))
		fmt.Fprintln(o.errOut(), box)
	}
	return nil
}

func formatInfo(info map[string]any) (string, error) {
	if info == nil {
		return "", status.Wrap(status.BridgeJSONError, errors.New("empty response"))
	}
	details, _ := info["info"].(map[string]any)

	var missing []string
	field := func(m map[string]any, key, name string) any {
		v, ok := m[key]
		if !ok || v == nil {
			missing = append(missing, name)
		}
		return v
	}
	lines := []struct {
		label string
		value any
	}{
		{"Title:", field(details, "title", "info.title")},
		{"Description:", field(details, "description", "info.description")},
		{"Version:", field(details, "version", "info.version")},
		{"Host:", field(info, "host", "host")},
	}
	if len(missing) > 0 {
		return "", status.Wrap(status.BridgeJSONError, fmt.Errorf("missing %s", strings.Join(missing, ", ")))
	}

	var b strings.Builder
	for _, l := range lines {
		v, err := json.Marshal(l.value)
		if err != nil {
			return "", status.Wrap(status.BridgeJSONError, err)
		}
		fmt.Fprintf(&b, "%-13s%s\n", l.label, v)
	}
	return b.String(), nil
}
