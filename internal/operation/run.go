// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package operation

import (
	"context"

	"storj/cli/internal/environment"
	clierrors "storj/cli/internal/errors"
	"storj/cli/internal/logging"
)

// Run executes req on env until its single outcome is known, then releases env.
// env is destroyed on every path, including a failed Start.
//
// The returned error is nil on success. A failed operation yields an Operation
// error carrying its status code, whose message has already been printed.
func Run(ctx context.Context, env *environment.Env, req Request, opts Options) error {
	o := New(env, req, opts)

	startErr := o.Start()
	var runErr error
	if startErr == nil {
		runErr = env.Loop.Run(ctx)
	}
	destroyErr := env.Destroy()

	if startErr != nil {
		return startErr
	}
	if runErr != nil {
		return clierrors.Wrap(clierrors.Shutdown, req.Command()+" did not finish", runErr)
	}

	outcome, ok := o.Outcome()
	if !ok {
		return clierrors.New(clierrors.Shutdown, req.Command()+" finished without a result")
	}
	if !outcome.OK() {
		if destroyErr != nil {
			logging.Debugf("operation: %v", destroyErr)
		}
		return clierrors.Reported(outcome.Status, outcome.Message)
	}
	return destroyErr
}
