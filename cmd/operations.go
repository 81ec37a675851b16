// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"io"
	"os"

	"storj/cli/internal/bridge"
	"storj/cli/internal/config"
	"storj/cli/internal/credentials"
	"storj/cli/internal/endpoint"
	"storj/cli/internal/environment"
	clierrors "storj/cli/internal/errors"
	"storj/cli/internal/keychain"
	"storj/cli/internal/logging"
	"storj/cli/internal/operation"
	"storj/cli/internal/progress"
	"storj/cli/internal/terminal"

	"github.com/spf13/cobra"
)

// newBridge builds bridge clients; tests swap it for a fake.
var newBridge = bridge.New

// newOperationCommand wires one bridge command. Argument counts are checked by
// operation.Parse so every arity problem is reported the same way.
func newOperationCommand(c operation.Command) *cobra.Command {
	return &cobra.Command{
		Use:   c.Usage(),
		Short: c.Short,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, c.Name, args)
		},
	}
}

func runOperation(cmd *cobra.Command, name string, args []string) error {
	req, err := operation.Parse(name, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ep, _, err := resolveEndpoint(out)
	if err != nil {
		return err
	}

	resolver := &credentials.Resolver{
		Store:    keychainStore{},
		Prompter: terminal.NewPrompter(os.Stdin, out),
	}
	creds, err := resolver.Resolve(operation.NeedsMnemonic(req))
	if err != nil {
		return err
	}

	env, err := environment.Init(environment.Options{
		Endpoint:    ep,
		Credentials: creds,
		UserAgent:   "storj-cli/" + Version,
		NewClient:   newBridge,
	})
	if err != nil {
		return err
	}
	defer env.Destroy()

	return operation.Run(cmd.Context(), env, req, operationOptions(out, cmd.ErrOrStderr()))
}

// resolveEndpoint picks the bridge URL by precedence (flag, environment, config
// file, default), parses it and announces it on out.
func resolveEndpoint(out io.Writer) (endpoint.Endpoint, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return endpoint.Endpoint{}, cfg, clierrors.Wrap(clierrors.Config, "unable to read config file", err)
	}
	if cfg.Verbose {
		logging.SetVerbose(true)
	}

	raw := endpoint.Select(bridgeURL, os.Getenv(endpoint.EnvBridge), cfg.BridgeURL)
	ep, err := endpoint.Parse(raw)
	if err != nil {
		return ep, cfg, clierrors.Wrap(clierrors.Config, "unable to use bridge URL", err)
	}
	fmt.Fprintf(out, "Using Storj bridge: %s\n\n", logging.Mask(raw))
	return ep, cfg, nil
}

func operationOptions(out, errOut io.Writer) operation.Options {
	opts := operation.Options{Out: out, Err: errOut}
	if terminal.IsTerminal(os.Stdout) {
		opts.Progress = func(title string) operation.ProgressReporter {
			return progress.Start(out, title, true)
		}
	}
	return opts
}

// keychainStore opens the OS keychain only when the resolver actually needs it.
type keychainStore struct{}

func (keychainStore) LoadBridgeCredentials() (string, string, error) {
	km, err := keychain.GetManager()
	if err != nil {
		return "", "", err
	}
	return km.LoadBridgeCredentials()
}

func init() {
	for _, c := range operation.Commands() {
		rootCmd.AddCommand(newOperationCommand(c))
	}
}
