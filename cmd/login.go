// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"storj/cli/internal/bridge"
	"storj/cli/internal/config"
	"storj/cli/internal/credentials"
	clierrors "storj/cli/internal/errors"
	"storj/cli/internal/httperrors"
	"storj/cli/internal/keychain"
	"storj/cli/internal/logging"
	"storj/cli/internal/status"
	"storj/cli/internal/terminal"

	"github.com/spf13/cobra"
)

// saveCredentials persists verified credentials; tests replace it.
var saveCredentials = func(user, pass string) error {
	km, err := keychain.GetManager()
	if err != nil {
		return err
	}
	return km.SaveBridgeCredentials(user, pass)
}

// loginCmd verifies bridge credentials and stores them in the OS keychain so
// later commands do not prompt for them.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store bridge credentials in the OS keychain",
	Long: `The login command reads the bridge username and password from STORJ_BRIDGE_USER
and STORJ_BRIDGE_PASS, or asks for them, and checks them against the bridge by
listing buckets. Valid credentials are saved in the OS keychain. When --url is
given, the bridge URL is remembered in the config file as well.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		ep, cfg, err := resolveEndpoint(out)
		if err != nil {
			return err
		}

		resolver := &credentials.Resolver{Prompter: terminal.NewPrompter(os.Stdin, out)}
		creds, err := resolver.Resolve(false)
		if err != nil {
			return err
		}

		client := newBridge(bridge.Options{
			Endpoint:  ep,
			User:      creds.Username,
			Password:  creds.Password,
			UserAgent: "storj-cli/" + Version,
		})
		defer client.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		stop := func() {}
		if terminal.IsTerminal(os.Stdout) {
			stop = startInlineSpinner(out, "Verifying credentials", spinnerFrames, 120*time.Millisecond)
		}
		_, err = client.ListBuckets(ctx)
		stop()
		if err != nil {
			code := status.Of(err)
			msg := fmt.Sprintf("Login failure: %s", status.Text(code))
			fmt.Fprintln(out, msg)
			logging.Debugf("login: %v", err)
			if logging.Verbose() {
				httperrors.Present(cmd.ErrOrStderr(), err, httperrors.HostOf(ep.BaseURL()), "verifying credentials")
			}
			logging.PresentHints(cmd.ErrOrStderr(), code)
			return clierrors.Reported(code, msg)
		}

		if err := saveCredentials(creds.Username, creds.Password); err != nil {
			return clierrors.Wrap(clierrors.Config, "unable to store credentials in the OS keychain", err)
		}
		if bridgeURL != "" && cfg.BridgeURL != bridgeURL {
			if err := config.Update(func(c *config.Config) { c.BridgeURL = bridgeURL }); err != nil {
				logging.Warnf(cmd.ErrOrStderr(), "bridge URL not saved: %v", err)
			}
		}

		logging.Successf(out, "Logged in as %s", creds.Username)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
