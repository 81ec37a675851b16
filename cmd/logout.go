// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	clierrors "storj/cli/internal/errors"
	"storj/cli/internal/keychain"
	"storj/cli/internal/logging"

	"github.com/spf13/cobra"
)

// clearCredentials removes stored credentials; tests replace it.
var clearCredentials = func() error {
	km, err := keychain.GetManager()
	if err != nil {
		return err
	}
	return km.ClearBridgeCredentials()
}

// logoutCmd removes the bridge credentials saved by login.
// Credentials passed through the environment are not affected.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored bridge credentials",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := clearCredentials(); err != nil {
			return clierrors.Wrap(clierrors.Config, "unable to clear the OS keychain", err)
		}
		logging.Successf(cmd.OutOrStdout(), "Bridge credentials removed from the OS keychain")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
