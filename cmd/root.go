// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the storj client.
// Each bridge command runs exactly one operation: the endpoint and credentials
// are resolved, an environment is created, and the operation's outcome becomes
// the process exit code.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	clierrors "storj/cli/internal/errors"
	"storj/cli/internal/logging"
	"storj/cli/internal/operation"

	"github.com/spf13/cobra"
)

var (
	bridgeURL   string
	verbose     bool
	showVersion bool
)

// errVersionShown stops a command once -V has printed the version.
var errVersionShown = errors.New("version shown")

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "storj",
	Short:         "Command-line client for the Storj bridge",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.ArbitraryArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			logging.SetVerbose(true)
		}
		if showVersion {
			fmt.Fprintf(cmd.OutOrStdout(), "storj %s\n", Version)
			return errVersionShown
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return clierrors.New(clierrors.Usage, fmt.Sprintf("unknown command %q", args[0]))
		}
		return clierrors.New(clierrors.Usage, "missing command")
	},
}

// Execute runs the CLI and exits with the code of the outcome.
func Execute() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func execute(args []string, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return report(rootCmd.Execute(), stdout, stderr)
}

// report prints err unless it was already shown and returns the exit code.
// Usage problems, including cobra's own flag errors, print the help text.
func report(err error, stdout, stderr io.Writer) int {
	if err == nil || errors.Is(err, errVersionShown) {
		return 0
	}

	e, ok := clierrors.As(err)
	switch {
	case !ok:
		fmt.Fprintln(stderr, logging.Mask(err.Error()))
		fmt.Fprint(stdout, helpText())
	case clierrors.Is(err, clierrors.Usage):
		fmt.Fprintln(stderr, e.Message)
		fmt.Fprint(stdout, helpText())
	case !e.Reported:
		logging.Errorf(stderr, "%s", logging.PresentError(e.Message, e.Err))
	}
	logging.Debugf("exit: %v", err)
	return clierrors.ExitCode(err)
}

// helpText renders the usage summary shown for -h and for usage errors.
func helpText() string {
	var b strings.Builder
	b.WriteString("usage: storj [<options>] <command> [<args>]\n\n")
	b.WriteString("These are common Storj commands for various situations:\n\n")
	for _, c := range operation.Commands() {
		fmt.Fprintf(&b, "  %-44s%s\n", c.Usage(), c.Short)
	}
	fmt.Fprintf(&b, "  %-44s%s\n", "login", "store bridge credentials in the OS keychain")
	fmt.Fprintf(&b, "  %-44s%s\n", "logout", "remove stored bridge credentials")
	b.WriteString("\noptions:\n")
	b.WriteString("  -h, --help                                  output usage information\n")
	b.WriteString("  -V, --version                               output the version number\n")
	b.WriteString("  -u, --url <url>                             set the base url for the api\n")
	b.WriteString("      --verbose                               print debug output\n")
	b.WriteString("\nenvironment:\n")
	b.WriteString("  STORJ_BRIDGE         bridge base url\n")
	b.WriteString("  STORJ_BRIDGE_USER    bridge username (email)\n")
	b.WriteString("  STORJ_BRIDGE_PASS    bridge password\n")
	b.WriteString("  STORJ_CLI_MNEMONIC   encryption mnemonic, required for upload-file\n")
	b.WriteString("  STORJ_VERBOSE        set to 1 to print debug output\n")
	return b.String()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&bridgeURL, "url", "u", "", "set the base url for the api")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "print debug output")
	rootCmd.PersistentFlags().BoolVarP(&showVersion, "version", "V", false, "output the version number")
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		fmt.Fprint(cmd.OutOrStdout(), helpText())
	})
}
