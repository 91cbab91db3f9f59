// Package cli wires the swarmview commands.
package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"swarmview/internal/buildinfo"
	"swarmview/internal/debug"
)

const (
	// ANSI color codes
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorDim   = "\033[2m"
	colorRed   = "\033[31m"

	styleBoldCyan  = "\033[1;36m"
	styleBoldWhite = "\033[1;37m"
)

var rootCmd = &cobra.Command{
	Use:   "swarmview",
	Short: "Live dashboard for agent swarm sessions",
	Long: colorBold + `
  _____      ____ _ _ __ _ __ _____   ___(_) _____      __
 / __\ \ /\ / / _` + "`" + ` | '__| '_ ` + "`" + ` _ \ \ / / | |/ _ \ \ /\ / /
 \__ \\ V  V / (_| | |  | | | | | \ V /| | |  __/\ V  V /
 |___/ \_/\_/ \__,_|_|  |_| |_| |_|\_/ |_|_|\___| \_/\_/` + colorReset + `

  ` + styleBoldCyan + `Live dashboard for agent swarm sessions` + colorReset + ` v` + buildinfo.Current().Version + `

  swarmview streams agent lifecycle events (spawns, actions, completions)
  over WebSocket to any number of browser or terminal viewers.

  Run ` + styleBoldWhite + `swarmview serve` + colorReset + ` to start a session server, then open the printed URL
  or run ` + styleBoldWhite + `swarmview watch` + colorReset + ` in another terminal.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		// With no subcommand, a terminal gets the watch view against the
		// local default server; anything else gets help.
		if isatty.IsTerminal(os.Stdout.Fd()) {
			return runWatch(cmd, args)
		}
		return cmd.Help()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.PersistentFlags().Bool("debug", false, "Enable verbose debug logging to ~/.swarmview/debug/")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		debugFlag, _ := cmd.Flags().GetBool("debug")
		if !debugFlag && !debug.ShouldEnableFromEnv() {
			return nil
		}
		logPath, err := debug.Init()
		if err != nil {
			return fmt.Errorf("initializing debug logger: %w", err)
		}
		fmt.Fprintf(os.Stderr, "%s[debug]%s logging to %s\n", colorDim, colorReset, logPath)
		bi := buildinfo.Current()
		debug.LogKV("cli", "swarmview starting",
			"version", bi.Version,
			"commit", bi.CommitHash,
			"build_date", bi.BuildDate,
			"pid", os.Getpid(),
			"command", cmd.Name(),
			"args", args,
		)
		return nil
	}
}

// Execute runs the root command.
func Execute() {
	defer debug.Close()
	if err := rootCmd.Execute(); err != nil {
		debug.Logf("cli", "exit with error: %v", err)
		fmt.Fprintf(os.Stderr, "%sError: %s%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
	debug.Log("cli", "exit success")
}
