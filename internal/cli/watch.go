package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"swarmview/internal/watchtui"
	"swarmview/internal/webserver"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a session from the terminal",
	Long: `Open the terminal dashboard against a running session server.
The viewer reconnects automatically every few seconds if the server goes
away, and starts over from the live stream on every reconnect.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("url", "", "WebSocket URL to connect to (default ws://127.0.0.1:<port>/ws)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("watch requires an interactive terminal")
	}
	url, _ := cmd.Flags().GetString("url")
	if url == "" {
		url = defaultWatchURL()
	}
	return watchtui.Run(url)
}

func defaultWatchURL() string {
	port := portFromEnv(os.Getenv(portEnv))
	if port <= 0 {
		port = webserver.DefaultPort
	}
	return fmt.Sprintf("ws://127.0.0.1:%d/ws", port)
}
