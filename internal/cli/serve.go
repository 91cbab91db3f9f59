package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hashicorp/mdns"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"swarmview/internal/broadcast"
	"swarmview/internal/emitter"
	"swarmview/internal/registry"
	"swarmview/internal/scenario"
	"swarmview/internal/webserver"
)

const (
	portEnv         = "SWARMVIEW_PORT"
	mdnsServiceType = "_swarmview._tcp"
	mdnsServiceName = "swarmview"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a session server emitting a synthetic agent swarm",
	Long: `Start the HTTP/WebSocket server and drive it with scripted
collaboration scenarios. Every connected viewer receives the same live
event stream; viewers that join late start from the current moment.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (default $SWARMVIEW_PORT, then 4004)")
	serveCmd.Flags().String("host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().Bool("mdns", false, "Advertise server on local network via mDNS/Bonjour")
	serveCmd.Flags().Bool("qr", false, "Print a QR code for the dashboard URL")
	serveCmd.Flags().Float64("pace", 1.0, "Scenario pace multiplier (1 = real time, 0 = no delays)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	port, _ := cmd.Flags().GetInt("port")
	host, _ := cmd.Flags().GetString("host")
	enableMDNS, _ := cmd.Flags().GetBool("mdns")
	printQR, _ := cmd.Flags().GetBool("qr")
	pace, _ := cmd.Flags().GetFloat64("pace")

	if !cmd.Flags().Changed("port") {
		port = portFromEnv(os.Getenv(portEnv))
	}
	if port <= 0 {
		port = webserver.DefaultPort
	}

	reg := registry.New()
	bcast := broadcast.New()
	em := emitter.New(reg, bcast)
	srv := webserver.New(em, reg, bcast, webserver.Options{Host: host, Port: port})

	if err := srv.Start(); err != nil {
		var opErr *net.OpError
		if errors.As(err, &opErr) {
			fmt.Fprintf(os.Stderr, "Port %d is already in use.\n", port)
			fmt.Fprintf(os.Stderr, "Try: swarmview serve --port %d\n", port+1)
		}
		return fmt.Errorf("starting web server: %w", err)
	}

	url := srv.URL()
	// Clickable URL via OSC 8 hyperlink escapes for terminals that support it.
	fmt.Printf("\033]8;;%s\033\\%s\033]8;;\033\\\n", url, url)
	fmt.Printf("WebSocket: %s\n", srv.WebSocketURL())
	if printQR {
		if err := printDashboardQRCode(url); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to render QR code: %v\n", err)
		}
	}

	if enableMDNS {
		server, err := startMDNSService(mdnsServiceName, port, url)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to start mDNS advertisement: %v\n", err)
		} else {
			defer server.Shutdown()
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver := scenario.NewDriver(em)
	driver.Pace = pace
	go func() { _ = driver.Run(ctx) }()

	em.System("Swarm session started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down web server: %w", err)
	}
	return nil
}

// portFromEnv parses a port override; empty or malformed values yield 0 so
// the caller falls back to the default.
func portFromEnv(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port <= 0 || port > 65535 {
		return 0
	}
	return port
}

func startMDNSService(name string, port int, url string) (*mdns.Server, error) {
	if port <= 0 {
		return nil, fmt.Errorf("invalid port for mDNS advertisement: %d", port)
	}
	txtRecords := []string{
		fmt.Sprintf("service=%s", name),
		fmt.Sprintf("url=%s", url),
	}
	service, err := mdns.NewMDNSService(name, mdnsServiceType, "local", "", port, nil, txtRecords)
	if err != nil {
		return nil, err
	}
	return mdns.NewServer(&mdns.Config{
		Zone: service,
	})
}

func printDashboardQRCode(url string) error {
	code, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return err
	}
	fmt.Println(code.ToString(false))
	return nil
}
