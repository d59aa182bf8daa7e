// Package main provides the entry point for the AI Wrapper application.
// AI Wrapper is a desktop shell that keeps several AI web services open
// side by side, each in its own isolated browser session, grouped into
// modes and switched with tabs.
//
// Features:
//   - One sandboxed session per service, created once at startup
//   - Mode and tab switching from the window, the tray or the terminal
//   - Request filtering of ad and tracking hosts in every session
//   - A local AI panel backed by Ollama
//   - Desktop integration (menu entry and launcher script)
//
// Usage:
//
//	ai-wrapper [options]
//
// Environment:
//
//	Sessions run in Chrome or Chromium; when none is installed the
//	launcher downloads a browser on first start.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yllada/ai-wrapper/catalog"
	"github.com/yllada/ai-wrapper/cli"
	"github.com/yllada/ai-wrapper/common"
	"github.com/yllada/ai-wrapper/config"
	"github.com/yllada/ai-wrapper/keyring"
	"github.com/yllada/ai-wrapper/ollama"
	"github.com/yllada/ai-wrapper/shell"
	"github.com/yllada/ai-wrapper/tui"
	"github.com/yllada/ai-wrapper/ui"
	"github.com/yllada/ai-wrapper/views"
)

// Build-time variables injected via ldflags (-X main.appVersion=x.y.z)
// Default values are used for local development builds
var (
	appVersion = "dev"
	buildTime  = "unknown"
	commitSHA  = "unknown"
)

var (
	// GUI/General flags
	showVersion = flag.Bool("version", false, "Show version and exit")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	showHelp    = flag.Bool("help", false, "Show help message")
	terminalUI  = flag.Bool("tui", false, "Run the terminal front end")

	// CLI flags
	listServices      = flag.Bool("list", false, "List modes and services")
	integrateDesktop  = flag.Bool("integrate-desktop", false, "Add AI Wrapper to the applications menu")
	integrateLauncher = flag.Bool("integrate-launcher", false, "Create the launcher script")
	setToken          = flag.Bool("set-token", false, "Store the Ollama endpoint token")
	chatMessage       = flag.String("chat", "", "Send a message to the local model")
	chatModel         = flag.String("model", "", "Model for --chat")
)

func main() {
	flag.Parse()

	if *showHelp {
		cli.PrintHelp()
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("%s v%s\n", common.AppName, appVersion)
		if buildTime != "unknown" {
			fmt.Printf("  Build:  %s\n", buildTime)
			fmt.Printf("  Commit: %s\n", commitSHA)
		}
		os.Exit(0)
	}

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		cfg = config.DefaultConfig()
	}

	logLevel := common.ParseLogLevel(cfg.LogLevel)
	if *verbose {
		logLevel = common.LevelDebug
	}

	if err := common.InitLogger(common.LogConfig{
		Level:      logLevel,
		EnableFile: true,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not initialize file logging: %v\n", err)
	}
	defer common.CloseLogger()

	if cfgErr != nil {
		common.LogWarn("Using default configuration: %v", cfgErr)
	}

	cat, err := shell.LoadCatalog(cfg)
	if err != nil {
		common.LogError("Invalid catalog: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *listServices || *integrateDesktop || *integrateLauncher || *setToken || *chatMessage != "" {
		setupSignalHandler(cancel)
		os.Exit(runCLI(ctx, cfg, cat))
	}

	if *terminalUI {
		setupSignalHandler(cancel)
		os.Exit(runTUI(ctx, cfg, cat))
	}

	common.LogInfo("Starting %s v%s", common.AppName, appVersion)
	app := ui.NewApplication(cfg, cat, appVersion)
	setupSignalHandler(func() {
		cancel()
		app.RequestQuit()
	})

	// GTK parses its own arguments; ours are already consumed.
	exitCode := app.Run([]string{os.Args[0]})
	if exitCode != 0 {
		common.LogWarn("Application exited with code %d", exitCode)
	}
	os.Exit(exitCode)
}

// runCLI handles the one-shot command-line operations.
func runCLI(ctx context.Context, cfg *config.Config, cat *catalog.Catalog) int {
	cliApp := cli.New(cfg, cat)

	var cliErr error
	switch {
	case *listServices:
		cliErr = cliApp.ListServices()
	case *integrateDesktop:
		cliErr = cliApp.IntegrateDesktop()
	case *integrateLauncher:
		cliErr = cliApp.IntegrateLauncher()
	case *setToken:
		cliErr = cliApp.SetToken()
	case *chatMessage != "":
		cliErr = cliApp.Chat(ctx, *chatMessage, *chatModel)
	}

	if cliErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", cliErr)
		return 1
	}
	return 0
}

// runTUI drives the sessions from the terminal. There is no native window,
// so sessions are placed at the configured window size.
func runTUI(ctx context.Context, cfg *config.Config, cat *catalog.Catalog) int {
	fmt.Fprintln(os.Stderr, "Starting sessions...")
	sessions, err := shell.StartSessions(ctx, cfg, cat)
	if err != nil {
		common.LogError("Session startup failed: %v", err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", common.BinaryName, err)
		return 1
	}
	defer sessions.Close()

	var broker *ollama.Broker
	var creds common.CredentialStore
	if store, err := keyring.Open(""); err == nil {
		creds = store
	}
	if historyPath, err := shell.HistoryPath(); err == nil {
		chat, err := shell.OpenChat(ctx, cfg, creds, historyPath)
		if err != nil {
			common.LogWarn("Chat disabled: %v", err)
		} else {
			defer chat.Close()
			broker = chat.Broker
		}
	}

	tabs := tui.NewTabs()
	host := views.FixedHost{Width: cfg.Window.Width, Height: cfg.Window.Height}
	ctrl := views.NewController(cat, sessions.Pool, host, tabs, cfg.Window.ChromeHeight)

	if err := tui.Run(tui.New(ctrl, tabs, broker, cfg.Ollama.Model)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// setupSignalHandler runs onSignal on SIGINT/SIGTERM.
func setupSignalHandler(onSignal func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		common.LogInfo("Received signal %v, initiating graceful shutdown...", sig)
		onSignal()
	}()
}
