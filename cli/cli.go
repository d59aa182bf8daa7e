// Package cli provides command-line interface functionality for AI Wrapper.
// It lists the catalog, installs the desktop integration, stores the local
// model token and sends one-off prompts without launching the GUI.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/yllada/ai-wrapper/catalog"
	"github.com/yllada/ai-wrapper/common"
	"github.com/yllada/ai-wrapper/config"
	"github.com/yllada/ai-wrapper/integration"
	"github.com/yllada/ai-wrapper/keyring"
	"github.com/yllada/ai-wrapper/ollama"
	"github.com/yllada/ai-wrapper/shell"
)

// CLI represents the command-line interface.
type CLI struct {
	config  *config.Config
	catalog *catalog.Catalog
	out     io.Writer

	// Overridable for tests.
	credsPath      string
	historyPath    string
	newIntegrator  func() (*integration.Integrator, error)
	readSecret     func(prompt string) (string, error)
	checkInstalled func(*ollama.Client) bool
}

// New creates a CLI for cfg and cat writing to stdout.
func New(cfg *config.Config, cat *catalog.Catalog) *CLI {
	return &CLI{
		config:        cfg,
		catalog:       cat,
		out:           os.Stdout,
		newIntegrator: integration.New,
		readSecret:    readTerminalSecret,
		checkInstalled: func(c *ollama.Client) bool {
			return c.CheckStatus().Installed
		},
	}
}

// ListServices prints every mode and its services.
func (c *CLI) ListServices() error {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODE\tID\tNAME\tURL")
	fmt.Fprintln(w, "----\t--\t----\t---")

	for _, mode := range c.catalog.Modes() {
		for _, svc := range mode.Services {
			fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\n",
				mode.Name, svc.ID, catalog.Icon(svc.ID), catalog.Label(svc.ID), svc.URL)
		}
	}

	return w.Flush()
}

// IntegrateDesktop writes the applications-menu entry.
func (c *CLI) IntegrateDesktop() error {
	i, err := c.newIntegrator()
	if err != nil {
		return err
	}
	path, err := i.DesktopEntry()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "✓ Desktop entry written to %s\n", path)
	return nil
}

// IntegrateLauncher writes the background launcher script.
func (c *CLI) IntegrateLauncher() error {
	i, err := c.newIntegrator()
	if err != nil {
		return err
	}
	path, err := i.LauncherScript()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "✓ Launcher script written to %s\n", path)
	return nil
}

// SetToken prompts for the endpoint token and stores it. An empty answer
// removes the stored token.
func (c *CLI) SetToken() error {
	store, err := keyring.Open(c.credsPath)
	if err != nil {
		return err
	}

	token, err := c.readSecret("Token for " + c.config.Ollama.Endpoint + ": ")
	if err != nil {
		return err
	}
	token = strings.TrimSpace(token)

	if token == "" {
		if err := store.Delete(keyring.OllamaTokenKey); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "✓ Token removed")
		return nil
	}

	if err := store.Store(keyring.OllamaTokenKey, token); err != nil {
		return err
	}
	where := "system keyring"
	if store.UsesFile() {
		where = "encrypted credentials file"
	}
	fmt.Fprintf(c.out, "✓ Token saved to the %s\n", where)
	return nil
}

// Chat sends message to model (the configured default when empty) and
// prints the answer. Both sides are recorded in the chat history.
func (c *CLI) Chat(ctx context.Context, message, model string) error {
	var creds common.CredentialStore
	if store, err := keyring.Open(c.credsPath); err == nil {
		creds = store
	} else {
		common.LogWarn("Credential store unavailable: %v", err)
	}

	historyPath := c.historyPath
	if historyPath == "" {
		path, err := shell.HistoryPath()
		if err != nil {
			return err
		}
		historyPath = path
	}

	chat, err := shell.OpenChat(ctx, c.config, creds, historyPath)
	if err != nil {
		return err
	}
	defer chat.Close()

	if isLocalEndpoint(c.config.Ollama.Endpoint) && !c.checkInstalled(chat.Client) {
		return fmt.Errorf("%w: run the GUI's local AI panel or https://ollama.com to install it", common.ErrOllamaNotInstalled)
	}

	id, err := chat.Broker.Submit(ollama.ChatRequest{Model: model, Message: message})
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case reply, ok := <-chat.Broker.Replies():
			if !ok {
				return common.ErrBrokerClosed
			}
			if reply.ID != id {
				continue
			}
			if reply.Failed() {
				return errors.New(reply.Error)
			}
			fmt.Fprintln(c.out, reply.Response)
			return nil
		}
	}
}

// isLocalEndpoint reports whether endpoint points at this machine.
func isLocalEndpoint(endpoint string) bool {
	u, err := url.Parse(endpoint)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// readTerminalSecret reads a line without echo when stdin is a terminal.
func readTerminalSecret(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return line, nil
	}

	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", common.WrapError(err, "failed to read token")
	}
	return string(secret), nil
}

// PrintHelp prints CLI usage help.
func PrintHelp() {
	fmt.Println(`AI Wrapper - Command Line Interface

Usage:
  ai-wrapper [OPTIONS]

Options:
  --version              Show version and exit
  --verbose              Enable verbose logging
  --tui                  Run the terminal front end instead of the GUI
  --list                 List modes and services
  --integrate-desktop    Add AI Wrapper to the applications menu
  --integrate-launcher   Create ~/.local/bin/ai-wrapper-launch
  --set-token            Store the Ollama endpoint token
  --chat MESSAGE         Send MESSAGE to the local model and print the answer
  --model NAME           Model for --chat (default from config)
  --help                 Show this help message

Examples:
  ai-wrapper --list
  ai-wrapper --chat "Explain goroutines" --model mistral
  ai-wrapper --tui

Notes:
  - Configuration lives in ~/.config/ai-wrapper/config.yaml
  - Run without options to launch the GUI`)
}
