// Package shell assembles the pieces both front ends share: the catalog,
// the browser sessions behind it, and the local chat stack.
package shell

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/yllada/ai-wrapper/adblock"
	"github.com/yllada/ai-wrapper/browser"
	"github.com/yllada/ai-wrapper/catalog"
	"github.com/yllada/ai-wrapper/common"
	"github.com/yllada/ai-wrapper/config"
	"github.com/yllada/ai-wrapper/keyring"
	"github.com/yllada/ai-wrapper/ollama"
	"github.com/yllada/ai-wrapper/views"
)

// ChatWorkers is the number of concurrent generate calls the broker runs.
const ChatWorkers = 2

// LoadCatalog returns the catalog named by cfg.CatalogFile, or the built-in
// one. Duplicate ids are logged, not rejected.
func LoadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	cat := catalog.Default()
	if cfg.CatalogFile != "" {
		loaded, err := catalog.Load(cfg.CatalogFile)
		if err != nil {
			return nil, err
		}
		cat = loaded
	}
	if err := cat.Validate(); err != nil {
		if !errors.Is(err, common.ErrDuplicateService) {
			return nil, err
		}
		common.LogWarn("Catalog: %v; the last URL is used", err)
	}
	return cat, nil
}

// Sessions is the running browser and the pool of sessions inside it.
type Sessions struct {
	Pool      *views.Pool
	Blocklist *adblock.Blocklist
}

// StartSessions launches Chrome and opens one session per service in cat.
// Any failure is fatal to startup.
func StartSessions(ctx context.Context, cfg *config.Config, cat *catalog.Catalog) (*Sessions, error) {
	filter, err := adblock.New(cfg.Blocklist)
	if err != nil {
		return nil, err
	}

	backend, err := browser.Launch(ctx, browser.Options{
		Bin:       cfg.Browser.Bin,
		Headless:  cfg.Browser.Headless,
		UserAgent: cfg.Browser.UserAgent,
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
	}, filter)
	if err != nil {
		return nil, err
	}

	pool := views.NewPool(backend)
	if err := pool.CreateAll(ctx, cat.Services()); err != nil {
		pool.Close()
		return nil, err
	}
	common.LogInfo("Started %d sessions", pool.Len())

	return &Sessions{Pool: pool, Blocklist: filter}, nil
}

// Close shuts every session and the browser down.
func (s *Sessions) Close() error {
	if s == nil || s.Pool == nil {
		return nil
	}
	return s.Pool.Close()
}

// Chat is the local model client with its history and broker.
type Chat struct {
	Client  *ollama.Client
	History *ollama.History
	Broker  *ollama.Broker
	cancel  context.CancelFunc
}

// HistoryPath returns the default chat history database path.
func HistoryPath() (string, error) {
	dir, err := common.GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, common.HistoryFileName), nil
}

// OpenChat builds the chat stack and starts the broker. creds may be nil;
// otherwise the endpoint token is read from it.
func OpenChat(ctx context.Context, cfg *config.Config, creds common.CredentialStore, historyPath string) (*Chat, error) {
	token := ""
	if creds != nil {
		t, err := creds.Get(keyring.OllamaTokenKey)
		switch {
		case err == nil:
			token = t
		case !errors.Is(err, common.ErrCredentialsNotFound):
			common.LogWarn("Could not read endpoint token: %v", err)
		}
	}

	client := ollama.NewClient(ollama.Options{
		Endpoint:          cfg.Ollama.Endpoint,
		DefaultModel:      cfg.Ollama.Model,
		Timeout:           cfg.Ollama.Timeout,
		RequestsPerSecond: cfg.Ollama.RequestsPerSecond,
		Token:             token,
	})

	history, err := ollama.OpenHistory(ctx, historyPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrOllamaRequest, err)
	}

	brokerCtx, cancel := context.WithCancel(context.Background())
	broker := ollama.NewBroker(client, history)
	broker.Start(brokerCtx, ChatWorkers)

	return &Chat{Client: client, History: history, Broker: broker, cancel: cancel}, nil
}

// Close stops the broker and closes the history database.
func (c *Chat) Close() error {
	if c == nil {
		return nil
	}
	c.Broker.Close()
	c.cancel()
	return c.History.Close()
}
