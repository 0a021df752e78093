package offmeta

import (
	"fmt"
	"sync"
	"time"

	"github.com/ninesl/offmeta/internal/client"
)

// Explorer runs card searches against the Scryfall API.
// It holds no result state; every search is independent.
type Explorer struct {
	client   *client.Client
	logger   *Logger
	metrics  MetricsCollector
	maxPages int
	debounce time.Duration
}

var (
	// Global singleton state
	CurrentExplorer *Explorer
	initOnce        sync.Once
	mu              sync.RWMutex
)

// NewWithConfig creates an independent Explorer.
func NewWithConfig(config Config) (*Explorer, error) {
	config = config.withDefaults()

	cClient, err := client.NewClientWithOptions(config.clientOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	config.Logger.Debug("explorer created",
		"api", cClient.BaseURL(),
		"max_pages", config.MaxPages,
		"debounce", config.Debounce,
	)

	return &Explorer{
		client:   cClient,
		logger:   config.Logger,
		metrics:  config.Metrics,
		maxPages: config.MaxPages,
		debounce: config.Debounce,
	}, nil
}

// SetConfig replaces the Explorer used by the package-level functions.
func SetConfig(config Config) error {
	explorer, err := NewWithConfig(config)
	if err != nil {
		return err
	}

	// Mark the once as done so a later ensureCurrentExplorer doesn't overwrite us.
	initOnce.Do(func() {})

	mu.Lock()
	defer mu.Unlock()
	CurrentExplorer = explorer
	return nil
}

func ensureCurrentExplorer() (*Explorer, error) {
	var topError error
	initOnce.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		if CurrentExplorer == nil {
			newInstance, err := NewWithConfig(DefaultConfig())
			if err != nil {
				topError = err
				return
			}
			CurrentExplorer = newInstance
		}
	})
	if topError != nil {
		return nil, topError
	}

	mu.RLock()
	defer mu.RUnlock()
	if CurrentExplorer == nil {
		return nil, fmt.Errorf("explorer not initialized")
	}
	return CurrentExplorer, nil
}
