package engine

import (
	"context"
	"sync"

	"github.com/jonesrussell/sentiment-watchdog/internal/classifier"
	"github.com/jonesrussell/sentiment-watchdog/internal/logging"
	"github.com/jonesrussell/sentiment-watchdog/internal/notify"
	"github.com/jonesrussell/sentiment-watchdog/internal/telemetry"
)

// RegistryConfig holds the shared collaborators handed to every workspace
// engine the registry creates.
type RegistryConfig struct {
	Classifier classifier.Classifier
	Store      Store
	Notifier   notify.Notifier
	Insight    InsightProvider
	Telemetry  *telemetry.Provider
	Logger     logging.Logger
}

// Registry creates and caches one Engine per workspace. Workspaces are
// fully independent; creation is lazy on first access.
type Registry struct {
	cfg RegistryConfig

	mu      sync.RWMutex
	engines map[string]*Engine
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	return &Registry{
		cfg:     cfg,
		engines: make(map[string]*Engine),
	}
}

// Get returns the engine for the workspace, creating and hydrating it on
// first access.
func (r *Registry) Get(ctx context.Context, workspace string) (*Engine, error) {
	r.mu.RLock()
	eng, ok := r.engines[workspace]
	r.mu.RUnlock()
	if ok {
		return eng, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if eng, ok := r.engines[workspace]; ok {
		return eng, nil
	}

	eng = New(Config{
		Workspace:  workspace,
		Classifier: r.cfg.Classifier,
		Store:      r.cfg.Store,
		Notifier:   r.cfg.Notifier,
		Insight:    r.cfg.Insight,
		Telemetry:  r.cfg.Telemetry,
		Logger:     r.cfg.Logger,
	})
	if err := eng.Hydrate(ctx); err != nil {
		return nil, err
	}

	r.engines[workspace] = eng
	return eng, nil
}
