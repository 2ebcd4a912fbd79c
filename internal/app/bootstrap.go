package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"consideration_go/internal/engine"
	"consideration_go/internal/infra"
	"consideration_go/internal/storage"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config    *infra.Config
	RPC       *infra.RPCClient
	Store     storage.Store
	Engine    *engine.Consideration
	Manifests *storage.ManifestManager

	closers []func() error
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads the config file and runs the startup sequence.
func (b *Bootstrap) Initialize(ctx context.Context) error {
	cfg, err := infra.LoadConfig(infra.ResolveConfigPath())
	if err != nil {
		return err
	}

	slog.SetDefault(infra.NewLogger(cfg))
	return b.InitializeWith(ctx, cfg)
}

// InitializeWith runs the startup sequence for an already loaded config.
// On failure everything acquired so far is released.
func (b *Bootstrap) InitializeWith(ctx context.Context, cfg *infra.Config) (err error) {
	slog.Info("🚀 Bootstrapping Consideration...",
		slog.String("protocol", cfg.Protocol.Name),
		slog.String("version", cfg.Protocol.Version))
	b.Config = cfg

	defer func() {
		if err != nil {
			if cerr := b.Close(); cerr != nil {
				slog.Warn("Cleanup after failed bootstrap", slog.Any("error", cerr))
			}
		}
	}()

	// 1. Workspace + single instance lock
	workDir := infra.GetWorkspaceDir()
	if err := infra.EnsureDir(workDir); err != nil {
		return fmt.Errorf("failed to create workspace dir: %w", err)
	}
	unlock, err := infra.CreateLockFile(workDir)
	if err != nil {
		return err
	}
	b.closers = append(b.closers, func() error { unlock(); return nil })

	// 2. Registry connection
	rpc, err := infra.DialRPC(ctx, cfg.Registry.URL, infra.RPCOptions{
		Timeout:   cfg.RegistryTimeout(),
		Throttle:  infra.NewThrottle(cfg.Registry.RateLimit.Burst, cfg.Registry.RateLimit.PerSecond),
		UserAgent: cfg.App.Name + "/" + cfg.App.Version,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", engine.ErrInitialization, err)
	}
	b.RPC = rpc
	b.closers = append(b.closers, rpc.Close)

	chainID, err := rpc.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("%w: chain id lookup: %w", engine.ErrInitialization, err)
	}

	// 3. State store, isolated per chain
	dataDir := infra.DataDir(workDir, chainID.String())
	if err := infra.EnsureDir(dataDir); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	store, err := openStore(cfg, dataDir)
	if err != nil {
		return err
	}
	b.Store = store
	b.closers = append(b.closers, store.Close)

	// 4. Core
	c, err := engine.New(ctx, engine.Params{
		Name:              cfg.Protocol.Name,
		Version:           cfg.Protocol.Version,
		Address:           cfg.ProtocolAddress(),
		ConduitController: cfg.ControllerAddress(),
	}, engine.Dependencies{
		Chain:      rpc,
		Controller: infra.NewControllerClient(rpc, cfg.ControllerAddress()),
		Store:      store,
	})
	if err != nil {
		return err
	}
	b.Engine = c

	// 5. Manifest
	b.Manifests = storage.NewManifestManager(filepath.Join(dataDir, "manifests"))
	if err := b.writeManifest(); err != nil {
		slog.Warn("Manifest not written", slog.Any("error", err))
	}

	slog.Info("✅ Consideration ready",
		slog.String("chain_id", chainID.String()),
		slog.String("data_dir", dataDir))
	return nil
}

func openStore(cfg *infra.Config, dataDir string) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case infra.DriverMemory:
		slog.Warn("Using in-memory store, state is lost on exit")
		return storage.NewMemoryStore(), nil
	default:
		path := cfg.Storage.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(dataDir, path)
		}
		s, err := storage.NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		slog.Info("✅ Store initialized (WAL-mode)", slog.String("path", path))
		return s, nil
	}
}

// writeManifest saves the published state and warns when it differs from the
// previous run on the same chain.
func (b *Bootstrap) writeManifest() error {
	current := b.Engine.Manifest()

	previous, err := b.Manifests.LoadLatest()
	if err != nil {
		return err
	}
	if previous != nil {
		if previous.DomainSeparator != current.DomainSeparator {
			slog.Warn("Domain separator changed since last run",
				slog.String("previous", previous.DomainSeparator),
				slog.String("current", current.DomainSeparator))
		}
		if previous.ConduitCodeHash != current.ConduitCodeHash {
			slog.Warn("Conduit code hash changed since last run",
				slog.String("previous", previous.ConduitCodeHash),
				slog.String("current", current.ConduitCodeHash))
		}
	}

	if _, err := b.Manifests.Save(current); err != nil {
		return err
	}
	return b.Manifests.Cleanup(b.Config.Manifest.Keep)
}

// Banner collects what the startup banner shows.
func (b *Bootstrap) Banner() infra.BannerInfo {
	c := b.Engine
	return infra.BannerInfo{
		Node:              b.Config.App.Name + " " + b.Config.App.Version,
		Name:              c.Name(),
		Version:           b.Config.Protocol.Version,
		ChainID:           c.ChainID().String(),
		Address:           c.Address().Hex(),
		DomainSeparator:   c.CachedDomainSeparator().Hex(),
		ConduitController: c.ConduitController().Hex(),
		ConduitCodeHash:   c.ConduitCodeHash().Hex(),
		StorageDriver:     b.Config.Storage.Driver,
	}
}

// WatchChain re-reads the chain id every interval so a chain split shows up
// in the log with the separator signatures must now use.
func (b *Bootstrap) WatchChain(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := b.Engine.CachedDomainSeparator()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sep, err := b.Engine.DomainSeparator(ctx)
			if err != nil {
				if ctx.Err() == nil {
					slog.Warn("Chain check failed", slog.Any("error", err))
				}
				continue
			}
			if sep != last {
				slog.Warn("⚠️ Domain separator now differs",
					slog.String("previous", last.Hex()),
					slog.String("current", sep.Hex()))
				last = sep
			}
		}
	}
}

// Close releases resources in reverse acquisition order.
func (b *Bootstrap) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}
