package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/tauribridge/internal/logging"
	"github.com/aretw0/tauribridge/pkg/adapters/file"
	"github.com/aretw0/tauribridge/pkg/adapters/memory"
	"github.com/aretw0/tauribridge/pkg/adapters/redis"
	"github.com/aretw0/tauribridge/pkg/config"
	"github.com/aretw0/tauribridge/pkg/ports"
	"github.com/aretw0/tauribridge/pkg/supervisor"
	"github.com/spf13/cobra"
)

// launchLockTTL bounds how long another server may be blocked by a crashed launcher.
const launchLockTTL = 30 * time.Second

// loadConfig layers defaults, the config file, dotenv files, the environment
// and finally any flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()

	envFiles, _ := flags.GetStringSlice("env-file")
	if err := config.LoadEnv(envFiles...); err != nil {
		return config.Config{}, err
	}

	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}

	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.Log.Format, _ = flags.GetString("log-format")
	}
	if flags.Changed("store") {
		cfg.Store.Kind, _ = flags.GetString("store")
	}
	if flags.Changed("driver-path") {
		cfg.Driver.Path, _ = flags.GetString("driver-path")
	}
	if flags.Changed("driver-port") {
		cfg.Driver.Port, _ = flags.GetInt("driver-port")
	}

	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(cfg.Log.Format, level), nil
}

// recordStore is the configured RecordStore plus what else shares its backend.
type recordStore struct {
	ports.RecordStore
	locker ports.DistributedLocker
	close  func(ctx context.Context) error
}

func openStore(cfg config.Config) (*recordStore, error) {
	nop := func(context.Context) error { return nil }

	switch cfg.Store.Kind {
	case config.StoreFile:
		return &recordStore{RecordStore: file.New(cfg.Store.Path), close: nop}, nil
	case config.StoreRedis:
		rc := cfg.Store.Redis
		store := redis.New(rc.Addr, rc.Password, rc.DB, redis.WithPrefix(rc.Prefix))
		return &recordStore{
			RecordStore: store,
			locker:      redis.NewLocker(store.Client(), rc.Prefix),
			close:       func(context.Context) error { return store.Close() },
		}, nil
	case config.StoreMemory, "":
		return &recordStore{RecordStore: memory.NewStore(), close: nop}, nil
	default:
		return nil, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
	}
}

func newSupervisor(cfg config.Config, store *recordStore, logger *slog.Logger) *supervisor.Supervisor {
	d := cfg.Driver
	opts := []supervisor.Option{
		supervisor.WithPath(d.Path),
		supervisor.WithArgs(d.Args...),
		supervisor.WithReadyTimeout(d.ReadyTimeout.Std()),
		supervisor.WithReadyInterval(d.ReadyInterval.Std()),
		supervisor.WithGracePeriod(d.GracePeriod.Std()),
		supervisor.WithStore(store),
		supervisor.WithLogger(logger),
	}
	if d.Settle > 0 {
		opts = append(opts, supervisor.WithFixedSettle(d.Settle.Std()))
	}
	if store.locker != nil {
		opts = append(opts, supervisor.WithLocker(store.locker, launchLockTTL))
	}
	return supervisor.New(opts...)
}
