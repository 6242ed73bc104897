package history

import (
	"fmt"
	"log/slog"

	"payrollguard/preflight/pkg/config"
)

// Open creates the history backend named by the configuration.
func Open(cfg *config.Config, logger *slog.Logger) (Storage, error) {
	switch cfg.History.Backend {
	case "memory":
		return NewMemoryStorage(), nil
	case "sqlite":
		sqliteCfg := DefaultSQLiteConfig()
		sqliteCfg.Path = cfg.History.SQLitePath
		return NewSQLiteStorage(sqliteCfg, logger)
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.History.Backend)
	}
}
