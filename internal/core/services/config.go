package services

import (
	"time"

	"github.com/custodia-labs/skim-cli/internal/core/domain"
	"github.com/custodia-labs/skim-cli/internal/core/ports/driven"
)

// SessionConfigFromStore builds a session configuration from the
// persistent config store, falling back to defaults for absent keys.
//
// Recognised keys:
//
//	batch.initial_size   int
//	batch.size           int
//	reclaim.cap          int
//	reclaim.interval_ms  int
//	reclaim.idle_ms      int
//	reclaim.clear_ms     int
//	search.debounce_ms   int
//	search.min_length    int
//	load.auto_delay_ms   int
func SessionConfigFromStore(store driven.ConfigStore) SessionConfig {
	cfg := DefaultSessionConfig()
	if store == nil {
		return cfg
	}

	setInt := func(key string, dst *int) {
		if v := store.GetInt(key); v > 0 {
			*dst = v
		}
	}
	setDur := func(key string, dst *time.Duration) {
		if v := store.GetInt(key); v > 0 {
			*dst = time.Duration(v) * time.Millisecond
		}
	}

	batch := domain.DefaultBatchConfig()
	setInt("batch.initial_size", &batch.InitialSize)
	setInt("batch.size", &batch.BatchSize)
	cfg.Batch = batch

	setInt("reclaim.cap", &cfg.Reclaim.Cap)
	setDur("reclaim.interval_ms", &cfg.Reclaim.Interval)
	setDur("reclaim.idle_ms", &cfg.Reclaim.IdleAfter)
	setDur("reclaim.clear_ms", &cfg.Reclaim.ClearDelay)

	setDur("search.debounce_ms", &cfg.Debounce)
	setInt("search.min_length", &cfg.MinQueryLength)
	setDur("load.auto_delay_ms", &cfg.AutoLoadDelay)

	return cfg
}
