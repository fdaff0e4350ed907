package syncer

import (
	"os"
	"strconv"
	"time"

	"github.com/quantdata/marketsync/models"
)

const (
	// Defaults, overridable through the environment.
	DefaultBatchSize       = 5
	DefaultBatchDelaySec   = 2
	DefaultMaxRetries      = 3
	DefaultRetryDelaySec   = 2
	DefaultMaxGapFill      = 30
	DefaultGapLookbackDays = 7
	DefaultMinCompleteness = 95.0
)

// Config is the engine's whole configuration surface. The two throughput
// knobs against provider throttling are BatchSize and BatchDelay.
type Config struct {
	Timeframe string

	BatchSize  int
	BatchDelay time.Duration

	MaxRetries int
	RetryDelay time.Duration

	AllowOverwrite bool

	AutoFillGaps    bool
	MaxGapFill      int
	GapLookbackDays int

	// MinCompleteness is a reporting threshold only; a run below it logs a
	// warning but does not fail.
	MinCompleteness float64
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		Timeframe:       models.TimeframeDaily,
		BatchSize:       DefaultBatchSize,
		BatchDelay:      DefaultBatchDelaySec * time.Second,
		MaxRetries:      DefaultMaxRetries,
		RetryDelay:      DefaultRetryDelaySec * time.Second,
		MaxGapFill:      DefaultMaxGapFill,
		GapLookbackDays: DefaultGapLookbackDays,
		MinCompleteness: DefaultMinCompleteness,
	}
}

// LoadConfig reads the engine configuration from the environment, falling
// back to defaults.
func LoadConfig() Config {
	cfg := DefaultConfig()
	cfg.BatchSize = getEnvInt("SYNC_BATCH_SIZE", cfg.BatchSize)
	cfg.BatchDelay = time.Duration(getEnvInt("SYNC_BATCH_DELAY_SEC", DefaultBatchDelaySec)) * time.Second
	cfg.MaxRetries = getEnvInt("SYNC_MAX_RETRIES", cfg.MaxRetries)
	cfg.RetryDelay = time.Duration(getEnvInt("SYNC_RETRY_DELAY_SEC", DefaultRetryDelaySec)) * time.Second
	cfg.AllowOverwrite = getEnvBool("SYNC_ALLOW_OVERWRITE", cfg.AllowOverwrite)
	cfg.AutoFillGaps = getEnvBool("SYNC_AUTO_FILL_GAPS", cfg.AutoFillGaps)
	cfg.MaxGapFill = getEnvInt("SYNC_MAX_GAP_FILL", cfg.MaxGapFill)
	cfg.GapLookbackDays = getEnvInt("SYNC_GAP_LOOKBACK_DAYS", cfg.GapLookbackDays)
	if v := os.Getenv("SYNC_MIN_COMPLETENESS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 100 {
			cfg.MinCompleteness = f
		}
	}
	return cfg
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
