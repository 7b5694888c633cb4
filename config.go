package bindery

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bjud-in-oss/bindery/types"
)

// ============================================================================
// Sizing Model
// ============================================================================
//
// Bindery packs items into volumes under a hard upload ceiling using a
// two-phase model:
//
//	TIER 1: Fast-fill - accumulate cheap per-item estimates
//	  - Each estimate is inflated by SafetyMarginPercent and padded with
//	    ItemOverheadBytes so the running total stays pessimistic
//	  - Continues until the total crosses VerifyThresholdPercent of the
//	    ceiling (or the input runs out)
//
//	TIER 2: Precision verify - assemble the candidate and measure exactly
//	  - Under the ceiling: try to extend the boundary by one item at a time
//	  - Over the ceiling: shed items from the tail until it fits
//
// The margin and threshold trade assembly invocations against packing
// density: a large margin with a low threshold verifies early and often, a
// small margin with a high threshold risks an extra shed pass.
//
// Constraint hierarchy:
//   VerifyThresholdPercent <= 100 (verification must trigger under ceiling)
//   SafetyMarginPercent keeps estimates >= exact sizes in the common case
//
// ============================================================================

// Config is the configuration for a packing Session.
//
// All duration fields accept standard Go duration strings like "300ms", "2s".
type Config struct {
	// CeilingMB is the hard per-volume size ceiling in megabytes, imposed by
	// the upload size limit of the storage backend.
	CeilingMB float64 `yaml:"ceilingMb"`

	// SafetyMarginPercent inflates per-item size estimates during fast-fill.
	// Higher values verify earlier and waste less assembly work on shedding;
	// lower values pack tighter but risk boundary adjustment passes.
	// Recommended: 5.
	SafetyMarginPercent float64 `yaml:"safetyMarginPercent"`

	// VerifyThresholdPercent is the fraction of the ceiling (in percent) at
	// which fast-fill stops and exact assembly verification begins.
	// Recommended: 88.
	VerifyThresholdPercent float64 `yaml:"verifyThresholdPercent"`

	// ItemOverheadBytes is the fixed per-item packaging overhead added to
	// every estimate (page scaffolding, metadata, object headers).
	// Recommended: 2048.
	ItemOverheadBytes int64 `yaml:"itemOverheadBytes"`

	// CompressionLevel is the level items are processed at before assembly.
	CompressionLevel types.CompressionLevel `yaml:"compressionLevel"`

	// PackDebounce is how long the scheduler waits after an item change
	// before packing resumes. Batches rapid successive edits into one
	// revalidation-and-repack cycle.
	// Recommended: 300ms.
	PackDebounce time.Duration `yaml:"packDebounce"`

	// SyncDebounce is how long the scheduler waits after a chunk becomes
	// ready before uploading it. Should be longer than PackDebounce so a
	// burst of edits settles before any artifact is pushed.
	// Recommended: 1s.
	SyncDebounce time.Duration `yaml:"syncDebounce"`

	// SyncRetryBase is the initial retry delay after a failed upload.
	// Recommended: 2 seconds.
	SyncRetryBase time.Duration `yaml:"syncRetryBase"`

	// SyncRetryMax caps the retry delay for a repeatedly failing upload.
	// Recommended: 2 minutes.
	SyncRetryMax time.Duration `yaml:"syncRetryMax"`

	// OperationTimeout is the timeout for external calls (compress, assemble,
	// upload, persistence). Zero disables per-call timeouts.
	// Recommended: 30 seconds.
	OperationTimeout time.Duration `yaml:"operationTimeout"`

	// ContainerID is the storage container all volume artifacts are uploaded
	// into.
	ContainerID string `yaml:"containerId"`

	// TitlePattern is the fmt pattern producing a volume title from its
	// 1-based number, e.g. "volume-%03d" yields "volume-001".
	TitlePattern string `yaml:"titlePattern"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		CeilingMB:              15,
		SafetyMarginPercent:    5,
		VerifyThresholdPercent: 88,
		ItemOverheadBytes:      2048,
		CompressionLevel:       types.CompressionMedium,
		PackDebounce:           300 * time.Millisecond,
		SyncDebounce:           time.Second,
		SyncRetryBase:          2 * time.Second,
		SyncRetryMax:           2 * time.Minute,
		OperationTimeout:       30 * time.Second,
		ContainerID:            "volumes",
		TitlePattern:           "volume-%03d",
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.CeilingMB == 0 {
		cfg.CeilingMB = defaults.CeilingMB
	}
	if cfg.SafetyMarginPercent == 0 {
		cfg.SafetyMarginPercent = defaults.SafetyMarginPercent
	}
	if cfg.VerifyThresholdPercent == 0 {
		cfg.VerifyThresholdPercent = defaults.VerifyThresholdPercent
	}
	if cfg.ItemOverheadBytes == 0 {
		cfg.ItemOverheadBytes = defaults.ItemOverheadBytes
	}
	if !cfg.CompressionLevel.Valid() {
		cfg.CompressionLevel = defaults.CompressionLevel
	}
	if cfg.PackDebounce == 0 {
		cfg.PackDebounce = defaults.PackDebounce
	}
	if cfg.SyncDebounce == 0 {
		cfg.SyncDebounce = defaults.SyncDebounce
	}
	if cfg.SyncRetryBase == 0 {
		cfg.SyncRetryBase = defaults.SyncRetryBase
	}
	if cfg.SyncRetryMax == 0 {
		cfg.SyncRetryMax = defaults.SyncRetryMax
	}
	if cfg.OperationTimeout == 0 {
		cfg.OperationTimeout = defaults.OperationTimeout
	}
	if cfg.ContainerID == "" {
		cfg.ContainerID = defaults.ContainerID
	}
	if cfg.TitlePattern == "" {
		cfg.TitlePattern = defaults.TitlePattern
	}
	// Note: SafetyMarginPercent of 0 is overridden above; use a tiny value
	// like 0.01 to effectively disable the margin.
}

// Validate checks configuration constraints and returns error for invalid values.
//
// Hard Validation Rules:
//   - CeilingMB > 0 (a volume must be allowed some size)
//   - SafetyMarginPercent in [0, 50] (beyond 50% estimates become useless)
//   - VerifyThresholdPercent in (50, 100] (must trigger under the ceiling)
//   - ItemOverheadBytes >= 0
//   - CompressionLevel is a defined level
//   - PackDebounce, SyncDebounce, SyncRetryBase > 0
//   - SyncRetryMax >= SyncRetryBase (cap must not undercut the base)
//   - TitlePattern formats an integer without fmt errors
//
// Returns:
//   - error: Validation error with clear explanation, nil if valid
func (cfg *Config) Validate() error {
	if cfg.CeilingMB <= 0 {
		return fmt.Errorf("CeilingMB must be > 0, got %v", cfg.CeilingMB)
	}

	if cfg.SafetyMarginPercent < 0 || cfg.SafetyMarginPercent > 50 {
		return fmt.Errorf(
			"SafetyMarginPercent (%v) must be in [0, 50]",
			cfg.SafetyMarginPercent,
		)
	}

	if cfg.VerifyThresholdPercent <= 50 || cfg.VerifyThresholdPercent > 100 {
		return fmt.Errorf(
			"VerifyThresholdPercent (%v) must be in (50, 100] so verification triggers below the ceiling",
			cfg.VerifyThresholdPercent,
		)
	}

	if cfg.ItemOverheadBytes < 0 {
		return fmt.Errorf("ItemOverheadBytes must be >= 0, got %d", cfg.ItemOverheadBytes)
	}

	if !cfg.CompressionLevel.Valid() {
		return fmt.Errorf("CompressionLevel %d is not a defined level", cfg.CompressionLevel)
	}

	if cfg.PackDebounce <= 0 {
		return fmt.Errorf("PackDebounce must be > 0, got %v", cfg.PackDebounce)
	}

	if cfg.SyncDebounce <= 0 {
		return fmt.Errorf("SyncDebounce must be > 0, got %v", cfg.SyncDebounce)
	}

	if cfg.SyncRetryBase <= 0 {
		return fmt.Errorf("SyncRetryBase must be > 0, got %v", cfg.SyncRetryBase)
	}

	if cfg.SyncRetryMax < cfg.SyncRetryBase {
		return fmt.Errorf(
			"SyncRetryMax (%v) must be >= SyncRetryBase (%v)",
			cfg.SyncRetryMax, cfg.SyncRetryBase,
		)
	}

	if strings.Contains(fmt.Sprintf(cfg.TitlePattern, 1), "%!") {
		return fmt.Errorf("TitlePattern %q does not format a volume number", cfg.TitlePattern)
	}

	return nil
}

// ValidateWithWarnings checks configuration and logs warnings for non-recommended values.
//
// This is called after Validate() in NewSession() to provide operator guidance.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	// Warn if the verify threshold is low enough to trigger assembly on
	// nearly every item
	if cfg.VerifyThresholdPercent < 70 {
		logger.Warn(
			"VerifyThresholdPercent is very low, expect frequent assembly invocations",
			"threshold", cfg.VerifyThresholdPercent,
			"recommended", "85-95",
		)
	}

	// Warn if estimates carry no safety margin
	if cfg.SafetyMarginPercent < 1 {
		logger.Warn(
			"SafetyMarginPercent is near zero, fast-fill may overshoot the ceiling and force shedding",
			"margin", cfg.SafetyMarginPercent,
			"recommended", "5 or higher",
		)
	}

	// Warn if sync fires before packing settles
	if cfg.SyncDebounce < cfg.PackDebounce {
		logger.Warn(
			"SyncDebounce is shorter than PackDebounce, uploads may race ahead of repacking",
			"syncDebounce", cfg.SyncDebounce,
			"packDebounce", cfg.PackDebounce,
		)
	}
}

// TestConfig returns a configuration optimized for fast test execution.
//
// Test timings are 10-100x faster than production defaults to enable
// rapid iteration without sacrificing test coverage. Use DefaultConfig()
// for production deployments.
//
// Returns:
//   - Config: Configuration with fast timings for tests
//
// Example:
//
//	cfg := bindery.TestConfig()
//	cfg.CeilingMB = 1
//	session, err := bindery.NewSession(&cfg, compressor, assembler, cloud)
func TestConfig() Config {
	cfg := DefaultConfig()

	// Fast timings for test execution (10-100x faster)
	cfg.PackDebounce = 10 * time.Millisecond  // 30x faster
	cfg.SyncDebounce = 20 * time.Millisecond  // 50x faster
	cfg.SyncRetryBase = 20 * time.Millisecond // 100x faster
	cfg.SyncRetryMax = 200 * time.Millisecond // 600x faster
	cfg.OperationTimeout = 5 * time.Second    // 6x faster

	return cfg
}

// UnmarshalYAML decodes the configuration, accepting Go duration strings
// ("300ms", "2s") for the duration fields, which plain YAML decoding would
// reject.
func (cfg *Config) UnmarshalYAML(value *yaml.Node) error {
	type rawConfig struct {
		CeilingMB              float64                `yaml:"ceilingMb"`
		SafetyMarginPercent    float64                `yaml:"safetyMarginPercent"`
		VerifyThresholdPercent float64                `yaml:"verifyThresholdPercent"`
		ItemOverheadBytes      int64                  `yaml:"itemOverheadBytes"`
		CompressionLevel       types.CompressionLevel `yaml:"compressionLevel"`
		PackDebounce           string                 `yaml:"packDebounce"`
		SyncDebounce           string                 `yaml:"syncDebounce"`
		SyncRetryBase          string                 `yaml:"syncRetryBase"`
		SyncRetryMax           string                 `yaml:"syncRetryMax"`
		OperationTimeout       string                 `yaml:"operationTimeout"`
		ContainerID            string                 `yaml:"containerId"`
		TitlePattern           string                 `yaml:"titlePattern"`
	}

	var raw rawConfig
	if err := value.Decode(&raw); err != nil {
		return err
	}

	cfg.CeilingMB = raw.CeilingMB
	cfg.SafetyMarginPercent = raw.SafetyMarginPercent
	cfg.VerifyThresholdPercent = raw.VerifyThresholdPercent
	cfg.ItemOverheadBytes = raw.ItemOverheadBytes
	cfg.CompressionLevel = raw.CompressionLevel
	cfg.ContainerID = raw.ContainerID
	cfg.TitlePattern = raw.TitlePattern

	durations := []struct {
		dst   *time.Duration
		value string
		field string
	}{
		{&cfg.PackDebounce, raw.PackDebounce, "packDebounce"},
		{&cfg.SyncDebounce, raw.SyncDebounce, "syncDebounce"},
		{&cfg.SyncRetryBase, raw.SyncRetryBase, "syncRetryBase"},
		{&cfg.SyncRetryMax, raw.SyncRetryMax, "syncRetryMax"},
		{&cfg.OperationTimeout, raw.OperationTimeout, "operationTimeout"},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("field %s: %w", d.field, err)
		}
		*d.dst = parsed
	}

	return nil
}

// LoadConfig reads a YAML configuration file, applies defaults, and validates.
//
// Parameters:
//   - path: Path to the YAML config file
//
// Returns:
//   - Config: Parsed and validated configuration
//   - error: File, parse, or validation error
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parse %s: %s", ErrInvalidConfig, path, err.Error())
	}

	SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}

	return cfg, nil
}

// CeilingBytes returns the volume ceiling converted to bytes.
func (cfg *Config) CeilingBytes() int64 {
	return int64(cfg.CeilingMB * 1024 * 1024)
}

// Parameters returns the runtime-changeable subset of the configuration.
func (cfg *Config) Parameters() types.Parameters {
	return types.Parameters{
		CeilingMB:           cfg.CeilingMB,
		SafetyMarginPercent: cfg.SafetyMarginPercent,
		CompressionLevel:    cfg.CompressionLevel,
	}
}
