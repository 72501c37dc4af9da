// Package config loads the alignment engine's tunables from a YAML file and
// environment overrides, and initializes the global structured logger. The
// engine packages themselves never read config directly — the orchestrator
// is handed a fully-resolved EngineConfig by the caller.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Engine EngineConfig `yaml:"engine" mapstructure:"engine"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Ingest IngestConfig `yaml:"ingest" mapstructure:"ingest"`
}

// EngineConfig holds every tunable threshold and weight the alignment
// engine's components use. Defaults reproduce the values named in the
// specification; overriding them lets an operator retune the engine per
// pipeline without a code change.
type EngineConfig struct {
	Reference   ReferenceConfig   `yaml:"reference" mapstructure:"reference"`
	Replacement ReplacementConfig `yaml:"replacement" mapstructure:"replacement"`
	Correction  CorrectionConfig  `yaml:"correction" mapstructure:"correction"`
	Similarity  SimilarityConfig  `yaml:"similarity" mapstructure:"similarity"`
	Matching    MatchingConfig    `yaml:"matching" mapstructure:"matching"`
	Priority    PriorityConfig    `yaml:"priority" mapstructure:"priority"`
}

// ReferenceConfig configures C3, the reference point matcher.
type ReferenceConfig struct {
	DistanceToleranceFt   float64 `yaml:"distance_tolerance_ft" mapstructure:"distance_tolerance_ft"`
	JointMismatchPenalty  float64 `yaml:"joint_mismatch_penalty" mapstructure:"joint_mismatch_penalty"`
}

// ReplacementConfig configures C4, the pipe-replacement detector.
type ReplacementConfig struct {
	GapProximityFt  float64 `yaml:"gap_proximity_ft" mapstructure:"gap_proximity_ft"`
	// MinRunLength is loaded but not read by the engine: the replacement
	// detector uses a fixed minimum of 2 points.
	MinRunLength    int     `yaml:"min_run_length" mapstructure:"min_run_length"`
}

// CorrectionConfig configures C5, the distance corrector.
type CorrectionConfig struct {
	ReplacementDeviationFraction float64 `yaml:"replacement_deviation_fraction" mapstructure:"replacement_deviation_fraction"`
}

// SimilarityConfig configures C7's weighted multi-metric scorer.
type SimilarityConfig struct {
	DistanceWeight    float64 `yaml:"distance_weight" mapstructure:"distance_weight"`
	DimensionalWeight float64 `yaml:"dimensional_weight" mapstructure:"dimensional_weight"`
	ClockWeight       float64 `yaml:"clock_weight" mapstructure:"clock_weight"`
	FeatureTypeWeight float64 `yaml:"feature_type_weight" mapstructure:"feature_type_weight"`
	DistanceDecayFt   float64 `yaml:"distance_decay_ft" mapstructure:"distance_decay_ft"`
}

// MatchingConfig configures C8, the bipartite matcher.
type MatchingConfig struct {
	CandidateWindowFt   float64 `yaml:"candidate_window_ft" mapstructure:"candidate_window_ft"`
	CandidateMinScore   float64 `yaml:"candidate_min_score" mapstructure:"candidate_min_score"`
	AcceptanceThreshold float64 `yaml:"acceptance_threshold" mapstructure:"acceptance_threshold"`
	SentinelCost        float64 `yaml:"sentinel_cost" mapstructure:"sentinel_cost"`
}

// PriorityConfig configures C11's regulatory priority bands.
type PriorityConfig struct {
	ImmediateDepthPct   float64 `yaml:"immediate_depth_pct" mapstructure:"immediate_depth_pct"`
	ImmediateTTCYears   float64 `yaml:"immediate_ttc_years" mapstructure:"immediate_ttc_years"`
	ImmediateGrowthPct  float64 `yaml:"immediate_growth_pct" mapstructure:"immediate_growth_pct"`
	SixtyDayDepthPct    float64 `yaml:"sixty_day_depth_pct" mapstructure:"sixty_day_depth_pct"`
	SixtyDayGrowthPct   float64 `yaml:"sixty_day_growth_pct" mapstructure:"sixty_day_growth_pct"`
	SixtyDayTTCYears    float64 `yaml:"sixty_day_ttc_years" mapstructure:"sixty_day_ttc_years"`
	OneEightyDepthPct   float64 `yaml:"one_eighty_depth_pct" mapstructure:"one_eighty_depth_pct"`
	OneEightyGrowthPct  float64 `yaml:"one_eighty_growth_pct" mapstructure:"one_eighty_growth_pct"`
	ScheduledDepthPct   float64 `yaml:"scheduled_depth_pct" mapstructure:"scheduled_depth_pct"`
	ScheduledGrowthPct  float64 `yaml:"scheduled_growth_pct" mapstructure:"scheduled_growth_pct"`
	CriticalDepthPct    float64 `yaml:"critical_depth_pct" mapstructure:"critical_depth_pct"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the optional read-only review API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// IngestConfig configures the run command's FTP fetch path, used when a
// vendor delivers a run over an anonymous FTP drop box instead of a local
// file.
type IngestConfig struct {
	FTPTimeoutSeconds     int     `yaml:"ftp_timeout_seconds" mapstructure:"ftp_timeout_seconds"`
	FTPRateLimitPerSecond float64 `yaml:"ftp_rate_limit_per_second" mapstructure:"ftp_rate_limit_per_second"`
	FTPBurst              int     `yaml:"ftp_burst" mapstructure:"ftp_burst"`
}

// Load reads configuration from ./config.yaml (if present) and the
// ILIALIGN_-prefixed environment, falling back to the defaults named in the
// specification for anything unset.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ILIALIGN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)

	v.SetDefault("ingest.ftp_timeout_seconds", 30)
	v.SetDefault("ingest.ftp_rate_limit_per_second", 2.0)
	v.SetDefault("ingest.ftp_burst", 1)

	v.SetDefault("engine.reference.distance_tolerance_ft", 500.0)
	v.SetDefault("engine.reference.joint_mismatch_penalty", 100.0)

	v.SetDefault("engine.replacement.gap_proximity_ft", 200.0)
	v.SetDefault("engine.replacement.min_run_length", 2)

	v.SetDefault("engine.correction.replacement_deviation_fraction", 0.2)

	v.SetDefault("engine.similarity.distance_weight", 0.40)
	v.SetDefault("engine.similarity.dimensional_weight", 0.30)
	v.SetDefault("engine.similarity.clock_weight", 0.20)
	v.SetDefault("engine.similarity.feature_type_weight", 0.10)
	v.SetDefault("engine.similarity.distance_decay_ft", 50.0)

	v.SetDefault("engine.matching.candidate_window_ft", 200.0)
	v.SetDefault("engine.matching.candidate_min_score", 0.20)
	v.SetDefault("engine.matching.acceptance_threshold", 0.40)
	v.SetDefault("engine.matching.sentinel_cost", 1000.0)

	v.SetDefault("engine.priority.immediate_depth_pct", 80.0)
	v.SetDefault("engine.priority.immediate_ttc_years", 1.0)
	v.SetDefault("engine.priority.immediate_growth_pct", 8.0)
	v.SetDefault("engine.priority.sixty_day_depth_pct", 60.0)
	v.SetDefault("engine.priority.sixty_day_growth_pct", 5.0)
	v.SetDefault("engine.priority.sixty_day_ttc_years", 3.0)
	v.SetDefault("engine.priority.one_eighty_depth_pct", 40.0)
	v.SetDefault("engine.priority.one_eighty_growth_pct", 2.0)
	v.SetDefault("engine.priority.scheduled_depth_pct", 20.0)
	v.SetDefault("engine.priority.scheduled_growth_pct", 0.5)
	v.SetDefault("engine.priority.critical_depth_pct", 80.0)
}

// DefaultEngineConfig returns the engine tunables at their specification
// defaults, for callers (and tests) that want to invoke the engine without
// going through Load.
func DefaultEngineConfig() EngineConfig {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg.Engine
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
