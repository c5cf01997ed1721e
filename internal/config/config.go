// Package config holds the review-responder service configuration.
package config

import (
	"time"

	infraconfig "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/config"
)

// Default configuration values.
const (
	defaultServiceName       = "review-responder"
	defaultServiceVersion    = "1.0.0"
	defaultServicePort       = 8090
	defaultProgramVersion    = "default"
	defaultMaxAttempts       = 3
	defaultAnthropicTimeout  = 30 * time.Second
	defaultMaxRetries        = 3
	defaultDraftModel        = "claude-3-5-haiku-latest"
	defaultVerifyModel       = "claude-sonnet-4-0"
	defaultDraftTemperature  = 0.3
	defaultVerifyTemperature = 0.0
	defaultDraftMaxTokens    = 384
	defaultVerifyMaxTokens   = 768
	defaultDraftArtifact     = "artifacts/draft_program.yml"
	defaultVerifyArtifact    = "artifacts/verify_program.yml"
	defaultRequestsPerSecond = 20
	defaultRateLimitBurst    = 40
	defaultDBName            = "review_responder"
	defaultPprofPort         = 6060
	defaultPyroscopeURL      = "http://pyroscope:4040"
)

// Validation bounds.
const (
	minTemperature     = 0.0
	maxTemperature     = 1.0
	minDraftMaxTokens  = 32
	minVerifyMaxTokens = 64
)

// Config holds all configuration for the review-responder service.
type Config struct {
	Service   ServiceConfig              `yaml:"service"`
	Auth      AuthConfig                 `yaml:"auth"`
	Anthropic AnthropicConfig            `yaml:"anthropic"`
	Draft     ProgramConfig              `yaml:"draft"`
	Verify    ProgramConfig              `yaml:"verify"`
	Redis     infraconfig.RedisConfig    `yaml:"redis"`
	Database  infraconfig.DatabaseConfig `yaml:"database"`
	RateLimit RateLimitConfig            `yaml:"rate_limit"`
	Logging   infraconfig.LoggingConfig  `yaml:"logging"`
	Profiling ProfilingConfig            `yaml:"profiling"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name           string `yaml:"name"`
	Version        string `yaml:"version"`
	Port           int    `env:"REVIEW_RESPONDER_PORT"     yaml:"port"`
	Debug          bool   `env:"APP_DEBUG"                 yaml:"debug"`
	ProgramVersion string `env:"PROGRAM_VERSION"           yaml:"program_version"`
	MaxAttempts    int    `env:"MAX_REGENERATION_ATTEMPTS" yaml:"max_regeneration_attempts"`
}

// AuthConfig selects how callers authenticate. The static service token is
// checked first; a bearer that does not match it is parsed as a JWT when a
// secret is set.
type AuthConfig struct {
	ServiceToken string `env:"SERVICE_TOKEN"   yaml:"service_token"`
	JWTSecret    string `env:"AUTH_JWT_SECRET" yaml:"jwt_secret"`
}

// AnthropicConfig configures the LLM backend shared by both programs.
type AnthropicConfig struct {
	APIKey     string        `env:"ANTHROPIC_API_KEY"     yaml:"api_key"`
	BaseURL    string        `env:"ANTHROPIC_BASE_URL"    yaml:"base_url"`
	Timeout    time.Duration `env:"ANTHROPIC_TIMEOUT"     yaml:"timeout"`
	MaxRetries *int          `env:"ANTHROPIC_MAX_RETRIES" yaml:"max_retries"`
}

// Retries returns the configured retry count.
func (c AnthropicConfig) Retries() int {
	if c.MaxRetries == nil {
		return defaultMaxRetries
	}
	return *c.MaxRetries
}

// ProgramConfig configures one program: the draft generator or the verifier.
type ProgramConfig struct {
	Model        string   `yaml:"model"`
	Temperature  *float64 `yaml:"temperature"`
	MaxTokens    int      `yaml:"max_tokens"`
	ArtifactPath string   `yaml:"artifact_path"`
}

// RateLimitConfig bounds request throughput on the API routes.
type RateLimitConfig struct {
	Enabled           bool    `env:"RATE_LIMIT_ENABLED" yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// ProfilingConfig holds pprof and Pyroscope settings.
type ProfilingConfig struct {
	PprofEnabled     bool   `env:"ENABLE_PROFILING"            yaml:"pprof_enabled"`
	PprofPort        int    `env:"PPROF_PORT"                  yaml:"pprof_port"`
	PyroscopeEnabled bool   `env:"ENABLE_CONTINUOUS_PROFILING" yaml:"pyroscope_enabled"`
	PyroscopeURL     string `env:"PYROSCOPE_SERVER_URL"        yaml:"pyroscope_url"`
	Environment      string `env:"PYROSCOPE_ENVIRONMENT"       yaml:"environment"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return infraconfig.LoadWithDefaults[Config](path, setDefaults)
}

// Default returns a fully defaulted configuration without reading a file.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	infraconfig.ApplyEnvOverrides(cfg)
	return cfg
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setAnthropicDefaults(&cfg.Anthropic)
	setProgramDefaults(&cfg.Draft, defaultDraftModel, defaultDraftTemperature, defaultDraftMaxTokens, defaultDraftArtifact)
	setProgramDefaults(&cfg.Verify, defaultVerifyModel, defaultVerifyTemperature, defaultVerifyMaxTokens, defaultVerifyArtifact)
	setRateLimitDefaults(&cfg.RateLimit)
	setProfilingDefaults(&cfg.Profiling)

	cfg.Redis.SetDefaults()
	if cfg.Database.Database == "" {
		cfg.Database.Database = defaultDBName
	}
	cfg.Database.SetDefaults()
	cfg.Logging.SetDefaults()
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
	if s.ProgramVersion == "" {
		s.ProgramVersion = defaultProgramVersion
	}
	if s.MaxAttempts == 0 {
		s.MaxAttempts = defaultMaxAttempts
	}
}

func setAnthropicDefaults(a *AnthropicConfig) {
	if a.Timeout == 0 {
		a.Timeout = defaultAnthropicTimeout
	}
	if a.MaxRetries == nil {
		retries := defaultMaxRetries
		a.MaxRetries = &retries
	}
}

func setProgramDefaults(p *ProgramConfig, model string, temperature float64, maxTokens int, artifact string) {
	if p.Model == "" {
		p.Model = model
	}
	if p.Temperature == nil {
		p.Temperature = &temperature
	}
	if p.MaxTokens == 0 {
		p.MaxTokens = maxTokens
	}
	if p.ArtifactPath == "" {
		p.ArtifactPath = artifact
	}
}

func setRateLimitDefaults(r *RateLimitConfig) {
	if r.RequestsPerSecond == 0 {
		r.RequestsPerSecond = defaultRequestsPerSecond
	}
	if r.Burst == 0 {
		r.Burst = defaultRateLimitBurst
	}
}

func setProfilingDefaults(p *ProfilingConfig) {
	if p.PprofPort == 0 {
		p.PprofPort = defaultPprofPort
	}
	if p.PyroscopeURL == "" {
		p.PyroscopeURL = defaultPyroscopeURL
	}
	if p.Environment == "" {
		p.Environment = "development"
	}
}
