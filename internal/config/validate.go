package config

import (
	infraconfig "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/config"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := infraconfig.ValidatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if err := infraconfig.ValidateRequired("service.program_version", c.Service.ProgramVersion); err != nil {
		return err
	}
	if err := infraconfig.ValidateMin("service.max_regeneration_attempts", c.Service.MaxAttempts, 1); err != nil {
		return err
	}
	if c.Auth.ServiceToken == "" && c.Auth.JWTSecret == "" {
		return &infraconfig.ValidationError{Field: "auth.service_token", Message: "service_token or jwt_secret is required"}
	}
	if err := infraconfig.ValidateRequired("anthropic.api_key", c.Anthropic.APIKey); err != nil {
		return err
	}
	if err := infraconfig.ValidateMin("anthropic.max_retries", c.Anthropic.Retries(), 0); err != nil {
		return err
	}
	if err := c.Draft.validate("draft", minDraftMaxTokens); err != nil {
		return err
	}
	if err := c.Verify.validate("verify", minVerifyMaxTokens); err != nil {
		return err
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerSecond <= 0 {
		return &infraconfig.ValidationError{Field: "rate_limit.requests_per_second", Message: "must be positive"}
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	return infraconfig.ValidateLogLevel(c.Logging.Level)
}

func (p ProgramConfig) validate(section string, minTokens int) error {
	if err := infraconfig.ValidateRequired(section+".model", p.Model); err != nil {
		return err
	}
	if p.Temperature == nil {
		return &infraconfig.ValidationError{Field: section + ".temperature", Message: "is required"}
	}
	if err := infraconfig.ValidateFloatRange(section+".temperature", *p.Temperature, minTemperature, maxTemperature); err != nil {
		return err
	}
	return infraconfig.ValidateMin(section+".max_tokens", p.MaxTokens, minTokens)
}
