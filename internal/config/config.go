package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/stay-packages/pkg/core/careanalysis"
	"github.com/jakechorley/stay-packages/pkg/core/model"
	"github.com/jakechorley/stay-packages/pkg/core/ranking"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// SelectionConfig sets the auto-selection mode per funder
type SelectionConfig struct {
	NDISMode    string `yaml:"ndisMode,omitempty" validate:"omitempty,oneof=single best-match"`
	NonNDISMode string `yaml:"nonNDISMode,omitempty" validate:"omitempty,oneof=single best-match"`
}

// RecommendedPackagesConfig overrides the built-in recommendation table, keyed by care pattern
type RecommendedPackagesConfig struct {
	NDIS    map[string][]string `yaml:"ndis,omitempty" validate:"omitempty,dive,keys,carepattern,endkeys,min=1,dive,required"`
	NonNDIS map[string][]string `yaml:"nonNDIS,omitempty" validate:"omitempty,dive,keys,carepattern,endkeys,min=1,dive,required"`
}

// NotificationsConfig configures the email sent when a booking has no eligible packages
type NotificationsConfig struct {
	NoMatchEmail string `yaml:"noMatchEmail,omitempty" validate:"omitempty,email"`
	GmailSender  string `yaml:"gmailSender,omitempty"`
}

// Config represents the application configuration
type Config struct {
	DatabaseDriver      string                    `yaml:"databaseDriver" validate:"required,oneof=postgres sqlite"`
	DatabaseURL         string                    `yaml:"databaseURL" validate:"required"`
	Selection           SelectionConfig           `yaml:"selection,omitempty"`
	Diagnostics         bool                      `yaml:"diagnostics,omitempty"`
	RecommendedPackages RecommendedPackagesConfig `yaml:"recommendedPackages,omitempty"`
	Notifications       NotificationsConfig       `yaml:"notifications,omitempty"`
	CareTemplateRule    string                    `yaml:"careTemplateRule,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("carepattern", func(fl validator.FieldLevel) bool {
		return model.CarePattern(fl.Field().String()).IsValid()
	})
}

// LoadWithEnv loads and validates stay_config.<env>.yaml.
// It looks for the config file in the current directory first, then in the user's home directory.
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findFile(fmt.Sprintf("stay_config.%s.yaml", env))
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// ${VAR} references in the file are expanded from the environment.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.CareTemplateRule != "" {
		if _, err := rrule.StrToRRule(cfg.CareTemplateRule); err != nil {
			return fmt.Errorf("invalid rrule in careTemplateRule: %w", err)
		}
	}

	return nil
}

// SelectionMode returns the auto-selection mode for a guest's funder.
// Unknown funders use the Non-NDIS mode.
func (c *Config) SelectionMode(funder model.Funder) ranking.Mode {
	mode := c.Selection.NonNDISMode
	if funder == model.FunderNDIS {
		mode = c.Selection.NDISMode
	}
	if mode == "" {
		return ranking.ModeSingle
	}
	return ranking.Mode(mode)
}

// Recommendations returns the built-in recommendation table with any configured overrides
func (c *Config) Recommendations() careanalysis.Recommendations {
	return careanalysis.DefaultRecommendations().WithOverrides(
		toPatternMap(c.RecommendedPackages.NDIS),
		toPatternMap(c.RecommendedPackages.NonNDIS),
	)
}

// TemplateRule returns the recurrence rule used to expand care templates
func (c *Config) TemplateRule() string {
	if c.CareTemplateRule == "" {
		return careanalysis.DefaultTemplateRule
	}
	return c.CareTemplateRule
}

func toPatternMap(m map[string][]string) map[model.CarePattern][]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[model.CarePattern][]string, len(m))
	for pattern, codes := range m {
		out[model.CarePattern(pattern)] = codes
	}
	return out
}

// findFile searches for a file in the current directory and then the home directory
func findFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", name)
}
