package internal

import (
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/TechnologicNick/scrap-mechanic-casino/internal/deposit"
	"github.com/TechnologicNick/scrap-mechanic-casino/internal/savegame"
	"github.com/TechnologicNick/scrap-mechanic-casino/internal/valuation"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Ledger LedgerConfig      `yaml:"ledger"`
	Intake IntakeConfig      `yaml:"intake"`
	Policy PolicyConfig      `yaml:"policy"`
	Prices []valuation.Entry `yaml:"prices"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Ledger.Validate(); err != nil {
		return err
	}
	if err := c.Intake.Validate(); err != nil {
		return err
	}
	if err := c.Policy.Validate(); err != nil {
		return err
	}
	_, err := valuation.TableFromEntries(c.Prices)
	return err
}

// PriceTable builds the price table declared in the config.
func (c *Config) PriceTable() (*valuation.PriceTable, error) {
	return valuation.TableFromEntries(c.Prices)
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel LogLevel `yaml:"log_level"`
}

// LogLevel wraps slog.Level so YAML accepts names like "info" and "debug".
type LogLevel struct {
	slog.Level
}

// UnmarshalYAML implements yaml.Unmarshaler via slog's text form.
func (l *LogLevel) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return l.Level.UnmarshalText([]byte(s))
}

// LedgerConfig holds the credit ledger database path.
type LedgerConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the ledger configuration.
func (c *LedgerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// IntakeConfig holds the save-file drop directory settings.
type IntakeConfig struct {
	Path    string `yaml:"path"`
	Account string `yaml:"account"`
}

// Validate validates the intake configuration.
func (c *IntakeConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.Account, validation.Required),
	)
}

// PolicyConfig holds the redeemability gates: the inclusive supported
// savegame version range and the game-mode allow-list.
type PolicyConfig struct {
	VersionMin   int      `yaml:"version_min"`
	VersionMax   int      `yaml:"version_max"`
	AllowedModes []string `yaml:"allowed_modes"`
}

// Validate validates the policy configuration.
func (c *PolicyConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.VersionMin, validation.Required, validation.Min(1)),
		validation.Field(&c.VersionMax, validation.Required, validation.Min(c.VersionMin)),
		validation.Field(&c.AllowedModes, validation.Required),
	); err != nil {
		return err
	}
	for _, name := range c.AllowedModes {
		if _, err := savegame.ParseGameMode(name); err != nil {
			return err
		}
	}
	return nil
}

// Policy converts the validated config into pipeline policy.
func (c *PolicyConfig) Policy() (deposit.Policy, error) {
	p := deposit.Policy{VersionMin: c.VersionMin, VersionMax: c.VersionMax}
	for _, name := range c.AllowedModes {
		m, err := savegame.ParseGameMode(name)
		if err != nil {
			return deposit.Policy{}, err
		}
		p.AllowedModes = append(p.AllowedModes, m)
	}
	return p, nil
}

// NewDefaultConfig returns a new Config with sensible default values.
// The default price table covers the warehouse loot the casino accepts.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: LogLevel{slog.LevelInfo},
		},
		Ledger: LedgerConfig{
			Path: "./casino.db",
		},
		Intake: IntakeConfig{
			Path:    "./incoming",
			Account: "house",
		},
		Policy: PolicyConfig{
			VersionMin:   6,
			VersionMax:   24,
			AllowedModes: []string{"survival", "challenge"},
		},
		Prices: []valuation.Entry{
			{ID: "8d3b98de-c981-4f05-abfe-d22ee4781d33", Name: "Component Kit", Price: 500},
			{ID: "f152e4df-bc40-44fb-8d20-0b3c56c65e13", Name: "Circuit Board", Price: 250},
			{ID: "99ec0cc3-40e1-4173-b7f8-bd1c22a42342", Name: "Warehouse Key", Price: 1000},
		},
	}
}
