// Package config loads denomination ladders and currency families from HCL.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/potledger/internal/chips"
)

const (
	defaultLadderName   = "default"
	defaultCurrencyCode = "CHIPS"
	defaultCategory     = "small"
	defaultMaxStack     = 20
	defaultLogLevel     = "info"
	defaultWorkers      = 4
)

// Config is the complete potledger configuration.
type Config struct {
	Settings   *Settings        `hcl:"settings,block"`
	Ladders    []LadderConfig   `hcl:"ladder,block"`
	Currencies []CurrencyConfig `hcl:"currency,block"`
}

// Settings holds process-level options.
type Settings struct {
	LogLevel        string `hcl:"log_level,optional"`
	Workers         int    `hcl:"workers,optional"`
	DefaultCurrency string `hcl:"default_currency,optional"`
}

// LadderConfig is one denomination ladder.
type LadderConfig struct {
	Name          string               `hcl:"name,label"`
	Denominations []DenominationConfig `hcl:"denomination,block"`
}

// DenominationConfig is one rung of a ladder.
type DenominationConfig struct {
	Value    int    `hcl:"value"`
	Category string `hcl:"category,optional"`
	MaxStack int    `hcl:"max_stack,optional"`
}

// CurrencyConfig binds a currency code to a ladder and a divisor that turns
// currency amounts into chip units.
type CurrencyConfig struct {
	Code         string `hcl:"code,label"`
	Ladder       string `hcl:"ladder,optional"`
	ValuePerChip int    `hcl:"value_per_chip,optional"`
}

// Default returns the built-in configuration: the default ladder and a
// single currency counted directly in chips.
func Default() *Config {
	cfg := &Config{
		Ladders: []LadderConfig{fromLadder(chips.DefaultLadder())},
		Currencies: []CurrencyConfig{
			{Code: defaultCurrencyCode, Ladder: defaultLadderName, ValuePerChip: 1},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from an HCL file. A missing file yields Default.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source. filename is used in diagnostics only.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", formatDiags(diags))
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func formatDiags(diags hcl.Diagnostics) string {
	msgs := make([]string, 0, len(diags))
	for _, d := range diags {
		msgs = append(msgs, d.Error())
	}
	return strings.Join(msgs, "; ")
}

func (c *Config) applyDefaults() {
	if c.Settings == nil {
		c.Settings = &Settings{}
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaultLogLevel
	}
	if c.Settings.Workers == 0 {
		c.Settings.Workers = defaultWorkers
	}

	for i := range c.Ladders {
		for j := range c.Ladders[i].Denominations {
			d := &c.Ladders[i].Denominations[j]
			if d.Category == "" {
				d.Category = defaultCategory
			}
			if d.MaxStack == 0 {
				d.MaxStack = defaultMaxStack
			}
		}
	}

	for i := range c.Currencies {
		if c.Currencies[i].Ladder == "" {
			c.Currencies[i].Ladder = defaultLadderName
		}
		if c.Currencies[i].ValuePerChip == 0 {
			c.Currencies[i].ValuePerChip = 1
		}
	}

	if c.Settings.DefaultCurrency == "" {
		if len(c.Currencies) > 0 {
			c.Settings.DefaultCurrency = c.Currencies[0].Code
		} else {
			c.Settings.DefaultCurrency = defaultCurrencyCode
		}
	}
}

// Validate checks every ladder and currency reference.
func (c *Config) Validate() error {
	if c.Settings != nil && c.Settings.Workers < 0 {
		return fmt.Errorf("settings: workers must not be negative")
	}

	seen := make(map[string]bool, len(c.Ladders))
	for _, lc := range c.Ladders {
		if seen[lc.Name] {
			return fmt.Errorf("ladder %s: defined more than once", lc.Name)
		}
		seen[lc.Name] = true
		if _, err := lc.Ladder(); err != nil {
			return err
		}
	}

	codes := make(map[string]bool, len(c.Currencies))
	for _, cc := range c.Currencies {
		if codes[cc.Code] {
			return fmt.Errorf("currency %s: defined more than once", cc.Code)
		}
		codes[cc.Code] = true
		if cc.ValuePerChip <= 0 {
			return fmt.Errorf("currency %s: value_per_chip must be positive", cc.Code)
		}
		if _, err := c.Ladder(cc.Ladder); err != nil {
			return fmt.Errorf("currency %s: %w", cc.Code, err)
		}
	}

	if c.Settings != nil && len(c.Currencies) > 0 && !codes[c.Settings.DefaultCurrency] {
		return fmt.Errorf("settings: default currency %s is not configured", c.Settings.DefaultCurrency)
	}
	return nil
}

// Ladder converts a configured ladder into a validated chips.Ladder.
func (lc LadderConfig) Ladder() (chips.Ladder, error) {
	denoms := make([]chips.Denomination, 0, len(lc.Denominations))
	for _, d := range lc.Denominations {
		cat, err := chips.ParseCategory(d.Category)
		if err != nil {
			return chips.Ladder{}, fmt.Errorf("ladder %s: %w", lc.Name, err)
		}
		denoms = append(denoms, chips.Denomination{Value: d.Value, Category: cat, MaxStack: d.MaxStack})
	}
	return chips.NewLadder(lc.Name, denoms...)
}

// Ladder returns the named ladder. The built-in default ladder is available
// even when the file does not define it.
func (c *Config) Ladder(name string) (chips.Ladder, error) {
	for _, lc := range c.Ladders {
		if lc.Name == name {
			return lc.Ladder()
		}
	}
	if name == defaultLadderName {
		return chips.DefaultLadder(), nil
	}
	return chips.Ladder{}, fmt.Errorf("unknown ladder %q", name)
}

// Currency resolves a currency code to its ladder and value per chip. An
// empty code selects the default currency.
func (c *Config) Currency(code string) (chips.Ladder, int, error) {
	if code == "" && c.Settings != nil {
		code = c.Settings.DefaultCurrency
	}
	for _, cc := range c.Currencies {
		if strings.EqualFold(cc.Code, code) {
			ladder, err := c.Ladder(cc.Ladder)
			if err != nil {
				return chips.Ladder{}, 0, fmt.Errorf("currency %s: %w", cc.Code, err)
			}
			return ladder, cc.ValuePerChip, nil
		}
	}
	if code == defaultCurrencyCode {
		return chips.DefaultLadder(), 1, nil
	}
	return chips.Ladder{}, 0, fmt.Errorf("unknown currency %q", code)
}

func fromLadder(l chips.Ladder) LadderConfig {
	lc := LadderConfig{Name: l.Name}
	for _, d := range l.Denominations {
		lc.Denominations = append(lc.Denominations, DenominationConfig{
			Value:    d.Value,
			Category: d.Category.String(),
			MaxStack: d.MaxStack,
		})
	}
	return lc
}
