package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/potledger/internal/config"
	"github.com/lox/potledger/internal/render"
)

// Globals are flags shared by every command.
type Globals struct {
	Config   string `short:"c" type:"path" default:"potledger.hcl" help:"Path to HCL configuration file"`
	Debug    bool   `help:"Enable debug logging"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	NoColor  bool   `env:"NO_COLOR" help:"Disable colour output"`

	Stdout io.Writer `kong:"-"`
	Stderr io.Writer `kong:"-"`
}

func (g *Globals) stdout() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Globals) stderr() io.Writer {
	if g.Stderr == nil {
		return os.Stderr
	}
	return g.Stderr
}

// setup loads configuration and builds the logger it asks for.
func (g *Globals) setup() (*config.Config, *log.Logger, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := log.NewWithOptions(g.stderr(), log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "potledger",
	})

	levelName := cfg.Settings.LogLevel
	if g.LogLevel != "" {
		levelName = g.LogLevel
	}
	level, err := log.ParseLevel(levelName)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", levelName, err)
	}
	if g.Debug {
		level = log.DebugLevel
	}
	logger.SetLevel(level)

	return cfg, logger, nil
}

func (g *Globals) renderer() *render.Renderer {
	return render.New(g.stdout(), g.NoColor)
}
