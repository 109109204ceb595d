package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lox/potledger/internal/chips"
)

// ChipsCmd breaks a currency amount into a physical chip stack.
type ChipsCmd struct {
	Amount   int    `arg:"" help:"Amount in the currency's smallest unit"`
	Currency string `help:"Currency code (default from config)"`
	JSON     bool   `help:"Emit JSON instead of text"`
}

type chipsResult struct {
	Currency string      `json:"currency"`
	Amount   int         `json:"amount"`
	Ladder   string      `json:"ladder"`
	Chips    int         `json:"chips"`
	Dust     int         `json:"dust"`
	Stack    chips.Stack `json:"stack"`
}

func (cmd *ChipsCmd) Run(g *Globals) error {
	cfg, logger, err := g.setup()
	if err != nil {
		return err
	}

	code := cmd.Currency
	if code == "" {
		code = cfg.Settings.DefaultCurrency
	}
	ladder, valuePerChip, err := cfg.Currency(code)
	if err != nil {
		return err
	}

	stack, dust, planErr := chips.NewPlanner(logger).Decompose(cmd.Amount, valuePerChip, ladder)
	var remainder *chips.RemainderError
	if planErr != nil && !errors.As(planErr, &remainder) {
		return planErr
	}

	code = strings.ToUpper(code)
	if cmd.JSON {
		enc := json.NewEncoder(g.stdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(chipsResult{
			Currency: code,
			Amount:   cmd.Amount,
			Ladder:   ladder.Name,
			Chips:    stack.Total(),
			Dust:     dust,
			Stack:    stack,
		}); err != nil {
			return err
		}
	} else if _, err := io.WriteString(g.stdout(), g.renderer().Decomposition(code, cmd.Amount, stack, dust)); err != nil {
		return err
	}

	if remainder != nil {
		return fmt.Errorf("partial stack shown: %w", remainder)
	}
	return nil
}
