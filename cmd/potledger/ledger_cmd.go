package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/lox/potledger/internal/fileutil"
	"github.com/lox/potledger/internal/ledger"
	"github.com/lox/potledger/internal/phh"
	"github.com/lox/potledger/internal/render"
	"github.com/lox/potledger/internal/statistics"
	"github.com/lox/potledger/internal/view"
)

// LedgerCmd replays every hand of a PHH session into per-stage ledgers.
type LedgerCmd struct {
	File     string `arg:"" name:"file" type:"existingfile" help:"Path to a .phh or .phhs file"`
	Limit    int    `help:"Maximum number of hands to replay (0 = all)"`
	Workers  int    `short:"w" help:"Parallel ledger builds (overrides config)"`
	Currency string `help:"Currency whose ladder breaks amounts into chips (default from config)"`
	JSON     bool   `help:"Emit JSON instead of tables"`
	Out      string `short:"o" type:"path" help:"Write output to this file instead of stdout"`
	Strict   bool   `help:"Exit non-zero when any hand has ledger defects"`
}

func (cmd *LedgerCmd) Run(g *Globals) error {
	cfg, logger, err := g.setup()
	if err != nil {
		return err
	}

	histories, err := phh.LoadFile(cmd.File)
	if err != nil {
		return err
	}
	if len(histories) == 0 {
		return fmt.Errorf("no hands found in %s", cmd.File)
	}
	if cmd.Limit > 0 && cmd.Limit < len(histories) {
		histories = histories[:cmd.Limit]
	}

	hands := make([]ledger.Hand, 0, len(histories))
	for i, h := range histories {
		hand, err := phh.ToHand(h)
		if err != nil {
			return fmt.Errorf("hand %d: %w", i+1, err)
		}
		hands = append(hands, hand)
	}

	ladder, valuePerChip, err := cfg.Currency(cmd.Currency)
	if err != nil {
		return err
	}
	svc, err := view.New(view.Options{
		Logger:       logger,
		Ladder:       ladder,
		ValuePerChip: valuePerChip,
	})
	if err != nil {
		return err
	}

	workers := cfg.Settings.Workers
	if cmd.Workers > 0 {
		workers = cmd.Workers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ledgers, err := ledger.BuildAll(ctx, svc.Builder(), hands, workers)
	if err != nil {
		return fmt.Errorf("building ledgers: %w", err)
	}

	tables := make([]view.Table, 0, len(hands))
	var session statistics.Session
	for i, hand := range hands {
		svc.Remember(hand, ledgers[i])
		table, err := svc.Table(hand)
		if err != nil {
			logger.Warn("Chip breakdown incomplete", "hand", hand.ID, "error", err)
		}
		session.Add(ledgers[i])
		tables = append(tables, table)
	}
	if err := session.Validate(); err != nil {
		logger.Warn("Session summary inconsistent", "error", err)
	}
	logger.Info("Replayed session",
		"file", cmd.File,
		"hands", session.Hands,
		"defective", session.Defective,
		"rake", session.TotalRake,
		"workers", workers)

	write := func(w io.Writer) error {
		if cmd.JSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(tables)
		}
		r := render.New(w, g.NoColor || cmd.Out != "")
		for _, t := range tables {
			if _, err := io.WriteString(w, r.Table(t)+"\n"); err != nil {
				return err
			}
		}
		if len(tables) > 1 {
			_, err := io.WriteString(w, r.Session(&session))
			return err
		}
		return nil
	}

	if cmd.Out != "" {
		if err := fileutil.WriteAtomic(cmd.Out, 0o644, write); err != nil {
			return err
		}
		logger.Info("Wrote ledgers", "path", cmd.Out)
	} else if err := write(g.stdout()); err != nil {
		return err
	}

	if cmd.Strict && session.Defective > 0 {
		return fmt.Errorf("%d of %d hands have ledger defects", session.Defective, session.Hands)
	}
	return nil
}
