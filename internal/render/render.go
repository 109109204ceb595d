// Package render formats ledger views and chip stacks for the terminal.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"

	"github.com/lox/potledger/internal/chips"
	"github.com/lox/potledger/internal/ledger"
	"github.com/lox/potledger/internal/statistics"
	"github.com/lox/potledger/internal/view"
)

const (
	colStage = iota
	colPot
	colBets
	colPayouts
	colRake
)

// Renderer formats views for one output.
type Renderer struct {
	lg     *lipgloss.Renderer
	styles *Styles
}

// New creates a renderer for w. With noColor set every style renders as
// plain text.
func New(w io.Writer, noColor bool) *Renderer {
	lg := lipgloss.NewRenderer(w)
	if noColor {
		lg.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{lg: lg, styles: NewStyles(lg)}
}

// Table renders one hand: a header, the per-stage ledger and any defects.
func (r *Renderer) Table(t view.Table) string {
	var b strings.Builder
	b.WriteString(r.styles.Header.Render("Hand " + t.HandID))
	b.WriteString("\n")

	rows := make([][]string, 0, len(t.Stages))
	for _, st := range t.Stages {
		rake := ""
		if len(st.Payouts) > 0 {
			rake = strconv.Itoa(st.Rake)
		}
		rows = append(rows, []string{
			st.Stage.String(),
			r.amount(st.StartingPot, st.PotStack, 0),
			r.seats(st.SeatBets),
			r.seats(st.Payouts),
			rake,
		})
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.styles.Separator).
		Headers("Stage", "Pot", "Bets", "Payouts", "Rake").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow, col == colStage:
				return r.styles.Stage
			case col == colPot:
				return r.styles.Pot
			case col == colPayouts:
				return r.styles.Winner
			case col == colRake:
				return r.styles.Rake
			default:
				return r.styles.Cell
			}
		})
	b.WriteString(tbl.Render())
	b.WriteString("\n")
	fmt.Fprintf(&b, "Total rake: %d\n", t.Rake)

	if len(t.Defects) > 0 {
		b.WriteString(r.Defects(t.Defects))
	}
	return b.String()
}

// Session renders a session summary.
func (r *Renderer) Session(s *statistics.Session) string {
	rows := [][]string{
		{"Hands", strconv.Itoa(s.Hands)},
		{"Defective hands", strconv.Itoa(s.Defective)},
		{"Total rake", strconv.Itoa(s.TotalRake)},
		{"Rake per hand", fmt.Sprintf("%.2f ± %.2f", s.MeanRake(), s.RakeStdDev())},
		{"Median pot", fmt.Sprintf("%.0f", s.MedianPot())},
		{"90th percentile pot", fmt.Sprintf("%.0f", s.PotPercentile(0.9))},
		{"Largest pot", fmt.Sprintf("%d (%s)", s.MaxPot, s.MaxPotHand)},
	}
	for _, st := range ledger.Stages {
		if n := s.Ended[st]; n > 0 {
			rows = append(rows, []string{"Ended at " + st.String(), strconv.Itoa(n)})
		}
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.styles.Separator).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return r.styles.Stage
			}
			return r.styles.Cell
		})
	return r.styles.Header.Render("Session") + "\n" + tbl.Render() + "\n"
}

// Defects renders one line per defect.
func (r *Renderer) Defects(defects []ledger.Defect) string {
	var b strings.Builder
	for _, d := range defects {
		b.WriteString(r.styles.Defect.Render("! " + d.String()))
		b.WriteString("\n")
	}
	return b.String()
}

// Stack renders a chip stack as denomination×count runs, one styled group
// per category.
func (r *Renderer) Stack(s chips.Stack) string {
	if len(s) == 0 {
		return "-"
	}
	groups := make([]string, 0, len(s))
	for _, g := range s {
		groups = append(groups, r.group(g))
	}
	return strings.Join(groups, r.styles.Separator.Render(" | "))
}

// Decomposition renders the result of a currency decomposition.
func (r *Renderer) Decomposition(currency string, amount int, s chips.Stack, dust int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d = %d chips in %d pieces\n", currency, amount, s.Total(), s.Count())
	for _, g := range s {
		fmt.Fprintf(&b, "  %-6s %s\n", g.Category, r.group(g))
	}
	if dust > 0 {
		fmt.Fprintf(&b, "  dust   %d\n", dust)
	}
	return b.String()
}

func (r *Renderer) group(g chips.Group) string {
	runs := make([]string, 0, len(g.Entries))
	for _, e := range g.Entries {
		runs = append(runs, fmt.Sprintf("%d×%d", e.Denomination, e.Count))
	}
	style, ok := r.styles.Category[g.Category.String()]
	if !ok {
		style = r.styles.Cell
	}
	return style.Render(strings.Join(runs, " "))
}

func (r *Renderer) amount(amount int, s chips.Stack, dust int) string {
	out := strconv.Itoa(amount)
	if amount > 0 {
		out += " [" + r.Stack(s) + "]"
	}
	if dust > 0 {
		out += fmt.Sprintf(" +%d", dust)
	}
	return out
}

func (r *Renderer) seats(amounts []view.SeatAmount) string {
	if len(amounts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(amounts))
	for _, a := range amounts {
		lines = append(lines, fmt.Sprintf("seat %d: %s", a.Seat, r.amount(a.Amount, a.Stack, a.Dust)))
	}
	return strings.Join(lines, "\n")
}
