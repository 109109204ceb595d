package render

import "github.com/charmbracelet/lipgloss"

// Styles contains styling for ledger output.
type Styles struct {
	Header    lipgloss.Style
	Stage     lipgloss.Style
	Cell      lipgloss.Style
	Pot       lipgloss.Style
	Winner    lipgloss.Style
	Rake      lipgloss.Style
	Defect    lipgloss.Style
	Separator lipgloss.Style
	Category  map[string]lipgloss.Style
}

// NewStyles creates styles bound to renderer r, so a colourless renderer
// yields plain text.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header: r.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true),
		Stage: r.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Padding(0, 1).
			Bold(true),
		Cell: r.NewStyle().
			Padding(0, 1),
		Pot: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Padding(0, 1),
		Winner: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Padding(0, 1).
			Bold(true),
		Rake: r.NewStyle().
			Foreground(lipgloss.Color("#74B9FF")).
			Padding(0, 1),
		Defect: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		Separator: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Category: map[string]lipgloss.Style{
			"small": r.NewStyle().Foreground(lipgloss.Color("#FAFAFA")),
			"big":   r.NewStyle().Foreground(lipgloss.Color("#FFEAA7")),
			"card":  r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		},
	}
}
