package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette is one color scheme.
type Palette struct {
	Accent    lipgloss.Color
	Surface   lipgloss.Color
	Raised    lipgloss.Color
	Dim       lipgloss.Color
	Muted     lipgloss.Color
	Text      lipgloss.Color
	Success   lipgloss.Color
	Danger    lipgloss.Color
	Highlight lipgloss.Color
}

var (
	Dark = Palette{
		Accent:    lipgloss.Color("#01B4E4"),
		Surface:   lipgloss.Color("#0D253F"),
		Raised:    lipgloss.Color("#1E3A5F"),
		Dim:       lipgloss.Color("#6B7280"),
		Muted:     lipgloss.Color("#9CA3AF"),
		Text:      lipgloss.Color("#F9FAFB"),
		Success:   lipgloss.Color("#90CEA1"),
		Danger:    lipgloss.Color("#EF4444"),
		Highlight: lipgloss.Color("#F5C518"),
	}

	Light = Palette{
		Accent:    lipgloss.Color("#0277BD"),
		Surface:   lipgloss.Color("#F3F4F6"),
		Raised:    lipgloss.Color("#DBEAFE"),
		Dim:       lipgloss.Color("#9CA3AF"),
		Muted:     lipgloss.Color("#4B5563"),
		Text:      lipgloss.Color("#111827"),
		Success:   lipgloss.Color("#047857"),
		Danger:    lipgloss.Color("#B91C1C"),
		Highlight: lipgloss.Color("#B45309"),
	}
)

// Current is the palette in use.
var Current Palette

// Text styles
var (
	TitleStyle     lipgloss.Style
	SubtitleStyle  lipgloss.Style
	DimStyle       lipgloss.Style
	AccentStyle    lipgloss.Style
	ErrorStyle     lipgloss.Style
	SuccessStyle   lipgloss.Style
	RatingStyle    lipgloss.Style
	HighlightStyle lipgloss.Style
)

// Tab bar
var (
	ActiveTabStyle   lipgloss.Style
	InactiveTabStyle lipgloss.Style
)

// List rows
var (
	SelectedItemStyle           lipgloss.Style
	NormalItemStyle             lipgloss.Style
	MatchHighlightStyle         lipgloss.Style
	MatchHighlightSelectedStyle lipgloss.Style
)

// Modals
var (
	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
)

// Help
var (
	HelpKeyStyle  lipgloss.Style
	HelpDescStyle lipgloss.Style
	SpinnerStyle  lipgloss.Style
)

func init() {
	Use(Dark)
}

// Apply selects the palette for a theme preference: "light", "dark", or
// anything else to follow the terminal background.
func Apply(theme string) {
	switch theme {
	case "light":
		Use(Light)
	case "dark":
		Use(Dark)
	default:
		if lipgloss.HasDarkBackground() {
			Use(Dark)
		} else {
			Use(Light)
		}
	}
}

// Use rebuilds every style from p.
func Use(p Palette) {
	Current = p

	TitleStyle = lipgloss.NewStyle().Foreground(p.Text).Bold(true)
	SubtitleStyle = lipgloss.NewStyle().Foreground(p.Muted)
	DimStyle = lipgloss.NewStyle().Foreground(p.Dim)
	AccentStyle = lipgloss.NewStyle().Foreground(p.Accent)
	ErrorStyle = lipgloss.NewStyle().Foreground(p.Danger)
	SuccessStyle = lipgloss.NewStyle().Foreground(p.Success)
	RatingStyle = lipgloss.NewStyle().Foreground(p.Highlight)
	HighlightStyle = lipgloss.NewStyle().
		Foreground(p.Text).
		Background(p.Accent).
		Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
		Foreground(p.Surface).
		Background(p.Accent).
		Bold(true).
		Padding(0, 1)
	InactiveTabStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Padding(0, 1)

	SelectedItemStyle = lipgloss.NewStyle().
		Foreground(p.Text).
		Background(p.Raised).
		Padding(0, 1)
	NormalItemStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Padding(0, 1)
	MatchHighlightStyle = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)
	MatchHighlightSelectedStyle = lipgloss.NewStyle().
		Foreground(p.Accent).
		Background(p.Raised).
		Bold(true)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent).
		Padding(1, 2).
		Background(p.Surface)
	ModalTitleStyle = lipgloss.NewStyle().
		Foreground(p.Text).
		Bold(true).
		MarginBottom(1)

	HelpKeyStyle = lipgloss.NewStyle().Foreground(p.Accent)
	HelpDescStyle = lipgloss.NewStyle().Foreground(p.Dim)
	SpinnerStyle = lipgloss.NewStyle().Foreground(p.Accent)
}

// Truncate truncates a string to the given width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// Pad pads a string to the given width
func Pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return Truncate(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}

// RenderRating renders a 0-5 rating as stars.
func RenderRating(rating float64) string {
	full := int(rating)
	half := rating-float64(full) >= 0.5
	var b strings.Builder
	for i := 0; i < 5; i++ {
		switch {
		case i < full:
			b.WriteString("★")
		case i == full && half:
			b.WriteString("½")
		default:
			b.WriteString("☆")
		}
	}
	return RatingStyle.Render(b.String())
}

// RowPart represents a part of a row with optional foreground color
type RowPart struct {
	Text       string
	Foreground *lipgloss.Color
}

// RenderListRow renders a list row with a uniform background when selected.
// Each part is styled on its own so inner resets do not clear the background.
func RenderListRow(parts []RowPart, selected bool, width int) string {
	var b strings.Builder
	visible := 0

	for _, part := range parts {
		style := lipgloss.NewStyle()
		switch {
		case part.Foreground != nil:
			style = style.Foreground(*part.Foreground)
		case selected:
			style = style.Foreground(Current.Text)
		default:
			style = style.Foreground(Current.Muted)
		}
		if selected {
			style = style.Background(Current.Raised)
		}
		b.WriteString(style.Render(part.Text))
		visible += lipgloss.Width(part.Text)
	}

	pad := lipgloss.NewStyle()
	if selected {
		pad = pad.Background(Current.Raised)
	}
	if n := width - visible - 2; n > 0 {
		b.WriteString(pad.Render(strings.Repeat(" ", n)))
	}
	margin := pad.Render(" ")
	return margin + b.String() + margin
}
