package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/filmhub/internal/domain"
	"github.com/mmcdole/filmhub/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	contentHeight := m.Height - ChromeHeight
	var body string
	switch {
	case m.State == StateHelp:
		body = m.renderHelp()
	case m.State == StateDetail:
		body = m.renderDetail(m.Width)
	case m.Tab == TabStats:
		body = m.renderStats()
	default:
		body = m.activeList().View()
	}

	if modal := m.modalView(); modal != "" {
		body = lipgloss.Place(m.Width, contentHeight, lipgloss.Center, lipgloss.Center, modal)
	}

	body = lipgloss.NewStyle().Height(contentHeight).MaxHeight(contentHeight).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, m.renderTabs(), "", body, m.renderFooter())
}

func (m Model) modalView() string {
	switch {
	case m.ReviewForm.IsVisible():
		return m.ReviewForm.View()
	case m.SearchInput.IsVisible():
		return m.SearchInput.View()
	case m.GenrePicker.IsVisible():
		return m.GenrePicker.View()
	case m.SortModal.IsVisible():
		return m.SortModal.View()
	}
	return ""
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(tabOrder)+1)
	tabs = append(tabs, styles.TitleStyle.Render("filmhub "))
	for _, t := range tabOrder {
		label := t.String()
		switch t {
		case TabFavorites:
			label = fmt.Sprintf("%s (%d)", label, len(m.favorites))
		case TabWatched:
			label = fmt.Sprintf("%s (%d)", label, len(m.watched))
		}
		if t == m.Tab {
			tabs = append(tabs, styles.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, styles.InactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderFooter() string {
	if m.StatusMsg != "" {
		style := styles.SuccessStyle
		if m.StatusIsErr {
			style = styles.ErrorStyle
		}
		return style.Render(styles.Truncate(m.StatusMsg, m.Width))
	}

	var bindings []key.Binding
	switch {
	case m.State == StateDetail:
		bindings = []key.Binding{Keys.Back, Keys.Favorite, Keys.Review, Keys.RemoveWatched, Keys.Open, Keys.Quit}
	case m.Tab == TabBrowse:
		bindings = []key.Binding{Keys.Enter, Keys.Search, Keys.Sort, Keys.Genres, Keys.Refresh, Keys.NextTab, Keys.Help}
	case m.Tab == TabStats:
		bindings = []key.Binding{Keys.NextTab, Keys.Help, Keys.Quit}
	default:
		bindings = []key.Binding{Keys.Enter, Keys.Search, Keys.NextTab, Keys.Help}
	}
	return renderBindings(bindings)
}

func renderBindings(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, styles.HelpKeyStyle.Render(h.Key)+" "+styles.HelpDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderDetail(width int) string {
	if m.detailErr != nil {
		return RenderError(fmt.Errorf("could not load details: %w", m.detailErr), width) +
			"\n\n" + styles.DimStyle.Render("Press r to retry, esc to go back.")
	}
	d := m.detail
	if d == nil {
		return m.Spinner.View() + " Loading details..."
	}

	var b strings.Builder

	title := d.Title
	if y := d.Year(); y > 0 {
		title = fmt.Sprintf("%s (%d)", title, y)
	}
	b.WriteString(styles.TitleStyle.Render(title) + "\n")
	if d.Tagline != "" {
		b.WriteString(styles.SubtitleStyle.Italic(true).Render(d.Tagline) + "\n")
	}
	b.WriteString("\n")

	facts := []string{fmt.Sprintf("★ %.1f (%d votes)", d.VoteAverage, d.VoteCount)}
	if d.Runtime > 0 {
		facts = append(facts, fmt.Sprintf("%d min", d.Runtime))
	}
	if names := d.GenreNames(); len(names) > 0 {
		facts = append(facts, domain.EncodeGenres(names))
	}
	if d.Status != "" {
		facts = append(facts, d.Status)
	}
	b.WriteString(styles.SubtitleStyle.Render(strings.Join(facts, " · ")) + "\n\n")

	if d.Overview != "" {
		b.WriteString(wordWrap(d.Overview, min(width, 80)) + "\n\n")
	}

	switch {
	case !m.favoriteKnown:
		b.WriteString(styles.DimStyle.Render("…") + "\n")
	case m.detailFavorite != nil:
		b.WriteString(styles.AccentStyle.Render("♥ In favorites") + "\n")
	default:
		b.WriteString(styles.DimStyle.Render("♡ Not in favorites") + "\n")
	}

	if w := m.detailWatched; w != nil {
		b.WriteString(fmt.Sprintf("%s  watched %s\n",
			styles.RenderRating(w.Rating), w.WatchedAt.Format("Jan 2, 2006")))
		if w.Review != "" {
			b.WriteString(wordWrap(w.Review, min(width, 80)) + "\n")
		}
	} else {
		b.WriteString(styles.DimStyle.Render("Not reviewed") + "\n")
	}

	if poster := domain.ImageURL(m.imageBase, d.PosterPath); poster != "" {
		b.WriteString("\n" + styles.DimStyle.Render("Poster: "+poster) + "\n")
	}

	return b.String()
}

func (m Model) renderStats() string {
	s := m.summary
	if s.Count == 0 {
		return styles.DimStyle.Render("No movies watched yet.")
	}

	row := func(label, value string) string {
		return styles.SubtitleStyle.Render(styles.Pad(label, 16)) + styles.TitleStyle.Render(value)
	}

	top := "none"
	if len(s.TopGenres) > 0 {
		top = strings.Join(s.TopGenres, ", ")
	}

	return strings.Join([]string{
		styles.AccentStyle.Render("Your watching"),
		"",
		row("Movies watched", fmt.Sprintf("%d", s.Count)),
		row("Time watched", s.Duration()),
		row("Average rating", fmt.Sprintf("%.1f", s.AverageRating)),
		row("Top genres", top),
	}, "\n")
}

func (m Model) renderHelp() string {
	sections := []struct {
		title    string
		bindings []key.Binding
	}{
		{"Browse", []key.Binding{Keys.Enter, Keys.Search, Keys.Sort, Keys.Genres, Keys.Refresh, Keys.Escape}},
		{"Detail", []key.Binding{Keys.Favorite, Keys.Review, Keys.RemoveWatched, Keys.Open, Keys.Back}},
		{"General", []key.Binding{Keys.NextTab, Keys.PrevTab, Keys.Help, Keys.Quit}},
	}

	var b strings.Builder
	for _, s := range sections {
		b.WriteString(styles.AccentStyle.Render(s.title) + "\n")
		for _, kb := range s.bindings {
			h := kb.Help()
			b.WriteString("  " + styles.HelpKeyStyle.Render(styles.Pad(h.Key, 8)) + styles.HelpDescStyle.Render(h.Desc) + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(styles.DimStyle.Render("Lists: j/k move, G bottom, / filters favorites and watched"))
	return b.String()
}

// wordWrap wraps text at word boundaries
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if lipgloss.Width(line)+1+lipgloss.Width(w) > width {
				lines = append(lines, line)
				line = w
				continue
			}
			line += " " + w
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// RenderError renders an error message
func RenderError(err error, width int) string {
	return styles.ErrorStyle.Render(wordWrap("Error: "+err.Error(), width))
}
