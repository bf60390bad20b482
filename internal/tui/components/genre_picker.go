package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/filmhub/internal/domain"
	"github.com/mmcdole/filmhub/internal/search"
	"github.com/mmcdole/filmhub/internal/tui/styles"
)

const (
	genrePickerWidth   = 32
	genrePickerVisible = 10
)

// GenrePicker is a modal for choosing the discover genre filter. Typing
// narrows the list; tab toggles the genre under the cursor.
type GenrePicker struct {
	visible  bool
	input    textinput.Model
	genres   []domain.Genre
	shown    []domain.Genre
	selected map[int]bool
	cursor   int
	offset   int
}

// NewGenrePicker creates a hidden picker
func NewGenrePicker() GenrePicker {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "> "
	ti.CharLimit = 32
	ti.PromptStyle = styles.AccentStyle
	ti.PlaceholderStyle = styles.DimStyle

	return GenrePicker{
		input:    ti,
		selected: make(map[int]bool),
	}
}

// Show opens the picker over genres with selectedIDs pre-checked
func (m *GenrePicker) Show(genres []domain.Genre, selectedIDs []int) tea.Cmd {
	m.visible = true
	m.genres = genres
	m.selected = make(map[int]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		m.selected[id] = true
	}
	m.input.SetValue("")
	m.refilter()
	return m.input.Focus()
}

// SetGenres updates the vocabulary, e.g. when it finishes loading while open
func (m *GenrePicker) SetGenres(genres []domain.Genre) {
	m.genres = genres
	m.refilter()
}

// Hide dismisses the picker
func (m *GenrePicker) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible returns whether the picker is shown
func (m GenrePicker) IsVisible() bool {
	return m.visible
}

// SelectedIDs returns the checked genre ids in vocabulary order
func (m GenrePicker) SelectedIDs() []int {
	ids := []int{}
	for _, g := range m.genres {
		if m.selected[g.ID] {
			ids = append(ids, g.ID)
		}
	}
	return ids
}

// Update handles key presses, returns (picker, cmd, applied). When applied
// is true the caller should read SelectedIDs.
func (m GenrePicker) Update(msg tea.Msg) (GenrePicker, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, PickerKeys.Escape):
			m.Hide()
			return m, nil, false
		case key.Matches(keyMsg, PickerKeys.Enter):
			m.Hide()
			return m, nil, true
		case key.Matches(keyMsg, PickerKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			m.ensureVisible()
			return m, nil, false
		case key.Matches(keyMsg, PickerKeys.Down):
			if m.cursor < len(m.shown)-1 {
				m.cursor++
			}
			m.ensureVisible()
			return m, nil, false
		case key.Matches(keyMsg, PickerKeys.Toggle):
			if m.cursor < len(m.shown) {
				id := m.shown[m.cursor].ID
				if m.selected[id] {
					delete(m.selected, id)
				} else {
					m.selected[id] = true
				}
			}
			return m, nil, false
		case key.Matches(keyMsg, PickerKeys.Clear):
			m.selected = make(map[int]bool)
			return m, nil, false
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refilter()
	}
	return m, cmd, false
}

func (m *GenrePicker) refilter() {
	m.shown = search.RankGenres(m.input.Value(), m.genres)
	m.cursor = 0
	m.offset = 0
}

func (m *GenrePicker) ensureVisible() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+genrePickerVisible {
		m.offset = m.cursor - genrePickerVisible + 1
	}
}

// View renders the picker
func (m GenrePicker) View() string {
	if !m.visible {
		return ""
	}

	var lines []string
	lines = append(lines, m.input.View(), "")

	switch {
	case len(m.genres) == 0:
		lines = append(lines, styles.DimStyle.Render("Genres not loaded"))
	case len(m.shown) == 0:
		lines = append(lines, styles.DimStyle.Render("No matches"))
	}

	end := min(m.offset+genrePickerVisible, len(m.shown))
	for i := m.offset; i < end; i++ {
		g := m.shown[i]
		box := "[ ] "
		if m.selected[g.ID] {
			box = "[x] "
		}
		text := styles.Pad(box+g.Name, genrePickerWidth)

		style := lipgloss.NewStyle().Foreground(styles.Current.Muted)
		switch {
		case i == m.cursor:
			style = lipgloss.NewStyle().
				Foreground(styles.Current.Text).
				Background(styles.Current.Raised)
		case m.selected[g.ID]:
			style = lipgloss.NewStyle().Foreground(styles.Current.Accent)
		}
		lines = append(lines, style.Render(text))
	}

	help := styles.HelpKeyStyle.Render("tab") + styles.HelpDescStyle.Render(" toggle  ") +
		styles.HelpKeyStyle.Render("enter") + styles.HelpDescStyle.Render(" apply  ") +
		styles.HelpKeyStyle.Render("esc") + styles.HelpDescStyle.Render(" cancel")
	lines = append(lines, "", help)

	return styles.ModalStyle.Render(
		styles.ModalTitleStyle.Render("Genres") + "\n" + strings.Join(lines, "\n"),
	)
}
