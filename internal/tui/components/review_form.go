package components

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/filmhub/internal/tui/styles"
)

const reviewFormWidth = 50

// Review is a submitted review form.
type Review struct {
	Rating float64
	Text   string
}

// ReviewForm collects a rating and a free-text review.
type ReviewForm struct {
	visible bool
	title   string
	rating  textinput.Model
	review  textarea.Model
	focus   int // 0 rating, 1 review
	err     string
}

// NewReviewForm creates a hidden form
func NewReviewForm() ReviewForm {
	ti := textinput.New()
	ti.Placeholder = "0-5"
	ti.Prompt = "Rating: "
	ti.CharLimit = 4
	ti.PromptStyle = styles.AccentStyle
	ti.PlaceholderStyle = styles.DimStyle

	ta := textarea.New()
	ta.Placeholder = "What did you think?"
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetWidth(reviewFormWidth)
	ta.SetHeight(5)

	return ReviewForm{rating: ti, review: ta}
}

// Show opens the form, pre-filled when editing an existing review
func (m *ReviewForm) Show(title string, rating float64, review string, editing bool) tea.Cmd {
	m.visible = true
	m.title = title
	m.err = ""
	m.rating.SetValue("")
	m.review.SetValue("")
	if editing {
		m.rating.SetValue(strconv.FormatFloat(rating, 'f', -1, 64))
		m.review.SetValue(review)
	}
	m.focus = 0
	m.review.Blur()
	return m.rating.Focus()
}

// Hide dismisses the form
func (m *ReviewForm) Hide() {
	m.visible = false
	m.rating.Blur()
	m.review.Blur()
}

// IsVisible returns whether the form is shown
func (m ReviewForm) IsVisible() bool {
	return m.visible
}

// SetError shows a message under the fields, e.g. a rejected rating
func (m *ReviewForm) SetError(msg string) {
	m.err = msg
}

// Update handles key presses, returns (form, cmd, submitted review).
// ctrl+s submits; tab switches fields.
func (m ReviewForm) Update(msg tea.Msg) (ReviewForm, tea.Cmd, *Review) {
	if !m.visible {
		return m, nil, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.Hide()
			return m, nil, nil
		case "tab", "shift+tab":
			return m, m.switchFocus(), nil
		case "enter":
			if m.focus == 0 {
				return m, m.switchFocus(), nil
			}
		case "ctrl+s":
			r, err := m.parse()
			if err != nil {
				m.err = err.Error()
				return m, nil, nil
			}
			return m, nil, &r
		}
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.rating, cmd = m.rating.Update(msg)
	} else {
		m.review, cmd = m.review.Update(msg)
	}
	return m, cmd, nil
}

func (m *ReviewForm) switchFocus() tea.Cmd {
	if m.focus == 0 {
		m.focus = 1
		m.rating.Blur()
		return m.review.Focus()
	}
	m.focus = 0
	m.review.Blur()
	return m.rating.Focus()
}

func (m ReviewForm) parse() (Review, error) {
	raw := strings.TrimSpace(m.rating.Value())
	if raw == "" {
		return Review{}, errors.New("rating is required")
	}
	rating, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Review{}, errors.New("rating must be a number")
	}
	return Review{Rating: rating, Text: m.review.Value()}, nil
}

// View renders the form
func (m ReviewForm) View() string {
	if !m.visible {
		return ""
	}

	title := lipgloss.NewStyle().
		Foreground(styles.Current.Text).
		Bold(true).
		Width(reviewFormWidth).
		Render(m.title)

	lines := []string{title, "", m.rating.View(), "", m.review.View()}
	if m.err != "" {
		lines = append(lines, "", styles.ErrorStyle.Render(m.err))
	}
	help := styles.HelpKeyStyle.Render("tab") + styles.HelpDescStyle.Render(" next field  ") +
		styles.HelpKeyStyle.Render("C-s") + styles.HelpDescStyle.Render(" save  ") +
		styles.HelpKeyStyle.Render("esc") + styles.HelpDescStyle.Render(" cancel")
	lines = append(lines, "", help)

	return styles.ModalStyle.Render(strings.Join(lines, "\n"))
}
