package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/filmhub/internal/search"
	"github.com/mmcdole/filmhub/internal/tui/styles"
)

// Layout constants for lists
const (
	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2
	titleLines           = 1
	minRowWidth          = 10
)

// Row is one line of a MovieList.
type Row struct {
	MovieID int
	Title   string
	Meta    string // right-aligned, e.g. year and rating

	matched []int
}

// MovieList is a scrollable list of movies with an optional local fuzzy filter.
type MovieList struct {
	title string
	rows  []Row
	shown []Row // rows after filtering

	cursor     int
	offset     int
	maxVisible int
	width      int
	height     int

	loading    bool
	spinner    string
	emptyText  string
	footerText string

	filterable   bool
	filterActive bool
	filterInput  textinput.Model
}

// NewMovieList creates an empty list. Filterable lists accept "/" to filter
// their rows by title.
func NewMovieList(title string, filterable bool) *MovieList {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter..."
	ti.CharLimit = 64
	ti.PromptStyle = styles.AccentStyle
	ti.PlaceholderStyle = styles.DimStyle

	return &MovieList{
		title:       title,
		emptyText:   "No items",
		filterable:  filterable,
		filterInput: ti,
	}
}

// SetRows replaces the rows, keeping the cursor on the same position.
func (l *MovieList) SetRows(rows []Row) {
	l.rows = rows
	l.applyFilter(false)
}

// SetSize sets the outer dimensions.
func (l *MovieList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.recalcMaxVisible()
	l.ensureVisible()
}

// SetTitle sets the header line.
func (l *MovieList) SetTitle(title string) { l.title = title }

// SetLoading shows a loading line in place of the rows.
func (l *MovieList) SetLoading(loading bool, spinner string) {
	l.loading = loading
	l.spinner = spinner
}

// SetEmptyText sets what an empty list shows.
func (l *MovieList) SetEmptyText(text string) { l.emptyText = text }

// SetFooter sets a status line shown below the rows, e.g. "loading more".
func (l *MovieList) SetFooter(text string) { l.footerText = text }

// ScrollTop moves the cursor to the first row.
func (l *MovieList) ScrollTop() {
	l.cursor = 0
	l.offset = 0
}

// Len returns the number of visible rows.
func (l *MovieList) Len() int { return len(l.shown) }

// Cursor returns the selected row index.
func (l *MovieList) Cursor() int { return l.cursor }

// Selected returns the row under the cursor.
func (l *MovieList) Selected() (Row, bool) {
	if l.cursor < 0 || l.cursor >= len(l.shown) {
		return Row{}, false
	}
	return l.shown[l.cursor], true
}

// NearEnd reports whether the cursor is within margin rows of the last row.
func (l *MovieList) NearEnd(margin int) bool {
	return len(l.shown) > 0 && l.cursor >= len(l.shown)-1-margin
}

// IsFiltering returns true if a filter is applied
func (l *MovieList) IsFiltering() bool { return l.filterActive }

// IsFilterTyping returns true if the filter input has focus
func (l *MovieList) IsFilterTyping() bool {
	return l.filterActive && l.filterInput.Focused()
}

// ClearFilter removes the filter and shows every row.
func (l *MovieList) ClearFilter() {
	l.filterActive = false
	l.filterInput.SetValue("")
	l.filterInput.Blur()
	l.recalcMaxVisible()
	l.applyFilter(true)
}

// Update handles navigation and filter keys.
func (l *MovieList) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if l.IsFilterTyping() {
			var cmd tea.Cmd
			l.filterInput, cmd = l.filterInput.Update(msg)
			return cmd
		}
		return nil
	}

	if l.IsFilterTyping() {
		switch {
		case key.Matches(keyMsg, ListKeys.Escape):
			l.ClearFilter()
			return nil
		case key.Matches(keyMsg, ListKeys.Enter):
			l.filterInput.Blur()
			return nil
		case keyMsg.String() == "backspace" && l.filterInput.Value() == "":
			l.ClearFilter()
			return nil
		}
		var cmd tea.Cmd
		l.filterInput, cmd = l.filterInput.Update(msg)
		l.applyFilter(true)
		return cmd
	}

	switch {
	case l.filterable && key.Matches(keyMsg, ListKeys.Filter):
		l.filterActive = true
		l.recalcMaxVisible()
		return l.filterInput.Focus()
	case l.filterActive && key.Matches(keyMsg, ListKeys.Escape):
		l.ClearFilter()
		return nil
	}

	count := len(l.shown)
	if count == 0 {
		return nil
	}

	switch {
	case key.Matches(keyMsg, ListKeys.Down):
		if l.cursor < count-1 {
			l.cursor++
		}
	case key.Matches(keyMsg, ListKeys.Up):
		if l.cursor > 0 {
			l.cursor--
		}
	case key.Matches(keyMsg, ListKeys.Home):
		l.cursor = 0
	case key.Matches(keyMsg, ListKeys.End):
		l.cursor = count - 1
	case key.Matches(keyMsg, ListKeys.HalfDown):
		l.cursor = min(l.cursor+max(l.maxVisible/2, 1), count-1)
	case key.Matches(keyMsg, ListKeys.HalfUp):
		l.cursor = max(l.cursor-max(l.maxVisible/2, 1), 0)
	}
	l.ensureVisible()
	return nil
}

// View renders the list at its set size.
func (l *MovieList) View() string {
	width := max(l.width, minRowWidth)
	titleLine := styles.AccentStyle.Render(styles.Truncate(l.title, width))

	if l.loading {
		return titleLine + "\n \n" + styles.DimStyle.Render(l.spinner+" Loading...")
	}

	if len(l.shown) == 0 {
		empty := l.emptyText
		if l.filterActive && l.filterInput.Value() != "" {
			empty = "No matches"
		}
		content := titleLine + "\n \n" + styles.DimStyle.Render(empty)
		if l.filterActive {
			content += "\n" + l.renderFilterBar()
		}
		return content
	}

	end := min(l.offset+l.maxVisible, len(l.shown))
	lines := make([]string, 0, end-l.offset)
	for i := l.offset; i < end; i++ {
		lines = append(lines, l.renderRow(l.shown[i], i == l.cursor, width))
	}

	// Reserve both indicator lines so the layout does not shift while scrolling.
	header := " "
	if l.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < len(l.shown) {
		footer = styles.DimStyle.Render("↓ more")
	}
	if l.footerText != "" {
		footer = styles.DimStyle.Render(l.footerText)
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if l.filterActive {
		content += "\n" + l.renderFilterBar()
	}
	return content
}

func (l *MovieList) renderRow(r Row, selected bool, width int) string {
	metaWidth := lipgloss.Width(r.Meta)
	titleWidth := width - metaWidth - 4
	if titleWidth < 1 {
		titleWidth = 1
	}

	title := styles.Truncate(r.Title, titleWidth)
	parts := highlightParts(title, r.matched)
	gap := width - 2 - lipgloss.Width(title) - metaWidth
	if gap > 0 {
		parts = append(parts, styles.RowPart{Text: strings.Repeat(" ", gap)})
	}
	dim := styles.Current.Dim
	parts = append(parts, styles.RowPart{Text: r.Meta, Foreground: &dim})

	return styles.RenderListRow(parts, selected, width)
}

// highlightParts splits title into runs, coloring the matched byte offsets.
func highlightParts(title string, matched []int) []styles.RowPart {
	if len(matched) == 0 {
		return []styles.RowPart{{Text: title}}
	}

	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}

	accent := styles.Current.Accent
	var parts []styles.RowPart
	var run strings.Builder
	runHit := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		part := styles.RowPart{Text: run.String()}
		if runHit {
			part.Foreground = &accent
		}
		parts = append(parts, part)
		run.Reset()
	}

	for i, r := range title {
		if hit[i] != runHit {
			flush()
			runHit = hit[i]
		}
		run.WriteRune(r)
	}
	flush()
	return parts
}

func (l *MovieList) renderFilterBar() string {
	bar := l.filterInput.View()
	if q := l.filterInput.Value(); q != "" {
		bar += styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", len(l.shown), len(l.rows)))
	}
	return bar
}

func (l *MovieList) recalcMaxVisible() {
	l.maxVisible = l.height - titleLines - ScrollIndicatorLines
	if l.filterActive {
		l.maxVisible--
	}
	if l.maxVisible < 1 {
		l.maxVisible = 1
	}
}

func (l *MovieList) ensureVisible() {
	if l.maxVisible <= 0 {
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.maxVisible {
		l.offset = l.cursor - l.maxVisible + 1
	}
}

// applyFilter recomputes the shown rows. reset moves the cursor to the top.
func (l *MovieList) applyFilter(reset bool) {
	query := l.filterInput.Value()
	if !l.filterActive || strings.TrimSpace(query) == "" {
		l.shown = make([]Row, len(l.rows))
		for i, r := range l.rows {
			r.matched = nil
			l.shown[i] = r
		}
	} else {
		entries := make([]search.Entry, len(l.rows))
		for i, r := range l.rows {
			entries[i] = search.Entry{MovieID: r.MovieID, Title: r.Title}
		}
		byID := make(map[int]Row, len(l.rows))
		for _, r := range l.rows {
			byID[r.MovieID] = r
		}

		results := search.Filter(query, entries)
		l.shown = make([]Row, len(results))
		for i, res := range results {
			r := byID[res.MovieID]
			r.matched = res.MatchedIndexes
			l.shown[i] = r
		}
	}

	if reset {
		l.cursor = 0
		l.offset = 0
	}
	if l.cursor >= len(l.shown) {
		l.cursor = max(len(l.shown)-1, 0)
	}
	l.ensureVisible()
}
