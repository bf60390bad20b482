package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/filmhub/internal/browse"
	"github.com/mmcdole/filmhub/internal/domain"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Route to active modal if any
	if m.modalVisible() {
		return m.routeToModal(msg)
	}

	// A list filter being typed takes every key
	if l := m.activeList(); m.State == StateBrowsing && l != nil && l.IsFilterTyping() {
		return m, l.Update(msg)
	}

	switch m.State {
	case StateHelp:
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.State = StateBrowsing
		}
		return m, nil

	case StateDetail:
		return m.handleDetailKey(msg)
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.NextTab):
		m.Tab = tabOrder[(int(m.Tab)+1)%len(tabOrder)]
		return m, nil

	case key.Matches(msg, Keys.PrevTab):
		m.Tab = tabOrder[(int(m.Tab)+len(tabOrder)-1)%len(tabOrder)]
		return m, nil
	}

	switch m.Tab {
	case TabBrowse:
		return m.handleBrowseKey(msg)
	case TabFavorites, TabWatched:
		l := m.activeList()
		if key.Matches(msg, Keys.Enter) {
			if row, ok := l.Selected(); ok {
				m.openDetail(row.MovieID)
			}
			return m, nil
		}
		return m, l.Update(msg)
	}
	return m, nil
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Search):
		return m, m.SearchInput.Show("Search movies", m.results.Query, "title...")

	case key.Matches(msg, Keys.Sort):
		if m.results.Mode() == browse.ModeSearch {
			return m, m.setStatus("Sorting applies to discover; press esc to leave search", false)
		}
		m.SortModal.Show(m.results.Filters.Sort)
		return m, nil

	case key.Matches(msg, Keys.Genres):
		if len(m.genres) == 0 {
			m.browse.RetryGenres()
			return m, m.setStatus("Loading genres...", false)
		}
		return m, m.GenrePicker.Show(m.genres, m.results.Filters.GenreIDs)

	case key.Matches(msg, Keys.Refresh):
		if m.genreErr != nil {
			m.browse.RetryGenres()
		}
		m.browse.Refresh()
		return m, nil

	case key.Matches(msg, Keys.Escape):
		if m.results.Mode() == browse.ModeSearch {
			m.browse.ApplySearch("")
		}
		return m, nil

	case key.Matches(msg, Keys.Enter):
		if row, ok := m.BrowseList.Selected(); ok {
			m.openDetail(row.MovieID)
		}
		return m, nil
	}

	cmd := m.BrowseList.Update(msg)
	m.maybeLoadMore()
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Back):
		m.State = StateBrowsing
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		if m.detailErr != nil {
			m.openDetail(m.detailID)
		}
		return m, nil

	case key.Matches(msg, Keys.Favorite):
		if m.detail == nil || !m.favoriteKnown {
			return m, nil
		}
		text := "Added to favorites"
		if m.detailFavorite != nil {
			text = "Removed from favorites"
		}
		return m, AwaitWriteCmd(m.details.ToggleFavorite(), text)

	case key.Matches(msg, Keys.Review):
		if m.detail == nil {
			return m, nil
		}
		draft := m.details.ReviewDraft()
		return m, m.ReviewForm.Show(m.detail.Title, draft.Rating, draft.Review, draft.Editing)

	case key.Matches(msg, Keys.RemoveWatched):
		if m.detailWatched == nil {
			return m, nil
		}
		return m, AwaitWriteCmd(m.details.RemoveWatched(), "Review removed")

	case key.Matches(msg, Keys.Open):
		if m.opener == nil || m.webBase == "" {
			return m, nil
		}
		return m, OpenLinkCmd(m.opener, domain.MoviePageURL(m.webBase, m.detailID))
	}
	return m, nil
}

func (m Model) modalVisible() bool {
	return m.ReviewForm.IsVisible() || m.SearchInput.IsVisible() ||
		m.GenrePicker.IsVisible() || m.SortModal.IsVisible()
}

// routeToModal sends msg to the visible modal, if any.
func (m Model) routeToModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch {
	case m.ReviewForm.IsVisible():
		form, cmd, review := m.ReviewForm.Update(msg)
		m.ReviewForm = form
		if review == nil {
			return m, cmd
		}
		done, err := m.details.SaveWatched(review.Rating, review.Text)
		if err != nil {
			m.ReviewForm.SetError(err.Error())
			return m, nil
		}
		m.ReviewForm.Hide()
		return m, AwaitWriteCmd(done, "Review saved")

	case m.SearchInput.IsVisible():
		input, cmd, submitted := m.SearchInput.Update(msg)
		m.SearchInput = input
		if submitted {
			m.browse.ApplySearch(input.Value())
		}
		return m, cmd

	case m.GenrePicker.IsVisible():
		picker, cmd, applied := m.GenrePicker.Update(msg)
		m.GenrePicker = picker
		if applied {
			f := browse.Filters{Sort: m.results.Filters.Sort, GenreIDs: picker.SelectedIDs()}
			if err := m.browse.ApplyFilters(f); err != nil {
				return m, m.setStatus(err.Error(), true)
			}
		}
		return m, cmd

	case m.SortModal.IsVisible():
		keyMsg, ok := msg.(tea.KeyMsg)
		if !ok {
			return m, nil
		}
		_, sel := m.SortModal.HandleKey(keyMsg.String())
		if sel != nil {
			f := browse.Filters{Sort: *sel, GenreIDs: m.results.Filters.GenreIDs}
			if err := m.browse.ApplyFilters(f); err != nil {
				return m, m.setStatus(err.Error(), true)
			}
		}
		return m, nil
	}

	// Cursor blink for an inline list filter
	if l := m.activeList(); l != nil && l.IsFilterTyping() {
		return m, l.Update(msg)
	}
	return m, nil
}
