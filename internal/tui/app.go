// Package tui is the terminal interface: a Bubble Tea program over the
// browse, detail and library controllers.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/filmhub/internal/analytics"
	"github.com/mmcdole/filmhub/internal/browse"
	"github.com/mmcdole/filmhub/internal/detail"
	"github.com/mmcdole/filmhub/internal/domain"
	"github.com/mmcdole/filmhub/internal/library"
	"github.com/mmcdole/filmhub/internal/observe"
	"github.com/mmcdole/filmhub/internal/tui/components"
	"github.com/mmcdole/filmhub/internal/tui/styles"
)

// Browser is the result-list controller the Browse tab drives.
type Browser interface {
	Results() *observe.Value[browse.State]
	Genres() *observe.Value[[]domain.Genre]
	GenreErrors() *observe.Value[error]
	Start()
	Refresh()
	ApplyFilters(f browse.Filters) error
	ApplySearch(query string)
	LoadMore() bool
	RetryGenres()
}

// Library is the read side of the local store.
type Library interface {
	Favorites() *observe.Value[[]domain.Favorite]
	Watched() *observe.Value[[]domain.WatchedMovie]
	Failures() *observe.Value[library.WriteFailure]
}

// Details is the detail-screen controller.
type Details interface {
	Detail() *observe.Value[*domain.MovieDetail]
	Favorite() *observe.Value[*domain.Favorite]
	Watched() *observe.Value[*domain.WatchedMovie]
	LoadErrors() *observe.Value[error]
	Load(movieID int)
	ToggleFavorite() <-chan error
	SaveWatched(rating float64, review string) (<-chan error, error)
	RemoveWatched() <-chan error
	ReviewDraft() detail.Draft
}

// LinkOpener opens a URL outside the terminal.
type LinkOpener interface {
	Open(url string) error
}

// Deps are the collaborators a Model is built from.
type Deps struct {
	Browse    Browser
	Library   Library
	Detail    Details
	Opener    LinkOpener // optional
	ImageBase string
	WebBase   string
	Logger    *slog.Logger
}

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateDetail
	StateHelp
)

// Tab is one top-level screen.
type Tab int

const (
	TabBrowse Tab = iota
	TabFavorites
	TabWatched
	TabStats
)

var tabOrder = []Tab{TabBrowse, TabFavorites, TabWatched, TabStats}

func (t Tab) String() string {
	switch t {
	case TabBrowse:
		return "Browse"
	case TabFavorites:
		return "Favorites"
	case TabWatched:
		return "Watched"
	case TabStats:
		return "Stats"
	default:
		return "Unknown"
	}
}

const (
	// Tab bar, blank line and footer
	ChromeHeight = 3

	// Rows from the end of the list at which the next page is requested
	loadMoreMargin = 3

	statusDuration      = 3 * time.Second
	errorStatusDuration = 6 * time.Second
)

// Model is the main Bubble Tea model for the application
type Model struct {
	State ApplicationState
	Tab   Tab
	Ready bool

	Width  int
	Height int

	browse    Browser
	lib       Library
	details   Details
	opener    LinkOpener
	relay     *Relay
	imageBase string
	webBase   string
	logger    *slog.Logger

	// Browse data
	results    browse.State
	generation uint64
	genres     []domain.Genre
	genreErr   error

	// Library data
	favorites []domain.Favorite
	watched   []domain.WatchedMovie
	summary   analytics.Summary

	// Detail screen
	detailID       int
	detail         *domain.MovieDetail
	detailFavorite *domain.Favorite
	favoriteKnown  bool
	detailWatched  *domain.WatchedMovie
	detailErr      error

	// UI Components
	BrowseList    *components.MovieList
	FavoritesList *components.MovieList
	WatchedList   *components.MovieList
	SortModal     components.SortModal
	GenrePicker   components.GenrePicker
	SearchInput   components.InputModal
	ReviewForm    components.ReviewForm
	Spinner       spinner.Model

	StatusMsg   string
	StatusIsErr bool
	statusSeq   int
}

// NewModel creates the application model and subscribes it to every
// controller cell. Call Close when the program exits.
func NewModel(deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	favorites := components.NewMovieList("Favorites", true)
	favorites.SetEmptyText("No favorites yet. Press f on a movie to add one.")
	watched := components.NewMovieList("Watched", true)
	watched.SetEmptyText("Nothing watched yet. Press w on a movie to review it.")

	m := Model{
		State:         StateBrowsing,
		Tab:           TabBrowse,
		browse:        deps.Browse,
		lib:           deps.Library,
		details:       deps.Detail,
		opener:        deps.Opener,
		relay:         NewRelay(),
		imageBase:     deps.ImageBase,
		webBase:       deps.WebBase,
		logger:        logger,
		BrowseList:    components.NewMovieList("Discover", false),
		FavoritesList: favorites,
		WatchedList:   watched,
		SortModal:     components.NewSortModal(),
		GenrePicker:   components.NewGenrePicker(),
		SearchInput:   components.NewInputModal(),
		ReviewForm:    components.NewReviewForm(),
		Spinner:       sp,
	}

	r := m.relay
	Watch(r, "results", m.browse.Results(), func(s browse.State) tea.Msg { return ResultsMsg{State: s} })
	Watch(r, "genres", m.browse.Genres(), func(g []domain.Genre) tea.Msg { return GenresMsg{Genres: g} })
	Watch(r, "genre-errors", m.browse.GenreErrors(), func(err error) tea.Msg { return GenreErrorMsg{Err: err} })
	Watch(r, "favorites", m.lib.Favorites(), func(f []domain.Favorite) tea.Msg { return FavoritesMsg{Favorites: f} })
	Watch(r, "watched", m.lib.Watched(), func(w []domain.WatchedMovie) tea.Msg { return WatchedMsg{Watched: w} })
	Watch(r, "failures", m.lib.Failures(), func(f library.WriteFailure) tea.Msg { return WriteFailureMsg{Failure: f} })
	Watch(r, "detail", m.details.Detail(), func(d *domain.MovieDetail) tea.Msg { return DetailMsg{Detail: d} })
	Watch(r, "detail-favorite", m.details.Favorite(), func(f *domain.Favorite) tea.Msg { return DetailFavoriteMsg{Favorite: f} })
	Watch(r, "detail-watched", m.details.Watched(), func(w *domain.WatchedMovie) tea.Msg { return DetailWatchedMsg{Watched: w} })
	Watch(r, "detail-errors", m.details.LoadErrors(), func(err error) tea.Msg { return DetailErrMsg{Err: err} })

	return m
}

// Close detaches the model from its controllers.
func (m Model) Close() {
	m.relay.Close()
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.relay.Next(),
		StartCmd(m.browse),
		m.Spinner.Tick,
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case UpdatesMsg:
		var model tea.Model = m
		cmds := make([]tea.Cmd, 0, len(msg.Msgs)+1)
		for _, sub := range msg.Msgs {
			var cmd tea.Cmd
			model, cmd = model.Update(sub)
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, m.relay.Next())
		return model, tea.Batch(cmds...)

	case ResultsMsg:
		m.results = msg.State
		m.syncBrowseList()
		return m, nil

	case GenresMsg:
		m.genres = msg.Genres
		m.genreErr = nil
		if m.GenrePicker.IsVisible() {
			m.GenrePicker.SetGenres(msg.Genres)
		}
		m.syncBrowseList()
		return m, nil

	case GenreErrorMsg:
		m.genreErr = msg.Err
		return m, m.setStatus("Could not load genres (press g to retry): "+msg.Err.Error(), true)

	case FavoritesMsg:
		m.favorites = msg.Favorites
		m.FavoritesList.SetRows(favoriteRows(msg.Favorites))
		return m, nil

	case WatchedMsg:
		m.watched = msg.Watched
		m.summary = analytics.Summarize(msg.Watched)
		m.WatchedList.SetRows(watchedRows(msg.Watched))
		return m, nil

	case WriteFailureMsg:
		return m, m.setStatus("Not saved: "+msg.Failure.Error(), true)

	case DetailMsg:
		if msg.Detail != nil && msg.Detail.ID == m.detailID {
			m.detail = msg.Detail
			m.detailErr = nil
		}
		return m, nil

	case DetailFavoriteMsg:
		if msg.Favorite != nil && msg.Favorite.MovieID != m.detailID {
			return m, nil
		}
		m.detailFavorite = msg.Favorite
		m.favoriteKnown = true
		return m, nil

	case DetailWatchedMsg:
		if msg.Watched != nil && msg.Watched.MovieID != m.detailID {
			return m, nil
		}
		m.detailWatched = msg.Watched
		return m, nil

	case DetailErrMsg:
		if m.State == StateDetail && m.detail == nil {
			m.detailErr = msg.Err
		}
		return m, nil

	case ErrMsg:
		m.logger.Error("tui error", "context", msg.Context, "error", msg.Err)
		return m, m.setStatus(msg.Error(), true)

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		if msg.seq == m.statusSeq {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		if m.results.Status == browse.StatusLoading {
			m.BrowseList.SetLoading(true, m.Spinner.View())
		}
		return m, cmd
	}

	// Cursor blink and other component messages
	return m.routeToModal(msg)
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.StatusMsg = text
	m.StatusIsErr = isErr
	d := statusDuration
	if isErr {
		d = errorStatusDuration
	}
	return ClearStatusCmd(m.statusSeq, d)
}

// syncBrowseList projects the browse state onto the list component.
func (m *Model) syncBrowseList() {
	st := m.results
	m.BrowseList.SetTitle(m.browseTitle())

	if st.Generation != m.generation {
		m.generation = st.Generation
		m.BrowseList.ScrollTop()
	}

	switch st.Status {
	case browse.StatusLoading:
		m.BrowseList.SetLoading(true, m.Spinner.View())
		return
	case browse.StatusFailed:
		m.BrowseList.SetLoading(false, "")
		m.BrowseList.SetRows(nil)
		m.BrowseList.SetEmptyText(fmt.Sprintf("Could not load movies: %v. Press r to retry.", st.Err))
		m.BrowseList.SetFooter("")
		return
	}

	m.BrowseList.SetLoading(false, "")
	m.BrowseList.SetRows(movieRows(st.Movies))
	if st.Mode() == browse.ModeSearch {
		m.BrowseList.SetEmptyText(fmt.Sprintf("No movies match %q.", st.Query))
	} else {
		m.BrowseList.SetEmptyText("No movies found.")
	}

	switch {
	case st.LoadingMore:
		m.BrowseList.SetFooter(m.Spinner.View() + " Loading more...")
	case len(st.Movies) > 0 && !st.HasMore():
		m.BrowseList.SetFooter(fmt.Sprintf("%d movies", len(st.Movies)))
	default:
		m.BrowseList.SetFooter("")
	}
}

func (m Model) browseTitle() string {
	st := m.results
	if st.Mode() == browse.ModeSearch {
		return "Search: " + st.Query
	}

	title := "Discover · " + st.Filters.Sort.String()
	if names := m.genreNames(st.Filters.GenreIDs); len(names) > 0 {
		title += " · " + strings.Join(names, ", ")
	}
	return title
}

func (m Model) genreNames(ids []int) []string {
	byID := make(map[int]string, len(m.genres))
	for _, g := range m.genres {
		byID[g.ID] = g.Name
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names
}

// maybeLoadMore requests the next page once the cursor nears the end.
func (m *Model) maybeLoadMore() {
	if m.Tab != TabBrowse || !m.results.HasMore() || m.results.LoadingMore {
		return
	}
	if m.BrowseList.NearEnd(loadMoreMargin) {
		m.browse.LoadMore()
	}
}

// openDetail switches to the detail screen for movieID.
func (m *Model) openDetail(movieID int) {
	m.State = StateDetail
	m.detailID = movieID
	m.detail = nil
	m.detailErr = nil
	m.detailFavorite = nil
	m.favoriteKnown = false
	m.detailWatched = nil
	m.details.Load(movieID)
}

func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}
	h := m.Height - ChromeHeight
	m.BrowseList.SetSize(m.Width, h)
	m.FavoritesList.SetSize(m.Width, h)
	m.WatchedList.SetSize(m.Width, h)
}

func (m Model) activeList() *components.MovieList {
	switch m.Tab {
	case TabFavorites:
		return m.FavoritesList
	case TabWatched:
		return m.WatchedList
	case TabBrowse:
		return m.BrowseList
	default:
		return nil
	}
}

func movieRows(movies []domain.Movie) []components.Row {
	rows := make([]components.Row, len(movies))
	for i, mv := range movies {
		meta := fmt.Sprintf("★ %.1f", mv.VoteAverage)
		if y := mv.Year(); y > 0 {
			meta = fmt.Sprintf("%d  %s", y, meta)
		}
		rows[i] = components.Row{MovieID: mv.ID, Title: mv.Title, Meta: meta}
	}
	return rows
}

func favoriteRows(favs []domain.Favorite) []components.Row {
	rows := make([]components.Row, len(favs))
	for i, f := range favs {
		rows[i] = components.Row{MovieID: f.MovieID, Title: f.Title}
	}
	return rows
}

func watchedRows(watched []domain.WatchedMovie) []components.Row {
	rows := make([]components.Row, len(watched))
	for i, w := range watched {
		rows[i] = components.Row{
			MovieID: w.MovieID,
			Title:   w.Title,
			Meta:    fmt.Sprintf("%.1f/5  %s", w.Rating, w.WatchedAt.Format("2006-01-02")),
		}
	}
	return rows
}
