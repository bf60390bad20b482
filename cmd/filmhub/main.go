package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/filmhub/internal/adapter"
	"github.com/mmcdole/filmhub/internal/adapter/source"
	"github.com/mmcdole/filmhub/internal/analytics"
	"github.com/mmcdole/filmhub/internal/browse"
	"github.com/mmcdole/filmhub/internal/detail"
	"github.com/mmcdole/filmhub/internal/domain"
	"github.com/mmcdole/filmhub/internal/library"
	"github.com/mmcdole/filmhub/internal/store"
	"github.com/mmcdole/filmhub/internal/tui"
	"github.com/mmcdole/filmhub/internal/tui/styles"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func main() {
	var showVersion, showStats bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&showStats, "stats", false, "print watched-history statistics and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("filmhub %s\n", Version)
		return
	}

	if err := run(showStats); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(showStats bool) error {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting filmhub", "version", Version, "store", cfg.Store.Driver)

	st, err := store.Open(cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	lib := library.NewService(st, logger)
	defer lib.Close()

	if showStats {
		return printStats(os.Stdout, lib)
	}

	if !cfg.IsConfigured() {
		if err := runSetupFlow(cfg, logger); err != nil {
			return err
		}
	}

	client, err := source.NewClientFromConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create catalog client: %w", err)
	}

	results := browse.New(client, browse.Config{
		PageTimeout:    cfg.Catalog.PageTimeout,
		RequestTimeout: cfg.Catalog.RequestTimeout,
		Sort:           cfg.DefaultSortKey(),
	}, logger)
	defer results.Close()

	details := detail.New(client, lib, cfg.Catalog.RequestTimeout, logger)
	defer details.Close()

	styles.Apply(cfg.UI.Theme)

	model := tui.NewModel(tui.Deps{
		Browse:    results,
		Library:   lib,
		Detail:    details,
		Opener:    adapter.NewOpener(cfg.UI.Browser, logger),
		ImageBase: cfg.Catalog.ImageBase,
		WebBase:   cfg.Catalog.WebBase,
		Logger:    logger,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// printStats writes the watched-history summary.
func printStats(w io.Writer, lib *library.Service) error {
	records, err := lib.ListWatched()
	if err != nil {
		return fmt.Errorf("failed to read watched history: %w", err)
	}

	s := analytics.Summarize(records)
	top := "none"
	if len(s.TopGenres) > 0 {
		top = strings.Join(s.TopGenres, ", ")
	}

	fmt.Fprintf(w, "Movies watched:  %d\n", s.Count)
	fmt.Fprintf(w, "Time watched:    %s\n", s.Duration())
	fmt.Fprintf(w, "Average rating:  %.1f\n", s.AverageRating)
	fmt.Fprintf(w, "Top genres:      %s\n", top)
	return nil
}

// runSetupFlow asks for the catalog API key until one is accepted, then saves it.
func runSetupFlow(cfg *adapter.Config, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to filmhub!")
	fmt.Println("An API key for the movie catalog is required (https://www.themoviedb.org/settings/api).")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		key, err := readAPIKey(reader)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if key == "" {
			fmt.Println("API key cannot be empty. Please try again.")
			continue
		}

		cfg.Catalog.APIKey = key
		if err := verifyWithSpinner(cfg, logger); err != nil {
			fmt.Printf("✗ %v\n\n", err)
			continue
		}
		break
	}

	if err := adapter.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	return nil
}

// readAPIKey reads a line without echo when stdin is a terminal.
func readAPIKey(reader *bufio.Reader) (string, error) {
	fmt.Print("Enter your API key: ")

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// verifyWithSpinner checks the key against the catalog with a visual spinner
func verifyWithSpinner(cfg *adapter.Config, logger *slog.Logger) error {
	client, err := source.NewClientFromConfig(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	resultCh := make(chan error, 1)
	go func() {
		_, err := client.Genres(ctx)
		resultCh <- err
	}()

	frame := 0
	fmt.Printf("\r%s Checking API key...", spinnerFrames[frame])

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-resultCh:
			fmt.Print(clearSpinnerLine)
			switch {
			case errors.Is(err, domain.ErrAuthFailed):
				return errors.New("the catalog rejected this API key")
			case err != nil:
				return fmt.Errorf("could not reach the catalog: %w", err)
			}
			fmt.Println("✓ API key accepted")
			return nil

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s Checking API key...", spinnerFrames[frame%len(spinnerFrames)])

		case <-ctx.Done():
			fmt.Print(clearSpinnerLine)
			return errors.New("timed out checking the API key")
		}
	}
}
