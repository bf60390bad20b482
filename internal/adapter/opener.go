package adapter

import (
	"errors"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// ErrNoURL is returned when there is nothing to open.
var ErrNoURL = errors.New("no URL to open")

// Opener opens links in an external program
type Opener struct {
	command string   // configured command, empty for the system default
	args    []string // extra arguments placed before the URL
	logger  *slog.Logger

	start func(name string, args ...string) error
}

// NewOpener creates an Opener. command may carry arguments, e.g. "firefox --new-tab".
func NewOpener(command string, logger *slog.Logger) *Opener {
	if logger == nil {
		logger = slog.Default()
	}

	var args []string
	fields := strings.Fields(command)
	if len(fields) > 0 {
		command, args = fields[0], fields[1:]
	}

	return &Opener{
		command: command,
		args:    args,
		logger:  logger,
		start:   startDetached,
	}
}

func startDetached(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open launches url without waiting for the program to exit
func (o *Opener) Open(url string) error {
	if url == "" {
		return ErrNoURL
	}

	name, args := o.commandFor(url)
	o.logger.Info("opening link", "command", name, "url", url)
	if err := o.start(name, args...); err != nil {
		o.logger.Error("failed to open link", "command", name, "error", err)
		return err
	}
	return nil
}

// commandFor resolves the configured command or the platform default handler
func (o *Opener) commandFor(url string) (string, []string) {
	if o.command != "" {
		args := append(append([]string{}, o.args...), url)
		return o.command, args
	}

	switch runtime.GOOS {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "cmd", []string{"/c", "start", "", url}
	default:
		// Linux and other Unix-like systems
		return "xdg-open", []string{url}
	}
}
