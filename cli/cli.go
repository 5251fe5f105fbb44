// Package cli implements the bookkeeper command line on top of the engine.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/robinvdvleuten/bookkeeper/config"
	"github.com/robinvdvleuten/bookkeeper/engine"
	"github.com/robinvdvleuten/bookkeeper/logging"
	"github.com/robinvdvleuten/bookkeeper/model"
	"github.com/robinvdvleuten/bookkeeper/output"
	"github.com/robinvdvleuten/bookkeeper/telemetry"
)

var (
	successSymbol = "✓"
	errorSymbol   = "✗"
	infoSymbol    = "→"

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D7D7", Dark: "#00D7D7"})
)

func printSuccess(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", successStyle.Render(successSymbol), message)
}

func printError(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", errorStyle.Render(errorSymbol), errorStyle.Render(message))
}

func printInfof(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, "%s %s\n", infoStyle.Render(infoSymbol), fmt.Sprintf(format, args...))
}

// promptYesNo asks a yes/no question. It answers no without asking when
// stdin is not a terminal.
func promptYesNo(question string) (bool, error) {
	if !isTerminal() {
		return false, nil
	}

	var confirm bool
	form := huh.NewConfirm().
		Title(question).
		WithButtonAlignment(lipgloss.Left).
		Value(&confirm)

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}
	return confirm, nil
}

var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// session is an opened engine plus the context commands run in.
type session struct {
	*engine.Engine

	ctx    context.Context
	cfg    *config.Config
	styles *output.Styles
	finish func()
}

// open resolves the configuration, sets up logging and telemetry and opens
// the engine. Callers must defer Close on the session.
func (g *Globals) open(kctx *kong.Context) (*session, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.DB != "" {
		cfg.DB = g.DB
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	ctx := logging.WithContext(context.Background(), logging.New(kctx.Stderr, level))

	s := &session{cfg: cfg, styles: output.NewStyles(kctx.Stdout), finish: func() {}}

	if g.Telemetry {
		collector := telemetry.NewTimingCollector()
		ctx = telemetry.WithCollector(ctx, collector)

		var root telemetry.Timer
		ctx, root = telemetry.StartTimer(ctx, kctx.Command())
		s.finish = func() {
			root.End()
			_, _ = fmt.Fprintln(kctx.Stderr)
			collector.Report(kctx.Stderr, output.NewStyles(kctx.Stderr))
		}
	}

	var opts []engine.Option
	if g.AsOf != "" {
		today, err := model.ParseDate(g.AsOf)
		if err != nil {
			return nil, fmt.Errorf("invalid --as-of date: %w", err)
		}
		opts = append(opts, engine.WithClock(func() time.Time { return today }))
	}

	e, err := engine.New(ctx, cfg, opts...)
	if err != nil {
		s.finish()
		return nil, err
	}
	s.Engine = e
	s.ctx = ctx
	return s, nil
}

// Close closes the engine and writes the telemetry report.
func (s *session) Close() {
	_ = s.Engine.Close()
	s.finish()
}
