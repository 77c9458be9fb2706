package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the capture screen until the user quits or ctx is canceled.
// It returns the number of transactions saved.
func Run(ctx context.Context, opts ...Option) (int, error) {
	m := New(opts...)
	if m.config.Storage == nil {
		return 0, fmt.Errorf("storage is required")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Restore the terminal even if the program dies mid-frame.
	// Errors are ignored; this is best-effort cleanup.
	defer func() {
		_, _ = os.Stdout.Write([]byte("\033[?1049l")) // Exit alternate screen
		_, _ = os.Stdout.Write([]byte("\033[?25h"))   // Show cursor
		_, _ = os.Stdout.Write([]byte("\033[m"))      // Reset colors
		_, _ = os.Stdout.Write([]byte("\033[?1002l")) // Disable mouse cell motion
	}()

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return 0, fmt.Errorf("capture screen failed: %w", err)
	}

	if fm, ok := final.(Model); ok {
		return fm.Saved(), nil
	}
	return 0, nil
}
