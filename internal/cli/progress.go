package cli

import (
	"context"
	"fmt"
	"os"

	progressbar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/imran31415/forcefield/pkg/layout"
)

// Bar width bounds for the run progress display.
const (
	maxBarWidth = 40
	minBarWidth = 10
)

// batchMsg carries one engine progress event into the UI loop.
type batchMsg layout.Progress

// runDoneMsg signals that the engine run finished.
type runDoneMsg struct {
	err error
}

// =============================================================================
// progressModel - Live Progress Bar for Engine Runs
// =============================================================================

// progressModel is the bubbletea model rendering a single progress bar for
// an in-flight layout run. Keypresses cancel the run; the model quits only
// when the engine reports the run finished, so the worker always observes
// its cancellation before the terminal is restored.
type progressModel struct {
	label   string
	bar     progressbar.Model
	percent int
	cancel  context.CancelFunc
	err     error
}

func newProgressModel(label string, cancel context.CancelFunc) progressModel {
	// Hex equivalents of colorCyan and colorBlue; the gradient option does
	// not accept ANSI palette indices.
	bar := progressbar.New(
		progressbar.WithGradient("#00afaf", "#5fafff"),
		progressbar.WithWidth(maxBarWidth),
		progressbar.WithoutPercentage(),
	)
	return progressModel{label: label, bar: bar, cancel: cancel}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
		}
	case tea.WindowSizeMsg:
		w := msg.Width - len(m.label) - 8
		if w > maxBarWidth {
			w = maxBarWidth
		}
		if w < minBarWidth {
			w = minBarWidth
		}
		m.bar.Width = w
	case batchMsg:
		m.percent = msg.Percent
	case runDoneMsg:
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	pct := fmt.Sprintf("%3d%%", m.percent)
	return fmt.Sprintf("%s %s %s\n",
		StyleDim.Render(m.label),
		m.bar.ViewAs(float64(m.percent)/100),
		StyleDim.Render(pct))
}

// =============================================================================
// followRun - Consume a Run to Completion
// =============================================================================

// followRun consumes a run's progress stream and blocks until the run
// finishes, returning its layout. On a terminal it renders a live progress
// bar on stderr; otherwise events are drained silently. Pressing q, esc, or
// ctrl+c cancels the run through cancel, and the engine's cancellation
// error is returned as usual.
func followRun(run *layout.Run, label string, cancel context.CancelFunc) (*layout.Layout, error) {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		for range run.Progress() {
		}
		return run.Wait()
	}

	p := tea.NewProgram(newProgressModel(label, cancel), tea.WithOutput(os.Stderr))

	go func() {
		for ev := range run.Progress() {
			p.Send(batchMsg(ev))
		}
		_, err := run.Wait()
		p.Send(runDoneMsg{err: err})
	}()

	if _, err := p.Run(); err != nil {
		// The bar is cosmetic; fall back to a direct wait.
		return run.Wait()
	}
	return run.Wait()
}
