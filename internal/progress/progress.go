package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Options configures output and progress bar behavior
type Options struct {
	Quiet bool
	// Verbose is the verbosity level, 0 to 3.
	Verbose   int
	NoSummary bool
	// ShowProgress enables the hashing progress bar on stderr.
	ShowProgress bool
	// Out receives normal and verbose output. Nil means stdout.
	Out io.Writer
}

// Manager handles gated output, progress bars and cancellation
type Manager struct {
	options    Options
	out        io.Writer
	outMux     sync.Mutex
	totalBar   *progressbar.ProgressBar
	cancelFunc context.CancelFunc
	cancelled  bool
	cancelMux  sync.Mutex
	signalChan chan os.Signal
}

// NewManager creates a new progress manager
func NewManager(options Options) *Manager {
	out := options.Out
	if out == nil {
		out = os.Stdout
	}
	return &Manager{
		options:    options,
		out:        out,
		signalChan: make(chan os.Signal, 1),
	}
}

// StderrIsTerminal reports whether progress bars can be drawn on stderr
func StderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// SetupCancellation sets up signal handling for cancellation
func (pm *Manager) SetupCancellation(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	pm.cancelFunc = cancel

	signal.Notify(pm.signalChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-pm.signalChan:
			pm.cancelMux.Lock()
			pm.cancelled = true
			pm.cancelMux.Unlock()
			// #nosec G104 - cancellation message is not critical for functionality
			fmt.Fprintln(os.Stderr, "\nOperation cancelled by user")
			cancel()
		case <-ctx.Done():
			// Context already cancelled
		}
	}()

	return ctx
}

// IsCancelled checks if the operation was cancelled
func (pm *Manager) IsCancelled() bool {
	pm.cancelMux.Lock()
	defer pm.cancelMux.Unlock()
	return pm.cancelled
}

// Cleanup removes signal handlers
func (pm *Manager) Cleanup() {
	signal.Stop(pm.signalChan)
	if pm.cancelFunc != nil {
		pm.cancelFunc()
	}
}

// InitTotalProgress initializes the progress bar. A negative total draws a spinner.
func (pm *Manager) InitTotalProgress(totalBytes int64, description string) {
	if pm.options.Quiet || !pm.options.ShowProgress {
		return
	}

	pm.totalBar = progressbar.NewOptions64(totalBytes,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(65),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			// #nosec G104 - progress bar completion message is not critical
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
	)
}

// UpdateTotalProgress adds hashed bytes to the progress bar
func (pm *Manager) UpdateTotalProgress(bytes int64) {
	if pm.totalBar == nil {
		return
	}
	// #nosec G104 - progress bar errors are not critical for functionality
	pm.totalBar.Add64(bytes)
}

// FinishTotalProgress marks the progress as complete
func (pm *Manager) FinishTotalProgress() {
	if pm.totalBar == nil {
		return
	}
	// #nosec G104 - progress bar errors are not critical for functionality
	pm.totalBar.Finish()
	pm.totalBar = nil
}

// PrintVerbose prints when the verbosity level is at least level
func (pm *Manager) PrintVerbose(level int, format string, args ...interface{}) {
	if pm.options.Quiet || pm.options.Verbose < level {
		return
	}
	pm.print(format, args...)
}

// PrintInfo prints informational messages (unless quiet mode)
func (pm *Manager) PrintInfo(format string, args ...interface{}) {
	if pm.options.Quiet {
		return
	}
	pm.print(format, args...)
}

// PrintSummary prints the run summary unless quiet or summaries are disabled
func (pm *Manager) PrintSummary(format string, args ...interface{}) {
	if pm.options.Quiet || pm.options.NoSummary {
		return
	}
	pm.print(format, args...)
}

func (pm *Manager) print(format string, args ...interface{}) {
	pm.outMux.Lock()
	defer pm.outMux.Unlock()

	// Clear the progress bar before printing to avoid line breaks
	if pm.totalBar != nil {
		// #nosec G104 - progress bar clear is not critical for functionality
		pm.totalBar.Clear()
	}
	// #nosec G104 - output errors are not critical for functionality
	fmt.Fprintf(pm.out, format, args...)
}
