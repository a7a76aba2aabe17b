package internal

import (
	"io"
	"time"

	"github.com/muesli/termenv"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
)

// UIManager handles all user interface concerns (progress, status output)
type UIManager interface {
	// Progress bars
	NewSpinner(description string) ProgressBar
	NewBytesBar(total int64, description string) ProgressBar

	// Verbose output
	Verbose(format string, args ...any)

	// Status messages
	Printf(format string, args ...any)
	Warnf(format string, args ...any)
	Highlight(s string) string
}

// ProgressBar abstracts progress bar operations; bytes written advance it
type ProgressBar interface {
	io.Writer
	Describe(description string)
	Finish() error
}

// StandardUIManager renders progress on a terminal and logs status through logrus
type StandardUIManager struct {
	w           io.Writer
	log         logrus.FieldLogger
	interactive bool
	output      *termenv.Output
}

// NewUIManager creates a UI writing to w (normally stderr). Progress bars are
// only drawn when w is a terminal and quiet is off.
func NewUIManager(w io.Writer, log logrus.FieldLogger, quiet bool) UIManager {
	return &StandardUIManager{
		w:           w,
		log:         log,
		interactive: !quiet && IsTerminal(w),
		output:      termenv.NewOutput(w),
	}
}

func (ui *StandardUIManager) NewSpinner(description string) ProgressBar {
	if !ui.interactive {
		return progressbar.DefaultSilent(-1, description)
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(ui.w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionClearOnFinish(),
	)
}

func (ui *StandardUIManager) NewBytesBar(total int64, description string) ProgressBar {
	if !ui.interactive {
		return progressbar.DefaultSilent(total, description)
	}
	return progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(ui.w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func (ui *StandardUIManager) Verbose(format string, args ...any) {
	ui.log.Debugf(format, args...)
}

func (ui *StandardUIManager) Printf(format string, args ...any) {
	ui.log.Infof(format, args...)
}

func (ui *StandardUIManager) Warnf(format string, args ...any) {
	ui.log.Warnf(format, args...)
}

// Highlight colors s when the output supports it
func (ui *StandardUIManager) Highlight(s string) string {
	return ui.output.String(s).Bold().Foreground(ui.output.Color("2")).String()
}

// silentUI is used by the MCP server where nothing may be drawn on stdio
type silentUI struct {
	log logrus.FieldLogger
}

func (ui silentUI) NewSpinner(description string) ProgressBar {
	return progressbar.DefaultSilent(-1, description)
}

func (ui silentUI) NewBytesBar(total int64, description string) ProgressBar {
	return progressbar.DefaultSilent(total, description)
}

func (ui silentUI) Verbose(format string, args ...any) { ui.log.Debugf(format, args...) }
func (ui silentUI) Printf(format string, args ...any)  { ui.log.Infof(format, args...) }
func (ui silentUI) Warnf(format string, args ...any)   { ui.log.Warnf(format, args...) }
func (ui silentUI) Highlight(s string) string          { return s }

// NewSilentUI returns a UI that only logs
func NewSilentUI(log logrus.FieldLogger) UIManager {
	return silentUI{log: log}
}
