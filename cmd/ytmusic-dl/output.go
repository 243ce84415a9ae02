package main

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/handiism/ytmusic-downloader/internal/download"
	"github.com/mattn/go-isatty"
)

var (
	colorInfo    = color.New(color.FgCyan)
	colorSuccess = color.New(color.FgGreen)
	colorWarning = color.New(color.FgYellow)
	colorError   = color.New(color.FgRed)
	colorDim     = color.New(color.Faint)
)

func init() {
	color.NoColor = !isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// printer renders progress events as timestamped, colored lines.
type printer struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
	now     func() time.Time
}

func newPrinter(out io.Writer, verbose bool) *printer {
	return &printer{out: out, verbose: verbose, now: time.Now}
}

// event is a download.Manager progress callback.
func (p *printer) event(e download.ProgressEvent) {
	if e.Level == download.LevelVerbose && !p.verbose {
		return
	}

	c, prefix := colorDim, " "
	switch e.Level {
	case download.LevelError:
		c, prefix = colorError, "✗"
	case download.LevelWarning:
		c, prefix = colorWarning, "!"
	case download.LevelSuccess:
		c, prefix = colorSuccess, "✓"
	case download.LevelInfo:
		c, prefix = colorInfo, "›"
	}
	p.line(c, prefix, e.Message)
}

func (p *printer) line(c *color.Color, prefix, msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "%s %s\n", colorDim.Sprint(p.now().Format("15:04:05")), c.Sprint(prefix+" "+msg))
}

func (p *printer) infof(format string, args ...any) {
	p.line(colorInfo, "›", fmt.Sprintf(format, args...))
}

func (p *printer) successf(format string, args ...any) {
	p.line(colorSuccess, "✓", fmt.Sprintf(format, args...))
}

func (p *printer) errorf(format string, args ...any) {
	p.line(colorError, "✗", fmt.Sprintf(format, args...))
}

// progressSource is the part of download.Manager the bar polls.
type progressSource interface {
	GetProgress() (received, total int64, filesReceived, filesTotal int32)
}

// startProgress draws a byte progress bar on stderr until the returned
// stop function is called. It does nothing when stderr is not a terminal.
func startProgress(src progressSource, enabled bool) (stop func()) {
	if !enabled || !isTerminal(os.Stderr) {
		return func() {}
	}

	bar := pb.New64(0)
	bar.SetWriter(os.Stderr)
	bar.Set(pb.Bytes, true)
	bar.SetTemplateString(`{{ string . "prefix" }} {{ bar . }} {{ percent . }} | {{ speed . "%s/s" }} | ETA {{ rtime . "%s" }}`)
	bar.Start()

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			received, total, filesReceived, filesTotal := src.GetProgress()
			bar.SetTotal(max(total, received))
			bar.SetCurrent(received)
			bar.Set("prefix", fmt.Sprintf("%d/%d", filesReceived, filesTotal))

			select {
			case <-done:
				return
			case <-ticker.C:
			}
		}
	}()

	return func() {
		close(done)
		<-finished
		bar.Finish()
	}
}
