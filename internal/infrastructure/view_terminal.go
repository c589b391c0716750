package infrastructure

import (
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/yourusername/fetchbar/internal/domain"
)

// barScale maps a one-decimal percentage onto the integer bar: 1000 steps == 100.0%.
const barScale = 10

// TerminalView renders the progress bar on one writer (usually stderr) and
// the output text on another (usually stdout).
type TerminalView struct {
	bar *progressbar.ProgressBar
	out io.Writer
	mu  sync.Mutex
}

// NewTerminalView creates a terminal view with the given description
func NewTerminalView(barWriter, out io.Writer, description string) *TerminalView {
	bar := progressbar.NewOptions64(100*barScale,
		progressbar.OptionSetWriter(barWriter),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowCount(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &TerminalView{bar: bar, out: out}
}

// SetWidth implements domain.ProgressBar
func (v *TerminalView) SetWidth(w domain.Width) {
	v.mu.Lock()
	defer v.mu.Unlock()
	_ = v.bar.Set64(barSteps(w))
}

// barSteps converts a width to bar steps. Rounding keeps 57.9 at 579 steps
// even though 57.9*10 is slightly below 579 in floating point.
func barSteps(w domain.Width) int64 {
	return int64(math.Round(w.Percent * barScale))
}

// SetText implements domain.OutputArea. It ends the bar line before printing.
func (v *TerminalView) SetText(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	_ = v.bar.Exit()
	fmt.Fprintln(v.out, text)
}
