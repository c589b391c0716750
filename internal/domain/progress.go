package domain

import (
	"fmt"
	"math"
)

// Width is the filled width of a progress bar, in percent with one decimal.
type Width struct {
	Percent float64
}

// String formats the width the way a style attribute expects it, e.g. "50.0%".
func (w Width) String() string {
	return fmt.Sprintf("%.1f%%", w.Percent)
}

// ProgressBar is a visual bar whose width can be set.
type ProgressBar interface {
	SetWidth(w Width)
}

// OutputArea is a text area whose content can be replaced.
type OutputArea interface {
	SetText(text string)
}

// View is the render target handed to every download call.
type View interface {
	ProgressBar
	OutputArea
}

// ReportProgress clamps percent to [0, 100], rounds it down to one decimal and
// updates the bar. NaN is reported as 0.
func ReportProgress(bar ProgressBar, percent float64) {
	bar.SetWidth(Width{Percent: ClampPercent(percent)})
}

// ClampPercent bounds percent to [0, 100] and rounds it down to one decimal.
// Anything short of 100 stays below 100.0 after rounding.
func ClampPercent(percent float64) float64 {
	switch {
	case math.IsNaN(percent), percent < 0:
		return 0
	case percent >= 100:
		return 100
	}
	r := math.Floor(percent*10+1e-9) / 10
	if r >= 100 {
		return 99.9
	}
	return r
}

// Percent computes received/total as a percentage. It returns 0 when total is not positive.
func Percent(received, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(received) * 100 / float64(total)
}

// MultiView fans every update out to several views, in order.
type MultiView []View

// SetWidth implements ProgressBar
func (m MultiView) SetWidth(w Width) {
	for _, v := range m {
		v.SetWidth(w)
	}
}

// SetText implements OutputArea
func (m MultiView) SetText(text string) {
	for _, v := range m {
		v.SetText(text)
	}
}
