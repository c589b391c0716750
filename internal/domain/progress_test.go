package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingView struct {
	widths []string
	texts  []string
}

func (r *recordingView) SetWidth(w Width)    { r.widths = append(r.widths, w.String()) }
func (r *recordingView) SetText(text string) { r.texts = append(r.texts, text) }

func TestWidth_String(t *testing.T) {
	assert.Equal(t, "50.0%", Width{Percent: 50}.String())
	assert.Equal(t, "33.3%", Width{Percent: 33.3}.String())
	assert.Equal(t, "100.0%", Width{Percent: 100}.String())
}

func TestClampPercent(t *testing.T) {
	tests := []struct {
		name     string
		in       float64
		expected float64
	}{
		{"in range", 42.5, 42.5},
		{"rounds down to one decimal", 33.333, 33.3},
		{"rounds down near the top", 99.96, 99.9},
		{"never reaches 100 early", 99.9999, 99.9},
		{"exact decimal", 57.9, 57.9},
		{"above 100", 130, 100},
		{"below 0", -5, 0},
		{"NaN", math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClampPercent(tt.in))
		})
	}
}

func TestReportProgress(t *testing.T) {
	view := &recordingView{}

	ReportProgress(view, 50)
	ReportProgress(view, 100.04)
	ReportProgress(view, 250)

	assert.Equal(t, []string{"50.0%", "100.0%", "100.0%"}, view.widths)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 50.0, Percent(1000, 2000))
	assert.Equal(t, 100.0, Percent(500, 500))
	assert.Equal(t, 0.0, Percent(10, 0))
	assert.Equal(t, 0.0, Percent(10, -1))
	assert.Equal(t, 58.0, Percent(29, 50))
	assert.Less(t, Percent(9996, 10000), 100.0)
	assert.Equal(t, 99.9, ClampPercent(Percent(9996, 10000)))
}

func TestMultiView(t *testing.T) {
	first, second := &recordingView{}, &recordingView{}
	view := MultiView{first, second}

	view.SetWidth(Width{Percent: 12.5})
	view.SetText("hello")

	for _, v := range []*recordingView{first, second} {
		assert.Equal(t, []string{"12.5%"}, v.widths)
		assert.Equal(t, []string{"hello"}, v.texts)
	}
}

func TestValidateStrategy(t *testing.T) {
	assert.True(t, ValidateStrategy(StrategyCallback))
	assert.True(t, ValidateStrategy(StrategyStream))
	assert.False(t, ValidateStrategy("invalid"))
}
