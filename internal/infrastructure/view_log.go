package infrastructure

import (
	"github.com/yourusername/fetchbar/internal/domain"
	"go.uber.org/zap"
)

// LogView writes view updates to a zap logger. It backs transfers that have
// no interactive render target.
type LogView struct {
	logger *zap.Logger
}

// NewLogView creates a log view; fields are attached to every entry.
func NewLogView(logger *zap.Logger, fields ...zap.Field) *LogView {
	return &LogView{logger: logger.With(fields...)}
}

// SetWidth implements domain.ProgressBar
func (v *LogView) SetWidth(w domain.Width) {
	v.logger.Debug("Progress", zap.String("width", w.String()))
}

// SetText implements domain.OutputArea
func (v *LogView) SetText(text string) {
	v.logger.Info("Output", zap.Int("length", len(text)), zap.String("text", text))
}
