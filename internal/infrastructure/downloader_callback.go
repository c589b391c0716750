package infrastructure

import (
	"context"
	"net/http"

	"github.com/yourusername/fetchbar/internal/domain"
	"go.uber.org/zap"
)

// CallbackDownloader implements Downloader by registering reactions on an
// event-emitting request object.
type CallbackDownloader struct {
	config   *domain.TransferConfig
	messages *domain.MessagesConfig
	client   *http.Client
	logger   *zap.Logger
}

// NewCallbackDownloader creates a new callback-style downloader
func NewCallbackDownloader(config *domain.TransferConfig, messages *domain.MessagesConfig, client *http.Client, logger *zap.Logger) *CallbackDownloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CallbackDownloader{
		config:   config,
		messages: messages,
		client:   client,
		logger:   logger,
	}
}

// Strategy returns the strategy this downloader implements
func (d *CallbackDownloader) Strategy() domain.Strategy {
	return domain.StrategyCallback
}

// Download issues one GET and reacts to the events of the request.
func (d *CallbackDownloader) Download(ctx context.Context, view domain.View) *domain.Outcome {
	outcome := &domain.Outcome{BytesTotal: -1}

	req := &eventRequest{client: d.client, config: d.config}
	dispatch(req.send(ctx), requestHandlers{
		OnProgress: func(status int, loaded, total int64, lengthComputable bool) {
			outcome.BytesReceived = loaded
			if !lengthComputable {
				return
			}
			outcome.BytesTotal = total
			// An error body never moves the bar
			if status != http.StatusOK {
				return
			}
			domain.ReportProgress(view, domain.Percent(loaded, total))
		},
		OnLoad: func(status int, text string) {
			outcome.StatusCode = status
			if status != http.StatusOK {
				outcome.Kind = domain.OutcomeStatusError
				outcome.Message = d.messages.StatusErrorText(status)
				view.SetText(outcome.Message)
				return
			}
			domain.ReportProgress(view, 100)
			outcome.Kind = domain.OutcomeCompleted
			outcome.Preview = text + d.config.TruncationMarker
			view.SetText(outcome.Preview)
		},
		OnError: func(err error) {
			d.logger.Debug("Request failed", zap.Error(err))
			outcome.Kind = domain.OutcomeTransportError
			outcome.Err = err
			outcome.Message = d.messages.NetworkError
			view.SetText(outcome.Message)
		},
		OnAbort: func() {
			outcome.Kind = domain.OutcomeCancelled
			outcome.Err = ctx.Err()
			outcome.Message = d.messages.Cancelled
			view.SetText(outcome.Message)
		},
	})

	return outcome
}
