package infrastructure

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/yourusername/fetchbar/internal/domain"
	"go.uber.org/zap"
)

// StreamDownloader implements Downloader with a sequential pull loop over the
// response body.
type StreamDownloader struct {
	config   *domain.TransferConfig
	messages *domain.MessagesConfig
	client   *http.Client
	logger   *zap.Logger
}

// NewStreamDownloader creates a new stream-style downloader
func NewStreamDownloader(config *domain.TransferConfig, messages *domain.MessagesConfig, client *http.Client, logger *zap.Logger) *StreamDownloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamDownloader{
		config:   config,
		messages: messages,
		client:   client,
		logger:   logger,
	}
}

// Strategy returns the strategy this downloader implements
func (d *StreamDownloader) Strategy() domain.Strategy {
	return domain.StrategyStream
}

// Download requests the target, then pulls chunks until the body ends,
// reporting received/total after every chunk.
func (d *StreamDownloader) Download(ctx context.Context, view domain.View) *domain.Outcome {
	outcome := &domain.Outcome{BytesTotal: -1}

	req, err := newGetRequest(ctx, d.config)
	if err != nil {
		return d.fail(view, outcome, domain.OutcomeTransportError, d.messages.NetworkError, err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return d.fail(view, outcome, domain.OutcomeCancelled, d.messages.Cancelled, ctx.Err())
		}
		return d.fail(view, outcome, domain.OutcomeTransportError, d.messages.NetworkError, err)
	}
	defer resp.Body.Close()

	outcome.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return d.fail(view, outcome, domain.OutcomeStatusError, d.messages.StatusErrorText(resp.StatusCode), nil)
	}

	// Without a declared total no progress can be computed, so nothing is read.
	if resp.ContentLength < 0 {
		return d.fail(view, outcome, domain.OutcomeMissingLength, d.messages.UnknownSize, nil)
	}

	total := resp.ContentLength
	outcome.BytesTotal = total
	preview := newTextPreview(d.config.PreviewLimit)

	var received int64
	buf := make([]byte, chunkSize(d.config))
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			received += int64(n)
			outcome.BytesReceived = received
			_, _ = preview.Write(buf[:n])
			domain.ReportProgress(view, domain.Percent(received, total))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				return d.fail(view, outcome, domain.OutcomeCancelled, d.messages.Cancelled, ctx.Err())
			}
			d.logger.Warn("Stream read failed",
				zap.Int64("received", received),
				zap.Int64("total", total),
				zap.Error(err))
			return d.fail(view, outcome, domain.OutcomeStreamError, d.messages.StreamErrorText(err), err)
		}
	}

	if total == 0 {
		domain.ReportProgress(view, 100)
	}

	outcome.Kind = domain.OutcomeCompleted
	outcome.Preview = preview.Text(d.config.TruncationMarker)
	view.SetText(outcome.Preview)
	return outcome
}

func (d *StreamDownloader) fail(view domain.View, outcome *domain.Outcome, kind domain.OutcomeKind, message string, err error) *domain.Outcome {
	outcome.Kind = kind
	outcome.Message = message
	outcome.Err = err
	view.SetText(message)
	return outcome
}
