package infrastructure

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/yourusername/fetchbar/internal/domain"
)

type requestEventKind int

const (
	eventProgress requestEventKind = iota
	eventLoad
	eventError
	eventAbort
)

// requestEvent is one notification emitted by an eventRequest. A request emits
// any number of progress events followed by exactly one load, error or abort.
type requestEvent struct {
	kind             requestEventKind
	loaded           int64
	total            int64
	lengthComputable bool
	status           int
	text             string
	err              error
}

// requestHandlers are the reactions registered on an eventRequest.
type requestHandlers struct {
	OnProgress func(status int, loaded, total int64, lengthComputable bool)
	OnLoad     func(status int, text string)
	OnError    func(err error)
	OnAbort    func()
}

// eventRequest is a one-shot GET that reads the whole body in the background
// and reports what happens as events, the way a browser request object does.
type eventRequest struct {
	client *http.Client
	config *domain.TransferConfig
}

// send starts the transfer. The returned channel is closed after the terminal event.
func (r *eventRequest) send(ctx context.Context) <-chan requestEvent {
	events := make(chan requestEvent, 16)
	go func() {
		defer close(events)
		events <- r.run(ctx, events)
	}()
	return events
}

// run performs the request, emits progress events and returns the terminal event.
func (r *eventRequest) run(ctx context.Context, events chan<- requestEvent) requestEvent {
	req, err := newGetRequest(ctx, r.config)
	if err != nil {
		return requestEvent{kind: eventError, err: err}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return r.failure(ctx, err)
	}
	defer resp.Body.Close()

	total := resp.ContentLength
	computable := total > 0
	preview := newTextPreview(r.config.PreviewLimit)

	var loaded int64
	buf := make([]byte, chunkSize(r.config))
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			loaded += int64(n)
			_, _ = preview.Write(buf[:n])
			events <- requestEvent{kind: eventProgress, status: resp.StatusCode, loaded: loaded, total: total, lengthComputable: computable}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return r.failure(ctx, err)
		}
	}

	return requestEvent{kind: eventLoad, status: resp.StatusCode, loaded: loaded, total: total, text: preview.Text("")}
}

func (r *eventRequest) failure(ctx context.Context, err error) requestEvent {
	if ctx.Err() != nil {
		return requestEvent{kind: eventAbort, err: ctx.Err()}
	}
	return requestEvent{kind: eventError, err: err}
}

// dispatch delivers events to the handlers serially, in arrival order, and
// returns the terminal event.
func dispatch(events <-chan requestEvent, h requestHandlers) requestEvent {
	var last requestEvent
	for ev := range events {
		last = ev
		switch ev.kind {
		case eventProgress:
			if h.OnProgress != nil {
				h.OnProgress(ev.status, ev.loaded, ev.total, ev.lengthComputable)
			}
		case eventLoad:
			if h.OnLoad != nil {
				h.OnLoad(ev.status, ev.text)
			}
		case eventError:
			if h.OnError != nil {
				h.OnError(ev.err)
			}
		case eventAbort:
			if h.OnAbort != nil {
				h.OnAbort()
			}
		}
	}
	return last
}
