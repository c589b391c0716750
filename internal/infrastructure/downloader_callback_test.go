package infrastructure

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/fetchbar/internal/domain"
)

func newTestCallbackDownloader(stub *stubTransport) *CallbackDownloader {
	return NewCallbackDownloader(testTransferConfig("https://example.com/book.txt"), testMessages(), newStubClient(stub), nil)
}

func TestCallbackDownloader_Strategy(t *testing.T) {
	d := newTestCallbackDownloader(&stubTransport{})
	assert.Equal(t, domain.StrategyCallback, d.Strategy())
}

func TestCallbackDownloader_TwoProgressEvents(t *testing.T) {
	body := append(repeatText("x", 1000), repeatText("y", 1000)...)
	stub := &stubTransport{
		status:        http.StatusOK,
		contentLength: 2000,
		body:          &chunkedBody{data: body, chunk: 1000},
	}
	view := &recordingView{}

	outcome := newTestCallbackDownloader(stub).Download(context.Background(), view)

	assert.Equal(t, domain.OutcomeCompleted, outcome.Kind)
	require.Len(t, view.widths, 3)
	assert.Equal(t, "50.0%", view.widths[0])
	assert.Equal(t, "100.0%", view.widths[1])
	assert.Equal(t, "100.0%", view.widths[2], "load forces 100")
	assert.Equal(t, []string{string(repeatText("x", 1000)) + "\n..."}, view.texts)
	assert.Equal(t, int64(2000), outcome.BytesReceived)
	assert.Equal(t, int64(2000), outcome.BytesTotal)
}

func TestCallbackDownloader_UnknownLengthStillCompletes(t *testing.T) {
	stub := &stubTransport{
		status:        http.StatusOK,
		contentLength: -1,
		body:          &chunkedBody{data: []byte("short text"), chunk: 4},
	}
	view := &recordingView{}

	outcome := newTestCallbackDownloader(stub).Download(context.Background(), view)

	assert.Equal(t, domain.OutcomeCompleted, outcome.Kind)
	assert.Equal(t, []string{"100.0%"}, view.widths, "only the forced completion is reported")
	assert.Equal(t, []string{"short text\n..."}, view.texts)
	assert.Equal(t, int64(-1), outcome.BytesTotal)
}

func TestCallbackDownloader_StatusError(t *testing.T) {
	stub := &stubTransport{
		status:        http.StatusInternalServerError,
		contentLength: -1,
		body:          &chunkedBody{data: []byte("oops"), chunk: 4},
	}
	view := &recordingView{}

	outcome := newTestCallbackDownloader(stub).Download(context.Background(), view)

	assert.Equal(t, domain.OutcomeStatusError, outcome.Kind)
	assert.Equal(t, 500, outcome.StatusCode)
	assert.Equal(t, []string{"Ошибка загрузки: 500"}, view.texts)
	assert.NotContains(t, view.widths, "100.0%")
}

func TestCallbackDownloader_StatusErrorWithKnownLength(t *testing.T) {
	stub := &stubTransport{
		status:        http.StatusNotFound,
		contentLength: 9,
		body:          &chunkedBody{data: []byte("not found"), chunk: 9},
	}
	view := &recordingView{}

	outcome := newTestCallbackDownloader(stub).Download(context.Background(), view)

	assert.Equal(t, domain.OutcomeStatusError, outcome.Kind)
	assert.Equal(t, 404, outcome.StatusCode)
	assert.Equal(t, int64(9), outcome.BytesReceived)
	assert.Equal(t, []string{"Ошибка загрузки: 404"}, view.texts)
	assert.Empty(t, view.widths)
	assert.NotContains(t, view.widths, "100.0%")
}

func TestCallbackDownloader_RedirectStatusIsAnError(t *testing.T) {
	stub := &stubTransport{
		status:        http.StatusNoContent,
		contentLength: 0,
		body:          &chunkedBody{},
	}
	view := &recordingView{}

	outcome := newTestCallbackDownloader(stub).Download(context.Background(), view)

	assert.Equal(t, domain.OutcomeStatusError, outcome.Kind)
	assert.Equal(t, []string{"Ошибка загрузки: 204"}, view.texts)
	assert.Empty(t, view.widths)
}

func TestCallbackDownloader_NetworkError(t *testing.T) {
	stub := &stubTransport{err: errConnectionReset}
	view := &recordingView{}

	outcome := newTestCallbackDownloader(stub).Download(context.Background(), view)

	assert.Equal(t, domain.OutcomeTransportError, outcome.Kind)
	assert.Error(t, outcome.Err)
	assert.Equal(t, []string{"Ошибка сети при загрузке."}, view.texts)
	assert.Empty(t, view.widths)
}

func TestCallbackDownloader_BodyFailureIsNetworkError(t *testing.T) {
	stub := &stubTransport{
		status:        http.StatusOK,
		contentLength: 4000,
		body:          &chunkedBody{data: repeatText("z", 1000), chunk: 1000, err: errConnectionReset},
	}
	view := &recordingView{}

	outcome := newTestCallbackDownloader(stub).Download(context.Background(), view)

	assert.Equal(t, domain.OutcomeTransportError, outcome.Kind)
	assert.Equal(t, []string{"25.0%"}, view.widths)
	assert.Equal(t, []string{"Ошибка сети при загрузке."}, view.texts)
}

func TestCallbackDownloader_Cancel(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "2000")
		_, _ = w.Write(repeatText("c", 1000))
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	view := &recordingView{onWidth: func(domain.Width) { cancel() }}
	d := NewCallbackDownloader(testTransferConfig(server.URL), testMessages(), server.Client(), nil)

	outcome := d.Download(ctx, view)

	assert.Equal(t, domain.OutcomeCancelled, outcome.Kind)
	assert.Equal(t, "Загрузка отменена.", view.lastText())
	assert.NotContains(t, view.widths, "100.0%")
}

func TestCallbackDownloader_HTTPServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Length", "5")
		_, _ = w.Write([]byte("hello"))
	}))
	defer server.Close()

	d := NewCallbackDownloader(testTransferConfig(server.URL), testMessages(), server.Client(), nil)
	view := &recordingView{}

	outcome := d.Download(context.Background(), view)

	require.Equal(t, domain.OutcomeCompleted, outcome.Kind)
	assert.Equal(t, "hello\n...", view.lastText())
	assert.Equal(t, "100.0%", view.widths[len(view.widths)-1])
}
