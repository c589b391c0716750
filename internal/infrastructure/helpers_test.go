package infrastructure

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/yourusername/fetchbar/internal/domain"
)

// recordingView captures every update in order
type recordingView struct {
	mu      sync.Mutex
	widths  []string
	percent []float64
	texts   []string
	onWidth func(w domain.Width)
}

func (r *recordingView) SetWidth(w domain.Width) {
	r.mu.Lock()
	r.widths = append(r.widths, w.String())
	r.percent = append(r.percent, w.Percent)
	cb := r.onWidth
	r.mu.Unlock()
	if cb != nil {
		cb(w)
	}
}

func (r *recordingView) SetText(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
}

func (r *recordingView) lastText() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.texts) == 0 {
		return ""
	}
	return r.texts[len(r.texts)-1]
}

// chunkedBody hands out data in fixed-size chunks, then err (io.EOF by default)
type chunkedBody struct {
	data  []byte
	chunk int
	err   error
	reads int
}

func (b *chunkedBody) Read(p []byte) (int, error) {
	b.reads++
	if len(b.data) == 0 {
		if b.err != nil {
			return 0, b.err
		}
		return 0, io.EOF
	}
	n := b.chunk
	if n > len(b.data) {
		n = len(b.data)
	}
	if n > len(p) {
		n = len(p)
	}
	copy(p, b.data[:n])
	b.data = b.data[n:]
	return n, nil
}

func (b *chunkedBody) Close() error { return nil }

// stubTransport answers every request with a canned response or error
type stubTransport struct {
	status        int
	contentLength int64
	body          *chunkedBody
	err           error
	requests      int
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.requests++
	if s.err != nil {
		return nil, s.err
	}
	return &http.Response{
		StatusCode:    s.status,
		Status:        http.StatusText(s.status),
		Header:        http.Header{},
		ContentLength: s.contentLength,
		Body:          s.body,
		Request:       req,
	}, nil
}

func newStubClient(s *stubTransport) *http.Client {
	return &http.Client{Transport: s}
}

func testTransferConfig(url string) *domain.TransferConfig {
	config := domain.DefaultConfig().Transfer
	config.URL = url
	return &config
}

func testMessages() *domain.MessagesConfig {
	messages := domain.DefaultConfig().Messages
	return &messages
}

var errConnectionReset = errors.New("connection reset by peer")

func repeatText(s string, n int) []byte {
	return []byte(strings.Repeat(s, n))
}
