package infrastructure

import (
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// previewBuffer keeps the first limit characters of the text written to it
// and silently discards the rest.
type previewBuffer struct {
	limit int
	runes int
	sb    strings.Builder
}

func (p *previewBuffer) Write(b []byte) (int, error) {
	n := len(b)
	for len(b) > 0 && p.runes < p.limit {
		r, size := utf8.DecodeRune(b)
		p.sb.WriteRune(r)
		p.runes++
		b = b[size:]
	}
	return n, nil
}

// textPreview decodes a UTF-8 byte stream incrementally (a leading BOM is
// stripped, invalid sequences become U+FFFD) and retains only a bounded
// preview of the decoded text. Memory use does not grow with the body size.
type textPreview struct {
	buf    *previewBuffer
	w      io.WriteCloser
	closed bool
}

func newTextPreview(limit int) *textPreview {
	buf := &previewBuffer{limit: limit}
	return &textPreview{
		buf: buf,
		w:   transform.NewWriter(buf, unicode.UTF8BOM.NewDecoder()),
	}
}

// Write feeds raw body bytes; chunk boundaries may split multi-byte characters.
func (p *textPreview) Write(b []byte) (int, error) {
	return p.w.Write(b)
}

// Text flushes the decoder and returns the preview followed by marker.
func (p *textPreview) Text(marker string) string {
	if !p.closed {
		_ = p.w.Close()
		p.closed = true
	}
	return p.buf.sb.String() + marker
}
