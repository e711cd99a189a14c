package monitor

import "io"

// History is a bounded capture of the rendered output stream. It implements
// io.Writer and keeps only the last limit bytes written, so a session can
// run indefinitely while the interesting tail stays available for the
// output files. A limit of zero or less keeps everything.
//
// History is not safe for concurrent use; the session loop is its only
// writer.
type History struct {
	limit int
	buf   []byte
}

// NewHistory returns a History keeping the last limit bytes.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Write appends p, discarding the oldest bytes beyond the limit.
func (h *History) Write(p []byte) (int, error) {
	h.buf = append(h.buf, p...)
	if h.limit > 0 && len(h.buf) > h.limit {
		tail := len(h.buf) - h.limit
		h.buf = append(h.buf[:0], h.buf[tail:]...)
	}
	return len(p), nil
}

// Len returns the number of captured bytes.
func (h *History) Len() int {
	return len(h.buf)
}

// Bytes returns the captured tail. The slice aliases internal storage and is
// only valid until the next Write.
func (h *History) Bytes() []byte {
	return h.buf
}

// WriteTo copies the captured tail to w.
func (h *History) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(h.buf)
	return int64(n), err
}
