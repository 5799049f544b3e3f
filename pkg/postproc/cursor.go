package postproc

// minBufferSize is the floor for the output buffer allocation. Replacements
// usually grow the text, so a little headroom avoids an early regrow on tiny
// inputs.
const minBufferSize = 128

// cursor walks the source text by byte offset and tracks the copy region
// bookkeeping for the output buffer. Bytes between mark and the current
// position are pending verbatim copy; they are flushed exactly once, either
// when a marker match repositions the mark or at end of input.
//
// The buffer is created lazily on the first flush, so a scan that matches no
// markers allocates nothing and returns the original text unchanged.
type cursor struct {
	src  string
	pos  int    // current read position
	mark int    // start of the next verbatim copy region
	buf  []byte // nil until the first replacement flush
}

// flushTo appends src[mark:end] to the output buffer and repositions the mark
// to newMark. Zero-length regions are skipped but the mark still moves.
func (c *cursor) flushTo(end, newMark int) {
	if c.buf == nil {
		size := len(c.src) * 2
		if size < minBufferSize {
			size = minBufferSize
		}
		c.buf = make([]byte, 0, size)
	}
	if end > c.mark {
		c.buf = append(c.buf, c.src[c.mark:end]...)
	}
	c.mark = newMark
}

// finish flushes any remaining verbatim tail and returns the result. If no
// marker ever matched, the original text is handed back unchanged.
func (c *cursor) finish() Result {
	if c.buf == nil {
		return Result{Text: c.src}
	}
	c.flushTo(len(c.src), len(c.src))
	return Result{Text: string(c.buf), Changed: true}
}
