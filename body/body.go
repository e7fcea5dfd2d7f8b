package body

import (
	"fmt"
	"io"
	"os"
)

// LengthUnknown is reported by Length for streams without a declared size.
const LengthUnknown int64 = -1

// Body is a request or response payload. It is one of two variants:
// an owned byte buffer, or a readable stream with an optionally known
// length. The zero value is not usable; use one of the constructors.
type Body struct {
	data   []byte
	stream io.ReadCloser
	length int64
}

// FromBytes creates a buffered body owning buf. The caller must not
// mutate buf after the handoff.
func FromBytes(buf []byte) *Body {
	return &Body{data: buf, length: int64(len(buf))}
}

// FromString creates a buffered body from the UTF-8 bytes of s.
func FromString(s string) *Body {
	return FromBytes([]byte(s))
}

// Empty creates a buffered body of length zero.
func Empty() *Body {
	return FromBytes(nil)
}

// FromReader creates a stream body of unknown length. If r implements
// io.ReadCloser its Close is invoked when the body is closed.
func FromReader(r io.Reader) *Body {
	return &Body{stream: asReadCloser(r), length: LengthUnknown}
}

// FromReaderLength creates a stream body with a declared length.
func FromReaderLength(r io.Reader, length int64) *Body {
	return &Body{stream: asReadCloser(r), length: length}
}

// FromFile opens path read-only and creates a stream body whose length
// is the file size. The file handle is released by Close; if
// construction fails after the open, the handle is released before
// returning.
func FromFile(path string) (*Body, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("body: open %s: %w", path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("body: stat %s: %w", path, err)
	}
	return &Body{stream: f, length: fi.Size()}, nil
}

// IsStream reports whether the body is a stream variant.
func (b *Body) IsStream() bool {
	return b.stream != nil
}

// AsBytes returns the underlying buffer for buffered bodies. Stream
// bodies return false: they are deliberately not materialized here,
// callers must not assume in-memory availability.
func (b *Body) AsBytes() ([]byte, bool) {
	if b.stream != nil {
		return nil, false
	}
	return b.data, true
}

// Length returns the payload length in bytes. The second return is
// false for streams of unknown length.
func (b *Body) Length() (int64, bool) {
	if b.length == LengthUnknown {
		return 0, false
	}
	return b.length, true
}

// Stream returns the underlying reader for stream bodies.
func (b *Body) Stream() (io.ReadCloser, bool) {
	if b.stream == nil {
		return nil, false
	}
	return b.stream, true
}

// ReadAll materializes the full payload. Buffered bodies return their
// buffer directly. Stream bodies are rewound to the start when the
// underlying reader is seekable, then read to completion; this is the
// only operation guaranteed to fully consume a stream.
func (b *Body) ReadAll() ([]byte, error) {
	if b.stream == nil {
		return b.data, nil
	}
	if s, ok := b.stream.(io.Seeker); ok {
		if _, err := s.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("body: seek to start: %w", err)
		}
	}
	data, err := io.ReadAll(b.stream)
	if err != nil {
		return nil, fmt.Errorf("body: read stream: %w", err)
	}
	return data, nil
}

// TryClone returns a deep copy for buffered bodies. Stream bodies are
// not generally replayable and return false.
func (b *Body) TryClone() (*Body, bool) {
	if b.stream != nil {
		return nil, false
	}
	dup := make([]byte, len(b.data))
	copy(dup, b.data)
	return FromBytes(dup), true
}

// Close releases the underlying stream handle, if any. Buffered bodies
// are a no-op. Close is safe to call more than once for file-backed
// bodies only in the sense that the second call returns the underlying
// close error; callers should close exactly once.
func (b *Body) Close() error {
	if b.stream == nil {
		return nil
	}
	return b.stream.Close()
}

func asReadCloser(r io.Reader) io.ReadCloser {
	if rc, ok := r.(io.ReadCloser); ok {
		return rc
	}
	return io.NopCloser(r)
}
