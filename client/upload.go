package client

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/kbukum/fetchkit/body"
	"github.com/kbukum/fetchkit/engine"
)

// ErrRewindUnsupported is signalled when a body cannot be replayed.
var ErrRewindUnsupported = errors.New("rewinding is not supported")

// UploadStreamer adapts one body.Body to the engine's pull-based
// upload contract. The cursor fields are atomic: the engine pulls from
// its own goroutines while the owner may inspect progress.
//
// The streamer owns the body after handoff; Close disposes it.
type UploadStreamer struct {
	rewind func() (*body.Body, error)
	total  int64

	mu        sync.Mutex // guards b across rewinds and stream reads
	b         *body.Body
	bytesSent atomic.Int64
	completed atomic.Bool
}

var _ engine.UploadProvider = (*UploadStreamer)(nil)

// NewUploadStreamer creates a streamer over b. Buffered bodies are
// replayable; stream bodies are not.
func NewUploadStreamer(b *body.Body) *UploadStreamer {
	u := &UploadStreamer{b: b, total: body.LengthUnknown}
	if n, ok := b.Length(); ok {
		u.total = n
	}
	if _, ok := b.AsBytes(); ok {
		// Buffered bodies rewind in place; the data never moves.
		u.rewind = func() (*body.Body, error) { return b, nil }
	}
	return u
}

// WithRewind overrides the rewind factory, letting callers replay
// stream bodies that have an external way to reacquire a snapshot.
func (u *UploadStreamer) WithRewind(fn func() (*body.Body, error)) *UploadStreamer {
	u.rewind = fn
	return u
}

// Length returns the total body length, negative when unknown.
func (u *UploadStreamer) Length() int64 {
	return u.total
}

// BytesSent returns the upload cursor position.
func (u *UploadStreamer) BytesSent() int64 {
	return u.bytesSent.Load()
}

// Read supplies the next chunk into buf. The final flag is only ever
// reported on a zero-byte result: finality is discovered on the pull
// that finds no data left, never predicted on the pull before it.
// Every pull answers with exactly one sink call; pulls after the final
// chunk repeat the zero-final signal.
func (u *UploadStreamer) Read(sink engine.UploadSink, buf []byte) {
	if u.completed.Load() {
		sink.OnReadSucceeded(0, true)
		return
	}
	u.mu.Lock()
	data, buffered := u.b.AsBytes()
	u.mu.Unlock()
	if buffered {
		u.readBytes(sink, data, buf)
		return
	}
	u.readStream(sink, buf)
}

func (u *UploadStreamer) readBytes(sink engine.UploadSink, data, buf []byte) {
	total := int64(len(data))
	sent := u.bytesSent.Load()

	if sent > total {
		sink.OnReadError(fmt.Errorf("upload cursor %d beyond body length %d", sent, total))
		return
	}
	if total == 0 || sent == total {
		u.completed.Store(true)
		sink.OnReadSucceeded(0, true)
		return
	}

	toCopy := total - sent
	if int64(len(buf)) < toCopy {
		toCopy = int64(len(buf))
	}
	if toCopy == 0 {
		u.completed.Store(true)
		sink.OnReadSucceeded(0, true)
		return
	}

	copy(buf, data[sent:sent+toCopy])
	u.bytesSent.Add(toCopy)
	sink.OnReadSucceeded(int(toCopy), false)
}

func (u *UploadStreamer) readStream(sink engine.UploadSink, buf []byte) {
	u.mu.Lock()
	defer u.mu.Unlock()

	rc, ok := u.b.Stream()
	if !ok {
		sink.OnReadError(errors.New("upload body has no stream"))
		return
	}

	n, err := rc.Read(buf)
	if n > 0 {
		sent := u.bytesSent.Add(int64(n))
		if u.total >= 0 && sent > u.total {
			sink.OnReadError(fmt.Errorf("upload stream produced more than the declared %d bytes", u.total))
			return
		}
		sink.OnReadSucceeded(n, false)
		return
	}
	if err == nil || errors.Is(err, io.EOF) {
		u.completed.Store(true)
		sink.OnReadSucceeded(0, true)
		return
	}
	sink.OnReadError(err)
}

// Rewind resets the cursor for a body replay.
func (u *UploadStreamer) Rewind(sink engine.UploadSink) {
	if u.rewind == nil {
		sink.OnRewindError(ErrRewindUnsupported)
		return
	}
	nb, err := u.rewind()
	if err != nil {
		sink.OnRewindError(err)
		return
	}

	u.mu.Lock()
	if nb != u.b {
		_ = u.b.Close()
		u.b = nb
	}
	u.mu.Unlock()

	u.bytesSent.Store(0)
	u.completed.Store(false)
	sink.OnRewindSucceeded()
}

// Close releases the wrapped body.
func (u *UploadStreamer) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.b.Close()
}
