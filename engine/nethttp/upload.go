package nethttp

import (
	"fmt"
	"io"

	"github.com/kbukum/fetchkit/engine"
)

// uploadReader adapts the pull-based engine.UploadProvider to the
// io.Reader contract net/http expects. It doubles as the UploadSink:
// each provider operation answers through the result channel, so both
// synchronous and asynchronous providers work.
type uploadReader struct {
	provider engine.UploadProvider
	resCh    chan uploadResult
	done     bool
}

type uploadResult struct {
	n     int
	final bool
	err   error
}

var _ io.Reader = (*uploadReader)(nil)
var _ engine.UploadSink = (*uploadReader)(nil)

func newUploadReader(p engine.UploadProvider) *uploadReader {
	return &uploadReader{
		provider: p,
		resCh:    make(chan uploadResult, 1),
	}
}

func (u *uploadReader) Read(p []byte) (int, error) {
	if u.done {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	u.provider.Read(u, p)
	res := <-u.resCh
	if res.err != nil {
		return 0, fmt.Errorf("nethttp: upload read: %w", res.err)
	}
	if res.final {
		u.done = true
		return res.n, io.EOF
	}
	return res.n, nil
}

// rewind resets the provider for a body replay.
func (u *uploadReader) rewind() error {
	u.provider.Rewind(u)
	res := <-u.resCh
	if res.err != nil {
		return fmt.Errorf("nethttp: upload rewind: %w", res.err)
	}
	u.done = false
	return nil
}

func (u *uploadReader) OnReadSucceeded(bytesRead int, finalChunk bool) {
	u.resCh <- uploadResult{n: bytesRead, final: finalChunk}
}

func (u *uploadReader) OnReadError(err error) {
	u.resCh <- uploadResult{err: err}
}

func (u *uploadReader) OnRewindSucceeded() {
	u.resCh <- uploadResult{}
}

func (u *uploadReader) OnRewindError(err error) {
	u.resCh <- uploadResult{err: err}
}
