// Package ingest runs the byte-stream read -> pipeline.Feed loop
// (spec.md §5), honouring cooperative cancellation and applying the same
// exponential-backoff-on-read-error shape as the teacher's serial backend.
package ingest

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gopher-motorsports/gopher-vision/internal/logging"
	"github.com/gopher-motorsports/gopher-vision/internal/pipeline"
)

const (
	readBufSize  = 4096
	backoffMin   = 50 * time.Millisecond
	backoffMax   = 2 * time.Second
)

// sleepFn allows tests to intercept backoff sleeps.
var sleepFn = time.Sleep

// Run reads from r in a loop, feeding every chunk to p, until ctx is
// cancelled or r returns a fatal error. It checks ctx at the top of every
// iteration so a cancellation is observed within one read's worth of
// latency; on shutdown, any undelimited trailing bytes are discarded, per
// spec.md §5 ("no retry").
func Run(ctx context.Context, r io.Reader, p *pipeline.Pipeline, wg *sync.WaitGroup) {
	if wg != nil {
		wg.Add(1)
		defer wg.Done()
	}
	defer logging.L().Info("ingest_end")

	buf := make([]byte, readBufSize)
	backoff := backoffMin
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := r.Read(buf)
		if n > 0 {
			p.Feed(buf[:n])
			backoff = backoffMin
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			var perr *os.PathError
			if errors.As(err, &perr) {
				logging.L().Error("ingest_fatal_error", "error", err)
				return
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return
			}
			logging.L().Warn("ingest_read_error", "error", err, "backoff", backoff)
			sleepFn(backoff)
			backoff *= 2
			if backoff > backoffMax {
				backoff = backoffMax
			}
		}
	}
}
