// Package datasource defines the capability abstraction for byte-readable
// inputs. A Source is selected once at startup (file, URL, or standard
// input) and handed to the pipeline; no per-record branching on the input
// kind happens after that.
package datasource

import (
	"context"
	"io"
	"os"
)

// Source is anything that can be opened for sequential reading.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Stdin is a Source backed by the process's standard input.
//
// The returned closer is a no-op so callers can treat every source uniformly
// with defer rc.Close() without actually closing os.Stdin.
type Stdin struct{}

// Open returns standard input wrapped in a no-op closer.
func (Stdin) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return io.NopCloser(os.Stdin), nil
}
