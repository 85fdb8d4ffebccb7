package pkg

import (
	"fmt"
	"io"

	"go.uber.org/multierr"
)

// FanOutWriter duplicates every write to all of its targets. A failing target
// does not stop the remaining ones; failures are reported together.
type FanOutWriter struct {
	targets []io.Writer
}

func NewFanOutWriter(targets ...io.Writer) *FanOutWriter {
	return &FanOutWriter{targets: targets}
}

// Write reports len(p) when at least one target took the full payload.
func (fw *FanOutWriter) Write(p []byte) (int, error) {
	var (
		err       error
		delivered bool
	)
	for i, target := range fw.targets {
		written, werr := target.Write(p)
		if werr == nil && written < len(p) {
			werr = io.ErrShortWrite
		}
		if werr != nil {
			err = multierr.Append(err, fmt.Errorf("target %d: %w", i, werr))
			continue
		}
		delivered = true
	}
	if !delivered {
		return 0, err
	}
	return len(p), err
}
