package interpreter

import (
	"io"
	"sync"

	"github.com/ConorOBrien-Foxx/Maverick/pkg/runtime"
)

// StaticHost serves a fixed argument list and a shared output writer.
type StaticHost struct {
	args []string
	out  io.Writer
}

// NewHost returns a host exposing args to `<>`/`arg` and directing `out`
// and `outc` to w. A nil writer discards output.
func NewHost(args []string, w io.Writer) *StaticHost {
	if w == nil {
		w = io.Discard
	}
	copied := append([]string(nil), args...)
	return &StaticHost{args: copied, out: &lockedWriter{w: w}}
}

func (h *StaticHost) Args() []string { return h.args }

func (h *StaticHost) Output() io.Writer { return h.out }

var _ runtime.Host = (*StaticHost)(nil)

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
