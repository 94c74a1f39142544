package terminal

import (
	"fmt"
	"io"
	"time"
)

// scopeTimer annotates the duration of an enclosing scope to w when
// stopped. Stop is usually deferred right after construction.
type scopeTimer struct {
	w     io.Writer
	label string
	start time.Time
}

func newScopeTimer(w io.Writer, label string) *scopeTimer {
	return &scopeTimer{w: w, label: label, start: time.Now()}
}

func (t *scopeTimer) stop() {
	fmt.Fprintf(t.w, "%s%v\n", t.label, time.Since(t.start))
}
