package render

import (
	"os"
	"sync/atomic"

	"golang.org/x/term"
)

// QuitWatcher puts stdin into raw mode and watches for a 'q' keypress or
// Ctrl-C, setting an atomic flag a render pool can poll as its Options.Abort
// callback. It adapts the original engine's windowed event-loop exit (an
// SDL key/quit event read every frame) to a terminal session: there is no
// windowing toolkit here, so the quit signal comes from raw stdin instead.
type QuitWatcher struct {
	fd       int
	oldState *term.State
	quit     int32
}

// NewQuitWatcher starts watching os.Stdin. If stdin is not a terminal (e.g.
// output is piped in a batch run) it returns a watcher whose Abort always
// reports false and whose Close is a no-op.
func NewQuitWatcher() (*QuitWatcher, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return &QuitWatcher{fd: -1}, nil
	}

	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	w := &QuitWatcher{fd: fd, oldState: old}
	go w.watch()
	return w, nil
}

func (w *QuitWatcher) watch() {
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			return
		}
		switch buf[0] {
		case 'q', 'Q', 3: // 3 == Ctrl-C under raw mode
			atomic.StoreInt32(&w.quit, 1)
			return
		}
	}
}

// Abort reports whether the user has requested an early stop. Safe to use
// directly as Options.Abort.
func (w *QuitWatcher) Abort() bool {
	return atomic.LoadInt32(&w.quit) != 0
}

// Close restores the terminal's prior mode. No-op if stdin was never raw.
func (w *QuitWatcher) Close() error {
	if w.oldState == nil {
		return nil
	}
	return term.Restore(w.fd, w.oldState)
}
