package filewatch

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// UntilModifyContext returns a context that is canceled when any of the
// target paths is modified (written, created, removed, or renamed).
//
// Directories may be passed as targets; any change of a direct child
// cancels the context. The cause of the cancel names the changed path.
//
// When error is non-nil, both context and cancel function are nil.
func UntilModifyContext(ctx context.Context, targets ...string) (context.Context, func(), error) {
	cctx, cancel := context.WithCancelCause(ctx)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		cancel(err)
		return nil, nil, err
	}

	go func() {
		defer w.Close()

		for {
			select {
			case <-cctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				cancel(fmt.Errorf("%s is updated (%s)", event.Name, event.Op.String()))
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	for _, t := range targets {
		if err := w.Add(t); err != nil {
			cancel(err)
			return nil, nil, err
		}
	}
	return cctx, func() { cancel(nil) }, nil
}
