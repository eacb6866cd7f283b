package classifier

import (
	"fmt"
	"sync"
)

// Lazy loads the model on first use and shares it for the rest of the
// process. A failed load is remembered: the artifact is never re-read.
type Lazy struct {
	load  func() (Model, error)
	once  sync.Once
	model Model
	err   error
}

// NewLazy defers LoadFile(path) until the first prediction.
func NewLazy(path string) *Lazy {
	return NewLazyFunc(func() (Model, error) { return LoadFile(path) })
}

// NewLazyFunc defers an arbitrary loader until the first prediction.
func NewLazyFunc(load func() (Model, error)) *Lazy {
	return &Lazy{load: load}
}

// Predict scores x with the shared model.
func (l *Lazy) Predict(x Features) (Prediction, error) {
	if err := l.Ready(); err != nil {
		return Prediction{}, err
	}
	return l.model.Predict(x)
}

// Ready forces the load and reports whether the model is usable.
func (l *Lazy) Ready() error {
	l.once.Do(func() {
		l.model, l.err = l.load()
		if l.err == nil && l.model == nil {
			l.err = fmt.Errorf("loader returned no model")
		}
	})
	if l.err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, l.err)
	}
	return nil
}
