package lazyiter

import "go.llib.dev/frameless/pkg/errorkit"

// Option configures an Iterator at construction time.
type Option interface {
	configure(c *config)
}

// OnClose registers a function that releases the resources behind an Iterator.
// The registered functions run exactly once,
// either when the Iterator is closed or when it reaches the end of its sequence.
// Ownership of the callbacks moves together with the Iterator's state into transformations.
func OnClose(fn func() error) Option {
	return optionFunc(func(c *config) {
		if fn != nil {
			c.OnClose = append(c.OnClose, fn)
		}
	})
}

type config struct {
	OnClose []func() error
}

type optionFunc func(c *config)

func (fn optionFunc) configure(c *config) { fn(c) }

func toConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt.configure(&c)
	}
	return c
}

// releaser joins the given close functions into a single function that runs them only once.
// The returned function is never nil.
func releaser(fns ...func() error) func() error {
	var done bool
	return func() error {
		if done {
			return nil
		}
		done = true
		var errs []error
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			errs = append(errs, fn())
		}
		return errorkit.Merge(errs...)
	}
}

func noRelease() error { return nil }
