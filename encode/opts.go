package encode

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

type options struct {
	colors bool
}

// Option configures rendering.
type Option func(*options)

// WithColors turns on ANSI coloring of comments and selectors,
// regardless of the output destination.
func WithColors() Option {
	return func(o *options) {
		o.colors = true
	}
}

// WithTTYColors turns on coloring only when w is a terminal.
func WithTTYColors(w io.Writer) Option {
	return func(o *options) {
		f, ok := w.(*os.File)
		o.colors = ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
	}
}
