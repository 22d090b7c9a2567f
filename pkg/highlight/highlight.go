// Package highlight colours YAML and JSON output for terminals.
package highlight

import (
	"bytes"
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/termenv"
)

// DefaultStyle is the chroma style used unless [WithStyle] is given.
const DefaultStyle = "monokai"

// Option configures a [Renderer].
type Option func(*options)

type options struct {
	profile *termenv.Profile
	style   string
}

// WithStyle selects a chroma style by name. Unknown names fall back to
// chroma's default style.
func WithStyle(name string) Option {
	return func(o *options) {
		o.style = name
	}
}

// WithProfile overrides the colour profile detected from the terminal.
func WithProfile(p termenv.Profile) Option {
	return func(o *options) {
		o.profile = &p
	}
}

// Renderer highlights source text in one language.
type Renderer struct {
	lexer     chroma.Lexer
	formatter chroma.Formatter
	style     *chroma.Style
}

// New creates a [Renderer] for language, e.g. "yaml" or "json". Unknown
// languages are rendered as plain text.
func New(language string, opts ...Option) *Renderer {
	o := &options{style: DefaultStyle}
	for _, opt := range opts {
		opt(o)
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}

	profile := termenv.ColorProfile()
	if o.profile != nil {
		profile = *o.profile
	}

	formatterName := "noop"
	switch profile {
	case termenv.TrueColor:
		formatterName = "terminal16m"

	case termenv.ANSI256:
		formatterName = "terminal256"

	case termenv.ANSI:
		formatterName = "terminal8"

	case termenv.Ascii:
	}

	return &Renderer{
		lexer:     chroma.Coalesce(lexer),
		formatter: formatters.Get(formatterName),
		style:     styles.Get(o.style),
	}
}

// Render writes src to w with highlighting.
func (r *Renderer) Render(w io.Writer, src string) error {
	iterator, err := r.lexer.Tokenise(nil, src)
	if err != nil {
		return fmt.Errorf("lexer tokenize: %w", err)
	}

	err = r.formatter.Format(w, r.style, iterator)
	if err != nil {
		return fmt.Errorf("format: %w", err)
	}

	return nil
}

// String returns src with highlighting.
func (r *Renderer) String(src string) (string, error) {
	buf := &bytes.Buffer{}

	err := r.Render(buf, src)
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}
