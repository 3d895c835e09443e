package tui

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
)

// Highlighter applies per-line syntax highlighting with chroma. Lexers
// are cached per file path since a diff renders the same file many times.
type Highlighter struct {
	style     *chroma.Style
	formatter chroma.Formatter
	lexerOf   map[string]chroma.Lexer
}

// NewHighlighter builds a highlighter for the named chroma style. An
// unknown name falls back to chroma's default style.
func NewHighlighter(styleName string) *Highlighter {
	style := chromastyles.Get(styleName)
	if style == nil {
		style = chromastyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	return &Highlighter{
		style:     style,
		formatter: formatter,
		lexerOf:   map[string]chroma.Lexer{},
	}
}

// Highlight returns code with ANSI color codes for the language matched
// from path. Unknown languages and tokenizer errors return code unchanged.
func (h *Highlighter) Highlight(path, code string) string {
	lexer := h.lexer(path)
	if lexer == nil {
		return code
	}

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var b strings.Builder
	if err := h.formatter.Format(&b, h.style, it); err != nil {
		return code
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (h *Highlighter) lexer(path string) chroma.Lexer {
	if lexer, ok := h.lexerOf[path]; ok {
		return lexer
	}
	lexer := lexers.Match(path)
	if lexer != nil {
		lexer = chroma.Coalesce(lexer)
	}
	h.lexerOf[path] = lexer
	return lexer
}
