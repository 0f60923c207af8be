// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package boardtui

import (
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// markdownParserInstance is initialized once and reused: the parser
// configuration never changes and goldmark parsers are safe to share.
var (
	markdownParserInstance goldmark.Markdown
	markdownParserOnce     sync.Once
)

func getMarkdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParserInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return markdownParserInstance
}

// renderMarkdown renders a ticket description as styled terminal
// text. Soft line breaks become spaces so hard-wrapped source reflows
// at the pane width; fenced code blocks are syntax-highlighted.
func renderMarkdown(input string, theme Theme, width int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	source := []byte(input)
	document := getMarkdownParser().Parser().Parse(text.NewReader(source))

	// Force the ANSI256 profile: this output always goes to the
	// bubbletea renderer, and auto-detection would strip color in
	// environments without a TTY (tests, CI).
	lipRenderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lipRenderer.SetColorProfile(termenv.ANSI256)

	renderer := &markdownRenderer{
		source:      source,
		theme:       theme,
		width:       width,
		lipRenderer: lipRenderer,
	}
	if err := ast.Walk(document, renderer.walk); err != nil {
		// The walk never returns an error; fall back to the raw text
		// if that ever changes.
		return input
	}
	return strings.TrimRight(renderer.output.String(), "\n")
}

// markdownRenderer walks the goldmark AST accumulating inline content
// per block, then word-wraps each block as a unit.
type markdownRenderer struct {
	source      []byte
	theme       Theme
	width       int
	lipRenderer *lipgloss.Renderer

	output strings.Builder
	inline strings.Builder
	bold   bool
	italic bool
	quote  int
	list   int
}

func (r *markdownRenderer) style() lipgloss.Style {
	return r.lipRenderer.NewStyle()
}

func (r *markdownRenderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch typed := node.(type) {
	case *ast.Heading:
		if entering {
			r.inline.Reset()
		} else {
			heading := r.style().Bold(true).Foreground(r.theme.HeaderForeground).
				Render(strings.Repeat("#", typed.Level) + " " + r.inline.String())
			r.writeBlock(heading)
		}

	case *ast.Paragraph, *ast.TextBlock:
		if entering {
			r.inline.Reset()
		} else {
			r.writeBlock(ansi.Wrap(r.inline.String(), r.blockWidth(), " "))
		}

	case *ast.FencedCodeBlock:
		if entering {
			var code strings.Builder
			for i := range typed.Lines().Len() {
				segment := typed.Lines().At(i)
				code.Write(segment.Value(r.source))
			}
			r.writeBlock(r.highlightCode(code.String(), string(typed.Language(r.source))))
			return ast.WalkSkipChildren, nil
		}

	case *ast.Blockquote:
		if entering {
			r.quote++
		} else {
			r.quote--
		}

	case *ast.List:
		if entering {
			r.list++
		} else {
			r.list--
		}

	case *ast.ListItem:
		if entering {
			r.inline.Reset()
		}

	case *ast.Text:
		if entering {
			r.writeInline(string(typed.Segment.Value(r.source)))
			if typed.SoftLineBreak() {
				r.inline.WriteByte(' ')
			}
			if typed.HardLineBreak() {
				r.inline.WriteByte('\n')
			}
		}

	case *ast.Emphasis:
		if entering {
			if typed.Level >= 2 {
				r.bold = true
			} else {
				r.italic = true
			}
		} else {
			if typed.Level >= 2 {
				r.bold = false
			} else {
				r.italic = false
			}
		}

	case *ast.CodeSpan:
		if entering {
			r.inline.WriteString(r.style().Foreground(r.theme.HeaderForeground).
				Render(string(typed.Text(r.source))))
			return ast.WalkSkipChildren, nil
		}

	case *ast.Link:
		if !entering {
			r.inline.WriteString(r.style().Foreground(r.theme.FaintText).
				Render(" (" + string(typed.Destination) + ")"))
		}
	}
	return ast.WalkContinue, nil
}

func (r *markdownRenderer) writeInline(content string) {
	style := r.style().Foreground(r.theme.NormalText)
	if r.bold {
		style = style.Bold(true)
	}
	if r.italic {
		style = style.Italic(true)
	}
	r.inline.WriteString(style.Render(content))
}

// writeBlock emits one finished block with its blockquote/list prefix
// and a trailing blank line.
func (r *markdownRenderer) writeBlock(content string) {
	if content == "" {
		return
	}
	prefix := strings.Repeat("│ ", r.quote)
	if r.list > 0 {
		prefix += strings.Repeat("  ", r.list-1) + "• "
	}
	for _, line := range strings.Split(content, "\n") {
		r.output.WriteString(prefix)
		r.output.WriteString(line)
		r.output.WriteByte('\n')
		if r.list > 0 {
			// Continuation lines of a list item align under the text.
			prefix = strings.Repeat("│ ", r.quote) + strings.Repeat("  ", r.list)
		}
	}
	if r.list == 0 {
		r.output.WriteByte('\n')
	}
}

func (r *markdownRenderer) blockWidth() int {
	width := r.width - 2*r.quote - 2*r.list
	if width < 20 {
		width = 20
	}
	return width
}

// highlightCode syntax-highlights code with chroma, falling back to
// faint plain text for unknown languages.
func (r *markdownRenderer) highlightCode(code, language string) string {
	code = strings.TrimRight(code, "\n")
	if language == "" {
		return r.style().Foreground(r.theme.FaintText).Render(code)
	}
	var buffer strings.Builder
	if err := quick.Highlight(&buffer, code, language, "terminal256", "monokai"); err != nil {
		return r.style().Foreground(r.theme.FaintText).Render(code)
	}
	return strings.TrimRight(buffer.String(), "\n")
}
