// Package markdown renders post bodies to HTML via goldmark, exposed as a
// templ component for views and as a plain writer API for the static builder.
package markdown

import (
	"bytes"
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// md is the shared converter. GFM gives tables, strikethrough, autolinks,
// and task lists; raw HTML in post bodies stays filtered (goldmark default)
// so pasted snippets cannot inject markup.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Typographer),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// Markdown returns a templ.Component that renders src as HTML.
func Markdown(src string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return Render(w, src)
	})
}

// Render writes the HTML representation of src to w.
func Render(w io.Writer, src string) error {
	return md.Convert([]byte(src), w)
}

// RenderString is a convenience wrapper returning the HTML as a string.
func RenderString(src string) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, src); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var (
	reHeading      = regexp.MustCompile(`^#{1,6}\s+`)
	reImage        = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	reMarkdownLink = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	reEmphasis     = regexp.MustCompile("[*_`]")
)

// Summary extracts a plain-text summary from the first paragraph of src,
// truncated to max runes on a word boundary. Headings, code blocks, and
// images are skipped; inline formatting is stripped.
func Summary(src string, max int) string {
	var para []string
	inCode := false
	for _, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(strings.TrimRight(raw, "\r"))
		if strings.HasPrefix(line, "```") {
			inCode = !inCode
			continue
		}
		if inCode {
			continue
		}
		if line == "" {
			if len(para) > 0 {
				break
			}
			continue
		}
		if reHeading.MatchString(line) || strings.HasPrefix(line, ">") ||
			strings.HasPrefix(line, "|") || reImage.MatchString(line) && reImage.FindString(line) == line {
			if len(para) > 0 {
				break
			}
			continue
		}
		para = append(para, line)
	}
	if len(para) == 0 {
		return ""
	}

	text := strings.Join(para, " ")
	text = reImage.ReplaceAllString(text, "$1")
	text = reMarkdownLink.ReplaceAllString(text, "$1")
	text = reEmphasis.ReplaceAllString(text, "")
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if max <= 0 || len(runes) <= max {
		return text
	}
	cut := string(runes[:max])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}
