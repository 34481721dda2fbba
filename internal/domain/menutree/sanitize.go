package menutree

import (
	"strings"

	"golang.org/x/net/html"
)

// allowedTags is the whitelist for rich-text editor content. Anything else
// is dropped along with its attributes; text content is always kept.
var allowedTags = map[string]bool{
	"p": true, "br": true, "strong": true, "em": true, "b": true, "i": true,
	"u": true, "span": true, "ul": true, "ol": true, "li": true, "a": true,
}

// allowedAttrs maps tag name to the attributes that survive sanitization.
var allowedAttrs = map[string]map[string]bool{
	"a": {"href": true, "title": true},
}

// Sanitize strips disallowed markup from rich-text content. Tags outside the
// whitelist are removed while their inner text is preserved, except for
// script and style whose content is dropped entirely.
func Sanitize(input string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(input))
	skipDepth := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return b.String()

		case html.TextToken:
			if skipDepth == 0 {
				b.WriteString(html.EscapeString(string(z.Text())))
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			token := z.Token()
			name := token.Data
			if name == "script" || name == "style" {
				if tt == html.StartTagToken {
					skipDepth++
				}
				continue
			}
			if !allowedTags[name] || skipDepth > 0 {
				continue
			}
			b.WriteByte('<')
			b.WriteString(name)
			for _, attr := range token.Attr {
				if allowedAttrs[name][attr.Key] && !unsafeAttrValue(attr.Val) {
					b.WriteByte(' ')
					b.WriteString(attr.Key)
					b.WriteString(`="`)
					b.WriteString(html.EscapeString(attr.Val))
					b.WriteByte('"')
				}
			}
			if tt == html.SelfClosingTagToken {
				b.WriteString("/>")
			} else {
				b.WriteByte('>')
			}

		case html.EndTagToken:
			token := z.Token()
			name := token.Data
			if name == "script" || name == "style" {
				if skipDepth > 0 {
					skipDepth--
				}
				continue
			}
			if allowedTags[name] && skipDepth == 0 {
				b.WriteString("</")
				b.WriteString(name)
				b.WriteByte('>')
			}
		}
	}
}

// unsafeAttrValue rejects attribute values carrying script URLs.
func unsafeAttrValue(val string) bool {
	v := strings.ToLower(strings.TrimSpace(val))
	return strings.HasPrefix(v, "javascript:") || strings.HasPrefix(v, "data:")
}

// EnsureParagraph wraps content in a paragraph when it does not already
// start with one, so text-editor widgets always hold block-level markup.
func EnsureParagraph(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "<p></p>"
	}
	if strings.HasPrefix(trimmed, "<p>") || strings.HasPrefix(trimmed, "<p ") {
		return trimmed
	}
	return "<p>" + trimmed + "</p>"
}
