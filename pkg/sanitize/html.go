package sanitize

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// sanitizeHTML re-tokenizes raw HTML and writes back only allowed tags
// with allowed attributes. Text is kept; comments and doctypes are not.
func (s *Sanitizer) sanitizeHTML(raw string) string {
	var sb strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(raw))

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			if err := tokenizer.Err(); err != nil && !errors.Is(err, io.EOF) {
				s.logger.Debug("html tokenizer stopped", "error", err)
			}
			return sb.String()
		}

		token := tokenizer.Token()
		switch tt {
		case html.TextToken:
			sb.WriteString(html.EscapeString(token.Data))

		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			if !s.policy.AllowsTag(token.Data) {
				s.logger.Debug("dropping raw tag", "tag", token.Data)
				continue
			}
			if tt != html.EndTagToken {
				token.Attr = s.filterHTMLAttrs(token.Data, token.Attr)
			}
			sb.WriteString(token.String())

		case html.CommentToken, html.DoctypeToken:
			s.logger.Debug("dropping raw markup", "type", tt.String())
		}
	}
}

func (s *Sanitizer) filterHTMLAttrs(tag string, attrs []html.Attribute) []html.Attribute {
	var kept []html.Attribute
	for _, attr := range attrs {
		if attr.Namespace != "" || !s.policy.AllowsAttr(tag, attr.Key) {
			continue
		}
		if key := strings.ToLower(attr.Key); (key == "href" || key == "src") && s.policy.CheckTarget(attr.Val) != nil {
			continue
		}
		kept = append(kept, attr)
	}
	return kept
}
