// CLAUDE:SUMMARY HTML scanner: drops script-capable elements, on* handlers and javascript:/vbscript: URLs, optional bluemonday pass.
// CLAUDE:DEPENDS bleach/scanner.go
// CLAUDE:EXPORTS Scanner, New, Config, ContentType
// Package htmlbleach removes active content from HTML documents.
package htmlbleach

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/hazyhaar/docbleach/bleach"
)

// ContentType is reported for every sanitized HTML document.
const ContentType = "text/html"

const (
	SectionScriptElement bleach.Section = "HTML_SCRIPT_ELEMENT"
	SectionEventHandler  bleach.Section = "HTML_EVENT_HANDLER"
	SectionScriptURL     bleach.Section = "HTML_SCRIPT_URL"
)

// peekSize is how far Supports looks past a BOM and leading whitespace.
const peekSize = 512

var activeElements = map[string]bool{
	"script": true,
	"iframe": true,
	"frame":  true,
	"object": true,
	"embed":  true,
	"applet": true,
}

var urlAttributes = map[string]bool{
	"href":       true,
	"src":        true,
	"action":     true,
	"formaction": true,
	"xlink:href": true,
	"data":       true,
}

var scriptSchemes = []string{"javascript:", "vbscript:"}

// Config configures the HTML scanner.
type Config struct {
	// Policy names a bluemonday policy applied to the rendered output:
	// "none" (or empty), "ugc" or "strict".
	Policy string `json:"policy" yaml:"policy"`

	// Logger for debug/error messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

// Validate checks the policy name.
func (c Config) Validate() error {
	switch c.Policy {
	case "", "none", "ugc", "strict":
		return nil
	}
	return fmt.Errorf("htmlbleach: unknown policy %q", c.Policy)
}

// Scanner sanitizes HTML documents. It is safe for concurrent use.
type Scanner struct {
	logger *slog.Logger
	policy *bluemonday.Policy
}

// New creates an HTML scanner. An unknown policy name disables the
// normalisation pass; call Config.Validate first to reject it.
func New(cfg Config) *Scanner {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	s := &Scanner{logger: cfg.Logger}
	switch cfg.Policy {
	case "ugc":
		s.policy = bluemonday.UGCPolicy()
	case "strict":
		s.policy = bluemonday.StrictPolicy()
	}
	return s
}

func (s *Scanner) Name() string { return "html" }

// Supports matches documents that open with a doctype or an html element,
// after an optional BOM and whitespace.
func (s *Scanner) Supports(_ string, p bleach.Peeker) bool {
	if p == nil {
		return false
	}
	head, _ := p.Peek(peekSize)
	head = bytes.TrimPrefix(head, []byte{0xEF, 0xBB, 0xBF})
	head = bytes.TrimLeft(head, " \t\r\n\f")
	lower := bytes.ToLower(head)
	return bytes.HasPrefix(lower, []byte("<!doctype html")) || bytes.HasPrefix(lower, []byte("<html"))
}

// Scan parses in, strips active content and writes the re-rendered document.
func (s *Scanner) Scan(ctx context.Context, name string, in io.Reader, out io.Writer, _ *bleach.Credentials) (*bleach.Result, error) {
	doc, err := html.Parse(in)
	if err != nil {
		return nil, bleach.NewError("parse", name, bleach.ErrContent, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reg := bleach.NewRegistry(name, s.logger)
	strip(reg, doc)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, bleach.NewError("render", name, bleach.ErrContent, err)
	}
	cleaned := buf.Bytes()
	if s.policy != nil {
		cleaned = s.policy.SanitizeBytes(cleaned)
	}
	if _, err := out.Write(cleaned); err != nil {
		return nil, bleach.NewError("write", name, bleach.ErrOutput, err)
	}
	return reg.Result(ContentType), nil
}

// strip walks n in document order, removing active elements and
// attributes.
func strip(reg *bleach.Registry, n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && activeElements[strings.ToLower(c.Data)] {
			reg.Register(SectionScriptElement, "Element "+strings.ToLower(c.Data), elementPayload(c))
			n.RemoveChild(c)
			c = next
			continue
		}
		if c.Type == html.ElementNode {
			stripAttributes(reg, c)
		}
		strip(reg, c)
		c = next
	}
}

func stripAttributes(reg *bleach.Registry, n *html.Node) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		key := attrKey(a)
		switch {
		case strings.HasPrefix(key, "on"):
			val := a.Val
			reg.Register(SectionEventHandler, "Event handler "+key, &val)
		case urlAttributes[key] && isScriptURL(a.Val):
			val := a.Val
			reg.Register(SectionScriptURL, "Script URL in "+key, &val)
		default:
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}

func attrKey(a html.Attribute) string {
	key := strings.ToLower(a.Key)
	if a.Namespace != "" {
		return a.Namespace + ":" + key
	}
	return key
}

// isScriptURL reports whether v uses a script scheme. Browsers ignore
// control characters and whitespace inside the scheme, so they are
// dropped before comparing.
func isScriptURL(v string) bool {
	cleaned := strings.Map(func(r rune) rune {
		if r <= 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, v)
	cleaned = strings.ToLower(cleaned)
	for _, scheme := range scriptSchemes {
		if strings.HasPrefix(cleaned, scheme) {
			return true
		}
	}
	return false
}

// elementPayload is the inline script text or the referenced resource.
func elementPayload(n *html.Node) *string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	if text := strings.TrimSpace(sb.String()); text != "" {
		return &text
	}
	for _, a := range n.Attr {
		switch strings.ToLower(a.Key) {
		case "src", "data", "code":
			val := a.Val
			return &val
		}
	}
	return nil
}
