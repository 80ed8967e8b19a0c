// CLAUDE:SUMMARY PDF scanner: opens with pdfcpu (relaxed, optional password), runs the ten removal steps in order, re-serialises.
// CLAUDE:DEPENDS bleach/scanner.go, pdfbleach/document.go
// CLAUDE:EXPORTS Scanner, New, Config, ContentType
// Package pdfbleach removes active content from PDF documents.
//
// The document is parsed with pdfcpu and walked section by section:
// embedded files, the JavaScript name tree, the open action, catalog,
// page, annotation and form additional actions, the outline and finally a
// sweep over every remaining object. Each removed construct is recorded
// as a bleach.Threat in traversal order.
package pdfbleach

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/hazyhaar/docbleach/bleach"
)

// Scanner sanitizes PDF documents. It is stateless and safe for
// concurrent use.
type Scanner struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a PDF scanner.
func New(cfg Config) *Scanner {
	cfg.defaults()
	return &Scanner{cfg: cfg, logger: cfg.Logger}
}

func (s *Scanner) Name() string { return "pdf" }

// Supports reports whether the stream starts with the PDF signature.
func (s *Scanner) Supports(name string, p bleach.Peeker) bool {
	return bleach.HasMagic(p, magic)
}

// Scan sanitizes the PDF read from in and writes the cleaned document to out.
func (s *Scanner) Scan(ctx context.Context, name string, in io.Reader, out io.Writer, cred *bleach.Credentials) (*bleach.Result, error) {
	s.logger.Debug("sanitize pdf", "name", name)

	data, err := io.ReadAll(in)
	if err != nil {
		return nil, bleach.NewError("read", name, bleach.ErrContent, err)
	}
	cleaned, res, err := s.sanitize(ctx, name, data, cred, 0)
	if err != nil {
		return nil, err
	}
	if _, err := out.Write(cleaned); err != nil {
		return nil, bleach.NewError("write", name, bleach.ErrOutput, err)
	}
	return res, nil
}

// sanitize runs every removal step over one document. depth is the
// embedded nesting level, 0 for the top-level document.
func (s *Scanner) sanitize(ctx context.Context, name string, data []byte, cred *bleach.Credentials, depth int) (out []byte, res *bleach.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = bleach.NewError("parse", name, bleach.ErrContent, fmt.Errorf("pdf engine panic: %v", r))
		}
	}()

	pdf, err := s.open(name, data, cred)
	if err != nil {
		return nil, nil, err
	}
	cat, err := pdf.Catalog()
	if err != nil {
		return nil, nil, bleach.NewError("open", name, bleach.ErrContent, err)
	}

	d := &document{
		ctx:    pdf,
		reg:    bleach.NewRegistry(name, s.logger),
		cfg:    &s.cfg,
		logger: s.logger,
		name:   name,
	}

	s.stripEmbeddedFiles(ctx, d, cat, depth)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	d.stripNamesJavaScript(cat)
	d.stripOpenAction(cat)
	d.stripCatalogActions(cat)

	pages := d.pages(cat)
	d.stripPageActions(pages)
	d.stripAnnotations(pages)

	fields := d.fields(cat)
	d.stripFieldWidgets(fields)
	d.stripFieldActions(fields)

	d.stripOutline(cat)
	d.sweepObjects()

	var buf bytes.Buffer
	if err := api.WriteContext(pdf, &buf); err != nil {
		return nil, nil, bleach.NewError("write", name, bleach.ErrContent, err)
	}
	return buf.Bytes(), d.reg.Result(ContentType), nil
}

// open parses data, decrypting with the supplied secret when the document
// is protected.
func (s *Scanner) open(name string, data []byte, cred *bleach.Credentials) (*model.Context, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if secret := cred.SecretOrEmpty(); secret != "" {
		conf.UserPW = secret
		conf.OwnerPW = secret
	}

	pdf, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		if isPasswordError(err) {
			s.logger.Info("invalid credentials", "name", name)
			return nil, bleach.CredentialError(name)
		}
		return nil, bleach.NewError("parse", name, bleach.ErrContent, err)
	}
	if s.cfg.Validate {
		if err := api.ValidateContext(pdf); err != nil {
			return nil, bleach.NewError("validate", name, bleach.ErrContent, err)
		}
	}
	return pdf, nil
}

func isPasswordError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "password")
}
