// CLAUDE:SUMMARY Embedded files: every PDF attachment in the EmbeddedFiles name tree is re-sanitized and its stream replaced.
// CLAUDE:DEPENDS pdfbleach/scanner.go
package pdfbleach

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// walkNameTree calls fn for every value of a name tree, leaf entries
// before kids.
func (d *document) walkNameTree(o types.Object, depth int, seen map[int]bool, fn func(key string, value types.Object)) {
	if depth > maxTreeDepth {
		return
	}
	if nr := refNumber(o); nr > 0 {
		if seen[nr] {
			return
		}
		seen[nr] = true
	}
	node := d.dict(o)
	if node == nil {
		return
	}
	names := d.array(node["Names"])
	for i := 0; i+1 < len(names); i += 2 {
		fn(d.text(names[i]), names[i+1])
	}
	for _, kid := range d.array(node["Kids"]) {
		d.walkNameTree(kid, depth+1, seen, fn)
	}
}

// stripEmbeddedFiles sanitizes every embedded PDF. Variants that cannot be
// sanitized are removed from their file specification.
func (s *Scanner) stripEmbeddedFiles(ctx context.Context, d *document, cat types.Dict, depth int) {
	names := d.dict(cat["Names"])
	if names == nil {
		return
	}
	tree, ok := names["EmbeddedFiles"]
	if !ok {
		return
	}
	done := map[int]bool{}
	d.walkNameTree(tree, 0, map[int]bool{}, func(key string, value types.Object) {
		spec := d.dict(value)
		if spec == nil {
			return
		}
		ef := d.dict(spec["EF"])
		if ef == nil {
			return
		}
		file := d.fileName(value)
		if file == "" {
			file = key
		}
		for _, variant := range embeddedVariants {
			ref, ok := ef[variant]
			if !ok {
				continue
			}
			if nr := refNumber(ref); nr > 0 && done[nr] {
				continue
			}
			err := s.sanitizeEmbedded(ctx, d, file, ref, depth)
			if err != nil {
				d.logger.Warn("embedded file removed", "name", d.name, "file", file, "variant", variant, "error", err)
				delete(ef, variant)
				continue
			}
			done[refNumber(ref)] = true
		}
	})
}

// sanitizeEmbedded replaces the content of the embedded file stream at ref
// with its sanitized form. Non-PDF content is left untouched.
func (s *Scanner) sanitizeEmbedded(ctx context.Context, d *document, file string, ref types.Object, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	nr := refNumber(ref)
	if nr == 0 {
		return errors.New("embedded file is not an indirect stream")
	}
	entry, ok := d.ctx.Table[nr]
	if !ok || entry == nil || entry.Free {
		return fmt.Errorf("object %d missing", nr)
	}
	sd, ok := entry.Object.(types.StreamDict)
	if !ok {
		return fmt.Errorf("object %d is not a stream", nr)
	}
	if sd.Content == nil {
		if err := sd.Decode(); err != nil {
			return fmt.Errorf("decode object %d: %w", nr, err)
		}
	}
	if !bytes.HasPrefix(sd.Content, magic) {
		d.logger.Debug("embedded file is not a pdf", "name", d.name, "file", file)
		return nil
	}
	if depth+1 > s.cfg.MaxEmbeddedDepth {
		return fmt.Errorf("embedded nesting deeper than %d", s.cfg.MaxEmbeddedDepth)
	}

	cleaned, res, err := s.sanitize(ctx, file, sd.Content, nil, depth+1)
	if err != nil {
		return err
	}
	if s.cfg.ReportEmbeddedThreats {
		for _, t := range res.Threats {
			d.reg.Register(t.Section, t.Description, t.Action)
		}
	} else if len(res.Threats) > 0 {
		d.logger.Info("embedded threats not reported", "name", d.name, "file", file, "threats", len(res.Threats))
	}

	sd.Content = cleaned
	if err := sd.Encode(); err != nil {
		return fmt.Errorf("encode object %d: %w", nr, err)
	}
	sd.Dict["Length"] = types.Integer(len(sd.Raw))
	size := types.Integer(len(cleaned))
	if params := d.dict(sd.Dict["Params"]); params != nil {
		params["Size"] = size
	} else {
		sd.Dict["Params"] = types.Dict{"Size": size}
	}
	entry.Object = sd
	return nil
}
