// CLAUDE:SUMMARY Interactive form field tree: widget actions (annotation section) then field additional actions, each as a pre-order pass.
package pdfbleach

import "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

// fields returns every field of the AcroForm in pre-order. Kids without a
// partial name (T) are widgets, not fields.
func (d *document) fields(cat types.Dict) []types.Dict {
	form := d.dict(cat["AcroForm"])
	if form == nil {
		return nil
	}
	var out []types.Dict
	seen := map[int]bool{}
	var walk func(o types.Object, depth int)
	walk = func(o types.Object, depth int) {
		if depth > maxTreeDepth {
			return
		}
		if nr := refNumber(o); nr > 0 {
			if seen[nr] {
				return
			}
			seen[nr] = true
		}
		field := d.dict(o)
		if field == nil {
			return
		}
		out = append(out, field)
		for _, kid := range d.array(field["Kids"]) {
			if k := d.dict(kid); k != nil && isField(k) {
				walk(kid, depth+1)
			}
		}
	}
	for _, f := range d.array(form["Fields"]) {
		walk(f, 0)
	}
	return out
}

func isField(node types.Dict) bool {
	_, ok := node["T"]
	return ok
}

// widgets returns the widget annotations of a field. A field without kids
// is merged with its single widget.
func (d *document) widgets(field types.Dict) []types.Dict {
	kids, ok := field["Kids"]
	if !ok {
		return []types.Dict{field}
	}
	var out []types.Dict
	for _, kid := range d.array(kids) {
		if w := d.dict(kid); w != nil && !isField(w) {
			out = append(out, w)
		}
	}
	return out
}

func (d *document) stripFieldWidgets(fields []types.Dict) {
	for _, field := range fields {
		for _, w := range d.widgets(field) {
			d.stripWidget(w)
		}
	}
}

func (d *document) stripFieldActions(fields []types.Dict) {
	for _, field := range fields {
		d.stripAdditional(SectionFormAdditionalAction, field, fieldSlots)
	}
}
