// CLAUDE:SUMMARY Page tree walk, page open/close actions and link/widget annotation actions.
package pdfbleach

import "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

// pages returns the leaves of the page tree in document order. Cycles and
// malformed nodes are skipped.
func (d *document) pages(cat types.Dict) []types.Dict {
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
		node := d.dict(o)
		if node == nil {
			return
		}
		kids, hasKids := node["Kids"]
		if d.nameOf(node["Type"]) == "Page" || !hasKids {
			out = append(out, node)
			return
		}
		for _, kid := range d.array(kids) {
			walk(kid, depth+1)
		}
	}
	walk(cat["Pages"], 0)
	return out
}

func (d *document) stripPageActions(pages []types.Dict) {
	for _, page := range pages {
		d.stripAdditional(SectionPageAction, page, pageSlots)
	}
}

func (d *document) stripAnnotations(pages []types.Dict) {
	for _, page := range pages {
		for _, a := range d.array(page["Annots"]) {
			annot := d.dict(a)
			if annot == nil {
				continue
			}
			switch d.nameOf(annot["Subtype"]) {
			case "Link":
				d.takeAction(SectionAnnotationAction, "External link", annot, "A")
			case "Widget":
				d.stripWidget(annot)
			}
		}
	}
}

// stripWidget removes the activation action and the ten annotation
// additional actions of a widget.
func (d *document) stripWidget(widget types.Dict) {
	d.takeAction(SectionAnnotationAction, "External widget", widget, "A")
	d.stripAdditional(SectionAnnotationAction, widget, widgetSlots)
}
