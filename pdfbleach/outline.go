// CLAUDE:SUMMARY Document outline: actions of top-level bookmarks, nested levels only when ScanNestedOutlines is set.
package pdfbleach

import "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

func (d *document) stripOutline(cat types.Dict) {
	root := d.dict(cat["Outlines"])
	if root == nil {
		return
	}
	first, ok := root["First"]
	if !ok {
		return
	}
	d.stripOutlineLevel(first, 0, map[int]bool{})
}

// stripOutlineLevel follows the Next chain starting at first.
func (d *document) stripOutlineLevel(first types.Object, depth int, seen map[int]bool) {
	for item := first; item != nil; {
		if nr := refNumber(item); nr > 0 {
			if seen[nr] {
				return
			}
			seen[nr] = true
		}
		entry := d.dict(item)
		if entry == nil {
			return
		}
		d.takeAction(SectionOutlineItemAction, "Action", entry, "A")

		if d.cfg.ScanNestedOutlines && depth < maxTreeDepth {
			if child, ok := entry["First"]; ok {
				d.stripOutlineLevel(child, depth+1, seen)
			}
		}
		item = entry["Next"]
	}
}
