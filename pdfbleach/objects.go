// CLAUDE:SUMMARY Raw object sweep: every indirect object kept on write, walked through inline dicts/arrays, loses JS/JavaScript/AA entries.
package pdfbleach

import (
	"slices"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// maxInlineDepth bounds recursion into inline dictionaries and arrays.
const maxInlineDepth = 256

// reachable returns, in ascending order, the numbers of the indirect
// objects reachable from the trailer's Root and Info entries. These are the
// objects the writer serialises.
func (d *document) reachable() []int {
	seen := map[int]bool{}
	var stack []types.Object
	if d.ctx.Root != nil {
		stack = append(stack, *d.ctx.Root)
	}
	if d.ctx.Info != nil {
		stack = append(stack, *d.ctx.Info)
	}
	for len(stack) > 0 {
		o := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch v := o.(type) {
		case types.IndirectRef:
			nr := int(v.ObjectNumber)
			if seen[nr] {
				continue
			}
			entry, ok := d.ctx.Table[nr]
			if !ok || entry == nil || entry.Free || entry.Object == nil {
				continue
			}
			seen[nr] = true
			stack = append(stack, entry.Object)
		case types.Dict:
			for _, val := range v {
				stack = append(stack, val)
			}
		case types.StreamDict:
			for _, val := range v.Dict {
				stack = append(stack, val)
			}
		case types.Array:
			stack = append(stack, v...)
		}
	}
	nrs := make([]int, 0, len(seen))
	for nr := range seen {
		nrs = append(nrs, nr)
	}
	slices.Sort(nrs)
	return nrs
}

// sweepObjects is the fallback pass over the raw object graph. Streams are
// skipped and indirect references are not followed from inside an object.
func (d *document) sweepObjects() {
	for _, nr := range d.reachable() {
		switch o := d.ctx.Table[nr].Object.(type) {
		case types.Dict, types.Array:
			d.crawl(o, 0)
		}
	}
}

func (d *document) crawl(o types.Object, depth int) {
	if depth > maxInlineDepth {
		return
	}
	switch v := o.(type) {
	case types.Dict:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			val := v[k]
			switch {
			case k == "JS" || k == "JavaScript":
				d.reg.Register(SectionNamesJavaScript, "Script Action "+k, d.describe(val))
				delete(v, k)
			case k == "S" && isName(val, "JavaScript"):
				d.reg.Register(SectionNamesJavaScript, "Script Action", strPtr("JavaScript"))
				delete(v, k)
			case k == "AA":
				d.reg.Register(SectionNamesJavaScript, "Additional Action", strPtr(pdfString(val)))
				delete(v, k)
			default:
				d.crawl(val, depth+1)
			}
		}
	case types.Array:
		for _, item := range v {
			d.crawl(item, depth+1)
		}
	}
}

func isName(o types.Object, want string) bool {
	n, ok := o.(types.Name)
	return ok && string(n) == want
}

func strPtr(s string) *string { return &s }

func pdfString(o types.Object) string {
	if o == nil {
		return "null"
	}
	return o.PDFString()
}
