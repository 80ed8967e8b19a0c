// CLAUDE:SUMMARY Traversal state over a parsed pdfcpu context: dereferencing helpers and the has/describe/clear action capability.
// CLAUDE:DEPENDS pdfbleach/action.go, bleach/registry.go
package pdfbleach

import (
	"log/slog"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/hazyhaar/docbleach/bleach"
)

// maxTreeDepth bounds recursion through page, field, outline and name trees.
const maxTreeDepth = 64

// document is the per-scan traversal state. Every object reachable from
// the catalog is mutated in place; pdfcpu serialises the result.
type document struct {
	ctx    *model.Context
	reg    *bleach.Registry
	cfg    *Config
	logger *slog.Logger
	name   string
}

// deref resolves indirect references. Dangling references yield nil.
func (d *document) deref(o types.Object) types.Object {
	if o == nil {
		return nil
	}
	obj, err := d.ctx.Dereference(o)
	if err != nil {
		d.logger.Debug("dangling reference", "name", d.name, "ref", o.String(), "error", err)
		return nil
	}
	return obj
}

// dict resolves o to a dictionary. The dictionary of a stream is returned
// for stream objects.
func (d *document) dict(o types.Object) types.Dict {
	switch v := d.deref(o).(type) {
	case types.Dict:
		return v
	case types.StreamDict:
		return v.Dict
	}
	return nil
}

func (d *document) array(o types.Object) types.Array {
	if a, ok := d.deref(o).(types.Array); ok {
		return a
	}
	return nil
}

func (d *document) nameOf(o types.Object) string {
	if n, ok := d.deref(o).(types.Name); ok {
		return string(n)
	}
	return ""
}

// refNumber returns the object number behind o, or 0 for direct objects.
func refNumber(o types.Object) int {
	if ir, ok := o.(types.IndirectRef); ok {
		return int(ir.ObjectNumber)
	}
	return 0
}

// hasAction reports whether owner carries a non-null entry at key.
func (d *document) hasAction(owner types.Dict, key string) bool {
	v, ok := owner[key]
	return ok && d.deref(v) != nil
}

// takeAction records and removes the entry at key when present. A key
// whose value resolves to null is dropped without being recorded.
func (d *document) takeAction(section bleach.Section, description string, owner types.Dict, key string) {
	v, ok := owner[key]
	if !ok {
		return
	}
	if d.deref(v) != nil {
		d.reg.Register(section, description, d.describe(v))
	}
	delete(owner, key)
}

// strip runs takeAction for every slot in order.
func (d *document) strip(section bleach.Section, owner types.Dict, slots []slot) {
	for _, s := range slots {
		d.takeAction(section, s.description, owner, s.key)
	}
}

// stripAdditional strips slots from the AA dictionary of owner. An AA
// dictionary left empty is removed from owner.
func (d *document) stripAdditional(section bleach.Section, owner types.Dict, slots []slot) {
	v, ok := owner["AA"]
	if !ok {
		return
	}
	aa := d.dict(v)
	if aa == nil {
		return
	}
	d.strip(section, aa, slots)
	if len(aa) == 0 {
		delete(owner, "AA")
	}
}
