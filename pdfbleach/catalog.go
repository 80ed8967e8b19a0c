// CLAUDE:SUMMARY Document-level steps: document JavaScript name tree, OpenAction and catalog additional actions.
package pdfbleach

import "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

// stripNamesJavaScript removes the document-level JavaScript name tree.
// The whole tree counts as one threat.
func (d *document) stripNamesJavaScript(cat types.Dict) {
	names := d.dict(cat["Names"])
	if names == nil {
		return
	}
	if _, ok := names["JavaScript"]; !ok {
		return
	}
	d.reg.Register(SectionNamesJavaScript, "Action", nil)
	delete(names, "JavaScript")
}

func (d *document) stripOpenAction(cat types.Dict) {
	d.takeAction(SectionCatalogAction, "OpenAction", cat, "OpenAction")
}

func (d *document) stripCatalogActions(cat types.Dict) {
	d.stripAdditional(SectionCatalogAdditionalAction, cat, catalogSlots)
}
