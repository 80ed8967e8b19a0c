// CLAUDE:SUMMARY Human-readable payload of a removed action: JS text, URI, target file or destination depending on the action type.
package pdfbleach

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

type actionKind int

const (
	kindOther actionKind = iota
	kindJavaScript
	kindURI
	kindFile
	kindDestination
)

var actionKinds = map[string]actionKind{
	"JavaScript": kindJavaScript,
	"URI":        kindURI,
	"Launch":     kindFile,
	"SubmitForm": kindFile,
	"ImportData": kindFile,
	"GoToR":      kindFile,
	"Thread":     kindFile,
	"GoTo":       kindDestination,
	"GoToE":      kindDestination,
}

// describe renders the payload of an action value. Nil is returned when
// the value resolves to null.
func (d *document) describe(o types.Object) *string {
	obj := d.deref(o)
	if obj == nil {
		return nil
	}
	var s string
	if a, ok := obj.(types.Dict); ok {
		s = d.describeAction(a)
	} else {
		s = d.text(obj)
	}
	return &s
}

func (d *document) describeAction(a types.Dict) string {
	switch actionKinds[d.nameOf(a["S"])] {
	case kindJavaScript:
		if js, ok := a["JS"]; ok {
			return d.text(js)
		}
	case kindURI:
		if uri, ok := a["URI"]; ok {
			return d.text(uri)
		}
	case kindFile:
		if f, ok := a["F"]; ok {
			return d.fileName(f)
		}
	case kindDestination:
		if dest, ok := a["D"]; ok {
			return d.text(dest)
		}
	}
	return a.PDFString()
}

// fileName returns the unicode or plain file name of a file specification.
func (d *document) fileName(o types.Object) string {
	spec := d.dict(o)
	if spec == nil {
		return d.text(o)
	}
	for _, key := range []string{"UF", "F"} {
		if v, ok := spec[key]; ok {
			return d.text(v)
		}
	}
	return spec.PDFString()
}

// text renders a value as text: strings are decoded, script streams are
// decompressed and everything else uses its PDF syntax.
func (d *document) text(o types.Object) string {
	switch v := d.deref(o).(type) {
	case nil:
		return ""
	case types.StringLiteral, types.HexLiteral:
		return literalText(v)
	case types.Name:
		return string(v)
	case types.StreamDict:
		if v.Content == nil {
			if err := v.Decode(); err != nil {
				d.logger.Debug("script stream undecodable", "name", d.name, "error", err)
				return string(v.Raw)
			}
		}
		return textString(v.Content)
	default:
		return v.PDFString()
	}
}
