// CLAUDE:SUMMARY Closed set of PDF threat sections and the action slots checked in each one.
package pdfbleach

import "github.com/hazyhaar/docbleach/bleach"

// ContentType is reported for every sanitized PDF.
const ContentType = "application/pdf"

// magic is the PDF file signature "%PDF".
var magic = []byte{0x25, 0x50, 0x44, 0x46}

const (
	SectionFormAdditionalAction    bleach.Section = "FORM_ADDITIONAL_ACTION"
	SectionPageAction              bleach.Section = "PAGE_ACTION"
	SectionCatalogAdditionalAction bleach.Section = "DOCUMENT_CATALOG_ADDITIONAL_ACTION"
	SectionCatalogAction           bleach.Section = "DOCUMENT_CATALOG_ACTION"
	SectionOutlineItemAction       bleach.Section = "DOCUMENT_OUTLINE_ITEM_ACTION"
	SectionAnnotationAction        bleach.Section = "ANNOTATION_ACTION"
	SectionNamesJavaScript         bleach.Section = "NAMES_JAVASCRIPT_ACTION"
)

// slot is one trigger entry of an action-bearing dictionary.
type slot struct {
	key         string
	description string
}

// catalogSlots are the document-level additional actions (catalog AA).
var catalogSlots = []slot{
	{"DP", "Action after printing"},
	{"DS", "Action after saving"},
	{"WC", "Action before closing"},
	{"WP", "Action before printing"},
	{"WS", "Action before saving"},
}

// pageSlots are the page additional actions, close before open.
var pageSlots = []slot{
	{"C", "Action when page is closed"},
	{"O", "Action when page is opened"},
}

// widgetSlots are the ten annotation additional actions of a widget.
var widgetSlots = []slot{
	{"Bl", "Action on annotation widget to be performed when annotation loses the input focus"},
	{"D", "Action on annotation widget to be performed when mouse button is pressed inside the annotation's active area"},
	{"E", "Action on annotation widget to be performed when the cursor enters the annotation's active area"},
	{"Fo", "Action on annotation widget to be performed when the annotation receives the input focus"},
	{"PC", "Action on annotation widget to be performed when the page containing the annotation is closed"},
	{"PI", "Action on annotation widget to be performed when the page containing the annotation is no longer visible"},
	{"PO", "Action on annotation widget to be performed when the page containing the annotation is opened"},
	{"PV", "Action on annotation widget to be performed when the page containing the annotation becomes visible"},
	{"U", "Action on annotation widget to be performed when the mouse button is released inside the annotation's active area"},
	{"X", "Action on annotation widget to be performed when the cursor exits the annotation's active area"},
}

// fieldSlots are the form field additional actions.
var fieldSlots = []slot{
	{"C", "Action on value change"},
	{"F", "Action to format the value"},
	{"K", "Action when the user types a keystroke"},
	{"V", "Action to validate the field's value"},
}

// embeddedVariants are the EF keys holding embedded file streams.
var embeddedVariants = []string{"F", "DOS", "Mac", "Unix", "UF"}
