package pdfbleach

import "testing"

func TestSlotDescriptions(t *testing.T) {
	// WHAT: Every action slot keeps its fixed, human-readable description.
	// WHY: Threat descriptions are matched by downstream consumers; a reworded text is a breaking change.
	want := map[string]string{
		"catalog/DP": "Action after printing",
		"catalog/WS": "Action before saving",
		"page/C":     "Action when page is closed",
		"page/O":     "Action when page is opened",
		"field/C":    "Action on value change",
		"field/F":    "Action to format the value",
		"field/K":    "Action when the user types a keystroke",
		"field/V":    "Action to validate the field's value",
		"widget/Fo":  "Action on annotation widget to be performed when the annotation receives the input focus",
		"widget/PV":  "Action on annotation widget to be performed when the page containing the annotation becomes visible",
	}
	got := map[string]string{}
	for prefix, slots := range map[string][]slot{
		"catalog": catalogSlots,
		"page":    pageSlots,
		"field":   fieldSlots,
		"widget":  widgetSlots,
	} {
		for _, s := range slots {
			got[prefix+"/"+s.key] = s.description
		}
	}
	for k, w := range want {
		if got[k] != w {
			t.Errorf("%s = %q, want %q", k, got[k], w)
		}
	}
	if n := len(widgetSlots); n != 10 {
		t.Errorf("widget slots = %d, want 10", n)
	}
	if n := len(catalogSlots); n != 5 {
		t.Errorf("catalog slots = %d, want 5", n)
	}
}
