package htmlbleach

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/hazyhaar/docbleach/bleach"
)

func scanHTML(t *testing.T, cfg Config, input string) (*bleach.Result, string) {
	t.Helper()
	var out bytes.Buffer
	res, err := New(cfg).Scan(context.Background(), "page.html", strings.NewReader(input), &out, nil)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	return res, out.String()
}

func TestSupports(t *testing.T) {
	s := New(Config{})
	cases := map[string]bool{
		"<!DOCTYPE html><html></html>":   true,
		"\xEF\xBB\xBF  \n<html lang=fr>": true,
		"<HTML>":                         true,
		"%PDF-1.7":                       false,
		"<div>fragment</div>":            false,
		"":                               false,
	}
	for input, want := range cases {
		r := bufio.NewReader(strings.NewReader(input))
		if got := s.Supports("x", r); got != want {
			t.Errorf("Supports(%q) = %v, want %v", input, got, want)
		}
		rest := make([]byte, len(input))
		n, _ := r.Read(rest)
		if input != "" && string(rest[:n]) != input[:n] {
			t.Errorf("probe consumed %q", input)
		}
	}
}

func TestScan_RemovesScripts(t *testing.T) {
	// WHAT: Script elements, handlers and script URLs are stripped in document order.
	// WHY: These are the three ways HTML carries executable code.
	input := `<!doctype html><html><head><script>alert(1)</script></head>
<body onload="boot()"><a href=" JaVa&#09;script:evil()">x</a>
<iframe src="http://ads.example"></iframe><p>keep me</p></body></html>`
	res, out := scanHTML(t, Config{}, input)

	want := []bleach.Section{SectionScriptElement, SectionEventHandler, SectionScriptURL, SectionScriptElement}
	if len(res.Threats) != len(want) {
		t.Fatalf("threats = %+v", res.Threats)
	}
	for i, s := range want {
		if res.Threats[i].Section != s {
			t.Errorf("threat %d = %s, want %s", i, res.Threats[i].Section, s)
		}
	}
	if *res.Threats[0].Action != "alert(1)" {
		t.Errorf("script payload = %q", *res.Threats[0].Action)
	}
	if *res.Threats[3].Action != "http://ads.example" {
		t.Errorf("iframe payload = %q", *res.Threats[3].Action)
	}
	for _, bad := range []string{"<script", "onload", "javascript", "<iframe"} {
		if strings.Contains(strings.ToLower(out), bad) {
			t.Errorf("output still contains %q: %s", bad, out)
		}
	}
	if !strings.Contains(out, "keep me") {
		t.Errorf("content lost: %s", out)
	}
	if res.ContentType != ContentType || !res.ModifiedContent {
		t.Errorf("result = %+v", res)
	}
}

func TestScan_Clean(t *testing.T) {
	res, out := scanHTML(t, Config{}, `<html><body><a href="https://example.com">ok</a></body></html>`)
	if len(res.Threats) != 0 || res.ModifiedContent {
		t.Errorf("result = %+v", res)
	}
	if !strings.Contains(out, `href="https://example.com"`) {
		t.Errorf("safe link altered: %s", out)
	}
}

func TestScan_UGCPolicy(t *testing.T) {
	// WHAT: The ugc policy normalises what remains after stripping.
	// WHY: Operators can opt into a whitelist on top of the structural pass.
	res, out := scanHTML(t, Config{Policy: "ugc"}, `<html><body><p style="color:red">hi</p><form><input name=q></form></body></html>`)
	if len(res.Threats) != 0 {
		t.Errorf("threats = %+v", res.Threats)
	}
	if strings.Contains(out, "<form") || strings.Contains(out, "style=") {
		t.Errorf("policy not applied: %s", out)
	}
	if !strings.Contains(out, "hi") {
		t.Errorf("text lost: %s", out)
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := (Config{Policy: "ugc"}).Validate(); err != nil {
		t.Error(err)
	}
	if err := (Config{Policy: "lax"}).Validate(); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestPipeline_HTMLAfterPDF(t *testing.T) {
	// WHAT: The html scanner plugs into the pipeline and ignores PDF bytes.
	pipe := bleach.NewPipeline(bleach.Config{}, New(Config{}))
	var out bytes.Buffer
	res, err := pipe.Scan(context.Background(), "a.html", strings.NewReader(`<html><body onclick="x()"></body></html>`), &out, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Threats) != 1 || res.Threats[0].Section != SectionEventHandler {
		t.Errorf("threats = %+v", res.Threats)
	}
}
