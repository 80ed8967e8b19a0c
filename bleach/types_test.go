package bleach

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestResult_Merge(t *testing.T) {
	// WHAT: Merge keeps the first content type, ORs modified and appends threats.
	r := NewResult()
	r.Merge(&Result{ContentType: "application/pdf", ModifiedContent: true, Threats: []Threat{{Section: "A"}}})
	r.Merge(&Result{ContentType: "text/html", Threats: []Threat{{Section: "B"}}})
	r.Merge(nil)

	if r.ContentType != "application/pdf" {
		t.Errorf("content type = %q", r.ContentType)
	}
	if !r.ModifiedContent {
		t.Error("modified must stay true")
	}
	if len(r.Threats) != 2 || r.Threats[1].Section != "B" {
		t.Errorf("threats = %+v", r.Threats)
	}
}

func TestResult_MergeBlankContentType(t *testing.T) {
	r := NewResult()
	r.Merge(&Result{ContentType: "  "})
	r.Merge(&Result{ContentType: "text/plain"})
	if r.ContentType != "text/plain" {
		t.Errorf("content type = %q", r.ContentType)
	}
}

func TestRegistry_Order(t *testing.T) {
	// WHAT: Threats keep registration order; Result sets modified from count.
	reg := NewRegistry("doc", nil)
	if res := reg.Result("x"); res.ModifiedContent || res.Threats == nil {
		t.Errorf("empty registry result = %+v", res)
	}
	payload := "var x;"
	reg.Register("S1", "first", &payload)
	reg.Register("S2", "second", nil)
	res := reg.Result("application/pdf")
	if reg.Len() != 2 || !res.ModifiedContent {
		t.Fatalf("result = %+v", res)
	}
	if res.Threats[0].Description != "first" || *res.Threats[0].Action != payload || res.Threats[1].Action != nil {
		t.Errorf("threats = %+v", res.Threats)
	}
}

func TestThreat_JSON(t *testing.T) {
	// WHAT: A nil action serialises as null.
	data, err := json.Marshal(Threat{Section: "S", Description: "d"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"action":null`) {
		t.Errorf("json = %s", data)
	}
}

func TestCredentials_SecretHidden(t *testing.T) {
	// WHAT: The secret never appears in JSON output.
	data, _ := json.Marshal(Credentials{Username: "u", Secret: "hunter2"})
	if strings.Contains(string(data), "hunter2") {
		t.Errorf("secret leaked: %s", data)
	}
	var nilCred *Credentials
	if nilCred.SecretOrEmpty() != "" {
		t.Error("nil credentials must yield empty secret")
	}
}

func TestError_Kinds(t *testing.T) {
	// WHAT: Errors match both their kind and their cause.
	cause := errors.New("xref broken")
	err := NewError("parse", "a.pdf", ErrContent, cause)
	if !errors.Is(err, ErrContent) || !errors.Is(err, cause) {
		t.Errorf("errors.Is failed for %v", err)
	}
	if errors.Is(err, ErrCredentials) {
		t.Error("unexpected kind match")
	}

	cred := CredentialError("a.pdf")
	if cred.Error() != "Invalid credentials!" || !errors.Is(cred, ErrCredentials) {
		t.Errorf("credential error = %v", cred)
	}
	var be *Error
	if !errors.As(cred, &be) || be.Name != "a.pdf" {
		t.Errorf("errors.As = %+v", be)
	}
}
