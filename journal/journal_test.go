package journal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hazyhaar/docbleach/bleach"
	"github.com/hazyhaar/docbleach/dbopen"
	"github.com/hazyhaar/docbleach/kit"
)

func newJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := New(dbopen.OpenMemory(t))
	if err != nil {
		t.Fatal(err)
	}
	return j
}

func TestRecord_Recent(t *testing.T) {
	// WHAT: Recorded runs come back newest first with their threats.
	// WHY: Operators audit what was removed from which upload.
	j := newJournal(t)
	ctx := context.Background()

	base := time.Unix(1_700_000_000, 0)
	tick := 0
	j.now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Second) }

	payload := "var x = 1;"
	runs := []bleach.Run{
		{Name: "a.pdf", SHA256: "aa", Size: 10, Result: &bleach.Result{
			ContentType: "application/pdf", ModifiedContent: true,
			Threats: []bleach.Threat{{Section: "DOCUMENT_CATALOG_ACTION", Description: "OpenAction", Action: &payload}},
		}, Duration: 1500 * time.Millisecond, RequestID: "req_1"},
		{Name: "b.pdf", SHA256: "bb", Size: 20, Err: errors.New("Invalid credentials!")},
	}
	for _, r := range runs {
		if err := j.Record(ctx, r); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := j.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("entries = %d", len(got))
	}
	if got[0].Name != "b.pdf" || got[0].Error != "Invalid credentials!" || len(got[0].Threats) != 0 {
		t.Errorf("newest = %+v", got[0])
	}
	a := got[1]
	if !a.Modified || a.ThreatCount != 1 || a.ContentType != "application/pdf" || a.RequestID != "req_1" {
		t.Errorf("older = %+v", a)
	}
	if a.Threats[0].Action == nil || *a.Threats[0].Action != payload {
		t.Errorf("threat payload lost: %+v", a.Threats[0])
	}
	if a.Duration != 1500*time.Millisecond {
		t.Errorf("duration = %v", a.Duration)
	}
	if !strings.HasPrefix(a.ID, "run_") {
		t.Errorf("id = %q", a.ID)
	}

	one, err := j.Get(ctx, a.ID)
	if err != nil || one.Name != "a.pdf" {
		t.Fatalf("get = %+v, %v", one, err)
	}
}

func TestGet_Unknown(t *testing.T) {
	j := newJournal(t)
	if _, err := j.Get(context.Background(), "run_0190a5f4-0000-7000-8000-000000000000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := j.Get(context.Background(), "garbage"); err == nil {
		t.Error("expected error for malformed id")
	}
}

func TestPrune(t *testing.T) {
	j := newJournal(t)
	ctx := context.Background()
	old := time.Now().Add(-48 * time.Hour)
	j.now = func() time.Time { return old }
	j.Record(ctx, bleach.Run{Name: "old.pdf", SHA256: "x"})
	j.now = time.Now
	j.Record(ctx, bleach.Run{Name: "new.pdf", SHA256: "y"})

	n, err := j.Prune(ctx, time.Now().Add(-24*time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("prune = %d, %v", n, err)
	}
	left, _ := j.Recent(ctx, 0)
	if len(left) != 1 || left[0].Name != "new.pdf" {
		t.Errorf("left = %+v", left)
	}
}

func TestJournal_AsPipelineRecorder(t *testing.T) {
	// WHAT: The pipeline records through the journal, including the request id.
	j := newJournal(t)
	pipe := bleach.NewPipeline(bleach.Config{Recorder: j})
	ctx := kit.WithRequestID(context.Background(), "req_abc")

	var out bytes.Buffer
	if _, err := pipe.Scan(ctx, "note.txt", strings.NewReader("hello"), &out, nil); err != nil {
		t.Fatal(err)
	}
	got, _ := j.Recent(ctx, 1)
	if len(got) != 1 {
		t.Fatalf("entries = %d", len(got))
	}
	e := got[0]
	if e.Name != "note.txt" || e.Size != 5 || e.RequestID != "req_abc" || e.Modified {
		t.Errorf("entry = %+v", e)
	}
	// sha256("hello")
	if e.SHA256 != "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824" {
		t.Errorf("sha256 = %s", e.SHA256)
	}
}
