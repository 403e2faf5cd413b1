// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/evidence-engine/internal/terms"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

// fixedNow pins the recency filter for assertions.
var fixedNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func testBuilder() *Builder {
	return &Builder{
		Dict: terms.DefaultDictionary(),
		Now:  func() time.Time { return fixedNow },
	}
}

var diabetesPico = types.PicoQuery{
	Patient:      "elderly patients with type 2 diabetes",
	Intervention: "GLP-1 receptor agonists",
	Outcome:      "weight loss",
}

func TestBuildPrimary(t *testing.T) {
	b := testBuilder()

	q, ok := b.BuildPrimary(diabetesPico)
	if !ok {
		t.Fatal("BuildPrimary returned not-ok for a complete PICO")
	}

	for _, want := range []string{
		`"type 2 diabetes"[tiab]`,
		`"glp-1 receptor agonist"[tiab]`,
		`"weight loss"[tiab]`,
		"systematic review[pt]",
		"meta-analysis[pt]",
		"2016:3000[dp]",
	} {
		if !strings.Contains(q, want) {
			t.Errorf("query missing %q:\n%s", want, q)
		}
	}
	if !strings.Contains(q, ") AND (") {
		t.Errorf("field groups should be ANDed: %s", q)
	}
}

func TestBuildPrimaryOutcomeNeverNarrowsSingleField(t *testing.T) {
	b := testBuilder()

	q, ok := b.BuildPrimary(types.PicoQuery{
		Patient: "ischemic stroke",
		Outcome: "functional independence",
	})
	if !ok {
		t.Fatal("patient-only PICO should still build")
	}
	if strings.Contains(q, "functional independence") {
		t.Errorf("outcome must not narrow a single-field core: %s", q)
	}
}

func TestBuildPrimaryEmptyPico(t *testing.T) {
	b := testBuilder()
	if q, ok := b.BuildPrimary(types.PicoQuery{}); ok {
		t.Errorf("empty PICO built query %q", q)
	}
}

func TestBuildBroad(t *testing.T) {
	b := testBuilder()

	q, ok := b.BuildBroad(diabetesPico)
	if !ok {
		t.Fatal("BuildBroad returned not-ok")
	}
	if strings.Contains(q, "[pt]") {
		t.Errorf("strategy 2 must not carry the study-type filter: %s", q)
	}
	if !strings.Contains(q, "2016:3000[dp]") {
		t.Errorf("strategy 2 keeps the recency filter: %s", q)
	}

	// Requires both fields.
	if _, ok := b.BuildBroad(types.PicoQuery{Patient: "ischemic stroke"}); ok {
		t.Error("strategy 2 should skip without intervention terms")
	}
}

func TestBuildFlat(t *testing.T) {
	b := testBuilder()

	q, ok := b.BuildFlat(diabetesPico)
	if !ok {
		t.Fatal("BuildFlat returned not-ok")
	}
	if strings.Contains(q, "[dp]") || strings.Contains(q, "[pt]") {
		t.Errorf("strategy 3 carries no filters: %s", q)
	}
	if !strings.Contains(q, "[tiab]") {
		t.Errorf("strategy 3 stays phrase-restricted: %s", q)
	}

	// One field alone is enough.
	if _, ok := b.BuildFlat(types.PicoQuery{Intervention: "occupational therapy"}); !ok {
		t.Error("strategy 3 should build from a single field")
	}
}

func TestBuildUnfielded(t *testing.T) {
	b := testBuilder()

	q, ok := b.BuildUnfielded(diabetesPico)
	if !ok {
		t.Fatal("BuildUnfielded returned not-ok")
	}
	if strings.Contains(q, "[tiab]") {
		t.Errorf("strategy 4 searches all fields: %s", q)
	}
	for _, term := range strings.Split(q, " AND ") {
		if len(term) < 4 {
			t.Errorf("strategy 4 keeps only words > 3 chars, got %q", term)
		}
	}
}

func TestBuildFreeText(t *testing.T) {
	b := testBuilder()

	q, ok := b.BuildFreeText(diabetesPico)
	if !ok {
		t.Fatal("BuildFreeText returned not-ok")
	}
	parts := strings.Split(q, " AND ")
	if len(parts) > 3 {
		t.Errorf("strategy 5 takes at most 3 words: %s", q)
	}
	for _, w := range parts {
		if len(w) < 5 {
			t.Errorf("strategy 5 keeps only words > 4 chars, got %q", w)
		}
		if b.Dict.IsStopWord(w) {
			t.Errorf("strategy 5 returned stop word %q", w)
		}
	}

	if _, ok := b.BuildFreeText(types.PicoQuery{}); ok {
		t.Error("strategy 5 should skip with no text at all")
	}
}

func TestFromTerms(t *testing.T) {
	q, ok := FromTerms([]string{"Dual Antiplatelet", "aspirin", " "})
	if !ok {
		t.Fatal("FromTerms returned not-ok")
	}
	want := `"dual antiplatelet"[tiab] AND aspirin`
	if q != want {
		t.Errorf("FromTerms = %q, want %q", q, want)
	}

	if _, ok := FromTerms(nil); ok {
		t.Error("FromTerms(nil) should be not-ok")
	}
}

func TestLadderOrderAndBroadening(t *testing.T) {
	b := testBuilder()
	ladder := b.Ladder()

	if len(ladder) != 5 {
		t.Fatalf("len(ladder) = %d, want 5", len(ladder))
	}
	for i, s := range ladder {
		if s.ID != i+1 {
			t.Errorf("ladder[%d].ID = %d, want %d", i, s.ID, i+1)
		}
	}

	// Each rung must build for the full PICO, and each relaxes an axis:
	// strategy 1 alone carries [pt], strategies 1-2 carry [dp].
	for _, s := range ladder {
		q, ok := s.Build(diabetesPico)
		if !ok {
			t.Fatalf("strategy %d did not build for complete PICO", s.ID)
		}
		hasPT := strings.Contains(q, "[pt]")
		hasDP := strings.Contains(q, "[dp]")
		if (s.ID == 1) != hasPT {
			t.Errorf("strategy %d study-type filter presence = %v", s.ID, hasPT)
		}
		if (s.ID <= 2) != hasDP {
			t.Errorf("strategy %d date filter presence = %v", s.ID, hasDP)
		}
	}
}

func TestDateFilterTracksClock(t *testing.T) {
	b := testBuilder()
	b.Now = func() time.Time { return time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC) }

	q, _ := b.BuildPrimary(diabetesPico)
	if want := fmt.Sprintf("%d:3000[dp]", 2021); !strings.Contains(q, want) {
		t.Errorf("query should contain %q: %s", want, q)
	}
}
