package clean

import (
	"reflect"
	"testing"
)

func TestNormalizeInvisibleChars(t *testing.T) {
	in := "zero\u200bwidth and\u00a0nbsp"
	got := Normalize(in)
	want := "zero width and nbsp"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestNormalizeBlankLines(t *testing.T) {
	got := Normalize("first\n \t\n\nsecond")
	if got != "first\nsecond" {
		t.Fatalf("blank lines not collapsed: %q", got)
	}
}

func TestNormalizeScriptArtifacts(t *testing.T) {
	// Artifact removal runs after whitespace collapsing, so the gap
	// left behind stays until boilerplate removal re-collapses it.
	got := Normalize("value is undefined here")
	if got != "value is  here" {
		t.Fatalf("undefined not stripped: %q", got)
	}
	got = Normalize("returns null sometimes")
	if got != "returns  sometimes" {
		t.Fatalf("bare null not stripped: %q", got)
	}
	// "null" followed by a real-word continuation is prose, not an artifact.
	got = Normalize("null pointer exceptions are bad")
	if got != "null pointer exceptions are bad" {
		t.Fatalf("null-continuation mangled: %q", got)
	}
}

func TestRemoveBoilerplateLeadingCTA(t *testing.T) {
	got := RemoveBoilerplate("Get started today. Our platform helps teams ship faster.")
	want := "Our platform helps teams ship faster."
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestRemoveBoilerplateLines(t *testing.T) {
	in := "Accept all cookies\nWe build rockets for small satellites and test them daily.\nSkip to main content"
	got := RemoveBoilerplate(in)
	want := "We build rockets for small satellites and test them daily."
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestRemoveBoilerplateInline(t *testing.T) {
	got := RemoveBoilerplate("Our API is fast Learn More and reliable under load with many consumers in production")
	want := "Our API is fast and reliable under load with many consumers in production"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestRemoveBoilerplateKeepsLongLines(t *testing.T) {
	in := "Enterprise plans include custom onboarding, a dedicated account manager, and volume discounts on request."
	if got := RemoveBoilerplate(in); got != in {
		t.Fatalf("long line should survive, got %q", got)
	}
}

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("One. Two! Three? Four")
	want := []string{"One.", "Two!", "Three?", "Four"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}
