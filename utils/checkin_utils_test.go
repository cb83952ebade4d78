package utils

import (
	"testing"
	"time"
)

func TestGenerateAccessCode(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateAccessCode()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !IsValidAccessCode(code) {
			t.Fatalf("expected 6 digits, got %q", code)
		}
	}
}

func TestTokenID(t *testing.T) {
	a, err := TokenID()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := TokenID()
	if len(a) != 32 || a == b {
		t.Fatalf("expected distinct 32 char ids, got %q and %q", a, b)
	}
}

func TestNormalizeAccessCode(t *testing.T) {
	if got := NormalizeAccessCode(" 123-456 "); got != "123456" {
		t.Fatalf("expected 123456, got %q", got)
	}
	if IsValidAccessCode("12345a") {
		t.Fatalf("expected non-digit code to be invalid")
	}
}

func TestParseDateTime(t *testing.T) {
	cases := map[string]time.Time{
		"2025-01-10T14:00":     time.Date(2025, 1, 10, 14, 0, 0, 0, time.Local),
		"2025-01-10T14:00:30":  time.Date(2025, 1, 10, 14, 0, 30, 0, time.Local),
		"2025-01-10":           time.Date(2025, 1, 10, 0, 0, 0, 0, time.Local),
		"2025-01-10T14:00:00Z": time.Date(2025, 1, 10, 14, 0, 0, 0, time.UTC),
	}
	for raw, want := range cases {
		got, err := ParseDateTime(raw)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", raw, err)
		}
		if !got.Equal(want) {
			t.Errorf("%s: expected %v, got %v", raw, want, got)
		}
	}
	if _, err := ParseDateTime("tomorrow"); err == nil {
		t.Fatalf("expected error for free text")
	}
}

func TestMaskEmail(t *testing.T) {
	if got := MaskEmail("maria@example.com"); got != "m***a@e******.com" {
		t.Fatalf("unexpected mask %q", got)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("RESORT_TEST_LIST", "a, b,,c")
	t.Setenv("RESORT_TEST_DUR", "90m")
	t.Setenv("RESORT_TEST_BOOL", "true")

	if got := EnvList("RESORT_TEST_LIST", nil); len(got) != 3 || got[2] != "c" {
		t.Fatalf("unexpected list %v", got)
	}
	if got := EnvDuration("RESORT_TEST_DUR", time.Hour); got != 90*time.Minute {
		t.Fatalf("unexpected duration %v", got)
	}
	if !EnvBool("RESORT_TEST_BOOL", false) {
		t.Fatalf("expected true")
	}
	if got := EnvOrDefault("RESORT_TEST_MISSING", "x"); got != "x" {
		t.Fatalf("expected default, got %q", got)
	}
}
