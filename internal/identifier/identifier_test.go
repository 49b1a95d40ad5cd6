package identifier

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "HttpTrigger1", "httptrigger1"},
		{"method prefix", "GET-HttpTrigger1", "get-httptrigger1"},
		{"spaces become dashes", "My Function App", "my-function-app"},
		{"runs collapse", "a!!b??c", "a-b-c"},
		{"leading trailing stripped", "(orders)", "orders"},
		{"trim before substitution", "  orders  ", "orders"},
		{"empty", "", ""},
		{"only invalid chars", "!!!", ""},
		{"unicode replaced", "Café Münü!!  Store", "caf-m-n-store"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeLength(t *testing.T) {
	long := strings.Repeat("a", 200)
	got := Normalize(long)
	if len(got) != 80 {
		t.Errorf("expected 80 characters, got %d", len(got))
	}

	// Truncation happens before edge dashes are stripped, so a dash landing
	// exactly at the cut point is removed afterwards.
	got = Normalize(strings.Repeat("a", 79) + "!" + "tail")
	if len(got) != 79 {
		t.Errorf("expected 79 characters after edge strip, got %d", len(got))
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("trailing dash survived truncation: %q", got)
	}
}

func TestNormalizeStripsSingleEdgeDashOnly(t *testing.T) {
	// Runs collapse first, so doubled edge punctuation still produces a
	// single edge dash before stripping.
	if got := Normalize("!!x!!"); got != "x" {
		t.Errorf("Normalize(%q) = %q, want %q", "!!x!!", got, "x")
	}
}

func TestFoldAccents(t *testing.T) {
	if got := foldAccents("café-niño-søren"); got != "cafe-nino-soren" {
		t.Errorf("foldAccents = %q", got)
	}
	// Runes outside the table pass through.
	if got := foldAccents("日本語"); got != "日本語" {
		t.Errorf("unmapped runes should pass through, got %q", got)
	}
}

func TestNormalizeProperties(t *testing.T) {
	inputs := []string{
		"Café Münü!!  Store",
		"GET-HttpTrigger1",
		"--already--dashed--",
		"MiXeD CaSe 42",
	}

	for _, in := range inputs {
		got := Normalize(in)
		if len(got) > 80 {
			t.Errorf("Normalize(%q) exceeds 80 chars", in)
		}
		if strings.Contains(got, "--") {
			t.Errorf("Normalize(%q) contains doubled dash: %q", in, got)
		}
		if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") {
			t.Errorf("Normalize(%q) has edge dash: %q", in, got)
		}
		if got != strings.ToLower(got) {
			t.Errorf("Normalize(%q) is not lowercase: %q", in, got)
		}
	}
}
