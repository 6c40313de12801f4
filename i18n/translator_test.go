package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("type_mismatch", map[string]string{"expected": "string", "got": "number"}); msg != "expected string, got number" {
		t.Fatalf("unexpected english message %q", msg)
	}

	SetLanguage("ja")
	defer SetLanguage("en")
	if msg := T("type_mismatch", nil); msg == "type_mismatch" || msg == "" {
		t.Fatalf("expected japanese message, got %q", msg)
	}
}

func TestTranslator_OutOfBoundsWording(t *testing.T) {
	cases := []struct {
		data map[string]string
		want string
	}{
		{map[string]string{"value": "1001", "min": "1", "max": "1000"}, "1001 is outside 1..1000"},
		{map[string]string{"count": "1001", "max": "1000"}, "count 1001 exceeds the maximum of 1000"},
		{map[string]string{"value": "0", "min": "0"}, "0 is below the minimum of 0"},
	}
	for _, c := range cases {
		if got := T("out_of_bounds", c.data); got != c.want {
			t.Fatalf("got %q, want %q", got, c.want)
		}
	}
}

type fixed string

func (f fixed) Message(string, map[string]string) string { return string(f) }

func TestSetTranslator_NilRestoresDefault(t *testing.T) {
	SetTranslator(fixed("x"))
	if T("unknown_field", nil) != "x" {
		t.Fatalf("custom translator not used")
	}
	SetTranslator(nil)
	if T("unknown_code", nil) != "unknown_code" {
		t.Fatalf("unknown codes should fall back to the code itself")
	}
}
