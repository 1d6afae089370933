package slug

import "testing"

// TestGenerate exercises the slug generator with typical titles, special
// characters, unicode input, and boundary conditions.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Normal names ---
		{name: "simple two words", input: "Hello World", want: "hello-world"},
		{name: "title with year", input: "Hello World 2026", want: "hello-world-2026"},
		{name: "single word", input: "GoLang", want: "golang"},
		{name: "underscore kept", input: "bad_guy", want: "bad_guy"},
		{name: "lowercase tag", input: "america", want: "america"},

		// --- Special characters ---
		{name: "punctuation marks", input: "Hello, World! How's it going?", want: "hello-world-hows-it-going"},
		{name: "ampersand between words", input: "Rock & Roll", want: "rock-roll"},
		{name: "slash dropped without separator", input: "Frontend/Backend", want: "frontendbackend"},
		{name: "backslash dropped", input: `C:\Temp`, want: "ctemp"},
		{name: "hash and dollar", input: "Issue #42 costs $100", want: "issue-42-costs-100"},

		// --- Unicode ---
		{name: "hangul with slash", input: "정치/사회", want: "정치사회"},
		{name: "hangul with space", input: "일상 이야기", want: "일상-이야기"},
		{name: "japanese", input: "東京 旅行", want: "東京-旅行"},
		{name: "accented latin kept", input: "Café Crème", want: "café-crème"},
		{name: "decomposed accent composes", input: "Cafe\u0301", want: "café"},
		{name: "full-width latin folds", input: "ＧＯ言語", want: "go言語"},
		{name: "cyrillic lowercased", input: "Привет Мир", want: "привет-мир"},
		{name: "emoji dropped", input: "Go 🚀 Fast", want: "go-fast"},

		// --- Whitespace and hyphens ---
		{name: "leading and trailing spaces", input: "  hello world  ", want: "hello-world"},
		{name: "multiple spaces collapsed", input: "hello    world", want: "hello-world"},
		{name: "tab is whitespace", input: "hello\tworld", want: "hello-world"},
		{name: "newline is whitespace", input: "hello\nworld", want: "hello-world"},
		{name: "hyphen runs collapsed", input: "hello---world", want: "hello-world"},
		{name: "single hyphen preserved", input: "well-known fact", want: "well-known-fact"},
		{name: "hyphens and spaces mixed", input: "  --hello -- world--  ", want: "hello-world"},

		// --- Edge cases ---
		{name: "empty string", input: "", want: ""},
		{name: "only spaces", input: "     ", want: ""},
		{name: "only special characters", input: "!@#$%^&*()", want: ""},
		{name: "only slashes", input: "///", want: ""},
		{name: "single character", input: "A", want: "a"},
		{name: "numbers with spaces", input: "12 34 56", want: "12-34-56"},
		{name: "version number", input: "Version 2.0.1", want: "version-201"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerateIdempotent(t *testing.T) {
	inputs := []string{"Hello World", "정치/사회", "Café Crème", "bad_guy", "  --x-- "}
	for _, in := range inputs {
		once := Generate(in)
		twice := Generate(once)
		if once != twice {
			t.Errorf("Generate not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestIsReserved(t *testing.T) {
	if !IsReserved(Uncategorized) {
		t.Errorf("expected %q to be reserved", Uncategorized)
	}
	if IsReserved("none") {
		t.Error("plain \"none\" should not be reserved")
	}
}

func TestWithSuffix(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "life"},
		{1, "life"},
		{2, "life-2"},
		{10, "life-10"},
	}
	for _, tt := range tests {
		if got := WithSuffix("life", tt.n); got != tt.want {
			t.Errorf("WithSuffix(life, %d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
