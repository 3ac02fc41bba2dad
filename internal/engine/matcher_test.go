package engine

import "testing"

func TestMatches_WholeWordCaseInsensitive(t *testing.T) {
	if !Matches("The Cat sat", "cat", MatchOptions{CaseSensitive: false, MatchWholeWords: true}) {
		t.Error("expected whole-word case-insensitive match")
	}
}

func TestMatches_WholeWordRejectsEmbedded(t *testing.T) {
	if Matches("concatenate", "cat", MatchOptions{MatchWholeWords: true}) {
		t.Error("embedded token should not match with whole-word enabled")
	}
}

func TestMatches_RegexLiteral(t *testing.T) {
	if !Matches("abc", "/a.c/", MatchOptions{}) {
		t.Error("expected regex literal to match")
	}
	if Matches("axxc", "/a.c/", MatchOptions{}) {
		t.Error("regex should not match two-character gap")
	}
}

func TestMatches_RegexFlags(t *testing.T) {
	if !Matches("DRAGON", "/dragon/i", MatchOptions{CaseSensitive: true}) {
		t.Error("i flag should override case sensitivity")
	}
	if Matches("DRAGON", "/dragon/", MatchOptions{}) {
		t.Error("regex without i flag should be case sensitive")
	}
	// g is a match-all flag with no boolean-match effect
	if !Matches("a dragon appears", "/dragon/g", MatchOptions{}) {
		t.Error("g flag should be tolerated")
	}
}

func TestMatches_InvalidRegexFallsBackToLiteral(t *testing.T) {
	// unbalanced bracket fails to compile; the raw key is then searched
	// as a plain substring
	if !Matches("weird key /[unclosed/ in text", "/[unclosed/", MatchOptions{}) {
		t.Error("invalid regex should degrade to literal substring")
	}
	if Matches("nothing here", "/[unclosed/", MatchOptions{}) {
		t.Error("literal fallback should still require containment")
	}
}

func TestMatches_OverlongPatternFallsBackToLiteral(t *testing.T) {
	long := "/"
	for i := 0; i < maxPatternLength+10; i++ {
		long += "a"
	}
	long += "/"
	if Matches("short text", long, MatchOptions{}) {
		t.Error("over-long pattern should not match as regex")
	}
}

func TestMatches_PlainSubstring(t *testing.T) {
	tests := []struct {
		haystack string
		key      string
		opts     MatchOptions
		want     bool
	}{
		{"The Cat sat", "cat", MatchOptions{}, true},
		{"The Cat sat", "cat", MatchOptions{CaseSensitive: true}, false},
		{"concatenate", "cat", MatchOptions{}, true},
		{"walked through the moonlit forest", "moonlit forest", MatchOptions{MatchWholeWords: true}, true},
		{"moonlitforest", "moonlit forest", MatchOptions{MatchWholeWords: true}, false},
		{"", "cat", MatchOptions{}, false},
		{"anything", "", MatchOptions{}, false},
	}
	for _, tt := range tests {
		if got := Matches(tt.haystack, tt.key, tt.opts); got != tt.want {
			t.Errorf("Matches(%q, %q, %+v) = %v, want %v", tt.haystack, tt.key, tt.opts, got, tt.want)
		}
	}
}

func TestMatches_WholeWordBoundaries(t *testing.T) {
	if !Matches("cat", "cat", MatchOptions{MatchWholeWords: true}) {
		t.Error("key equal to haystack should match")
	}
	if !Matches("a cat.", "cat", MatchOptions{MatchWholeWords: true}) {
		t.Error("punctuation should count as a word boundary")
	}
	if Matches("scatter", "cat", MatchOptions{MatchWholeWords: true}) {
		t.Error("mid-word occurrence should not match")
	}
}

func TestMatches_NeverPanics(t *testing.T) {
	pathological := []string{
		"//", "/", "///", "/(/", "/(?P</", "/a{99999}/", "/\\/",
		"", " ", "/x/zzz",
	}
	for _, key := range pathological {
		// must be total for any input
		_ = Matches("some haystack /x/zzz //", key, MatchOptions{MatchWholeWords: true})
	}
}
