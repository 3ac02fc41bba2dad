package engine

import (
	"regexp"
	"strings"
	"unicode"
)

// maxPatternLength guards against pathological regex keys. Anything longer
// is matched as a literal substring instead.
const maxPatternLength = 500

// MatchOptions controls how literal keys are matched against scan text.
// Regex-literal keys carry their own flags and ignore these options.
type MatchOptions struct {
	CaseSensitive   bool
	MatchWholeWords bool
}

// compiledKey is the parsed form of an activation key. Keys are compiled
// once when an entry is normalized, not per match.
type compiledKey struct {
	raw    string
	re     *regexp.Regexp // regex-literal or whole-word pattern; nil for substring
	needle string         // substring to search for, pre-folded
	fold   bool           // lower-case the haystack before searching
}

// Matches reports whether key is found in haystack under the given options.
// A key of the form /pattern/flags is tested as a regex; an invalid or
// over-long pattern degrades to a literal substring match. Total for any
// string input.
func Matches(haystack, key string, opts MatchOptions) bool {
	return compileKey(key, opts).matches(haystack)
}

func compileKey(raw string, opts MatchOptions) compiledKey {
	if re, ok := parseRegexLiteral(raw); ok {
		return compiledKey{raw: raw, re: re}
	}

	fold := !opts.CaseSensitive

	if opts.MatchWholeWords && !containsSpace(raw) && raw != "" {
		prefix := ""
		if fold {
			prefix = "(?i)"
		}
		// (start-of-string or non-word)(key)(end-of-string or non-word)
		pattern := prefix + `(?:^|\W)` + regexp.QuoteMeta(raw) + `(?:$|\W)`
		if re, err := regexp.Compile(pattern); err == nil {
			return compiledKey{raw: raw, re: re}
		}
	}

	needle := raw
	if fold {
		needle = strings.ToLower(raw)
	}
	return compiledKey{raw: raw, needle: needle, fold: fold}
}

func (k compiledKey) matches(haystack string) bool {
	if k.re != nil {
		return k.re.MatchString(haystack)
	}
	if k.needle == "" {
		return false
	}
	if k.fold {
		haystack = strings.ToLower(haystack)
	}
	return strings.Contains(haystack, k.needle)
}

// parseRegexLiteral parses a /pattern/flags key. JS-style flags are
// accepted; i, s and m translate to Go inline flags, the rest are ignored.
// Returns false for anything that should be treated as a literal key.
func parseRegexLiteral(key string) (*regexp.Regexp, bool) {
	trimmed := strings.TrimSpace(key)
	if len(trimmed) < 3 || trimmed[0] != '/' {
		return nil, false
	}

	end := strings.LastIndex(trimmed, "/")
	if end <= 0 {
		return nil, false
	}

	pattern := trimmed[1:end]
	flags := trimmed[end+1:]
	if pattern == "" || len(pattern) > maxPatternLength {
		return nil, false
	}

	inline := ""
	for _, f := range flags {
		switch f {
		case 'i', 's', 'm':
			inline += string(f)
		case 'g', 'u', 'y', 'd', 'v':
			// match-all / unicode / sticky flags have no Go equivalent
			// and do not affect a boolean match
		default:
			return nil, false
		}
	}
	if inline != "" {
		pattern = "(?" + inline + ")" + pattern
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, false
	}
	return re, true
}

func containsSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}
