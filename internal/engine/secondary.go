package engine

import "github.com/loretrace/loretrace/internal/domain"

// SecondaryResult is the outcome of evaluating an entry's secondary keys.
// MatchedKeys lists the keys that actually matched, for evidence reporting;
// short-circuited modes may not have tested every key.
type SecondaryResult struct {
	Passed      bool
	MatchedKeys []string
}

// EvaluateSecondaryLogic applies one of the four boolean combination modes
// to a secondary-key list, assuming a primary match has already been
// confirmed against the same scan text.
func EvaluateSecondaryLogic(logic domain.SelectiveLogic, keys []string, scanText string, opts MatchOptions) SecondaryResult {
	compiled := make([]compiledKey, 0, len(keys))
	for _, k := range keys {
		compiled = append(compiled, compileKey(k, opts))
	}
	return evaluateSecondary(logic, compiled, scanText)
}

func evaluateSecondary(logic domain.SelectiveLogic, keys []compiledKey, scanText string) SecondaryResult {
	var matched []string

	switch logic {
	case domain.LogicAndAll:
		for _, k := range keys {
			if !k.matches(scanText) {
				return SecondaryResult{Passed: false, MatchedKeys: matched}
			}
			matched = append(matched, k.raw)
		}
		return SecondaryResult{Passed: true, MatchedKeys: matched}

	case domain.LogicNotAny:
		for _, k := range keys {
			if k.matches(scanText) {
				matched = append(matched, k.raw)
			}
		}
		return SecondaryResult{Passed: len(matched) == 0, MatchedKeys: matched}

	case domain.LogicNotAll:
		for _, k := range keys {
			if !k.matches(scanText) {
				return SecondaryResult{Passed: true, MatchedKeys: matched}
			}
			matched = append(matched, k.raw)
		}
		return SecondaryResult{Passed: false, MatchedKeys: matched}

	default: // AND_ANY
		for _, k := range keys {
			if k.matches(scanText) {
				return SecondaryResult{Passed: true, MatchedKeys: []string{k.raw}}
			}
		}
		return SecondaryResult{Passed: false}
	}
}
