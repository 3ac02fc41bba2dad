package engine

import (
	"testing"

	"github.com/loretrace/loretrace/internal/domain"
)

// Truth table from a primary match already confirmed, with secondary keys
// {alpha: match, bravo: no-match}.
func TestEvaluateSecondaryLogic_TruthTable(t *testing.T) {
	scanText := "the alpha team moved out"
	keys := []string{"alpha", "bravo"}

	tests := []struct {
		logic domain.SelectiveLogic
		want  bool
	}{
		{domain.LogicAndAny, true},
		{domain.LogicAndAll, false},
		{domain.LogicNotAny, false},
		{domain.LogicNotAll, true},
	}
	for _, tt := range tests {
		got := EvaluateSecondaryLogic(tt.logic, keys, scanText, MatchOptions{})
		if got.Passed != tt.want {
			t.Errorf("%s: passed = %v, want %v", tt.logic, got.Passed, tt.want)
		}
	}
}

func TestEvaluateSecondaryLogic_AllMatch(t *testing.T) {
	scanText := "alpha and bravo together"
	keys := []string{"alpha", "bravo"}

	if got := EvaluateSecondaryLogic(domain.LogicAndAll, keys, scanText, MatchOptions{}); !got.Passed {
		t.Error("AND_ALL should pass when every key matches")
	}
	if got := EvaluateSecondaryLogic(domain.LogicNotAny, keys, scanText, MatchOptions{}); got.Passed {
		t.Error("NOT_ANY should fail when any key matches")
	}
	if got := EvaluateSecondaryLogic(domain.LogicNotAll, keys, scanText, MatchOptions{}); got.Passed {
		t.Error("NOT_ALL should fail when every key matches")
	}
}

func TestEvaluateSecondaryLogic_NoneMatch(t *testing.T) {
	scanText := "nothing relevant"
	keys := []string{"alpha", "bravo"}

	if got := EvaluateSecondaryLogic(domain.LogicAndAny, keys, scanText, MatchOptions{}); got.Passed {
		t.Error("AND_ANY should fail when no key matches")
	}
	if got := EvaluateSecondaryLogic(domain.LogicNotAny, keys, scanText, MatchOptions{}); !got.Passed {
		t.Error("NOT_ANY should pass when no key matches")
	}
}

func TestEvaluateSecondaryLogic_MatchedKeysEvidence(t *testing.T) {
	scanText := "alpha signal"
	got := EvaluateSecondaryLogic(domain.LogicAndAny, []string{"bravo", "alpha"}, scanText, MatchOptions{})
	if !got.Passed {
		t.Fatal("expected AND_ANY to pass")
	}
	if len(got.MatchedKeys) != 1 || got.MatchedKeys[0] != "alpha" {
		t.Errorf("expected matched key evidence [alpha], got %v", got.MatchedKeys)
	}
}

func TestEvaluateSecondaryLogic_ShortCircuit(t *testing.T) {
	// AND_ANY stops at the first match
	got := EvaluateSecondaryLogic(domain.LogicAndAny, []string{"alpha", "alpha"}, "alpha", MatchOptions{})
	if len(got.MatchedKeys) != 1 {
		t.Errorf("AND_ANY should stop at first match, got %v", got.MatchedKeys)
	}
}
