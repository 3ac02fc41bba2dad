package engine

import (
	"testing"

	"github.com/loretrace/loretrace/internal/domain"
)

func TestClassify_ExplicitCharacterTag(t *testing.T) {
	entry := &domain.LoreEntry{ID: "e1", Tags: []string{"character"}, Content: "an ancient castle"}
	if got := Classify(entry, nil); got != domain.CategoryCharacter {
		t.Errorf("explicit tag should win, got %s", got)
	}
}

func TestClassify_ConstantAndVectorizedAreLore(t *testing.T) {
	if got := Classify(&domain.LoreEntry{ID: "e1", Constant: true}, nil); got != domain.CategoryLore {
		t.Errorf("constant entry should classify as lore, got %s", got)
	}
	if got := Classify(&domain.LoreEntry{ID: "e2", Vectorized: true}, nil); got != domain.CategoryLore {
		t.Errorf("vectorized entry should classify as lore, got %s", got)
	}
}

func TestClassify_CharacterRepositoryMembership(t *testing.T) {
	reg := domain.NewCollectionRegistry([]string{"heroes"}, nil)
	entry := &domain.LoreEntry{ID: "e1", World: "heroes"}
	if got := Classify(entry, reg); got != domain.CategoryCharacter {
		t.Errorf("repository membership should classify as character, got %s", got)
	}
}

func TestClassify_ContentHeuristics(t *testing.T) {
	tests := []struct {
		entry *domain.LoreEntry
		want  domain.Category
	}{
		{&domain.LoreEntry{ID: "a", Keys: []string{"elira"}, Comment: "a cheerful npc"}, domain.CategoryCharacter},
		{&domain.LoreEntry{ID: "b", Content: "a bustling city on the coast"}, domain.CategoryLocation},
		{&domain.LoreEntry{ID: "c", Content: "a cursed amulet of binding"}, domain.CategoryObject},
		{&domain.LoreEntry{ID: "d", Content: "the great war of the north"}, domain.CategoryLore},
		{&domain.LoreEntry{ID: "e", Content: "the spell casting system"}, domain.CategorySystem},
		{&domain.LoreEntry{ID: "f", Content: "plain text about nothing in particular"}, domain.CategoryGeneral},
	}
	for _, tt := range tests {
		if got := Classify(tt.entry, nil); got != tt.want {
			t.Errorf("Classify(%s) = %s, want %s", tt.entry.ID, got, tt.want)
		}
	}
}

func TestClassify_HeuristicNeedsWholeWord(t *testing.T) {
	entry := &domain.LoreEntry{ID: "a", Content: "electricity grids"} // "city" embedded
	if got := Classify(entry, nil); got == domain.CategoryLocation {
		t.Error("embedded token should not trigger a category")
	}
}

func TestClassify_PureFunction(t *testing.T) {
	entry := &domain.LoreEntry{ID: "a", Content: "a bustling city"}
	first := Classify(entry, nil)
	second := Classify(entry, nil)
	if first != second {
		t.Error("classification must be deterministic")
	}
}
