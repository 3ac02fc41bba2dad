package engine

import (
	"regexp"
	"strings"

	"github.com/loretrace/loretrace/internal/domain"
)

// categoryPatterns are whole-word heuristics applied to an entry's keys,
// content and comment. First match wins; order is the tie-break.
var categoryPatterns = []struct {
	category domain.Category
	re       *regexp.Regexp
}{
	{domain.CategoryCharacter, regexp.MustCompile(`(?i)\b(character|persona|npc|villain|hero|companion|ally|personality|appearance|backstory)\b`)},
	{domain.CategoryLocation, regexp.MustCompile(`(?i)\b(location|place|city|town|village|forest|castle|kingdom|region|island|tavern|temple|dungeon|realm)\b`)},
	{domain.CategoryObject, regexp.MustCompile(`(?i)\b(item|object|artifact|relic|weapon|sword|amulet|potion|armor|tool)\b`)},
	{domain.CategoryLore, regexp.MustCompile(`(?i)\b(lore|history|event|war|battle|legend|myth|prophecy|era|festival)\b`)},
	{domain.CategorySystem, regexp.MustCompile(`(?i)\b(rule|system|mechanic|law|magic|spell|stat|ability|skill)\b`)},
}

// Classify assigns a display category to an entry. Pure function of the
// entry and the collection registry; independent of attribution.
func Classify(e *domain.LoreEntry, registry *domain.CollectionRegistry) domain.Category {
	if e == nil {
		return domain.CategoryGeneral
	}

	if e.HasTag("character") {
		return domain.CategoryCharacter
	}

	// Always-on and vector-recalled entries are world lore by convention.
	if e.Constant || e.Vectorized {
		return domain.CategoryLore
	}

	if registry.IsCharacterRepository(e.World) {
		return domain.CategoryCharacter
	}

	haystack := strings.Join(e.Keys, " ") + " " + e.Content + " " + e.Comment
	for _, cp := range categoryPatterns {
		if cp.re.MatchString(haystack) {
			return cp.category
		}
	}

	return domain.CategoryGeneral
}
