package engine

import "github.com/loretrace/loretrace/internal/domain"

// FallbackScanDepth applies when no override, setting, or entry value is
// present.
const FallbackScanDepth = 5

// ResolveScanDepth computes the effective message-window size for an entry.
// Precedence, highest first: chat-scope override, character-scope override,
// global default setting, the entry's own value. Only positive values count;
// the result is always at least 1.
func ResolveScanDepth(entry *domain.LoreEntry, chatOverride, characterOverride, globalDefault int) int {
	depth, _ := resolveDepthWithSource(entry, chatOverride, characterOverride, globalDefault)
	return depth
}

// resolveDepthWithSource also names the layer that decided, for tracker
// evidence.
func resolveDepthWithSource(entry *domain.LoreEntry, chatOverride, characterOverride, globalDefault int) (int, string) {
	switch {
	case chatOverride > 0:
		return chatOverride, "chat_override"
	case characterOverride > 0:
		return characterOverride, "character_override"
	case globalDefault > 0:
		return globalDefault, "global_default"
	case entry != nil && entry.ScanDepth > 0:
		return entry.ScanDepth, "entry"
	}
	return FallbackScanDepth, "fallback"
}
