package engine

import (
	"testing"

	"github.com/loretrace/loretrace/internal/domain"
)

func TestResolveScanDepth_PrecedenceLadder(t *testing.T) {
	entry := &domain.LoreEntry{ID: "e1", ScanDepth: 5}

	if got := ResolveScanDepth(entry, 3, 7, 10); got != 3 {
		t.Errorf("chat override should win, got %d", got)
	}
	if got := ResolveScanDepth(entry, 0, 7, 10); got != 7 {
		t.Errorf("character override should win next, got %d", got)
	}
	if got := ResolveScanDepth(entry, 0, 0, 10); got != 10 {
		t.Errorf("global default should win next, got %d", got)
	}
	if got := ResolveScanDepth(entry, 0, 0, 0); got != 5 {
		t.Errorf("entry value should win next, got %d", got)
	}
	if got := ResolveScanDepth(&domain.LoreEntry{ID: "e2"}, 0, 0, 0); got != FallbackScanDepth {
		t.Errorf("hard fallback expected, got %d", got)
	}
}

func TestResolveScanDepth_IgnoresNonPositiveLayers(t *testing.T) {
	entry := &domain.LoreEntry{ID: "e1", ScanDepth: -2}
	if got := ResolveScanDepth(entry, -1, 0, 0); got != FallbackScanDepth {
		t.Errorf("non-positive values must not count, got %d", got)
	}
}

func TestResolveScanDepth_NilEntry(t *testing.T) {
	if got := ResolveScanDepth(nil, 0, 0, 0); got != FallbackScanDepth {
		t.Errorf("nil entry should fall back, got %d", got)
	}
}
