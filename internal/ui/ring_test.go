package ui

import (
	"strings"
	"testing"

	"github.com/fenilsonani/disklens/internal/model"
)

func ringEntries() []Entry {
	return []Entry{
		{Name: "big", Size: 600, Percent: 60, Kind: model.KindDirectory},
		{Name: "mid", Size: 300, Percent: 30, Kind: model.KindFile},
		{Name: "small", Size: 100, Percent: 10, Kind: model.KindFile},
	}
}

func TestRenderRingShowsTotal(t *testing.T) {
	out := renderRing(ringEntries(), 0, 1000, 40, 12)

	if !strings.Contains(out, "1000 B") {
		t.Errorf("ring output missing total label; got:\n%s", out)
	}
	if !strings.Contains(out, "█") {
		t.Error("ring output has no sector cells")
	}
}

func TestRenderRingTooSmall(t *testing.T) {
	out := renderRing(ringEntries(), 0, 1000, 4, 2)
	if !strings.Contains(out, "too small") {
		t.Errorf("tiny area should degrade gracefully, got %q", out)
	}
}

func TestRenderRingEmptyDirectory(t *testing.T) {
	// A zero-size directory renders an empty ring, not a panic.
	out := renderRing(nil, 0, 0, 40, 12)
	if strings.Contains(out, "█") {
		t.Error("empty directory should render no sectors")
	}
}

func TestLegendMatchesListOrder(t *testing.T) {
	entries := ringEntries()

	// The legend marker for row i is derived from the same palette index
	// the ring uses for sector i, so rows and sectors stay in sync.
	for i, e := range entries {
		line := legendLine(e, i)
		if !strings.HasPrefix(line, sectorDot(i)) {
			t.Errorf("legend line %d does not start with sector marker %d: %q", i, i, line)
		}
		if !strings.Contains(line, e.Name) {
			t.Errorf("legend line %d missing name %q: %q", i, e.Name, line)
		}
	}
}
