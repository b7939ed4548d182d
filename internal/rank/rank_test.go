package rank

import (
	"testing"
	"time"

	"github.com/busygit/busygit/internal/model"
)

func paths(records []model.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Path
	}
	return out
}

func equalPaths(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestOrderAlphabetical(t *testing.T) {
	records := []model.Record{
		{Path: "/repos/zebra"},
		{Path: "/repos/alpha"},
		{Path: "/repos/mango"},
	}

	got := paths(Order(records, Alphabetical))
	want := []string{"/repos/alpha", "/repos/mango", "/repos/zebra"}
	if !equalPaths(got, want) {
		t.Errorf("Order() = %v, want %v", got, want)
	}
}

func TestOrderAttention(t *testing.T) {
	records := []model.Record{
		{Path: "/r/clean", Local: model.LocalClean, Remote: model.RemoteStatus{State: model.RemoteUpToDate}},
		{Path: "/r/ahead", Local: model.LocalClean, Remote: model.RemoteStatus{State: model.RemoteAhead, Ahead: 2}},
		{Path: "/r/conflict", Local: model.LocalConflicted},
		{Path: "/r/behind", Local: model.LocalClean, Remote: model.RemoteStatus{State: model.RemoteBehind, Behind: 3}},
		{Path: "/r/dirty", Local: model.LocalDirty},
		{Path: "/r/diverged", Local: model.LocalClean, Remote: model.RemoteStatus{State: model.RemoteDiverged, Ahead: 1, Behind: 1}},
	}

	got := paths(Order(records, Attention))
	want := []string{"/r/conflict", "/r/dirty", "/r/diverged", "/r/behind", "/r/ahead", "/r/clean"}
	if !equalPaths(got, want) {
		t.Errorf("Order() = %v, want %v", got, want)
	}
}

func TestOrderAttentionTieBreak(t *testing.T) {
	records := []model.Record{
		{Path: "/r/b", Local: model.LocalDirty},
		{Path: "/r/a", Local: model.LocalDirty},
		{Path: "/r/c", Local: model.LocalDirty},
	}

	got := paths(Order(records, Attention))
	want := []string{"/r/a", "/r/b", "/r/c"}
	if !equalPaths(got, want) {
		t.Errorf("equal-rank entries not alphabetical: %v", got)
	}
}

func TestOrderIdempotent(t *testing.T) {
	records := []model.Record{
		{Path: "/r/b", Local: model.LocalDirty},
		{Path: "/r/a", Local: model.LocalConflicted},
		{Path: "/r/c", Local: model.LocalClean, Remote: model.RemoteStatus{State: model.RemoteUpToDate}},
		{Path: "/r/d", Local: model.LocalClean, Remote: model.RemoteStatus{State: model.RemoteUpToDate}},
	}

	for _, mode := range []Mode{Alphabetical, Attention, RecentlyProbed} {
		first := paths(Order(records, mode))
		second := paths(Order(records, mode))
		if !equalPaths(first, second) {
			t.Errorf("mode %v: re-ordering changed output: %v vs %v", mode, first, second)
		}
	}
}

func TestOrderDoesNotMutateInput(t *testing.T) {
	records := []model.Record{
		{Path: "/r/z"},
		{Path: "/r/a"},
	}

	Order(records, Alphabetical)

	if records[0].Path != "/r/z" {
		t.Error("Order() mutated its input slice")
	}
}

func TestOrderRecentlyProbed(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []model.Record{
		{Path: "/r/old", LastProbed: base},
		{Path: "/r/new", LastProbed: base.Add(time.Hour)},
		{Path: "/r/mid", LastProbed: base.Add(time.Minute)},
	}

	got := paths(Order(records, RecentlyProbed))
	want := []string{"/r/new", "/r/mid", "/r/old"}
	if !equalPaths(got, want) {
		t.Errorf("Order() = %v, want %v", got, want)
	}
}

func TestModeNextCycles(t *testing.T) {
	m := Alphabetical
	seen := map[Mode]bool{m: true}
	for i := 0; i < 2; i++ {
		m = m.Next()
		if seen[m] {
			t.Fatalf("mode %v repeated before full cycle", m)
		}
		seen[m] = true
	}
	if m.Next() != Alphabetical {
		t.Error("cycle did not return to Alphabetical")
	}
}
