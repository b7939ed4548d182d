// Package rank orders repository records for presentation. Ordering is a
// pure function of its inputs: the same records and mode always produce
// the same sequence.
package rank

import (
	"sort"

	"github.com/busygit/busygit/internal/model"
)

type Mode int

const (
	Alphabetical Mode = iota
	Attention
	RecentlyProbed
)

func (m Mode) String() string {
	switch m {
	case Attention:
		return "attention"
	case RecentlyProbed:
		return "recent"
	default:
		return "name"
	}
}

// Next cycles through the sort modes.
func (m Mode) Next() Mode {
	switch m {
	case Alphabetical:
		return Attention
	case Attention:
		return RecentlyProbed
	default:
		return Alphabetical
	}
}

// Order returns records sorted under the given mode. The input slice is
// not modified. All modes break ties alphabetically by path so that
// re-sorting unchanged data never reorders equal-rank entries.
func Order(records []model.Record, mode Mode) []model.Record {
	out := make([]model.Record, len(records))
	copy(out, records)

	switch mode {
	case Attention:
		sort.Slice(out, func(i, j int) bool {
			ri, rj := attentionRank(&out[i]), attentionRank(&out[j])
			if ri != rj {
				return ri < rj
			}
			return out[i].Path < out[j].Path
		})
	case RecentlyProbed:
		sort.Slice(out, func(i, j int) bool {
			if !out[i].LastProbed.Equal(out[j].LastProbed) {
				return out[i].LastProbed.After(out[j].LastProbed)
			}
			return out[i].Path < out[j].Path
		})
	default:
		sort.Slice(out, func(i, j int) bool {
			return out[i].Path < out[j].Path
		})
	}

	return out
}

// attentionRank maps a record to its urgency bucket; lower sorts first.
func attentionRank(r *model.Record) int {
	switch {
	case r.Local == model.LocalConflicted:
		return 0
	case r.Local == model.LocalDirty:
		return 1
	case r.Remote.State == model.RemoteDiverged:
		return 2
	case r.Remote.State == model.RemoteBehind:
		return 3
	case r.Remote.State == model.RemoteAhead:
		return 4
	case r.Local == model.LocalUnknown ||
		r.Remote.State == model.RemoteUnreachable ||
		r.LastErr != "":
		return 5
	default:
		return 6
	}
}
