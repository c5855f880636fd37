package engine

import (
	"testing"
	"time"
)

func TestSortPendingChronologicalWithStableTies(t *testing.T) {
	base := time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC)

	items := []pendingItem{
		{when: base.Add(50 * time.Minute), rank: constructionRank, id: "c3"},
		{when: base.Add(10 * time.Minute), rank: actionRank, id: "a1"},
		{when: base.Add(10 * time.Minute), rank: constructionRank, id: "c2"},
		{when: base.Add(10 * time.Minute), rank: constructionRank, id: "c1"},
		{when: base.Add(10 * time.Minute), rank: trainingRank, id: "t1"},
		{when: base.Add(40 * time.Minute), rank: trainingRank, id: "t2"},
	}

	sortPending(items)

	want := []string{"c1", "c2", "t1", "a1", "t2", "c3"}
	for i, id := range want {
		if items[i].id != id {
			t.Errorf("position %d: got %q, want %q", i, items[i].id, id)
		}
	}
}
