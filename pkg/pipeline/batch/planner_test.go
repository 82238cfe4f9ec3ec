package batch

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanSmallDocument(t *testing.T) {
	for pages := 1; pages <= 5; pages++ {
		batches := Plan(uuid.New(), pages)
		require.Len(t, batches, 1, "pages=%d", pages)
		assert.Equal(t, 1, batches[0].StartPage)
		assert.Equal(t, pages, batches[0].EndPage)
		assert.Equal(t, 1, batches[0].Sequence)
		assert.Equal(t, 1, batches[0].TotalCount)
	}
}

func TestPlanTwelvePages(t *testing.T) {
	batches := Plan(uuid.New(), 12)
	require.Len(t, batches, 4)

	expected := [][2]int{{1, 3}, {4, 6}, {7, 9}, {10, 12}}
	for i, b := range batches {
		assert.Equal(t, expected[i][0], b.StartPage)
		assert.Equal(t, expected[i][1], b.EndPage)
		assert.Equal(t, i+1, b.Sequence)
		assert.Equal(t, 4, b.TotalCount)
	}
}

func TestPlanCoversRangeContiguously(t *testing.T) {
	sessionId := uuid.New()
	for pages := 1; pages <= 100; pages++ {
		batches := Plan(sessionId, pages)

		wantCount := 1
		if pages > 5 {
			wantCount = (pages + 2) / 3
		}
		require.Len(t, batches, wantCount, "pages=%d", pages)

		next := 1
		for _, b := range batches {
			require.Equal(t, next, b.StartPage, "pages=%d", pages)
			require.GreaterOrEqual(t, b.EndPage, b.StartPage)
			require.Equal(t, sessionId, b.SessionId)
			next = b.EndPage + 1
		}
		require.Equal(t, pages+1, next, "pages=%d should be fully covered", pages)
	}
}

func TestPlanFailsOpen(t *testing.T) {
	for _, pages := range []int{0, -3} {
		batches := Plan(uuid.New(), pages)
		require.Len(t, batches, 1)
		assert.Equal(t, 1, batches[0].StartPage)
		assert.Equal(t, 1, batches[0].EndPage)
	}
}

func TestBatchPageCount(t *testing.T) {
	b := &Batch{StartPage: 4, EndPage: 6}
	assert.Equal(t, 3, b.PageCount())
}
