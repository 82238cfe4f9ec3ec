// Package batch plans how a document is split into bounded extraction units.
package batch

import (
	"github.com/google/uuid"
)

const (
	// Documents at or under this page count are processed as one unit.
	singleBatchMaxPages = 5
	// Larger documents are split into ranges of this many pages so each
	// OCR/AI call stays inside latency and token limits.
	pagesPerBatch = 3
)

// Batch is one page-ranged unit of extraction work. Its Text field is
// filled exactly once by the chosen extraction strategy and the value is
// discarded after aggregation, never persisted.
type Batch struct {
	Id         uuid.UUID
	SessionId  uuid.UUID
	StartPage  int // 1-indexed, inclusive
	EndPage    int // inclusive
	Text       string
	Sequence   int // strictly increasing from 1
	TotalCount int
}

// PageCount returns the number of pages the batch covers.
func (b *Batch) PageCount() int {
	return b.EndPage - b.StartPage + 1
}

// Plan produces the ordered batch list for a document. Ranges are
// contiguous, non-overlapping and cover exactly [1, pageCount].
// A non-positive page count degrades to a single page-1 batch so the
// pipeline always makes progress (fail open).
func Plan(sessionId uuid.UUID, pageCount int) []*Batch {
	if pageCount < 1 {
		pageCount = 1
	}

	if pageCount <= singleBatchMaxPages {
		return []*Batch{{
			Id:         uuid.New(),
			SessionId:  sessionId,
			StartPage:  1,
			EndPage:    pageCount,
			Sequence:   1,
			TotalCount: 1,
		}}
	}

	total := (pageCount + pagesPerBatch - 1) / pagesPerBatch
	batches := make([]*Batch, 0, total)
	for i := 0; i < total; i++ {
		end := (i + 1) * pagesPerBatch
		if end > pageCount {
			end = pageCount
		}
		batches = append(batches, &Batch{
			Id:         uuid.New(),
			SessionId:  sessionId,
			StartPage:  i*pagesPerBatch + 1,
			EndPage:    end,
			Sequence:   i + 1,
			TotalCount: total,
		})
	}
	return batches
}
