package service

import (
	"math"

	"github.com/renoa-ops/renoa-api/internal/grid"
	"github.com/renoa-ops/renoa-api/internal/models"
)

// ratingTally accumulates rated cells; finish derives the averages.
type ratingTally struct {
	models.RatingTotals
	sum int
}

func (t *ratingTally) add(rec grid.Record) {
	t.Records++
	for _, times := range rec.Ratings {
		for _, cell := range times {
			if cell.HasNote() {
				t.Notes++
			}
			if cell.Value == nil {
				continue
			}
			t.RatedCells++
			t.sum += *cell.Value
			switch *cell.Value {
			case grid.MaxRating:
				t.FullMarks++
			case grid.MinRating:
				t.Zeroes++
			}
		}
	}
}

func (t *ratingTally) finish() models.RatingTotals {
	out := t.RatingTotals
	if out.RatedCells > 0 {
		avg := float64(t.sum) / float64(out.RatedCells)
		out.Average = round2(avg)
		out.Compliance = round2(avg / float64(grid.MaxRating) * 100)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
