// Package picker selects the next tracing target.
package picker

import (
	"math/rand"
	"time"

	"github.com/verapine/tracepad/internal/glyph"
	"github.com/verapine/tracepad/internal/model"
	"github.com/verapine/tracepad/internal/progress"
)

// Picker produces randomized letter targets, optionally biased toward
// letters the profile has not mastered yet.
type Picker struct {
	rnd *rand.Rand
}

// New returns a Picker seeded with the current time.
func New() *Picker {
	return &Picker{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeeded returns a Picker with a fixed seed.
func NewSeeded(seed int64) *Picker {
	return &Picker{rnd: rand.New(rand.NewSource(seed))}
}

// Next picks a letter uniformly, avoiding the previous target when the
// set allows it.
func (p *Picker) Next(prev rune) rune {
	for {
		r := glyph.Letters[p.rnd.Intn(len(glyph.Letters))]
		if r != prev || len(glyph.Letters) == 1 {
			return r
		}
	}
}

// NextWeighted picks a letter with weights biased toward locked and
// low-scoring letters. A completed letter keeps base weight 1; a locked
// letter weighs 1+factor; an in-progress letter scales with how far its
// score is from 100.
func (p *Picker) NextWeighted(records []model.ProgressRecord, prev rune, factor float64) rune {
	if factor <= 0 {
		return p.Next(prev)
	}
	weights := make([]float64, len(glyph.Letters))
	total := 0.0
	for i, r := range glyph.Letters {
		w := 1.0
		switch progress.StateOf(records, r) {
		case progress.StateLocked:
			w += factor
		case progress.StateInProgress:
			w += factor * float64(100-progress.ScoreOf(records, r)) / 100
		}
		if r == prev {
			w = 0
		}
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return p.Next(prev)
	}
	target := p.rnd.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if target <= acc && w > 0 {
			return glyph.Letters[i]
		}
	}
	return p.Next(prev)
}
