// Package score converts finished stroke sessions into pass/fail results.
package score

import (
	"math/rand"
	"time"

	"github.com/verapine/tracepad/internal/canvas"
	"github.com/verapine/tracepad/internal/model"
)

// Evaluator decides whether a stroke session passes and derives a score
// in 0..100. Implementations must treat an empty session as not
// completed with score 0.
type Evaluator interface {
	Evaluate(strokes []model.Stroke) model.TraceResult
}

// Placeholder scores any non-empty session as a pass with a random
// score in 60..100, matching the reference behavior.
type Placeholder struct {
	rnd *rand.Rand
}

// NewPlaceholder returns a Placeholder seeded with the current time.
func NewPlaceholder() *Placeholder {
	return &Placeholder{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewPlaceholderSeeded returns a Placeholder with a fixed seed.
func NewPlaceholderSeeded(seed int64) *Placeholder {
	return &Placeholder{rnd: rand.New(rand.NewSource(seed))}
}

// Evaluate implements Evaluator.
func (p *Placeholder) Evaluate(strokes []model.Stroke) model.TraceResult {
	if !hasInk(strokes) {
		return model.TraceResult{}
	}
	return model.TraceResult{Completed: true, Score: 60 + p.rnd.Intn(41)}
}

// Coverage scores the fraction of guide cells touched by ink, with a
// tolerance of one cell in each direction. Opt-in via the scorer flag.
type Coverage struct {
	guide         map[model.Point]struct{}
	width         int
	height        int
	passThreshold int
}

// NewCoverage builds a Coverage evaluator for one target's guide cells.
func NewCoverage(guide map[model.Point]struct{}, width, height, passThreshold int) *Coverage {
	if passThreshold <= 0 || passThreshold > 100 {
		passThreshold = 60
	}
	return &Coverage{guide: guide, width: width, height: height, passThreshold: passThreshold}
}

// Evaluate implements Evaluator.
func (c *Coverage) Evaluate(strokes []model.Stroke) model.TraceResult {
	if !hasInk(strokes) || len(c.guide) == 0 {
		return model.TraceResult{}
	}
	ink := canvas.RasterizeStrokes(strokes, c.width, c.height)
	covered := 0
	for cell := range c.guide {
		if nearInk(ink, cell) {
			covered++
		}
	}
	score := (covered*100 + len(c.guide)/2) / len(c.guide)
	if score > 100 {
		score = 100
	}
	return model.TraceResult{
		Completed: score >= c.passThreshold,
		Score:     score,
	}
}

func nearInk(ink map[model.Point]struct{}, cell model.Point) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if _, ok := ink[model.Point{X: cell.X + dx, Y: cell.Y + dy}]; ok {
				return true
			}
		}
	}
	return false
}

func hasInk(strokes []model.Stroke) bool {
	for _, s := range strokes {
		if len(s) >= 2 {
			return true
		}
	}
	return false
}
