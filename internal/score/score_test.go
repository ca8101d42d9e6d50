package score

import (
	"testing"

	"github.com/verapine/tracepad/internal/canvas"
	"github.com/verapine/tracepad/internal/model"
)

func TestPlaceholderEmptySession(t *testing.T) {
	p := NewPlaceholderSeeded(1)
	res := p.Evaluate(nil)
	if res.Completed || res.Score != 0 {
		t.Fatalf("empty session: got %+v, want not completed with score 0", res)
	}
	res = p.Evaluate([]model.Stroke{{{X: 1, Y: 1}}})
	if res.Completed {
		t.Fatalf("single-point stroke treated as ink: %+v", res)
	}
}

func TestPlaceholderNonEmptySession(t *testing.T) {
	p := NewPlaceholderSeeded(1)
	strokes := []model.Stroke{{{X: 0, Y: 0}, {X: 3, Y: 3}}}
	for i := 0; i < 50; i++ {
		res := p.Evaluate(strokes)
		if !res.Completed {
			t.Fatal("non-empty session must complete")
		}
		if res.Score < 60 || res.Score > 100 {
			t.Fatalf("score %d outside 60..100", res.Score)
		}
	}
}

func TestCoverageFullTrace(t *testing.T) {
	guideStrokes := []model.Stroke{{{X: 0, Y: 0}, {X: 9, Y: 0}}}
	guide := canvas.RasterizeStrokes(guideStrokes, 10, 10)
	c := NewCoverage(guide, 10, 10, 60)

	res := c.Evaluate(guideStrokes)
	if !res.Completed || res.Score != 100 {
		t.Fatalf("exact trace: got %+v, want completed with score 100", res)
	}
}

func TestCoverageMissedGuide(t *testing.T) {
	guide := canvas.RasterizeStrokes([]model.Stroke{{{X: 0, Y: 0}, {X: 9, Y: 0}}}, 10, 10)
	c := NewCoverage(guide, 10, 10, 60)

	// Ink far below the guide line covers nothing.
	res := c.Evaluate([]model.Stroke{{{X: 0, Y: 8}, {X: 9, Y: 8}}})
	if res.Completed {
		t.Fatalf("missed trace passed: %+v", res)
	}
	if res.Score != 0 {
		t.Fatalf("missed trace score = %d, want 0", res.Score)
	}
}

func TestCoverageEmptySession(t *testing.T) {
	guide := canvas.RasterizeStrokes([]model.Stroke{{{X: 0, Y: 0}, {X: 5, Y: 5}}}, 10, 10)
	c := NewCoverage(guide, 10, 10, 60)
	res := c.Evaluate(nil)
	if res.Completed || res.Score != 0 {
		t.Fatalf("empty session: got %+v", res)
	}
}
