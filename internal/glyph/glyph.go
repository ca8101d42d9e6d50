// Package glyph holds guide outlines for traceable letters.
//
// Each outline is a set of polylines over a 5x7 grid (x 0..4 left to
// right, y 0..6 top to bottom). The drawing surface scales them to its
// own cell grid before rasterizing.
package glyph

import (
	"unicode"

	"github.com/verapine/tracepad/internal/model"
)

// Grid dimensions shared by every outline.
const (
	GridWidth  = 5
	GridHeight = 7
)

// Letters is the full target set, in display order.
var Letters = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ")

// Normalize upper-cases a target rune and validates it against the
// letter set. Unsupported runes return model.ErrInvalidLetter.
func Normalize(r rune) (rune, error) {
	r = unicode.ToUpper(r)
	if r < 'A' || r > 'Z' {
		return 0, model.ErrInvalidLetter
	}
	return r, nil
}

// Outline returns the guide polylines for a letter. The result is a
// fresh copy; callers may mutate it.
func Outline(r rune) ([]model.Stroke, error) {
	r, err := Normalize(r)
	if err != nil {
		return nil, err
	}
	src := outlines[r]
	out := make([]model.Stroke, len(src))
	for i, stroke := range src {
		out[i] = append(model.Stroke(nil), stroke...)
	}
	return out, nil
}

func pt(x, y int) model.Point {
	return model.Point{X: x, Y: y}
}

// Minimal skeletons per letter, one polyline per pen lift, points in
// drawing order.
var outlines = map[rune][]model.Stroke{
	'A': {
		{pt(0, 6), pt(0, 3), pt(0, 1), pt(1, 0), pt(3, 0), pt(4, 1), pt(4, 3), pt(4, 6)},
		{pt(0, 3), pt(4, 3)},
	},
	'B': {
		{pt(0, 6), pt(0, 0), pt(3, 0), pt(4, 1), pt(4, 2), pt(3, 3), pt(0, 3)},
		{pt(3, 3), pt(4, 4), pt(4, 5), pt(3, 6), pt(0, 6)},
	},
	'C': {
		{pt(4, 1), pt(3, 0), pt(1, 0), pt(0, 1), pt(0, 5), pt(1, 6), pt(3, 6), pt(4, 5)},
	},
	'D': {
		{pt(0, 0), pt(0, 6), pt(2, 6), pt(4, 4), pt(4, 2), pt(2, 0), pt(0, 0)},
	},
	'E': {
		{pt(4, 0), pt(0, 0), pt(0, 6), pt(4, 6)},
		{pt(0, 3), pt(3, 3)},
	},
	'F': {
		{pt(4, 0), pt(0, 0), pt(0, 6)},
		{pt(0, 3), pt(3, 3)},
	},
	'G': {
		{pt(4, 1), pt(3, 0), pt(1, 0), pt(0, 1), pt(0, 5), pt(1, 6), pt(3, 6), pt(4, 5), pt(4, 3), pt(2, 3)},
	},
	'H': {
		{pt(0, 0), pt(0, 6)},
		{pt(4, 0), pt(4, 6)},
		{pt(0, 3), pt(4, 3)},
	},
	'I': {
		{pt(1, 0), pt(3, 0)},
		{pt(2, 0), pt(2, 6)},
		{pt(1, 6), pt(3, 6)},
	},
	'J': {
		{pt(1, 0), pt(4, 0)},
		{pt(3, 0), pt(3, 5), pt(2, 6), pt(1, 6), pt(0, 5)},
	},
	'K': {
		{pt(0, 0), pt(0, 6)},
		{pt(4, 0), pt(0, 3), pt(4, 6)},
	},
	'L': {
		{pt(0, 0), pt(0, 6), pt(4, 6)},
	},
	'M': {
		{pt(0, 6), pt(0, 0), pt(2, 3), pt(4, 0), pt(4, 6)},
	},
	'N': {
		{pt(0, 6), pt(0, 0), pt(4, 6), pt(4, 0)},
	},
	'O': {
		{pt(1, 0), pt(3, 0), pt(4, 1), pt(4, 5), pt(3, 6), pt(1, 6), pt(0, 5), pt(0, 1), pt(1, 0)},
	},
	'P': {
		{pt(0, 6), pt(0, 0), pt(3, 0), pt(4, 1), pt(4, 2), pt(3, 3), pt(0, 3)},
	},
	'Q': {
		{pt(1, 0), pt(3, 0), pt(4, 1), pt(4, 5), pt(3, 6), pt(1, 6), pt(0, 5), pt(0, 1), pt(1, 0)},
		{pt(2, 4), pt(4, 6)},
	},
	'R': {
		{pt(0, 6), pt(0, 0), pt(3, 0), pt(4, 1), pt(4, 2), pt(3, 3), pt(0, 3)},
		{pt(1, 3), pt(4, 6)},
	},
	'S': {
		{pt(4, 1), pt(3, 0), pt(1, 0), pt(0, 1), pt(0, 2), pt(4, 4), pt(4, 5), pt(3, 6), pt(1, 6), pt(0, 5)},
	},
	'T': {
		{pt(0, 0), pt(4, 0)},
		{pt(2, 0), pt(2, 6)},
	},
	'U': {
		{pt(0, 0), pt(0, 5), pt(1, 6), pt(3, 6), pt(4, 5), pt(4, 0)},
	},
	'V': {
		{pt(0, 0), pt(2, 6), pt(4, 0)},
	},
	'W': {
		{pt(0, 0), pt(1, 6), pt(2, 2), pt(3, 6), pt(4, 0)},
	},
	'X': {
		{pt(0, 0), pt(4, 6)},
		{pt(4, 0), pt(0, 6)},
	},
	'Y': {
		{pt(0, 0), pt(2, 3), pt(4, 0)},
		{pt(2, 3), pt(2, 6)},
	},
	'Z': {
		{pt(0, 0), pt(4, 0), pt(0, 6), pt(4, 6)},
	},
}
