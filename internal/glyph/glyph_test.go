package glyph

import (
	"errors"
	"testing"

	"github.com/verapine/tracepad/internal/model"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   rune
		want rune
		err  bool
	}{
		{'a', 'A', false},
		{'Z', 'Z', false},
		{'m', 'M', false},
		{'1', 0, true},
		{' ', 0, true},
		{'é', 0, true},
	}
	for _, c := range cases {
		got, err := Normalize(c.in)
		if c.err {
			if !errors.Is(err, model.ErrInvalidLetter) {
				t.Fatalf("Normalize(%q): expected ErrInvalidLetter, got %v", c.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Normalize(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestOutlineCoversAllLetters(t *testing.T) {
	if len(Letters) != 26 {
		t.Fatalf("expected 26 letters, got %d", len(Letters))
	}
	for _, r := range Letters {
		strokes, err := Outline(r)
		if err != nil {
			t.Fatalf("Outline(%q): %v", r, err)
		}
		if len(strokes) == 0 {
			t.Fatalf("Outline(%q): empty", r)
		}
		for _, stroke := range strokes {
			if len(stroke) < 2 {
				t.Fatalf("Outline(%q): degenerate stroke %v", r, stroke)
			}
			for _, p := range stroke {
				if p.X < 0 || p.X >= GridWidth || p.Y < 0 || p.Y >= GridHeight {
					t.Fatalf("Outline(%q): point %v outside grid", r, p)
				}
			}
		}
	}
}

func TestOutlineReturnsCopy(t *testing.T) {
	first, err := Outline('A')
	if err != nil {
		t.Fatalf("Outline: %v", err)
	}
	first[0][0] = model.Point{X: 99, Y: 99}
	second, err := Outline('A')
	if err != nil {
		t.Fatalf("Outline: %v", err)
	}
	if second[0][0].X == 99 {
		t.Fatal("Outline shares backing data between calls")
	}
}
