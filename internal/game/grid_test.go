package game

import "testing"

func TestDirectionOpposite(t *testing.T) {
	cases := []struct {
		a, b Direction
		want bool
	}{
		{Up, Down, true},
		{Down, Up, true},
		{Left, Right, true},
		{Right, Left, true},
		{Up, Left, false},
		{Up, Up, false},
	}
	for _, c := range cases {
		if got := c.a.Opposite(c.b); got != c.want {
			t.Errorf("%v.Opposite(%v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestParseDirection(t *testing.T) {
	for _, s := range []string{"Up", "Down", "Left", "Right"} {
		dir, ok := ParseDirection(s)
		if !ok {
			t.Fatalf("expected %q to parse", s)
		}
		if dir.String() != s {
			t.Fatalf("round trip mismatch: got %q, want %q", dir.String(), s)
		}
	}

	if _, ok := ParseDirection("sideways"); ok {
		t.Fatalf("expected unknown direction string to fail")
	}
}

func TestCellInBounds(t *testing.T) {
	cases := []struct {
		c           Cell
		w, h        int
		wantInBound bool
	}{
		{Cell{0, 0}, 10, 10, true},
		{Cell{9, 9}, 10, 10, true},
		{Cell{10, 0}, 10, 10, false},
		{Cell{-1, 0}, 10, 10, false},
		{Cell{0, -1}, 10, 10, false},
	}
	for _, c := range cases {
		if got := c.c.InBounds(c.w, c.h); got != c.wantInBound {
			t.Errorf("%v.InBounds(%d,%d) = %v, want %v", c.c, c.w, c.h, got, c.wantInBound)
		}
	}
}

func TestCellAdd(t *testing.T) {
	c := Cell{5, 5}
	if got := c.Add(Up); got != (Cell{5, 4}) {
		t.Errorf("Add(Up) = %v, want {5 4}", got)
	}
	if got := c.Add(Right); got != (Cell{6, 5}) {
		t.Errorf("Add(Right) = %v, want {6 5}", got)
	}
}
