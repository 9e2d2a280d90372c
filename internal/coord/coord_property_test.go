package coord

import (
	"testing"

	"pgregory.net/rapid"
)

// genCoordinate3D produces a small 3D coordinate; smaller coordinates keep
// the offset-iteration properties below fast without losing generality.
func genCoordinate3D(t *rapid.T) Coordinate {
	x := rapid.Int64Range(-50, 50).Draw(t, "x")
	y := rapid.Int64Range(-50, 50).Draw(t, "y")
	z := rapid.Int64Range(-50, 50).Draw(t, "z")
	return New3D(x, y, z)
}

// TestPropertyAddSubRoundTrip is property 2 from the testable-properties
// list: c.addX(m).subX(m) == c, and likewise for Y and Z.
func TestPropertyAddSubRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := genCoordinate3D(t)
		m := rapid.Int64Range(-1000, 1000).Draw(t, "m")
		if got := c.AddX(m).SubX(m); got != c {
			t.Fatalf("AddX/SubX round trip: got %v want %v", got, c)
		}
		if got := c.AddY(m).SubY(m); got != c {
			t.Fatalf("AddY/SubY round trip: got %v want %v", got, c)
		}
		if got := c.AddZ(m).SubZ(m); got != c {
			t.Fatalf("AddZ/SubZ round trip: got %v want %v", got, c)
		}
	})
}

// TestPropertyAddCommutativeAssociative checks pointwise addition is
// commutative and associative within a single dimensionality.
func TestPropertyAddCommutativeAssociative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := genCoordinate3D(t)
		b := genCoordinate3D(t)
		c := genCoordinate3D(t)
		if a.Add(b) != b.Add(a) {
			t.Fatalf("Add not commutative: %v + %v", a, b)
		}
		if a.Add(b).Add(c) != a.Add(b.Add(c)) {
			t.Fatalf("Add not associative: %v, %v, %v", a, b, c)
		}
	})
}

// TestPropertyBoundsIterationCount is property 3: iterating a Bounds
// yields exactly product(extent) coordinates, each unique, each contained.
func TestPropertyBoundsIterationCount(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		xLow := rapid.Int64Range(-10, 10).Draw(t, "xLow")
		xHigh := xLow + rapid.Int64Range(0, 10).Draw(t, "xSpan")
		yLow := rapid.Int64Range(-10, 10).Draw(t, "yLow")
		yHigh := yLow + rapid.Int64Range(0, 10).Draw(t, "ySpan")
		b := NewBounds2D(xLow, xHigh, yLow, yHigh)

		seen := make(map[Coordinate]bool)
		all := b.All()
		for _, c := range all {
			if seen[c] {
				t.Fatalf("duplicate coordinate %v in iteration", c)
			}
			seen[c] = true
			if b.Contains(c) == Outside {
				t.Fatalf("iterated coordinate %v not contained in bounds", c)
			}
		}
		want := (xHigh - xLow + 1) * (yHigh - yLow + 1)
		if int64(len(all)) != want {
			t.Fatalf("got %d coordinates, want %d", len(all), want)
		}
	})
}
