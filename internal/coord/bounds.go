package coord

// Contains classifies a coordinate's relationship to a Bounds.
type Contains int

const (
	Outside Contains = iota
	Within
	OnEdge
)

func (c Contains) String() string {
	switch c {
	case Within:
		return "within"
	case OnEdge:
		return "on-edge"
	default:
		return "outside"
	}
}

// axisRange is an inclusive [Low, High] range along one axis.
type axisRange struct {
	Low, High int64
}

func (r axisRange) extent() int64 { return r.High - r.Low + 1 }

// Bounds is an axis-aligned region over 1, 2, or 3 axes, tagged by
// Dimensionality the same way Coordinate is. Every constructor requires
// Low <= High per axis.
type Bounds struct {
	dim  Dimensionality
	x, y, z axisRange
}

// NewBounds1D builds an inclusive [low, high] range over X.
func NewBounds1D(low, high int64) Bounds {
	mustOrdered("x", low, high)
	return Bounds{dim: OneD, x: axisRange{low, high}}
}

// NewBounds2D builds an inclusive box over X and Y.
func NewBounds2D(xLow, xHigh, yLow, yHigh int64) Bounds {
	mustOrdered("x", xLow, xHigh)
	mustOrdered("y", yLow, yHigh)
	return Bounds{dim: TwoD, x: axisRange{xLow, xHigh}, y: axisRange{yLow, yHigh}}
}

// NewBounds3D builds an inclusive box over X, Y, and Z.
func NewBounds3D(xLow, xHigh, yLow, yHigh, zLow, zHigh int64) Bounds {
	mustOrdered("x", xLow, xHigh)
	mustOrdered("y", yLow, yHigh)
	mustOrdered("z", zLow, zHigh)
	return Bounds{
		dim: ThreeD,
		x:   axisRange{xLow, xHigh},
		y:   axisRange{yLow, yHigh},
		z:   axisRange{zLow, zHigh},
	}
}

func mustOrdered(axis string, low, high int64) {
	if low > high {
		panic(&MismatchError{Op: "bounds(" + axis + ")", Want: OneD, Axis: X})
	}
}

// Dimensionality reports the bounds' variant.
func (b Bounds) Dimensionality() Dimensionality { return b.dim }

// Extent returns the number of lattice points along the given axis.
func (b Bounds) Extent(axis Axis) int64 {
	switch axis {
	case X:
		return b.x.extent()
	case Y:
		b.mustHave(Y)
		return b.y.extent()
	case Z:
		b.mustHave(Z)
		return b.z.extent()
	default:
		panic(&MismatchError{Op: "Extent", Want: b.dim, Axis: axis})
	}
}

// Range returns the inclusive [low, high] pair for the given axis.
func (b Bounds) Range(axis Axis) (low, high int64) {
	switch axis {
	case X:
		return b.x.Low, b.x.High
	case Y:
		b.mustHave(Y)
		return b.y.Low, b.y.High
	case Z:
		b.mustHave(Z)
		return b.z.Low, b.z.High
	default:
		panic(&MismatchError{Op: "Range", Want: b.dim, Axis: axis})
	}
}

func (b Bounds) mustHave(axis Axis) {
	if (axis == Y && b.dim == OneD) || (axis == Z && b.dim != ThreeD) {
		panic(&MismatchError{Op: "Range", Want: b.dim, Axis: axis})
	}
}

// Size returns the total number of lattice points the bounds enclose.
func (b Bounds) Size() int64 {
	n := b.x.extent()
	if b.dim == OneD {
		return n
	}
	n *= b.y.extent()
	if b.dim == ThreeD {
		n *= b.z.extent()
	}
	return n
}

// Contains classifies coord relative to b. A Dimensionality mismatch
// between b and coord is a fatal programmer error, per §4.2.
func (b Bounds) Contains(c Coordinate) Contains {
	if b.dim != c.dim {
		panic(&MismatchError{Op: "Contains", Want: b.dim, Axis: All})
	}
	within := c.x >= b.x.Low && c.x <= b.x.High
	edge := c.x == b.x.Low || c.x == b.x.High
	if b.dim != OneD {
		within = within && c.y >= b.y.Low && c.y <= b.y.High
		edge = edge || c.y == b.y.Low || c.y == b.y.High
	}
	if b.dim == ThreeD {
		within = within && c.z >= b.z.Low && c.z <= b.z.High
		edge = edge || c.z == b.z.Low || c.z == b.z.High
	}
	switch {
	case !within:
		return Outside
	case edge:
		return OnEdge
	default:
		return Within
	}
}

// Within reports whether Contains(c) == Within.
func (b Bounds) Within(c Coordinate) bool { return b.Contains(c) == Within }

// OnEdge reports whether c lies within b and touches at least one face.
func (b Bounds) OnEdge(c Coordinate) bool { return b.Contains(c) == OnEdge }

// Outside reports whether c lies outside b entirely.
func (b Bounds) Outside(c Coordinate) bool { return b.Contains(c) == Outside }

// Wrap maps an out-of-bounds coordinate into b's interior by torus
// (modular) wrapping along every axis b carries. The variant of c must
// match b.
func (b Bounds) Wrap(c Coordinate) Coordinate {
	if b.dim != c.dim {
		panic(&MismatchError{Op: "Wrap", Want: b.dim, Axis: All})
	}
	wx := wrapAxis(c.x, b.x.Low, b.x.High)
	switch b.dim {
	case OneD:
		return New1D(wx)
	case TwoD:
		return New2D(wx, wrapAxis(c.y, b.y.Low, b.y.High))
	default:
		return New3D(wx, wrapAxis(c.y, b.y.Low, b.y.High), wrapAxis(c.z, b.z.Low, b.z.High))
	}
}

func wrapAxis(v, low, high int64) int64 {
	span := high - low + 1
	offset := (v - low) % span
	if offset < 0 {
		offset += span
	}
	return low + offset
}

// Iterate enumerates every lattice point in b, lexicographically
// outer-to-inner (X, then Y, then Z), calling yield for each. Iteration
// stops early if yield returns false.
func (b Bounds) Iterate(yield func(Coordinate) bool) {
	switch b.dim {
	case OneD:
		for x := b.x.Low; x <= b.x.High; x++ {
			if !yield(New1D(x)) {
				return
			}
		}
	case TwoD:
		for x := b.x.Low; x <= b.x.High; x++ {
			for y := b.y.Low; y <= b.y.High; y++ {
				if !yield(New2D(x, y)) {
					return
				}
			}
		}
	default:
		for x := b.x.Low; x <= b.x.High; x++ {
			for y := b.y.Low; y <= b.y.High; y++ {
				for z := b.z.Low; z <= b.z.High; z++ {
					if !yield(New3D(x, y, z)) {
						return
					}
				}
			}
		}
	}
}

// All collects every lattice point in b into a slice, in the same
// lexicographic order as Iterate.
func (b Bounds) All() []Coordinate {
	out := make([]Coordinate, 0, b.Size())
	b.Iterate(func(c Coordinate) bool {
		out = append(out, c)
		return true
	})
	return out
}
