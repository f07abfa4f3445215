package obb

import (
	"fmt"

	"github.com/pkg/errors"
)

// Axis identifies one of the three box-local axes.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

// AxisCount is the number of box-local axes
const AxisCount = 3

// ErrInvalidAxis is wrapped by the panic raised on an out-of-range Axis.
var ErrInvalidAxis = errors.New("invalid axis")

func (a Axis) String() string {
	switch a {
	case X:
		return "X"
	case Y:
		return "Y"
	case Z:
		return "Z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

func (a Axis) check() {
	if a < X || a > Z {
		panic(errors.Wrapf(ErrInvalidAxis, "axis %d", int(a)))
	}
}

// RankAxes orders the three axes by decreasing span. Equal spans keep X before Y before Z.
func RankAxes(spans [AxisCount]float64) (long, med, short Axis) {
	order := [AxisCount]Axis{X, Y, Z}

	// insertion sort on three elements, stable for ties
	for i := 1; i < AxisCount; i++ {
		for j := i; j > 0 && spans[order[j]] > spans[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	return order[0], order[1], order[2]
}
