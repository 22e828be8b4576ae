package layout

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// circular places n points evenly on the unit circle.
func circular(n int) []r2.Vec {
	pos := make([]r2.Vec, n)
	if n == 1 {
		return pos
	}
	for i := range pos {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pos[i] = r2.Vec{X: math.Cos(theta), Y: math.Sin(theta)}
	}
	return pos
}

// grid fills rows of ceil(sqrt(n)) columns.
func grid(n int) []r2.Vec {
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	pos := make([]r2.Vec, n)
	for i := range pos {
		pos[i] = r2.Vec{X: float64(i % cols), Y: float64(i / cols)}
	}
	return pos
}

// spiral places point i at radius i and angle resolution*i.
func spiral(n int, resolution float64) []r2.Vec {
	pos := make([]r2.Vec, n)
	for i := range pos {
		d := float64(i)
		angle := resolution * d
		pos[i] = r2.Vec{X: d * math.Cos(angle), Y: d * math.Sin(angle)}
	}
	return pos
}

// bipartite puts the two groups on two vertical lines with a 4:3 aspect.
func bipartite(left, right []int) []r2.Vec {
	const height = 1.0
	const width = 4.0 / 3.0 * height
	offset := r2.Vec{X: width / 2, Y: height / 2}

	pos := make([]r2.Vec, len(left)+len(right))
	place := func(idx []int, x float64) {
		for k, i := range idx {
			pos[i] = r2.Sub(r2.Vec{X: x, Y: linspace(k, len(idx), height)}, offset)
		}
	}
	place(left, 0)
	place(right, width)
	return pos
}

// linspace returns the k-th of n evenly spaced values in [0, stop].
func linspace(k, n int, stop float64) float64 {
	if n <= 1 {
		return 0
	}
	return stop * float64(k) / float64(n-1)
}

// shell places each group on its own concentric circle. A first shell
// of one node sits at the center.
func shell(shells [][]int) []r2.Vec {
	total := 0
	for _, s := range shells {
		total += len(s)
	}
	pos := make([]r2.Vec, total)
	if len(shells) == 0 {
		return pos
	}

	bump := 1.0 / float64(len(shells))
	radius := bump
	if len(shells[0]) == 1 {
		radius = 0
	}
	rotate := math.Pi / float64(len(shells))
	first := rotate
	for _, idx := range shells {
		for k, i := range idx {
			theta := 2*math.Pi*float64(k)/float64(len(idx)) + first
			pos[i] = r2.Vec{X: radius * math.Cos(theta), Y: radius * math.Sin(theta)}
		}
		radius += bump
		first += rotate
	}
	return pos
}

// random draws points uniformly from the unit square.
func random(n int, seed uint64) []r2.Vec {
	rng := rand.New(rand.NewSource(int64(seed)))
	pos := make([]r2.Vec, n)
	for i := range pos {
		pos[i] = r2.Vec{X: rng.Float64(), Y: rng.Float64()}
	}
	return pos
}
