package main

import (
	"math"
	"math/rand/v2"
)

// simplex is a seeded 2D simplex noise source.
type simplex struct {
	perm [512]int
}

func newSimplex(seed uint64) *simplex {
	s := &simplex{}
	p := rand.New(rand.NewPCG(seed, 0x51a4e)).Perm(256)
	for i := range s.perm {
		s.perm[i] = p[i&255]
	}
	return s
}

const (
	skew   = 0.3660254037844386  // (sqrt(3) - 1) / 2
	unskew = 0.21132486540518713 // (3 - sqrt(3)) / 6
)

// gradDot returns the dot product of one of 8 gradients with (x, y).
func gradDot(hash int, x, y float64) float64 {
	u, v := x, y
	if hash&4 != 0 {
		u, v = y, x
	}
	if hash&1 != 0 {
		u = -u
	}
	if hash&2 != 0 {
		v = -v
	}
	return u + v
}

// corner returns one simplex corner's contribution.
func corner(hash int, x, y float64) float64 {
	t := 0.5 - x*x - y*y
	if t <= 0 {
		return 0
	}
	t *= t
	return t * t * gradDot(hash, x, y)
}

// at returns noise in [-1, 1].
func (s *simplex) at(x, y float64) float64 {
	k := (x + y) * skew
	i, j := math.Floor(x+k), math.Floor(y+k)
	t := (i + j) * unskew
	x0, y0 := x-(i-t), y-(j-t)

	i1, j1 := 0, 1
	if x0 > y0 {
		i1, j1 = 1, 0
	}
	x1, y1 := x0-float64(i1)+unskew, y0-float64(j1)+unskew
	x2, y2 := x0-1+2*unskew, y0-1+2*unskew

	ii, jj := int(i)&255, int(j)&255
	n := corner(s.perm[ii+s.perm[jj]]&7, x0, y0) +
		corner(s.perm[ii+i1+s.perm[jj+j1]]&7, x1, y1) +
		corner(s.perm[ii+1+s.perm[jj+1]]&7, x2, y2)
	return 70 * n
}

// fractal sums octaves of noise and normalizes the result to [0, 1].
func (s *simplex) fractal(x, y, freq float64, octaves int) float64 {
	var total, norm float64
	amp := 1.0
	for o := 0; o < octaves; o++ {
		total += s.at(x*freq, y*freq) * amp
		norm += amp
		freq *= 2
		amp *= 0.5
	}
	return (total/norm + 1) / 2
}
