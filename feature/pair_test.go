package feature

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
)

func randUnit(rng *rand.Rand) r3.Vector {
	theta := rng.Float64() * 2 * math.Pi
	phi := math.Acos(2*rng.Float64() - 1)
	return r3.Vector{
		X: math.Sin(phi) * math.Cos(theta),
		Y: math.Sin(phi) * math.Sin(theta),
		Z: math.Cos(phi),
	}
}

func TestPairFeature_CoincidentPoints(t *testing.T) {
	p := r3.Vector{X: 1.5, Y: -2, Z: 0.25}
	f1, f2, f3, dist := pairFeature(p, r3.Vector{Z: 1}, p, r3.Vector{X: 1})
	if f1 != 0 || f2 != 0 || f3 != 0 || dist != 0 {
		t.Errorf("coincident points: got (%v, %v, %v, %v), want exact zeros", f1, f2, f3, dist)
	}
}

func TestPairFeature_NormalParallelToConnector(t *testing.T) {
	// Both normals along the connecting line; the local frame is undefined.
	p1 := r3.Vector{}
	p2 := r3.Vector{Z: 2}
	n := r3.Vector{Z: 1}
	f1, f2, f3, dist := pairFeature(p1, n, p2, n)
	if f1 != 0 || f2 != 0 || f3 != 0 || dist != 0 {
		t.Errorf("parallel normal: got (%v, %v, %v, %v), want exact zeros", f1, f2, f3, dist)
	}
}

func TestPairFeature_CoplanarSharedNormal(t *testing.T) {
	// Two points in the z=0 plane with identical +Z normals: all three angle
	// terms vanish and only the distance survives.
	p1 := r3.Vector{}
	p2 := r3.Vector{X: 3, Y: 4}
	n := r3.Vector{Z: 1}
	f1, f2, f3, dist := pairFeature(p1, n, p2, n)
	if math.Abs(f1) > 1e-12 || math.Abs(f2) > 1e-12 || math.Abs(f3) > 1e-12 {
		t.Errorf("coplanar pair: got angles (%v, %v, %v), want zeros", f1, f2, f3)
	}
	if math.Abs(dist-5) > 1e-12 {
		t.Errorf("distance: got %v, want 5", dist)
	}
}

func TestPairFeature_OrderInvariance(t *testing.T) {
	//nolint:gosec
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 200; trial++ {
		p1 := r3.Vector{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
		p2 := r3.Vector{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
		n1 := randUnit(rng)
		n2 := randUnit(rng)

		a1, a2, a3, ad := pairFeature(p1, n1, p2, n2)
		b1, b2, b3, bd := pairFeature(p2, n2, p1, n1)

		if math.Abs(a1-b1) > 1e-9 || math.Abs(a2-b2) > 1e-9 ||
			math.Abs(a3-b3) > 1e-9 || math.Abs(ad-bd) > 1e-9 {
			t.Fatalf("trial %d: pair feature depends on argument order: (%v,%v,%v,%v) vs (%v,%v,%v,%v)",
				trial, a1, a2, a3, ad, b1, b2, b3, bd)
		}
	}
}

func TestPairFeature_ReferenceNormalDeviatesLess(t *testing.T) {
	// f3 is the cosine between the connecting line and the reference normal,
	// which by the canonical swap is whichever normal deviates less from the
	// line. Less deviation means a larger |cosine|.
	//nolint:gosec
	rng := rand.New(rand.NewSource(23))
	for trial := 0; trial < 200; trial++ {
		p1 := r3.Vector{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
		p2 := r3.Vector{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
		n1 := randUnit(rng)
		n2 := randUnit(rng)

		d := p2.Sub(p1)
		dist := d.Norm()
		if dist == 0 {
			continue
		}
		angle1 := n1.Dot(d) / dist
		angle2 := n2.Dot(d) / dist

		_, _, f3, fdist := pairFeature(p1, n1, p2, n2)
		if fdist == 0 {
			// Degenerate frame; nothing to check.
			continue
		}

		want := math.Max(math.Abs(angle1), math.Abs(angle2))
		if math.Abs(math.Abs(f3)-want) > 1e-12 {
			t.Fatalf("trial %d: |f3| = %v, want max(|angle1|, |angle2|) = %v", trial, math.Abs(f3), want)
		}
	}
}

func TestHistBin_Boundaries(t *testing.T) {
	cases := []struct {
		v, lo, hi float64
		want      int
	}{
		{-math.Pi, -math.Pi, math.Pi, 0},
		{math.Pi, -math.Pi, math.Pi, 10},
		{0, -math.Pi, math.Pi, 5},
		{-1, -1, 1, 0},
		{1, -1, 1, 10},
		{0, -1, 1, 5},
		// Beyond-domain values must clamp, never index out of range.
		{-4, -math.Pi, math.Pi, 0},
		{4, -math.Pi, math.Pi, 10},
		{math.Nextafter(1, 2), -1, 1, 10},
	}
	for _, tc := range cases {
		got := histBin(tc.v, tc.lo, tc.hi)
		if got != tc.want {
			t.Errorf("histBin(%v, %v, %v) = %d, want %d", tc.v, tc.lo, tc.hi, got, tc.want)
		}
		if got < 0 || got > 10 {
			t.Errorf("histBin(%v, %v, %v) = %d escapes [0, 10]", tc.v, tc.lo, tc.hi, got)
		}
	}
}
