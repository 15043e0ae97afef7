package feature

import (
	"math"

	"github.com/golang/geo/r3"
)

// pairFeature computes the four invariants of the relative pose of two oriented
// points: a Darboux-frame angle triplet (f1, f2, f3) plus the point distance.
// The point whose normal deviates less from the connecting line becomes the
// frame origin, which makes the result insensitive to argument order.
//
// Degenerate inputs (coincident points, or a reference normal parallel to the
// connecting line) yield the all-zero tuple rather than an error; callers bin
// the zeros like any other value.
func pairFeature(p1, n1, p2, n2 r3.Vector) (f1, f2, f3, dist float64) {
	d := p2.Sub(p1)
	dist = d.Norm()
	if dist == 0 {
		return 0, 0, 0, 0
	}

	nRef, nOther := n1, n2
	angle1 := nRef.Dot(d) / dist
	angle2 := nOther.Dot(d) / dist
	if math.Acos(math.Abs(angle1)) > math.Acos(math.Abs(angle2)) {
		nRef, nOther = n2, n1
		d = d.Mul(-1)
		f3 = -angle2
	} else {
		f3 = angle1
	}

	// Local frame: u = reference normal, v ⟂ connecting line, w = u × v.
	v := d.Cross(nRef)
	vNorm := v.Norm()
	if vNorm == 0 {
		// Normal parallel to the connecting line; the frame is undefined.
		return 0, 0, 0, 0
	}
	v = v.Mul(1 / vNorm)
	w := nRef.Cross(v)

	f2 = v.Dot(nOther)
	f1 = math.Atan2(w.Dot(nOther), nRef.Dot(nOther))
	return f1, f2, f3, dist
}

// histBin maps a value in [lo, hi] to one of the 11 equal-width bins, clamping
// so that boundary and rounding artifacts never escape [0, 10]. A value exactly
// at hi lands in the last bin.
func histBin(v, lo, hi float64) int {
	b := int(math.Floor(binsPerFeature * (v - lo) / (hi - lo)))
	if b < 0 {
		b = 0
	}
	if b >= binsPerFeature {
		b = binsPerFeature - 1
	}
	return b
}
