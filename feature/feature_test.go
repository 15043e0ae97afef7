package feature

import "testing"

func TestFeature_EmptyAccessors(t *testing.T) {
	for _, n := range []int{0, -1} {
		f := NewFeature(n)
		if f.Num() != 0 {
			t.Errorf("NewFeature(%d).Num() = %d, want 0", n, f.Num())
		}
		if d := f.Descriptor(0); d != nil {
			t.Errorf("NewFeature(%d).Descriptor(0) = %v, want nil", n, d)
		}
	}
}

func TestFeature_DescriptorIsACopy(t *testing.T) {
	f := NewFeature(2)
	f.Data.Set(3, 1, 7)

	d := f.Descriptor(1)
	if len(d) != Dimension || d[3] != 7 {
		t.Fatalf("Descriptor(1) = %v, want bin 3 == 7", d)
	}
	d[3] = 0
	if f.Data.At(3, 1) != 7 {
		t.Error("mutating the returned slice changed the matrix")
	}
}
