package caliper

import "testing"

func TestHistogramCountsAndSamples(t *testing.T) {
	h := NewHistogram(NewUnboundedReservoir())
	for _, v := range []float64{1, 2, 3, 4, 5} {
		h.Update(v)
	}

	if got := h.Count(); got != 5 {
		t.Fatalf("Count() = %d, want 5", got)
	}

	snap := h.Snapshot()
	if snap.Len() != 5 {
		t.Fatalf("snapshot len = %d, want 5", snap.Len())
	}
	if snap.Mean() != 3.0 {
		t.Fatalf("Mean() = %v, want 3.0", snap.Mean())
	}
}

func TestHistogramDefaultsToExpDecayReservoir(t *testing.T) {
	h := NewHistogram(nil)
	h.Update(1)
	if _, ok := h.Snapshot().(*WeightedSnapshot); !ok {
		t.Fatal("default histogram reservoir should produce a WeightedSnapshot")
	}
}
