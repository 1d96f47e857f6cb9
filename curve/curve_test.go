package curve

import (
	"errors"
	"math"
	"testing"
)

func TestNewValidation(t *testing.T) {
	if _, err := New([]float64{}, []float64{}); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("Expected ErrEmptySeries, got %v", err)
	}

	if _, err := New([]float64{0, 1}, []float64{0}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("Expected ErrLengthMismatch, got %v", err)
	}

	s, err := New([]float64{0}, []float64{5})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Expected length 1, got %d", s.Len())
	}
}

func TestTruncateAtMaxLoad(t *testing.T) {
	s, _ := New([]float64{0, 1, 2, 3, 4}, []float64{0, 5, 10, 8, 3})
	trunc := s.TruncateAtMaxLoad()

	if trunc.Len() != 3 {
		t.Fatalf("Expected 3 points after truncation, got %d", trunc.Len())
	}
	if trunc.Load[2] != 10 {
		t.Errorf("Expected last load 10, got %f", trunc.Load[2])
	}

	// Original is untouched
	if s.Len() != 5 {
		t.Errorf("Truncation modified the original series: len %d", s.Len())
	}
}

func TestTruncateAtMaxLoadTie(t *testing.T) {
	// Max occurs at indices 2 and 3; first occurrence wins.
	s, _ := New([]float64{0, 1, 2, 3, 4}, []float64{0, 5, 10, 10, 3})
	trunc := s.TruncateAtMaxLoad()

	if trunc.Len() != 3 {
		t.Fatalf("Expected 3 points (tie keeps first max), got %d", trunc.Len())
	}
	if trunc.Load[trunc.Len()-1] != 10 {
		t.Errorf("Expected last load 10, got %f", trunc.Load[trunc.Len()-1])
	}
}

func TestMaxLoadUntruncated(t *testing.T) {
	s, _ := New([]float64{0, 1, 2}, []float64{3, 9, 1})
	maxVal, maxIdx := s.MaxLoad()
	if maxVal != 9 || maxIdx != 1 {
		t.Errorf("Expected max 9 at index 1, got %f at %d", maxVal, maxIdx)
	}
}

func TestEnergyTriangle(t *testing.T) {
	// Linear ramp 0..10 N over 0..5 mm: area = 25 N·mm.
	s, _ := New([]float64{0, 1, 2, 3, 4, 5}, []float64{0, 2, 4, 6, 8, 10})
	if e := s.Energy(); math.Abs(e-25) > 1e-12 {
		t.Errorf("Expected energy 25, got %f", e)
	}
}

func TestEnergyScalesLinearly(t *testing.T) {
	x := []float64{0, 0.5, 1.2, 2.0, 3.1}
	y := []float64{0, 3, 7, 12, 14}
	doubled := make([]float64, len(y))
	for i, v := range y {
		doubled[i] = 2 * v
	}

	s1, _ := New(x, y)
	s2, _ := New(x, doubled)

	if math.Abs(s2.Energy()-2*s1.Energy()) > 1e-12 {
		t.Errorf("Doubling load did not double energy: %f vs %f", s2.Energy(), s1.Energy())
	}
}

func TestEnergyReversalInvariance(t *testing.T) {
	x := []float64{0, 1, 2, 3}
	y := []float64{0, 4, 6, 10}

	rx := make([]float64, len(x))
	ry := make([]float64, len(y))
	for i := range x {
		rx[len(x)-1-i] = x[i]
		ry[len(y)-1-i] = y[i]
	}

	s, _ := New(x, y)
	rev, _ := New(rx, ry)

	// Reversing the pair order flips the sign of every dx; reversing twice
	// restores it. abs() equality is the order-independence property.
	if math.Abs(math.Abs(rev.Energy())-s.Energy()) > 1e-12 {
		t.Errorf("Energy not invariant under reversal: %f vs %f", rev.Energy(), s.Energy())
	}
}
