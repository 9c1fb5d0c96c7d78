package dice

import (
	"slices"
	"testing"
)

// scripted returns fixed values in order, wrapping around.
type scripted struct {
	ints   []int
	floats []float64
	i, f   int
}

func (s *scripted) Intn(n int) int {
	v := s.ints[s.i%len(s.ints)] % n
	s.i++
	return v
}

func (s *scripted) Float64() float64 {
	v := s.floats[s.f%len(s.floats)]
	s.f++
	return v
}

func TestBernoulli(t *testing.T) {
	tests := []struct {
		name  string
		p     float64
		roll  float64
		want  bool
		draws int
	}{
		{"zero never succeeds", 0, 0.0, false, 0},
		{"negative never succeeds", -0.5, 0.0, false, 0},
		{"one always succeeds", 1, 0.99, true, 0},
		{"roll below p", 0.6, 0.59, true, 1},
		{"roll at p", 0.6, 0.6, false, 1},
		{"roll above p", 0.6, 0.9, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &scripted{ints: []int{0}, floats: []float64{tt.roll}}
			if got := Bernoulli(src, tt.p); got != tt.want {
				t.Errorf("Bernoulli(%v) with roll %v = %v, want %v", tt.p, tt.roll, got, tt.want)
			}
			if src.f != tt.draws {
				t.Errorf("expected %d draws, got %d", tt.draws, src.f)
			}
		})
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	src := NewSource(42)
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	for range 20 {
		Shuffle(src, len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
		sorted := slices.Clone(items)
		slices.Sort(sorted)
		if !slices.Equal(sorted, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}) {
			t.Fatalf("shuffle lost or duplicated elements: %v", items)
		}
	}
}

func TestNewSourceIsDeterministic(t *testing.T) {
	a := NewSource(7)
	b := NewSource(7)
	for i := range 10 {
		if x, y := a.Intn(100), b.Intn(100); x != y {
			t.Fatalf("draw %d differs: %d != %d", i, x, y)
		}
	}
}
