package morph

import (
	"math"
	"math/rand"
	"testing"
)

func totalCost(cost [][]float64, col []int) float64 {
	sum := 0.0
	for i, j := range col {
		sum += cost[i][j]
	}
	return sum
}

// bruteForce finds the optimal assignment cost by trying every permutation
func bruteForce(cost [][]float64) float64 {
	n := len(cost)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	best := math.Inf(1)
	var recurse func(k int)
	recurse = func(k int) {
		if k == n {
			if c := totalCost(cost, perm); c < best {
				best = c
			}
			return
		}
		for i := k; i < n; i++ {
			perm[k], perm[i] = perm[i], perm[k]
			recurse(k + 1)
			perm[k], perm[i] = perm[i], perm[k]
		}
	}
	recurse(0)
	return best
}

func TestAssignTrivial(t *testing.T) {
	if got := assign(nil); got != nil {
		t.Errorf("Expected nil for empty matrix, got %v", got)
	}
	if got := assign([][]float64{{7}}); len(got) != 1 || got[0] != 0 {
		t.Errorf("Expected [0] for 1x1 matrix, got %v", got)
	}
}

func TestAssignKnown(t *testing.T) {
	cost := [][]float64{
		{4, 1, 3},
		{2, 0, 5},
		{3, 2, 2},
	}
	col := assign(cost)
	// Optimal: 1->col1? The minimum total is 1+2+2=5 via (0,1),(1,0),(2,2)
	if got := totalCost(cost, col); got != 5 {
		t.Errorf("Expected total cost 5, got %f with %v", got, col)
	}
}

func TestAssignIsPermutation(t *testing.T) {
	cost := [][]float64{
		{1, 2, 3, 4},
		{4, 3, 2, 1},
		{1, 1, 1, 1},
		{2, 4, 6, 8},
	}
	col := assign(cost)
	seen := make(map[int]bool)
	for _, j := range col {
		if j < 0 || j >= len(cost) || seen[j] {
			t.Fatalf("Not a permutation: %v", col)
		}
		seen[j] = true
	}
}

func TestAssignMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(6)
		cost := make([][]float64, n)
		for i := range cost {
			cost[i] = make([]float64, n)
			for j := range cost[i] {
				cost[i][j] = math.Floor(rng.Float64()*100) / 4
			}
		}

		got := totalCost(cost, assign(cost))
		want := bruteForce(cost)
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("Trial %d (n=%d): solver cost %f, optimal %f", trial, n, got, want)
		}
	}
}

func TestAssignDeterministic(t *testing.T) {
	cost := [][]float64{
		{1, 1, 5},
		{1, 1, 5},
		{5, 5, 1},
	}
	first := assign(cost)
	for i := 0; i < 10; i++ {
		again := assign(cost)
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("Assignment not deterministic: %v vs %v", first, again)
			}
		}
	}
}
