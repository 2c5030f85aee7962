package morph

import "math"

// assign solves the minimum-cost assignment problem on a square cost matrix
// using the O(n³) Hungarian algorithm in its potential (dual) formulation,
// which stays numerically stable on floating-point costs. Returns col[i],
// the column assigned to row i.
//
// Rows are introduced in index order and the column scan takes the first
// strict minimum, so ties resolve toward lower row-major source indices and
// the result is reproducible for equal inputs.
func assign(cost [][]float64) []int {
	n := len(cost)
	if n == 0 {
		return nil
	}

	// 1-indexed with column 0 as the virtual unmatched column
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	match := make([]int, n+1) // match[j] = row matched to column j
	way := make([]int, n+1)
	minv := make([]float64, n+1)
	used := make([]bool, n+1)

	for i := 1; i <= n; i++ {
		match[0] = i
		j0 := 0
		for j := 0; j <= n; j++ {
			minv[j] = math.Inf(1)
			used[j] = false
		}

		for {
			used[j0] = true
			i0 := match[j0]
			delta := math.Inf(1)
			j1 := 0

			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}

			for j := 0; j <= n; j++ {
				if used[j] {
					u[match[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}

			j0 = j1
			if match[j0] == 0 {
				break
			}
		}

		// Augment along the alternating path back to the virtual column
		for j0 != 0 {
			j1 := way[j0]
			match[j0] = match[j1]
			j0 = j1
		}
	}

	col := make([]int, n)
	for j := 1; j <= n; j++ {
		if match[j] > 0 {
			col[match[j]-1] = j - 1
		}
	}
	return col
}
