package game

// MinRun is the shortest same-color run that clears.
const MinRun = 4

// findMatches scans rows then columns for runs of MinRun or more
// same-colored cells. Viruses and capsules of one color match each other.
// A cell found by both passes appears once.
func findMatches(f *Field) map[Pos]struct{} {
	marked := make(map[Pos]struct{})

	for r := 0; r < f.rows; r++ {
		scanLine(f.cols, func(i int) Cell { return f.Get(r, i) }, func(i int) {
			marked[Pos{r, i}] = struct{}{}
		})
	}
	for c := 0; c < f.cols; c++ {
		scanLine(f.rows, func(i int) Cell { return f.Get(i, c) }, func(i int) {
			marked[Pos{i, c}] = struct{}{}
		})
	}
	return marked
}

// scanLine walks one row or column of length n and calls mark for every
// index that belongs to a qualifying run.
func scanLine(n int, at func(int) Cell, mark func(int)) {
	for i := 0; i < n; {
		start := at(i)
		if start.IsEmpty() {
			i++
			continue
		}
		j := i + 1
		for j < n && start.SameColor(at(j)) {
			j++
		}
		if j-i >= MinRun {
			for k := i; k < j; k++ {
				mark(k)
			}
		}
		i = j
	}
}
