package syncer

import (
	"strconv"
	"strings"
)

// DetectGaps returns every number in [min, max] absent from observed, in
// ascending order. An empty result means the range is contiguous.
func DetectGaps(min, max int, observed map[int]bool) []int {
	var gaps []int
	for n := min; n <= max; n++ {
		if !observed[n] {
			gaps = append(gaps, n)
		}
	}
	return gaps
}

// ParseBatchNumbers extracts batch numbers from remote batch names
// ("batch_7" yields 7). Names that do not follow the convention are
// ignored rather than failing the listing; the remote may hold unrelated
// collections.
func ParseBatchNumbers(names []string) map[int]bool {
	observed := make(map[int]bool, len(names))
	for _, name := range names {
		rest, ok := strings.CutPrefix(name, "batch_")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 {
			continue
		}
		observed[n] = true
	}
	return observed
}
