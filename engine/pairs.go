package engine

// Pair is an unordered drug pair kept in request order: A was given before B.
type Pair struct {
	A string
	B string
}

// GeneratePairs returns every pair {ids[i], ids[j]} with i < j, ordered by i
// then j. The ids must already be distinct; fewer than two gives no pairs.
func GeneratePairs(ids []string) []Pair {
	if len(ids) < 2 {
		return []Pair{}
	}

	pairs := make([]Pair, 0, len(ids)*(len(ids)-1)/2)
	for i := 0; i < len(ids)-1; i++ {
		for j := i + 1; j < len(ids); j++ {
			pairs = append(pairs, Pair{A: ids[i], B: ids[j]})
		}
	}
	return pairs
}
