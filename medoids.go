package proclus

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// randomSample draws size distinct identifiers from ids without
// replacement. The order of the returned slice is the draw order.
func randomSample(ids []int, size int, rng *rand.Rand) []int {
	pool := slices.Clone(ids)
	size = min(size, len(pool))
	for i := 0; i < size; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:size]
}

// greedyMedoids returns a piercing set of m medoids from sample. The first
// medoid is drawn uniformly at random; every following one is the candidate
// farthest from its nearest chosen medoid. Ties go to the candidate that
// comes first in sample order.
func greedyMedoids(rel Relation, sample []int, m int, rng *rand.Rand) ([]int, error) {
	if m > len(sample) {
		return nil, fmt.Errorf("%w: %d medoids requested from %d candidates", ErrMedoidPoolExhausted, m, len(sample))
	}
	if m <= 0 {
		return nil, nil
	}

	candidates := slices.Clone(sample)
	first := rng.Intn(len(candidates))
	medoid := candidates[first]
	candidates = slices.Delete(candidates, first, first+1)
	medoids := append(make([]int, 0, m), medoid)

	// nearest[i] is the distance of candidates[i] to its closest medoid.
	nearest := make([]float64, len(candidates))
	for i, id := range candidates {
		nearest[i] = rel.Distance(id, medoid)
	}

	for len(medoids) < m {
		far := 0
		for i := 1; i < len(nearest); i++ {
			if nearest[i] > nearest[far] {
				far = i
			}
		}
		medoid = candidates[far]
		medoids = append(medoids, medoid)
		candidates = slices.Delete(candidates, far, far+1)
		nearest = slices.Delete(nearest, far, far+1)

		for i, id := range candidates {
			nearest[i] = min(nearest[i], rel.Distance(id, medoid))
		}
	}
	return medoids, nil
}

// initialMedoids draws k distinct medoids uniformly from the superset.
func initialMedoids(superset []int, k int, rng *rand.Rand) ([]int, error) {
	if k > len(superset) {
		return nil, fmt.Errorf("%w: %d initial medoids requested from a superset of %d", ErrMedoidPoolExhausted, k, len(superset))
	}
	return randomSample(superset, k, rng), nil
}

// nextMedoids derives the next working set: every best medoid that is not
// bad is kept in place, every bad one is swapped for a medoid drawn
// uniformly from the superset minus the best set. Replacements are drawn
// without replacement, so exhaustion of the pool is an error instead of an
// endless retry.
func nextMedoids(superset, best []int, bad *roaring.Bitmap, rng *rand.Rand) ([]int, error) {
	pool := roaring.New()
	for _, id := range superset {
		pool.Add(uint32(id))
	}
	for _, id := range best {
		pool.Remove(uint32(id))
	}

	current := make([]int, len(best))
	for i, id := range best {
		if !bad.Contains(uint32(id)) {
			current[i] = id
			continue
		}
		card := pool.GetCardinality()
		if card == 0 {
			return nil, fmt.Errorf("%w: no replacement left for bad medoid %d", ErrMedoidPoolExhausted, id)
		}
		next, err := pool.Select(uint32(rng.Int63n(int64(card))))
		if err != nil {
			return nil, err
		}
		pool.Remove(next)
		current[i] = int(next)
	}
	return current, nil
}
