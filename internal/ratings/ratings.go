// Package ratings holds the fixed five-point rating scale and the histogram shown on
// store pages.
package ratings

import "sort"

const (
	Min = 1
	Max = 5

	// ListTop is how many buckets the store list shows.
	ListTop = 3
)

// Level is one point of the scale.
type Level struct {
	Value       int    `json:"value"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
}

var scale = map[int]Level{
	5: {Value: 5, Emoji: "😍", Description: "Absolutely delighted"},
	4: {Value: 4, Emoji: "✨", Description: "Pretty great"},
	3: {Value: 3, Emoji: "🙂", Description: "Not bad"},
	2: {Value: 2, Emoji: "🤔", Description: "Hmm…"},
	1: {Value: 1, Emoji: "😩", Description: "Disappointed"},
}

func Valid(rating int) bool {
	return rating >= Min && rating <= Max
}

// LevelOf returns the scale entry for rating; ok is false outside 1..5.
func LevelOf(rating int) (Level, bool) {
	l, ok := scale[rating]
	return l, ok
}

// Scale lists the levels from best to worst.
func Scale() []Level {
	out := make([]Level, 0, len(scale))
	for v := Max; v >= Min; v-- {
		out = append(out, scale[v])
	}
	return out
}

// Bucket is one non-empty bar of a histogram.
type Bucket struct {
	Level
	Count int64 `json:"count"`
}

// Histogram builds buckets from raw ratings. See FromCounts for ordering.
func Histogram(values []int, limit int) []Bucket {
	counts := make(map[int]int64, len(scale))
	for _, v := range values {
		counts[v]++
	}
	return FromCounts(counts, limit)
}

// FromCounts turns rating->count into buckets sorted by count descending. Equal counts
// are ordered by the higher rating first. Zero buckets and values outside the scale are
// dropped. limit <= 0 keeps every bucket.
func FromCounts(counts map[int]int64, limit int) []Bucket {
	buckets := make([]Bucket, 0, len(counts))
	for v := Max; v >= Min; v-- {
		n := counts[v]
		if n <= 0 {
			continue
		}
		buckets = append(buckets, Bucket{Level: scale[v], Count: n})
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Value > buckets[j].Value
	})
	if limit > 0 && len(buckets) > limit {
		buckets = buckets[:limit]
	}
	return buckets
}

// Summary is the aggregate shown on a store detail page.
type Summary struct {
	Total   int64    `json:"total"`
	Average float64  `json:"average"`
	Buckets []Bucket `json:"buckets"`
}

// Summarize computes totals and the untruncated histogram from rating->count.
func Summarize(counts map[int]int64) Summary {
	var total, sum int64
	for v, n := range counts {
		if !Valid(v) || n <= 0 {
			continue
		}
		total += n
		sum += int64(v) * n
	}
	s := Summary{Total: total, Buckets: FromCounts(counts, 0)}
	if total > 0 {
		s.Average = float64(sum) / float64(total)
	}
	return s
}
