package ratings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func values(buckets []Bucket) [][2]int64 {
	out := make([][2]int64, len(buckets))
	for i, b := range buckets {
		out[i] = [2]int64{int64(b.Value), b.Count}
	}
	return out
}

func TestHistogramEmpty(t *testing.T) {
	assert.Empty(t, Histogram(nil, 0))
	assert.Empty(t, Histogram([]int{}, ListTop))
}

func TestHistogramTieBreaksOnHigherRating(t *testing.T) {
	got := Histogram([]int{5, 5, 4, 3, 3}, 0)
	assert.Equal(t, [][2]int64{{5, 2}, {3, 2}, {4, 1}}, values(got))

	// input order must not matter
	got = Histogram([]int{3, 4, 3, 5, 5}, 0)
	assert.Equal(t, [][2]int64{{5, 2}, {3, 2}, {4, 1}}, values(got))

	got = Histogram([]int{1, 2, 2, 1}, 0)
	assert.Equal(t, [][2]int64{{2, 2}, {1, 2}}, values(got))
}

func TestHistogramTopThree(t *testing.T) {
	got := Histogram([]int{1, 1, 1, 2, 3, 3, 4, 5, 5}, ListTop)
	require.Len(t, got, 3)
	assert.Equal(t, [][2]int64{{1, 3}, {5, 2}, {3, 2}}, values(got))
}

func TestHistogramLabels(t *testing.T) {
	got := Histogram([]int{4}, 0)
	require.Len(t, got, 1)
	assert.Equal(t, "✨", got[0].Emoji)
	assert.Equal(t, int64(1), got[0].Count)
}

func TestFromCountsDropsZeroAndOutOfScale(t *testing.T) {
	got := FromCounts(map[int]int64{5: 0, 4: 2, 9: 7, 0: 1}, 0)
	assert.Equal(t, [][2]int64{{4, 2}}, values(got))
}

func TestSummarize(t *testing.T) {
	s := Summarize(map[int]int64{5: 2, 4: 1, 3: 2})
	assert.Equal(t, int64(5), s.Total)
	assert.InDelta(t, 4.0, s.Average, 0.0001)
	assert.Len(t, s.Buckets, 3)

	empty := Summarize(nil)
	assert.Zero(t, empty.Total)
	assert.Zero(t, empty.Average)
	assert.Empty(t, empty.Buckets)
}

func TestScaleOrder(t *testing.T) {
	levels := Scale()
	require.Len(t, levels, 5)
	assert.Equal(t, 5, levels[0].Value)
	assert.Equal(t, 1, levels[4].Value)
	_, ok := LevelOf(6)
	assert.False(t, ok)
}
