package charseq

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lengthFixture = []Sequence{
	{StartIndex, 3, 3, EndIndex},
	{StartIndex, 3, 3, EndIndex},
	{StartIndex, 3, 3, 3, EndIndex},
}

func TestLengthFrequencies(t *testing.T) {
	assert.Equal(t, []int{0, 0, 0, 0, 2, 1}, LengthFrequencies(lengthFixture))
	assert.Empty(t, LengthFrequencies(nil))
	assert.Equal(t, 5, MaxLength(lengthFixture))
	assert.Equal(t, 0, MaxLength(nil))
}

func TestSummarizeLengths(t *testing.T) {
	summary := SummarizeLengths(lengthFixture)
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, 4, summary.Min)
	assert.Equal(t, 5, summary.Max)
	assert.InDelta(t, 13.0/3.0, summary.Mean, 1e-9)
	assert.InDelta(t, 0.57735, summary.StdDev, 1e-4)
	assert.Equal(t, 4.0, summary.Median)

	single := SummarizeLengths(lengthFixture[:1])
	assert.Equal(t, 4.0, single.Mean)
	assert.Equal(t, 0.0, single.StdDev)

	assert.Equal(t, LengthSummary{}, SummarizeLengths(nil))
}

func TestPlotLengths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lengths.png")
	require.NoError(t, PlotLengths(lengthFixture, path))
	stat, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, stat.Size(), int64(0))

	assert.Error(t, PlotLengths(nil, path))
}
