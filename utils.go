package charseq

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// LengthSummary describes the distribution of sequence lengths, markers
// included.
type LengthSummary struct {
	Count  int
	Min    int
	Max    int
	Mean   float64
	StdDev float64
	Median float64
}

func MaxLength(seqs []Sequence) int {
	longest := 0
	for _, seq := range seqs {
		if len(seq) > longest {
			longest = len(seq)
		}
	}
	return longest
}

// LengthFrequencies
// Returns, for every length from 0 to the longest sequence, how many
// sequences have that length.
func LengthFrequencies(seqs []Sequence) []int {
	if len(seqs) == 0 {
		return []int{}
	}
	freqs := make([]int, MaxLength(seqs)+1)
	for _, seq := range seqs {
		freqs[len(seq)]++
	}
	return freqs
}

func SummarizeLengths(seqs []Sequence) LengthSummary {
	summary := LengthSummary{Count: len(seqs)}
	if len(seqs) == 0 {
		return summary
	}
	lengths := make([]float64, len(seqs))
	for idx, seq := range seqs {
		lengths[idx] = float64(len(seq))
	}
	sort.Float64s(lengths)
	summary.Min = int(lengths[0])
	summary.Max = int(lengths[len(lengths)-1])
	if len(lengths) > 1 {
		summary.Mean, summary.StdDev = stat.MeanStdDev(lengths, nil)
	} else {
		summary.Mean = lengths[0]
	}
	summary.Median = stat.Quantile(0.5, stat.Empirical, lengths, nil)
	return summary
}
