package charseq

import (
	"errors"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotLengths
// Renders the frequency of each sequence length as a line plot. The image
// format follows the extension of `path`.
func PlotLengths(seqs []Sequence, path string) error {
	freqs := LengthFrequencies(seqs)
	if len(freqs) == 0 {
		return errors.New("no sequences to plot")
	}
	points := make(plotter.XYs, len(freqs))
	for length, freq := range freqs {
		points[length].X = float64(length)
		points[length].Y = float64(freq)
	}

	p := plot.New()
	p.Title.Text = "Frequencies of sequence lengths"
	p.X.Label.Text = "Sequence length"
	p.Y.Label.Text = "Frequency"
	line, err := plotter.NewLine(points)
	if err != nil {
		return err
	}
	p.Add(line)
	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
