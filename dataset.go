package charseq

import (
	"errors"
	"fmt"
	"log"

	"github.com/dustin/go-humanize"

	"github.com/wbrown/charseq/resources"
	"github.com/wbrown/charseq/tfrecord"
)

const (
	RecordsExtension = ".tfrecords"
	VocabSuffix      = "_vocab"
	PlotSuffix       = "_lengths.png"
	ProgressInterval = 100
)

// DatasetConfig
// Parameters for one run of the pipeline. OutPath is a stem without
// extension; the records, vocabulary and plot paths are derived from it.
type DatasetConfig struct {
	Files     []string
	OutPath   string
	Regex     string
	MaxLen    int
	Plot      bool
	Sanitize  bool
	Sentences bool
	Resolver  *resources.Resolver
}

// DatasetStats reports what a run produced.
type DatasetStats struct {
	Files       int
	CorpusBytes int
	VocabSize   int
	Sequences   int
	RecordBytes uint64
	Lengths     LengthSummary
}

func RecordsPath(outPath string) string {
	return outPath + RecordsExtension
}

func VocabPath(outPath string) string {
	return outPath + VocabSuffix
}

func PlotPath(outPath string) string {
	return outPath + PlotSuffix
}

func (config DatasetConfig) Validate() error {
	if len(config.Files) == 0 {
		return errors.New("no input files given")
	}
	if config.OutPath == "" {
		return errors.New("no output path given")
	}
	if config.Sentences && config.Regex != "" {
		return errors.New("a delimiter pattern and sentence splitting " +
			"are mutually exclusive")
	}
	if !config.Sentences && config.Regex == "" {
		return errors.New("no delimiter pattern given")
	}
	if config.MaxLen < 0 {
		return fmt.Errorf("maxlen must be 0 or positive, got %d",
			config.MaxLen)
	}
	return nil
}

// DatasetBuilder runs the pipeline. Its Splitter outlives single builds, so
// a pattern used across several datasets is compiled once.
type DatasetBuilder struct {
	Splitter *Splitter
}

func NewDatasetBuilder() *DatasetBuilder {
	return &DatasetBuilder{Splitter: NewSplitter()}
}

var defaultBuilder = NewDatasetBuilder()

// BuildDataset runs `config` on the package level builder.
func BuildDataset(config DatasetConfig) (*DatasetStats, error) {
	return defaultBuilder.Build(config)
}

// Build
// Loads the corpus, splits and filters it into sequences, then writes the
// records file and the vocabulary file. Any failure aborts the run; output
// already written is left as is.
func (builder *DatasetBuilder) Build(config DatasetConfig) (*DatasetStats,
	error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	paths, err := ExpandPaths(config.Files)
	if err != nil {
		return nil, err
	}
	loader := CorpusLoader{Sanitize: config.Sanitize,
		Resolver: config.Resolver}
	corpus, err := loader.Load(paths)
	if err != nil {
		return nil, err
	}

	var pieces []string
	if config.Sentences {
		pieces, err = SplitSentences(corpus.Text)
	} else {
		pieces, err = builder.Splitter.Split(corpus.Text, config.Regex)
	}
	if err != nil {
		return nil, err
	}
	seqs, err := PrepareSequences(pieces, corpus.Vocab, config.MaxLen)
	if err != nil {
		return nil, err
	}

	recordBytes, err := WriteRecords(RecordsPath(config.OutPath), seqs)
	if err != nil {
		return nil, err
	}
	if err := corpus.Vocab.Save(VocabPath(config.OutPath)); err != nil {
		return nil, fmt.Errorf("cannot write vocabulary: %w", err)
	}

	stats := &DatasetStats{
		Files:       len(paths),
		CorpusBytes: len(corpus.Text),
		VocabSize:   corpus.Vocab.Size(),
		Sequences:   len(seqs),
		RecordBytes: recordBytes,
		Lengths:     SummarizeLengths(seqs),
	}
	log.Printf("Wrote %d sequences (%s) to %s, vocabulary of %d to %s",
		stats.Sequences, humanize.Bytes(recordBytes),
		RecordsPath(config.OutPath), stats.VocabSize,
		VocabPath(config.OutPath))
	log.Printf("Sequence lengths: min %d, max %d, mean %0.2f, "+
		"std dev %0.2f, median %0.0f", stats.Lengths.Min, stats.Lengths.Max,
		stats.Lengths.Mean, stats.Lengths.StdDev, stats.Lengths.Median)

	if config.Plot {
		if err := PlotLengths(seqs, PlotPath(config.OutPath)); err != nil {
			return stats, fmt.Errorf("cannot plot sequence lengths: %w", err)
		}
		log.Printf("Plotted sequence lengths to %s", PlotPath(config.OutPath))
	}
	return stats, nil
}

// WriteRecords
// Serializes each sequence as one record, in order, and returns the number
// of bytes written. The file is flushed and closed before returning.
func WriteRecords(path string, seqs []Sequence) (uint64, error) {
	writer, err := tfrecord.Create(path)
	if err != nil {
		return 0, err
	}
	for idx, seq := range seqs {
		if writeErr := writer.WriteSequence(seq); writeErr != nil {
			writer.Close()
			return writer.Bytes, writeErr
		}
		if (idx+1)%ProgressInterval == 0 {
			log.Printf("Serialized %d sequences...", idx+1)
		}
	}
	if closeErr := writer.Close(); closeErr != nil {
		return writer.Bytes, closeErr
	}
	return writer.Bytes, nil
}
