package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/wbrown/charseq"
	"github.com/wbrown/charseq/tfrecord"
	"github.com/wbrown/charseq/types"
)

type inspection struct {
	Sequences []charseq.Sequence
	Unbounded int
	Exported  uint64
	Lengths   charseq.LengthSummary
	VocabSize int
	MaxIndex  charseq.Index
	Unknown   int
	Decoded   []string
}

// inspect reads every record with the consumer parse routine, checks the
// boundary markers, decodes the first `show` sequences, and optionally
// writes all sequences back to back as a flat binary token stream.
func inspect(records io.Reader, vocab *charseq.Vocabulary, show int,
	binOut io.Writer, use32 bool) (*inspection, error) {
	result := &inspection{VocabSize: vocab.Size()}
	reader := tfrecord.NewReader(records)
	for {
		seq, err := reader.NextSequence()
		if err == io.EOF {
			break
		} else if err != nil {
			return result, err
		}
		if len(seq) < 2 || seq[0] != charseq.StartIndex ||
			seq[len(seq)-1] != charseq.EndIndex {
			result.Unbounded++
		}
		for _, idx := range seq {
			if idx > result.MaxIndex {
				result.MaxIndex = idx
			}
			if idx < 0 || int(idx) >= result.VocabSize {
				result.Unknown++
			}
		}
		if len(result.Decoded) < show {
			result.Decoded = append(result.Decoded, vocab.Decode(seq))
		}
		if binOut != nil {
			bin, binErr := seq.ToBin(use32)
			if binErr != nil {
				return result, fmt.Errorf("record %d: %w",
					len(result.Sequences), binErr)
			}
			if _, writeErr := binOut.Write(bin); writeErr != nil {
				return result, writeErr
			}
			result.Exported += uint64(len(bin))
		}
		result.Sequences = append(result.Sequences, seq)
	}
	result.Lengths = charseq.SummarizeLengths(result.Sequences)
	return result, nil
}

// verifyExport reads an exported token stream back and checks it holds the
// sequences in order.
func verifyExport(bin []byte, use32 bool, seqs []charseq.Sequence) error {
	stream, err := types.SequenceFromBin(bin, use32)
	if err != nil {
		return err
	}
	offset := 0
	for idx, seq := range seqs {
		if offset+len(seq) > len(stream) {
			return fmt.Errorf("export ends inside record %d", idx)
		}
		for pos, index := range seq {
			if stream[offset+pos] != index {
				return fmt.Errorf("export differs from record %d at "+
					"position %d", idx, pos)
			}
		}
		offset += len(seq)
	}
	if offset != len(stream) {
		return fmt.Errorf("export has %d indices past the last record",
			len(stream)-offset)
	}
	return nil
}

func main() {
	datasetPath := flag.String("dataset", "",
		"dataset path *without* extension, as given to dataset_builder")
	vocabPath := flag.String("vocab", "",
		"vocabulary file, defaults to <dataset>_vocab")
	show := flag.Int("show", 0, "decode and print the first N sequences")
	exportBin := flag.String("export_bin", "",
		"write all sequences as a flat little-endian binary token stream")
	out32 := flag.Bool("out32", false,
		"write exported tokens as 32-bit instead of 16-bit")
	flag.Parse()

	if *datasetPath == "" {
		flag.Usage()
		log.Fatal("Must provide -dataset")
	}
	if *vocabPath == "" {
		*vocabPath = charseq.VocabPath(*datasetPath)
	}

	vocab, err := charseq.LoadVocabulary(*vocabPath)
	if err != nil {
		log.Fatal(err)
	}
	recordsFile, err := os.Open(charseq.RecordsPath(*datasetPath))
	if err != nil {
		log.Fatal(err)
	}
	defer recordsFile.Close()

	var binOut *bufio.Writer
	var binFile *os.File
	var binWriter io.Writer
	if *exportBin != "" {
		if binFile, err = os.Create(*exportBin); err != nil {
			log.Fatal(err)
		}
		binOut = bufio.NewWriter(binFile)
		binWriter = binOut
	}

	result, err := inspect(recordsFile, vocab, *show, binWriter, *out32)
	if err != nil {
		log.Fatal(err)
	}
	if binOut != nil {
		if flushErr := binOut.Flush(); flushErr != nil {
			log.Fatal(flushErr)
		}
		if closeErr := binFile.Close(); closeErr != nil {
			log.Fatal(closeErr)
		}
		exported, readErr := os.ReadFile(*exportBin)
		if readErr != nil {
			log.Fatal(readErr)
		}
		if verifyErr := verifyExport(exported, *out32,
			result.Sequences); verifyErr != nil {
			log.Fatal(verifyErr)
		}
		log.Printf("Exported %s to %s", humanize.Bytes(result.Exported),
			*exportBin)
	}

	for idx, text := range result.Decoded {
		log.Printf("Sequence %d: %q", idx, text)
	}
	log.Printf("%d sequences, vocabulary of %d, highest index %d",
		len(result.Sequences), result.VocabSize, result.MaxIndex)
	log.Printf("Sequence lengths: min %d, max %d, mean %0.2f, "+
		"std dev %0.2f, median %0.0f", result.Lengths.Min,
		result.Lengths.Max, result.Lengths.Mean, result.Lengths.StdDev,
		result.Lengths.Median)
	var problems []string
	if result.Unbounded > 0 {
		problems = append(problems, fmt.Sprintf(
			"%d sequences lack START/END markers", result.Unbounded))
	}
	if result.Unknown > 0 {
		problems = append(problems, fmt.Sprintf(
			"%d indices fall outside the vocabulary", result.Unknown))
	}
	if len(problems) > 0 {
		log.Fatal(errors.New(strings.Join(problems, "; ")))
	}
}
