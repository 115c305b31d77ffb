package main

import (
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/wbrown/charseq"
	"github.com/wbrown/charseq/resources"
)

// splitFileList turns the comma separated -input value into paths.
func splitFileList(list string) []string {
	paths := make([]string, 0)
	for _, path := range strings.Split(list, ",") {
		if path = strings.TrimSpace(path); path != "" {
			paths = append(paths, path)
		}
	}
	return paths
}

func parseArgs(args []string, output io.Writer) (charseq.DatasetConfig,
	error) {
	flags := flag.NewFlagSet("dataset_builder", flag.ContinueOnError)
	flags.SetOutput(output)
	inputFiles := flags.String("input", "",
		"input files separated by commas, e.g. 'file1.txt,file2.txt'; "+
			"globs, http(s):// and s3:// paths are accepted")
	outputPath := flags.String("output", "",
		"output path *without* extension; writes <output>.tfrecords and "+
			"<output>_vocab")
	regex := flags.String("regex", "",
		"regular expression to split the corpus into sequences on")
	maxLen := flags.Int("maxlen", 0,
		"drop sequences of this many characters or more, markers "+
			"included; 0 keeps everything")
	plot := flags.Bool("plot", false,
		"plot sequence length frequencies to <output>_lengths.png")
	sanitize := flags.Bool("sanitize", false,
		"sanitize inputs of whitespace issues")
	sentences := flags.Bool("sentences", false,
		"split into sentences instead of on -regex")
	auth := flags.String("auth", "",
		"bearer token for http(s) inputs")
	if err := flags.Parse(args); err != nil {
		return charseq.DatasetConfig{}, err
	}
	if *inputFiles == "" {
		flags.Usage()
		return charseq.DatasetConfig{}, errors.New(
			"must provide -input files")
	}
	config := charseq.DatasetConfig{
		Files:     splitFileList(*inputFiles),
		OutPath:   *outputPath,
		Regex:     *regex,
		MaxLen:    *maxLen,
		Plot:      *plot,
		Sanitize:  *sanitize,
		Sentences: *sentences,
		Resolver:  &resources.Resolver{Auth: *auth},
	}
	if err := config.Validate(); err != nil {
		flags.Usage()
		return config, err
	}
	return config, nil
}

func main() {
	config, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	} else if err != nil {
		log.Fatal(err)
	}

	log.Printf("Dataset input sources: %s\n", strings.Join(config.Files, ", "))
	log.Printf("Dataset output: %s\n", config.OutPath)
	if config.Sentences {
		log.Printf("Splitting on sentences\n")
	} else {
		log.Printf("Splitting on pattern: %q\n", config.Regex)
	}
	if config.MaxLen > 0 {
		log.Printf("Maximum sequence length: %d\n", config.MaxLen)
	}

	begin := time.Now()
	stats, err := charseq.BuildDataset(config)
	if err != nil {
		log.Fatal(err)
	}
	duration := time.Since(begin).Seconds()
	log.Printf("%d sequences from %d characters in %0.2fs", stats.Sequences,
		stats.CorpusBytes, duration)
}
