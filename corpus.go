package charseq

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/yargevad/filepathx"

	"github.com/wbrown/charseq/resources"
)

var ErrEmptyCorpus = errors.New("charseq: corpus is empty")

// Corpus is the concatenated input text together with its vocabulary.
type Corpus struct {
	Text  string
	Vocab *Vocabulary
	Paths []string
	Bytes uint64
}

// CorpusLoader reads and concatenates corpus sources. The zero value reads
// local files, http(s) URLs and s3 URIs verbatim.
type CorpusLoader struct {
	Sanitize bool
	Resolver *resources.Resolver
}

// LoadCorpus
// Reads every path in order, joins the contents with "\n" and derives the
// vocabulary from the joined text.
func LoadCorpus(paths []string) (*Corpus, error) {
	return CorpusLoader{}.Load(paths)
}

func (loader CorpusLoader) Load(paths []string) (*Corpus, error) {
	resolver := loader.Resolver
	if resolver == nil {
		resolver = &resources.Resolver{}
	}
	texts := make([]string, len(paths))
	for idx, path := range paths {
		contents, err := resolver.Read(path)
		if err != nil {
			return nil, err
		}
		log.Printf("Read %s (%s)", path,
			humanize.Bytes(uint64(len(*contents))))
		texts[idx] = string(*contents)
		if loader.Sanitize {
			texts[idx] = SanitizeText(texts[idx])
		}
	}
	fullText := strings.Join(texts, "\n")
	if len(fullText) == 0 {
		return nil, fmt.Errorf("%w: %d input file(s) hold no text",
			ErrEmptyCorpus, len(paths))
	}
	vocab := NewVocabulary(fullText)
	log.Printf("Corpus is %s with %d distinct characters",
		humanize.Bytes(uint64(len(fullText))), len(vocab.Chars()))
	return &Corpus{
		Text:  fullText,
		Vocab: vocab,
		Paths: paths,
		Bytes: resolver.Bytes,
	}, nil
}

// ExpandPaths
// Expands glob entries (`*`, `?`, `[`, and `**` for any depth) into the
// sorted files they match. Literal paths and remote URIs pass through
// untouched, so a missing literal file is reported when it is read. An
// existing file whose name contains glob characters is taken literally.
func ExpandPaths(entries []string) ([]string, error) {
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if resources.Kind(entry) != resources.SOURCE_LOCAL ||
			!strings.ContainsAny(entry, "*?[") {
			paths = append(paths, entry)
			continue
		}
		if _, statErr := os.Stat(entry); statErr == nil {
			paths = append(paths, entry)
			continue
		}
		matches, err := filepathx.Glob(entry)
		if err != nil {
			return nil, err
		}
		files := make([]string, 0, len(matches))
		for _, match := range matches {
			if stat, statErr := os.Stat(match); statErr != nil {
				return nil, statErr
			} else if !stat.IsDir() {
				files = append(files, match)
			}
		}
		if len(files) == 0 {
			return nil, errors.New(fmt.Sprintf(
				"%s does not match any files", entry))
		}
		sort.Strings(files)
		paths = append(paths, files...)
	}
	return paths, nil
}
