//go:build !wasip1 && !js

package charseq

import (
	"github.com/jdkato/prose/v2"
)

// SplitSentences
// Segments `text` into sentences, for corpora with no reliable delimiter.
// Whitespace between sentences is dropped along with the boundaries.
func SplitSentences(text string) ([]string, error) {
	doc, err := prose.NewDocument(
		text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
		prose.WithTokenization(false),
	)
	if err != nil {
		return nil, err
	}
	sentences := doc.Sentences()
	pieces := make([]string, 0, len(sentences))
	for _, sentence := range sentences {
		pieces = append(pieces, sentence.Text)
	}
	return pieces, nil
}
