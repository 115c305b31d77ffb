// Package charseq turns text corpora into character-indexed sequence
// datasets: a TFRecord file of `seq` int64 lists plus a JSON vocabulary.
package charseq

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/wbrown/charseq/types"
)

type Index = types.Index
type Sequence = types.Sequence

const (
	PadIndex          = types.PadIndex
	StartIndex        = types.StartIndex
	EndIndex          = types.EndIndex
	FirstContentIndex = Index(3)
)

var (
	ErrUnknownCharacter = errors.New("charseq: character not in vocabulary")
	ErrInvalidVocab     = errors.New("charseq: invalid vocabulary")
)

// Vocabulary maps every distinct character of a corpus to an index. PAD,
// START and END hold 0, 1 and 2; characters follow from 3 in code point
// order, so a corpus always yields the same mapping. A Vocabulary is never
// modified after construction.
type Vocabulary struct {
	indexes map[rune]Index
	chars   []rune
}

// NewVocabulary
// Builds the vocabulary of the characters appearing anywhere in `text`.
func NewVocabulary(text string) *Vocabulary {
	seen := make(map[rune]struct{})
	for _, r := range text {
		seen[r] = struct{}{}
	}
	chars := make([]rune, 0, len(seen))
	for r := range seen {
		chars = append(chars, r)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })
	return newVocabulary(chars)
}

func newVocabulary(chars []rune) *Vocabulary {
	indexes := make(map[rune]Index, len(chars))
	for idx, r := range chars {
		indexes[r] = FirstContentIndex + Index(idx)
	}
	return &Vocabulary{indexes: indexes, chars: chars}
}

// Size counts the reserved entries as well as the characters.
func (vocab *Vocabulary) Size() int {
	return len(vocab.chars) + int(FirstContentIndex)
}

// Chars returns the content characters in index order, starting at
// FirstContentIndex.
func (vocab *Vocabulary) Chars() []rune {
	return append([]rune(nil), vocab.chars...)
}

func (vocab *Vocabulary) Get(r rune) (Index, bool) {
	idx, ok := vocab.indexes[r]
	return idx, ok
}

// Char returns the character behind a content index.
func (vocab *Vocabulary) Char(idx Index) (rune, bool) {
	pos := idx - FirstContentIndex
	if pos < 0 || pos >= Index(len(vocab.chars)) {
		return 0, false
	}
	return vocab.chars[pos], true
}

// Encode maps each character of `text` to its index, without markers.
func (vocab *Vocabulary) Encode(text string) (Sequence, error) {
	seq := make(Sequence, 0, len(text))
	for offset, r := range text {
		idx, ok := vocab.indexes[r]
		if !ok {
			return nil, fmt.Errorf("%w: %q at byte offset %d",
				ErrUnknownCharacter, r, offset)
		}
		seq = append(seq, idx)
	}
	return seq, nil
}

// EncodeSequence
// Encodes `text` and wraps it in START and END markers.
func (vocab *Vocabulary) EncodeSequence(text string) (Sequence, error) {
	content, err := vocab.Encode(text)
	if err != nil {
		return nil, err
	}
	seq := make(Sequence, 0, len(content)+2)
	seq = append(seq, StartIndex)
	seq = append(seq, content...)
	return append(seq, EndIndex), nil
}

// Decode
// Maps a sequence back to text. Reserved indices are skipped; unknown
// indices decode to U+FFFD.
func (vocab *Vocabulary) Decode(seq Sequence) string {
	var builder strings.Builder
	builder.Grow(len(seq))
	for _, idx := range seq {
		if idx < FirstContentIndex && idx >= 0 {
			continue
		}
		if r, ok := vocab.Char(idx); ok {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(utf8.RuneError)
		}
	}
	return builder.String()
}

// IndexMap returns the full mapping, reserved entries included, keyed by
// string as it is persisted.
func (vocab *Vocabulary) IndexMap() types.IndexMap {
	mapping := make(types.IndexMap, vocab.Size())
	mapping[types.PadToken] = PadIndex
	mapping[types.StartToken] = StartIndex
	mapping[types.EndToken] = EndIndex
	for r, idx := range vocab.indexes {
		mapping[string(r)] = idx
	}
	return mapping
}

func (vocab *Vocabulary) MarshalJSON() ([]byte, error) {
	return json.Marshal(vocab.IndexMap())
}

func (vocab *Vocabulary) UnmarshalJSON(data []byte) error {
	mapping := make(types.IndexMap)
	if err := json.Unmarshal(data, &mapping); err != nil {
		return err
	}
	parsed, err := VocabularyFromMap(mapping)
	if err != nil {
		return err
	}
	*vocab = *parsed
	return nil
}

// VocabularyFromMap
// Rebuilds a Vocabulary from a persisted mapping, checking that the reserved
// entries are in place and that indices are unique and dense.
func VocabularyFromMap(mapping types.IndexMap) (*Vocabulary, error) {
	reserved := map[string]Index{
		types.PadToken:   PadIndex,
		types.StartToken: StartIndex,
		types.EndToken:   EndIndex,
	}
	for token, want := range reserved {
		if got, ok := mapping[token]; !ok || got != want {
			return nil, fmt.Errorf("%w: %s must map to %d",
				ErrInvalidVocab, token, want)
		}
	}
	chars := make([]rune, len(mapping)-len(reserved))
	filled := make([]bool, len(chars))
	for key, idx := range mapping {
		if _, ok := reserved[key]; ok {
			continue
		}
		if utf8.RuneCountInString(key) != 1 {
			return nil, fmt.Errorf("%w: key %q is not a single character",
				ErrInvalidVocab, key)
		}
		pos := idx - FirstContentIndex
		if pos < 0 || pos >= Index(len(chars)) {
			return nil, fmt.Errorf("%w: index %d of %q outside [%d, %d)",
				ErrInvalidVocab, idx, key, FirstContentIndex, len(mapping))
		}
		if filled[pos] {
			return nil, fmt.Errorf("%w: index %d assigned twice",
				ErrInvalidVocab, idx)
		}
		r, _ := utf8.DecodeRuneInString(key)
		chars[pos] = r
		filled[pos] = true
	}
	return newVocabulary(chars), nil
}

// Save writes the vocabulary as a single JSON object.
func (vocab *Vocabulary) Save(path string) error {
	var encoded bytes.Buffer
	encoder := json.NewEncoder(&encoded)
	// Keep `<S>` and friends readable.
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(vocab.IndexMap()); err != nil {
		return err
	}
	return os.WriteFile(path, encoded.Bytes(), 0644)
}

func LoadVocabulary(path string) (*Vocabulary, error) {
	encoded, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	vocab := &Vocabulary{}
	if err := json.Unmarshal(encoded, vocab); err != nil {
		return nil, fmt.Errorf("cannot unmarshal vocabulary `%s`: %w",
			path, err)
	}
	return vocab, nil
}
