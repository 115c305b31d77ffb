package charseq

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeAll(vocab *Vocabulary, seqs []Sequence) []string {
	texts := make([]string, len(seqs))
	for idx, seq := range seqs {
		texts[idx] = vocab.Decode(seq)
	}
	return texts
}

func TestTextToSequencesSplitJoin(t *testing.T) {
	text := "ab,cd,ef"
	vocab := NewVocabulary(text)
	seqs, err := NewSplitter().TextToSequences(text, ",", vocab)
	require.NoError(t, err)
	require.Len(t, seqs, 3)
	assert.Equal(t, []string{"ab", "cd", "ef"}, decodeAll(vocab, seqs))
	for _, seq := range seqs {
		assert.Equal(t, StartIndex, seq[0])
		assert.Equal(t, EndIndex, seq[len(seq)-1])
	}
}

func TestSplitEmptyPieces(t *testing.T) {
	splitter := NewSplitter()
	pieces, err := splitter.Split(",a,,b,", ",")
	require.NoError(t, err)
	assert.Equal(t, []string{"", "a", "", "b", ""}, pieces)

	pieces, err = splitter.Split("one\n\ntwo\n\n\nthree", `\n{2,}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, pieces)
}

func TestSplitEmptyMatchingPatterns(t *testing.T) {
	cases := []struct {
		text    string
		pattern string
		pieces  []string
	}{
		{"abc", "x*", []string{"", "a", "b", "c", ""}},
		{"axb", "x*", []string{"", "a", "", "b", ""}},
		{"ax", "x*", []string{"", "a", "", ""}},
		{"", "x*", []string{"", ""}},
		{"a\n\nb", `\n*`, []string{"", "a", "", "b", ""}},
		{"ab\n", `\n*`, []string{"", "a", "b", "", ""}},
		{"a\nb", `\n`, []string{"a", "b"}},
		{"", `\n`, []string{""}},
	}
	splitter := NewSplitter()
	for _, tc := range cases {
		pieces, err := splitter.Split(tc.text, tc.pattern)
		require.NoError(t, err)
		assert.Equal(t, tc.pieces, pieces, "%q on %q", tc.pattern, tc.text)
	}
}

func TestSplitInvalidPattern(t *testing.T) {
	_, err := NewSplitter().Split("abc", "(")
	assert.True(t, errors.Is(err, ErrInvalidPattern))
}

func TestSplitterCachesPatterns(t *testing.T) {
	splitter := NewSplitter()
	first, err := splitter.Compile(`\s+`)
	require.NoError(t, err)
	second, err := splitter.Compile(`\s+`)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, uint64(1), splitter.Compiled())
}

func TestTextToSequencesUnknownCharacter(t *testing.T) {
	vocab := NewVocabulary("ab,")
	_, err := NewSplitter().TextToSequences("ab,ac", ",", vocab)
	assert.True(t, errors.Is(err, ErrUnknownCharacter))
}

func TestFilterMaxLenStrict(t *testing.T) {
	seqs := []Sequence{
		{StartIndex, 3, EndIndex},
		{StartIndex, 3, 3, EndIndex},
		{StartIndex, 3, 3, 3, EndIndex},
	}
	kept := FilterMaxLen(seqs, 4)
	require.Len(t, kept, 1)
	assert.Equal(t, seqs[0], kept[0])

	kept = FilterMaxLen(seqs, 5)
	assert.Len(t, kept, 2)
	for _, seq := range kept {
		assert.Less(t, len(seq), 5)
	}

	assert.Equal(t, seqs, FilterMaxLen(seqs, 0))
}

func TestFilterEmptyIsNoOpOnMarkedSequences(t *testing.T) {
	seqs := []Sequence{{StartIndex, EndIndex}, {StartIndex, 3, EndIndex}}
	assert.Equal(t, seqs, FilterEmpty(seqs))
	assert.Equal(t, []Sequence{{StartIndex, EndIndex}},
		FilterEmpty([]Sequence{{}, {StartIndex, EndIndex}}))
}

func TestSplitSequences(t *testing.T) {
	text := "a\nbb\nccc\ndddd"
	vocab := NewVocabulary(text)
	splitter := NewSplitter()

	seqs, err := splitter.SplitSequences(text, "\n", vocab, 0)
	require.NoError(t, err)
	assert.Len(t, seqs, 4)

	// "ccc" becomes 5 long with markers, so maxlen 5 drops it.
	seqs, err = splitter.SplitSequences(text, "\n", vocab, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "bb"}, decodeAll(vocab, seqs))

	_, err = splitter.SplitSequences(text, "\n", vocab, 2)
	assert.True(t, errors.Is(err, ErrNoSequences))
}

func TestSplitSentences(t *testing.T) {
	pieces, err := SplitSentences("The cat sat down. Then it slept.")
	require.NoError(t, err)
	require.Len(t, pieces, 2)
	assert.Contains(t, pieces[0], "cat sat down")
	assert.Contains(t, pieces[1], "slept")
}
