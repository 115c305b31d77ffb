package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/charseq"
	"github.com/wbrown/charseq/tfrecord"
	"github.com/wbrown/charseq/types"
)

func writeRecords(t *testing.T, seqs []charseq.Sequence) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	writer := tfrecord.NewWriter(&buf)
	for _, seq := range seqs {
		require.NoError(t, writer.WriteSequence(seq))
	}
	require.NoError(t, writer.Close())
	return &buf
}

func TestInspect(t *testing.T) {
	vocab := charseq.NewVocabulary("ab")
	first, _ := vocab.EncodeSequence("ab")
	second, _ := vocab.EncodeSequence("b")
	records := writeRecords(t, []charseq.Sequence{first, second})

	var bin bytes.Buffer
	result, err := inspect(records, vocab, 1, &bin, false)
	require.NoError(t, err)
	assert.Len(t, result.Sequences, 2)
	assert.Equal(t, []string{"ab"}, result.Decoded)
	assert.Zero(t, result.Unbounded)
	assert.Zero(t, result.Unknown)
	assert.Equal(t, charseq.Index(4), result.MaxIndex)
	assert.Equal(t, 4, result.Lengths.Max)

	exported := bin.Bytes()
	assert.Equal(t, uint64(len(exported)), result.Exported)
	stream, err := types.SequenceFromBin(exported, false)
	require.NoError(t, err)
	assert.Equal(t, append(append(charseq.Sequence{}, first...), second...),
		stream)
	assert.NoError(t, verifyExport(exported, false, result.Sequences))
}

func TestVerifyExport(t *testing.T) {
	seqs := []charseq.Sequence{{1, 3, 2}, {1, 2}}
	bin, err := charseq.Sequence{1, 3, 2, 1, 2}.ToBin(true)
	require.NoError(t, err)
	assert.NoError(t, verifyExport(bin, true, seqs))

	assert.Error(t, verifyExport(bin, false, seqs))
	assert.Error(t, verifyExport(bin[:16], true, seqs))
	assert.Error(t, verifyExport(bin, true, seqs[:1]))

	changed := append([]byte{}, bin...)
	changed[4] = 4
	assert.Error(t, verifyExport(changed, true, seqs))
}

func TestInspectFlagsProblems(t *testing.T) {
	vocab := charseq.NewVocabulary("a")
	records := writeRecords(t, []charseq.Sequence{
		{charseq.StartIndex, 3},
		{charseq.StartIndex, 70, charseq.EndIndex},
	})
	result, err := inspect(records, vocab, 0, nil, false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Unbounded)
	assert.Equal(t, 1, result.Unknown)
	assert.Empty(t, result.Decoded)
}

func TestInspectExportOverflow(t *testing.T) {
	vocab := charseq.NewVocabulary("a")
	records := writeRecords(t, []charseq.Sequence{
		{charseq.StartIndex, 70000, charseq.EndIndex},
	})
	var bin bytes.Buffer
	_, err := inspect(records, vocab, 0, &bin, false)
	assert.Error(t, err)

	records = writeRecords(t, []charseq.Sequence{
		{charseq.StartIndex, 70000, charseq.EndIndex},
	})
	bin.Reset()
	_, err = inspect(records, vocab, 0, &bin, true)
	assert.NoError(t, err)
	assert.Equal(t, 12, bin.Len())
}
