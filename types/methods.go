package types

import (
	"encoding/binary"
	"fmt"
	"math"
)

func (seq Sequence) Int64s() []int64 {
	values := make([]int64, len(seq))
	for idx := range seq {
		values[idx] = int64(seq[idx])
	}
	return values
}

func SequenceFromInt64s(values []int64) Sequence {
	seq := make(Sequence, len(values))
	for idx := range values {
		seq[idx] = Index(values[idx])
	}
	return seq
}

// Content returns the indices between the START and END markers. Sequences
// that are not bounded by both markers are returned unchanged.
func (seq Sequence) Content() Sequence {
	if len(seq) >= 2 && seq[0] == StartIndex && seq[len(seq)-1] == EndIndex {
		return seq[1 : len(seq)-1]
	}
	return seq
}

// ToBin packs the sequence as little-endian unsigned integers, 16 or 32
// bits wide. An index that does not fit the width is an error.
func (seq Sequence) ToBin(useUint32 bool) ([]byte, error) {
	width, limit := 2, Index(math.MaxUint16)
	if useUint32 {
		width, limit = 4, Index(math.MaxUint32)
	}
	bin := make([]byte, len(seq)*width)
	for idx, index := range seq {
		if index < 0 || index > limit {
			return nil, fmt.Errorf("index %d at position %d does not fit "+
				"in %d bits", index, idx, width*8)
		}
		if useUint32 {
			binary.LittleEndian.PutUint32(bin[idx*width:], uint32(index))
		} else {
			binary.LittleEndian.PutUint16(bin[idx*width:], uint16(index))
		}
	}
	return bin, nil
}

// SequenceFromBin unpacks a flat token stream written by ToBin.
func SequenceFromBin(bin []byte, useUint32 bool) (Sequence, error) {
	width := 2
	if useUint32 {
		width = 4
	}
	if len(bin)%width != 0 {
		return nil, fmt.Errorf("%d bytes is not a whole number of %d-bit "+
			"indices", len(bin), width*8)
	}
	seq := make(Sequence, len(bin)/width)
	for idx := range seq {
		if useUint32 {
			seq[idx] = Index(binary.LittleEndian.Uint32(bin[idx*width:]))
		} else {
			seq[idx] = Index(binary.LittleEndian.Uint16(bin[idx*width:]))
		}
	}
	return seq, nil
}
