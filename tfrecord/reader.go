package tfrecord

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/wbrown/charseq/types"
)

var ErrCorruptRecord = errors.New("tfrecord: corrupt record")

type Reader struct {
	in      *bufio.Reader
	file    *os.File
	Records int
}

func NewReader(r io.Reader) *Reader {
	return &Reader{in: bufio.NewReaderSize(r, writeBufferSize)}
}

func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	reader := NewReader(file)
	reader.file = file
	return reader, nil
}

// Next
// Returns the payload of the next record, verifying both checksums. It
// returns io.EOF once the stream ends cleanly on a record boundary.
func (r *Reader) Next() ([]byte, error) {
	var header [12]byte
	if n, err := io.ReadFull(r.in, header[:]); err != nil {
		if err == io.EOF && n == 0 {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: truncated header in record %d",
			ErrCorruptRecord, r.Records)
	}
	if binary.LittleEndian.Uint32(header[8:]) != maskedCRC(header[:8]) {
		return nil, fmt.Errorf("%w: length checksum mismatch in record %d",
			ErrCorruptRecord, r.Records)
	}
	length := binary.LittleEndian.Uint64(header[:8])
	// Records over 4GiB are not something this package writes.
	if length > 1<<32 {
		return nil, fmt.Errorf("%w: record %d claims %d bytes",
			ErrCorruptRecord, r.Records, length)
	}
	record := make([]byte, length+4)
	if _, err := io.ReadFull(r.in, record); err != nil {
		return nil, fmt.Errorf("%w: truncated payload in record %d",
			ErrCorruptRecord, r.Records)
	}
	data := record[:length]
	if binary.LittleEndian.Uint32(record[length:]) != maskedCRC(data) {
		return nil, fmt.Errorf("%w: data checksum mismatch in record %d",
			ErrCorruptRecord, r.Records)
	}
	r.Records++
	return data, nil
}

// NextSequence reads the next record and parses its `seq` feature.
func (r *Reader) NextSequence() (types.Sequence, error) {
	record, err := r.Next()
	if err != nil {
		return nil, err
	}
	return ParseSeq(record)
}

func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// ReadSequences
// Reads every record of the TFRecord file at `path` and returns the parsed
// sequences in file order.
func ReadSequences(path string) ([]types.Sequence, error) {
	reader, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	seqs := make([]types.Sequence, 0)
	for {
		seq, seqErr := reader.NextSequence()
		if seqErr == io.EOF {
			return seqs, nil
		} else if seqErr != nil {
			return seqs, seqErr
		}
		seqs = append(seqs, seq)
	}
}
