package tfrecord

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/wbrown/charseq/types"
)

const writeBufferSize = 1024 * 1024

// Writer frames records into a TFRecord stream:
//
//	uint64 length | uint32 masked crc32c(length) | data | uint32 masked crc32c(data)
//
// All integers are little endian.
type Writer struct {
	out     *bufio.Writer
	file    *os.File
	Records int
	Bytes   uint64
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{out: bufio.NewWriterSize(w, writeBufferSize)}
}

// Create
// Truncates or creates the file at `path` and returns a Writer for it. The
// file is released by Close.
func Create(path string) (*Writer, error) {
	file, err := os.OpenFile(path, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}
	writer := NewWriter(file)
	writer.file = file
	return writer, nil
}

func (w *Writer) Write(record []byte) error {
	var header [12]byte
	binary.LittleEndian.PutUint64(header[:8], uint64(len(record)))
	binary.LittleEndian.PutUint32(header[8:], maskedCRC(header[:8]))
	var footer [4]byte
	binary.LittleEndian.PutUint32(footer[:], maskedCRC(record))

	for _, chunk := range [][]byte{header[:], record, footer[:]} {
		if _, err := w.out.Write(chunk); err != nil {
			return err
		}
	}
	w.Records++
	w.Bytes += uint64(len(header) + len(record) + len(footer))
	return nil
}

func (w *Writer) WriteSequence(seq types.Sequence) error {
	return w.Write(EncodeSequence(seq))
}

func (w *Writer) Flush() error {
	return w.out.Flush()
}

// Close flushes buffered records and, for writers made by Create, syncs and
// closes the file.
func (w *Writer) Close() error {
	flushErr := w.out.Flush()
	if w.file == nil {
		return flushErr
	}
	syncErr := w.file.Sync()
	closeErr := w.file.Close()
	w.file = nil
	if flushErr != nil {
		return flushErr
	} else if syncErr != nil {
		return syncErr
	}
	return closeErr
}
