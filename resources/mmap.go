//go:build !wasip1 && !js

package resources

import (
	"os"

	"github.com/edsrzf/mmap-go"
)

// readMmap maps the file read-only and copies it out, so the mapping and
// the descriptor can be released as soon as this returns.
func readMmap(file *os.File, size int64) (*[]byte, error) {
	if size == 0 {
		contents := make([]byte, 0)
		return &contents, nil
	}
	fileMmap, mmapErr := mmap.Map(file, mmap.RDONLY, 0)
	if mmapErr != nil {
		return nil, mmapErr
	}
	contents := make([]byte, len(fileMmap))
	copy(contents, fileMmap)
	if unmapErr := fileMmap.Unmap(); unmapErr != nil {
		return nil, unmapErr
	}
	return &contents, nil
}
