package charseq

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestLoadCorpusConcatenation(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.txt": "foo", "b.txt": "bar"})

	corpus, err := LoadCorpus([]string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.txt"),
	})
	require.NoError(t, err)
	assert.Equal(t, "foo\nbar", corpus.Text)
	assert.Equal(t, uint64(6), corpus.Bytes)
	for _, r := range "fobar\n" {
		_, ok := corpus.Vocab.Get(r)
		assert.True(t, ok)
	}
	assert.Equal(t, 3+6, corpus.Vocab.Size())
}

func TestLoadCorpusMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.txt": "foo"})
	_, err := LoadCorpus([]string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "nope.txt"),
	})
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadCorpusEmpty(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"empty.txt": ""})
	_, err := LoadCorpus([]string{filepath.Join(dir, "empty.txt")})
	assert.True(t, errors.Is(err, ErrEmptyCorpus))

	_, err = LoadCorpus(nil)
	assert.True(t, errors.Is(err, ErrEmptyCorpus))
}

func TestLoadCorpusSanitize(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.txt": "foo  bar\r\n"})
	corpus, err := CorpusLoader{Sanitize: true}.Load(
		[]string{filepath.Join(dir, "a.txt")})
	require.NoError(t, err)
	assert.Equal(t, "foo bar\n", corpus.Text)
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"b.txt":          "b",
		"a.txt":          "a",
		"nested/c.txt":   "c",
		"nested/skip.md": "d",
	})

	paths, err := ExpandPaths([]string{filepath.Join(dir, "**", "*.txt")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.txt"),
		filepath.Join(dir, "nested", "c.txt"),
	}, paths)

	literal := filepath.Join(dir, "missing.txt")
	paths, err = ExpandPaths([]string{literal, "s3://bucket/key*.txt"})
	require.NoError(t, err)
	assert.Equal(t, []string{literal, "s3://bucket/key*.txt"}, paths)

	_, err = ExpandPaths([]string{filepath.Join(dir, "*.csv")})
	assert.Error(t, err)
}

func TestExpandPathsLiteralWithGlobCharacters(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"data[1].txt": "x", "data1.txt": "y"})
	literal := filepath.Join(dir, "data[1].txt")

	paths, err := ExpandPaths([]string{literal})
	require.NoError(t, err)
	assert.Equal(t, []string{literal}, paths)

	corpus, err := LoadCorpus(paths)
	require.NoError(t, err)
	assert.Equal(t, "x", corpus.Text)

	paths, err = ExpandPaths([]string{filepath.Join(dir, "data[0-9].txt")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "data1.txt")}, paths)
}
