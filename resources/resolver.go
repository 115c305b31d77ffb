package resources

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// WriteCounter counts the number of bytes written to it, and every 10 seconds,
// it prints a message reporting the number of bytes written so far.
type WriteCounter struct {
	Total    uint64
	Last     time.Time
	Reported bool
	Path     string
	Size     uint64
}

func (wc *WriteCounter) Write(p []byte) (int, error) {
	n := len(p)
	wc.Total += uint64(n)
	if time.Since(wc.Last).Seconds() > 10 {
		wc.Reported = true
		wc.Last = time.Now()
		log.Printf("Downloading %s... %s / %s completed.",
			wc.Path, humanize.Bytes(wc.Total), humanize.Bytes(wc.Size))
	}
	return n, nil
}

type SourceKind uint8

const (
	SOURCE_LOCAL SourceKind = iota
	SOURCE_HTTP
	SOURCE_S3
)

func (kind SourceKind) String() string {
	switch kind {
	case SOURCE_HTTP:
		return "http"
	case SOURCE_S3:
		return "s3"
	default:
		return "local"
	}
}

// Resolver reads corpus sources, whatever they live on. The zero value reads
// local files and HTTP URLs; an S3 client is created on first use unless one
// is supplied.
type Resolver struct {
	HTTP  *http.Client
	S3    S3Client
	Auth  string
	Bytes uint64
}

func isValidUrl(toTest string) bool {
	_, err := url.ParseRequestURI(toTest)
	if err != nil {
		return false
	}

	u, err := url.Parse(toTest)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	return true
}

// Kind
// Determines where a source path lives from its scheme.
func Kind(path string) SourceKind {
	if strings.HasPrefix(path, "s3://") {
		return SOURCE_S3
	} else if (strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://")) && isValidUrl(path) {
		return SOURCE_HTTP
	}
	return SOURCE_LOCAL
}

// Read
// Reads the full contents of a local path, an http(s) URL, or an s3 URI.
// Every handle acquired is released before Read returns.
func (r *Resolver) Read(path string) (*[]byte, error) {
	var contents *[]byte
	var err error
	switch Kind(path) {
	case SOURCE_S3:
		contents, err = r.readS3(path)
	case SOURCE_HTTP:
		contents, err = r.readHTTP(path)
	default:
		contents, err = readLocal(path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read `%s`: %w", path, err)
	}
	r.Bytes += uint64(len(*contents))
	return contents, nil
}

func readLocal(path string) (*[]byte, error) {
	file, openErr := os.Open(path)
	if openErr != nil {
		return nil, openErr
	}
	defer file.Close()
	stat, statErr := file.Stat()
	if statErr != nil {
		return nil, statErr
	} else if stat.IsDir() {
		return nil, errors.New(fmt.Sprintf("%s is a directory", path))
	}
	contents, mmapErr := readMmap(file, stat.Size())
	if mmapErr != nil {
		return nil, errors.New(fmt.Sprintf(
			"error trying to mmap file: %s", mmapErr))
	}
	return contents, nil
}

func (r *Resolver) readHTTP(uri string) (*[]byte, error) {
	client := r.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	body, size, err := FetchHTTP(client, uri, r.Auth)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	counter := &WriteCounter{Last: time.Now(), Path: uri, Size: size}
	contents, readErr := io.ReadAll(io.TeeReader(body, counter))
	if readErr != nil {
		return nil, readErr
	}
	if counter.Reported {
		log.Printf("Downloaded %s, %s.", uri, humanize.Bytes(counter.Total))
	}
	return &contents, nil
}

func (r *Resolver) readS3(uri string) (*[]byte, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}
	if r.S3 == nil {
		svc, svcErr := NewS3Client()
		if svcErr != nil {
			return nil, svcErr
		}
		r.S3 = svc
	}
	return fetchS3(r.S3, bucket, key)
}
