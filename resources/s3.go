package resources

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Client is the slice of the S3 API the resolver needs; *s3.S3 satisfies
// it, and tests substitute a mock.
type S3Client interface {
	GetObject(input *s3.GetObjectInput) (*s3.GetObjectOutput, error)
}

// NewS3Client
// Creates an S3 client from the shared AWS configuration (environment,
// ~/.aws/config, instance role).
func NewS3Client() (S3Client, error) {
	sess, err := session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, err
	}
	return s3.New(sess), nil
}

// ParseS3URI splits `s3://bucket/key` into bucket and key.
func ParseS3URI(uri string) (bucket string, key string, err error) {
	parsed, parseErr := url.Parse(uri)
	if parseErr != nil {
		return "", "", parseErr
	}
	if parsed.Scheme != "s3" {
		return "", "", errors.New(fmt.Sprintf("not an s3 uri: %s", uri))
	}
	bucket = parsed.Host
	key = strings.TrimPrefix(parsed.Path, "/")
	if bucket == "" || key == "" {
		return "", "", errors.New(fmt.Sprintf(
			"s3 uri must name a bucket and a key: %s", uri))
	}
	return bucket, key, nil
}

// fetchS3 reads a whole object into memory.
func fetchS3(svc S3Client, bucket, key string) (*[]byte, error) {
	output, err := svc.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer output.Body.Close()
	contents, readErr := io.ReadAll(output.Body)
	if readErr != nil {
		return nil, readErr
	}
	return &contents, nil
}
