package charseq

import (
	"errors"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
)

// s3Objects serves objects keyed by "bucket/key".
type s3Objects map[string]string

func (objects *s3Objects) GetObject(input *s3.GetObjectInput) (
	*s3.GetObjectOutput,
	error,
) {
	content, ok := (*objects)[aws.StringValue(input.Bucket)+"/"+
		aws.StringValue(input.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{
		Body: io.NopCloser(strings.NewReader(content)),
	}, nil
}
