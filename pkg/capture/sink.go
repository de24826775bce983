package capture

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"agentviz/internal/util"
)

const s3WriteRetries = 3

// Sink stores one captured message file. Implementations mirror the
// Source implementations on the read side.
type Sink interface {
	Save(ctx context.Context, name string, content []byte) error
}

// LocalSink writes message files into a directory.
type LocalSink struct {
	dir string
}

// NewLocalSink creates a filesystem-backed sink.
func NewLocalSink(dir string) *LocalSink {
	return &LocalSink{dir: dir}
}

// Save writes one message file. The write is atomic so a concurrent
// consolidation pass never reads a half-written message.
func (s *LocalSink) Save(ctx context.Context, name string, content []byte) error {
	return util.WriteFileAtomic(filepath.Join(s.dir, name), content, 0o644)
}

// S3Sink uploads message files to an S3 bucket under a key prefix.
type S3Sink struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Sink creates an object-storage-backed sink.
func NewS3Sink(client *s3.Client, bucket, prefix string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, prefix: prefix}
}

// Save uploads one message file. Transient failures are retried.
func (s *S3Sink) Save(ctx context.Context, name string, content []byte) error {
	key := name
	if s.prefix != "" {
		key = path.Join(s.prefix, name)
	}

	err := util.RetryErrWithContext(ctx, s3WriteRetries, func(ctx context.Context) error {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(content),
			ContentType: aws.String("application/json"),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return nil
}
