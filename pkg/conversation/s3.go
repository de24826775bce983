package conversation

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"agentviz/internal/util"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/singleflight"
)

const s3ReadRetries = 3

// NewS3Client builds an S3 client from the environment (AWS_REGION,
// AWS_ENDPOINT, AWS_ACCESS_KEY, AWS_SECRET_KEY). A custom endpoint with
// path-style addressing supports S3-compatible object stores.
func NewS3Client(ctx context.Context) (*s3.Client, error) {
	region := util.GetEnv("AWS_REGION")
	endpoint := util.GetEnv("AWS_ENDPOINT")
	accessKey := util.GetEnv("AWS_ACCESS_KEY")
	secretKey := util.GetEnv("AWS_SECRET_KEY")

	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(region),
		config.WithBaseEndpoint(endpoint),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey,
			secretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return client, nil
}

// S3Source reads message files from an S3 bucket under a key prefix.
type S3Source struct {
	client *s3.Client
	bucket string
	prefix string

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewS3Source creates an object-storage-backed message source.
func NewS3Source(client *s3.Client, bucket, prefix string) *S3Source {
	return &S3Source{
		client: client,
		bucket: bucket,
		prefix: prefix,
		cache:  make(map[string][]byte),
	}
}

// List returns all object keys under the configured prefix, following
// pagination to the end.
func (s *S3Source) List(ctx context.Context) ([]string, error) {
	var keys []string
	listInput := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	}

	for {
		listOutput, err := s.client.ListObjectsV2(ctx, listInput)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects with prefix %s: %w", s.prefix, err)
		}

		for _, obj := range listOutput.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}

		if listOutput.IsTruncated != nil && *listOutput.IsTruncated {
			listInput.ContinuationToken = listOutput.NextContinuationToken
		} else {
			break
		}
	}

	return keys, nil
}

// Read downloads one object. Transient failures are retried; results are
// cached for the lifetime of the source.
func (s *S3Source) Read(ctx context.Context, key string) ([]byte, error) {
	s.cacheMu.RLock()
	if cached, ok := s.cache[key]; ok {
		s.cacheMu.RUnlock()
		return cached, nil
	}
	s.cacheMu.RUnlock()

	result, err, _ := s.group.Do(key, func() (any, error) {
		data, err := util.RetryWithContext(ctx, s3ReadRetries, func(ctx context.Context) ([]byte, error) {
			return s.getObject(ctx, key)
		})
		if err != nil {
			return nil, err
		}

		s.cacheMu.Lock()
		s.cache[key] = data
		s.cacheMu.Unlock()

		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

func (s *S3Source) getObject(ctx context.Context, key string) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer result.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, result.Body); err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	return buf.Bytes(), nil
}
