package sink

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"travel-news/internal/article"
)

const s3ObjectName = "articles.csv"

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads the same CSV the CSVSink writes to <bucket>/<prefix>articles.csv.
type S3Sink struct {
	client objectPutter
	bucket string
	key    string
}

func NewS3Sink(ctx context.Context, bucket, prefix, region string) (*S3Sink, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return newS3Sink(s3.NewFromConfig(cfg), bucket, prefix), nil
}

func newS3Sink(client objectPutter, bucket, prefix string) *S3Sink {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix = prefix + "/"
	}
	return &S3Sink{
		client: client,
		bucket: bucket,
		key:    prefix + s3ObjectName,
	}
}

func (s *S3Sink) Name() string { return "s3://" + s.bucket + "/" + s.key }

func (s *S3Sink) Write(ctx context.Context, articles []article.Article) error {
	var buf bytes.Buffer
	if err := encodeCSV(&buf, articles); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object to S3: %w", err)
	}
	return nil
}
