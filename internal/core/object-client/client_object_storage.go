package objectclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	cfg "github.com/markdave123-py/dmpart/internal/config"
	"github.com/markdave123-py/dmpart/internal/core"
)

var _ core.ObjectClient = (*S3Client)(nil)

type S3Client struct {
	client   *s3.Client
	uploader *manager.Uploader
	region   string
}

// NewS3Client builds a client for the configured region. Static keys are used
// when both are set; otherwise the default AWS credential chain applies.
func NewS3Client(ctx context.Context, c *cfg.Config) (*S3Client, error) {
	if c == nil {
		return nil, fmt.Errorf("object client configuration is nil")
	}
	if c.AwsRegion == "" {
		return nil, fmt.Errorf("AWS_REGION not set")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(c.AwsRegion)}
	if c.AwsAccessKey != "" && c.AwsSecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AwsAccessKey, c.AwsSecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Client{
		client:   client,
		uploader: manager.NewUploader(client),
		region:   c.AwsRegion,
	}, nil
}

// UploadFile uploads a file to S3 and returns its URL.
func (c *S3Client) UploadFile(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}

	ctxUpload, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	if _, err := c.uploader.Upload(ctxUpload, input); err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}
	return ObjectURL(bucket, c.region, key), nil
}

func (c *S3Client) GetFile(ctx context.Context, bucket, key string) ([]byte, error) {
	ctxGet, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := c.client.GetObject(ctxGet, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// ObjectURL is the virtual-hosted style URL of an object.
func ObjectURL(bucket, region, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}
