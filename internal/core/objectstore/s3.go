package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"github.com/markdave123-py/joba/internal/config"
	"github.com/markdave123-py/joba/internal/core/errs"
)

const (
	uploadTimeout   = 2 * time.Minute
	downloadTimeout = 30 * time.Second
)

type S3Client struct {
	client *s3.Client
	region string
	bucket string
	logger *zap.Logger
}

func NewS3Client(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ObjectClient, error) {
	if cfg.AwsAccessKey == "" || cfg.AwsSecretKey == "" {
		return nil, fmt.Errorf("AWS credentials not set")
	}
	if cfg.AwsRegion == "" {
		return nil, fmt.Errorf("AWS_REGION not set")
	}
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("S3 bucket name not set")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(cfg.AwsRegion),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AwsAccessKey, cfg.AwsSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	logger.Info("connected to object storage", zap.String("bucket", cfg.BucketName), zap.String("region", cfg.AwsRegion))

	return &S3Client{
		client: s3.NewFromConfig(awsCfg),
		region: cfg.AwsRegion,
		bucket: cfg.BucketName,
		logger: logger,
	}, nil
}

func (c *S3Client) Upload(ctx context.Context, key string, data []byte, contentType string, meta map[string]string) (string, error) {
	uploader := manager.NewUploader(c.client)

	ctxUpload, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	_, err := uploader.Upload(ctxUpload, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata:    meta,
	})
	if err != nil {
		return "", errs.Storage("failed to upload file", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key), nil
}

func (c *S3Client) Download(ctx context.Context, key string) (Object, error) {
	ctxGet, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	resp, err := c.client.GetObject(ctxGet, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return Object{}, errs.NotFound("file not found")
		}
		return Object{}, errs.Storage("failed to download file", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Object{}, errs.Storage("failed to read file body", err)
	}

	obj := Object{
		Data:        body,
		ContentType: aws.ToString(resp.ContentType),
		Filename:    resp.Metadata["filename"],
		OwnerID:     resp.Metadata["owner_id"],
		Size:        int64(len(body)),
	}
	return obj, nil
}

func (c *S3Client) Ping(ctx context.Context) error {
	ctxPing, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	_, err := c.client.HeadBucket(ctxPing, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err != nil {
		return errs.Storage("object storage unreachable", err)
	}
	return nil
}

func (c *S3Client) Delete(ctx context.Context, key string) error {
	ctxDel, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	_, err := c.client.DeleteObject(ctxDel, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errs.Storage("failed to delete file", err)
	}
	return nil
}
