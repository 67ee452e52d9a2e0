package client

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	appConfig "careform-api/internal/config"
)

// StorageClientInterface defines the interface for export artifact storage
type StorageClientInterface interface {
	GenerateExportKey(businessID uuid.UUID, kind string) string
	UploadExport(ctx context.Context, key string, data []byte) (string, error)
	PresignDownload(ctx context.Context, key string) (string, error)
	DeleteExport(ctx context.Context, key string) error
}

// StorageClient stores generated CSV exports in S3 and hands out
// time-limited download URLs
type StorageClient struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	region        string
	endpoint      string
}

// NewStorageClient creates a new S3-backed storage client. A non-empty
// endpoint switches to path-style addressing for MinIO.
func NewStorageClient(cfg *appConfig.S3Config) (*StorageClient, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("S3 region is required")
	}

	var awsCfg aws.Config
	var err error

	if cfg.Endpoint != "" {
		if cfg.AccessKey == "" || cfg.SecretKey == "" {
			return nil, fmt.Errorf("access key and secret key are required for a custom endpoint")
		}

		awsCfg, err = config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(cfg.Region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)),
			config.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
				func(service, region string, options ...interface{}) (aws.Endpoint, error) {
					return aws.Endpoint{
						URL:               cfg.Endpoint,
						HostnameImmutable: true,
						SigningRegion:     cfg.Region,
					}, nil
				},
			)),
		)
	} else {
		// AWS SDK default credential chain (IAM role on EC2, ~/.aws/credentials locally)
		awsCfg, err = config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(cfg.Region),
		)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.UsePathStyle = true
		}
	})

	return &StorageClient{
		client:        s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		endpoint:      cfg.Endpoint,
	}, nil
}

// GenerateExportKey builds a unique S3 key for an export artifact.
// Format: exports/{businessId}/{year}/{month}/{kind}_{uuid}_{timestamp}.csv
func (c *StorageClient) GenerateExportKey(businessID uuid.UUID, kind string) string {
	now := time.Now()
	return fmt.Sprintf("exports/%s/%s/%s/%s_%s_%d.csv",
		businessID, now.Format("2006"), now.Format("01"), kind, uuid.New(), now.Unix())
}

// UploadExport uploads a CSV artifact and returns its key
func (c *StorageClient) UploadExport(ctx context.Context, key string, data []byte) (string, error) {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload export to S3: %w", err)
	}
	return key, nil
}

// PresignDownload generates a presigned GET URL with a 15 minute expiration
func (c *StorageClient) PresignDownload(ctx context.Context, key string) (string, error) {
	presignedReq, err := c.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = 15 * time.Minute
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	finalURL := presignedReq.URL

	// Rewrite the container-internal MinIO host to the externally reachable
	// one when running against a local endpoint
	if c.endpoint != "" {
		const internalHost = "minio:9000"
		externalHost := strings.TrimPrefix(strings.TrimPrefix(c.endpoint, "http://"), "https://")
		finalURL = strings.Replace(finalURL, internalHost, externalHost, 1)
	}

	return finalURL, nil
}

// DeleteExport deletes an export artifact from S3
func (c *StorageClient) DeleteExport(ctx context.Context, key string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete export from S3: %w", err)
	}
	return nil
}
