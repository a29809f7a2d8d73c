package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/logger"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/metrics"
	"go.uber.org/zap"
)

// Document describes a stored knowledge-base object.
type Document struct {
	Key          string    `json:"key"`
	SizeBytes    int64     `json:"size_bytes"`
	LastModified time.Time `json:"last_modified"`
}

// Client wraps an S3-compatible object store holding the knowledge-base
// documents the query router answers from.
type Client struct {
	s3Client   *s3.Client
	bucketName string
	endpoint   string
}

// NewClient creates a storage client for the documents bucket.
func NewClient(accessKeyID, secretAccessKey, bucketName, endpoint, region string) (*Client, error) {
	if region == "" {
		region = "ap-south-1"
	}

	opts := s3.Options{
		Region: region,
		Credentials: credentials.NewStaticCredentialsProvider(
			accessKeyID,
			secretAccessKey,
			"",
		),
	}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
	}

	s3Client := s3.New(opts)

	logger.Info("Document storage client initialized",
		zap.String("bucket", bucketName),
		zap.String("region", region),
	)

	return &Client{
		s3Client:   s3Client,
		bucketName: bucketName,
		endpoint:   endpoint,
	}, nil
}

// UploadDocument stores a document under the given key and returns its key.
func (c *Client) UploadDocument(ctx context.Context, key, contentType string, data []byte) (string, error) {
	start := time.Now()
	operation := "uploadDocument"

	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})

	duration := metrics.MeasureDuration(start)

	if err != nil {
		metrics.StorageRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		metrics.StorageRequestTotal.WithLabelValues(operation, "error").Inc()
		logger.LogAPICall("document_storage", operation, "error", duration,
			zap.Error(err),
			zap.String("key", key))
		return "", fmt.Errorf("failed to upload document: %w", err)
	}

	metrics.StorageRequestDuration.WithLabelValues(operation, "success").Observe(duration)
	metrics.StorageRequestTotal.WithLabelValues(operation, "success").Inc()
	logger.LogAPICall("document_storage", operation, "success", duration,
		zap.String("key", key),
		zap.Int("size_bytes", len(data)))

	return key, nil
}

// ListDocuments lists documents under the given prefix.
func (c *Client) ListDocuments(ctx context.Context, prefix string) ([]Document, error) {
	start := time.Now()
	operation := "listDocuments"

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucketName),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	var documents []Document
	paginator := s3.NewListObjectsV2Paginator(c.s3Client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			duration := metrics.MeasureDuration(start)
			metrics.StorageRequestDuration.WithLabelValues(operation, "error").Observe(duration)
			metrics.StorageRequestTotal.WithLabelValues(operation, "error").Inc()
			logger.LogAPICall("document_storage", operation, "error", duration, zap.Error(err))
			return nil, fmt.Errorf("failed to list documents: %w", err)
		}
		for _, obj := range page.Contents {
			doc := Document{Key: aws.ToString(obj.Key)}
			if obj.Size != nil {
				doc.SizeBytes = *obj.Size
			}
			if obj.LastModified != nil {
				doc.LastModified = *obj.LastModified
			}
			documents = append(documents, doc)
		}
	}

	duration := metrics.MeasureDuration(start)
	metrics.StorageRequestDuration.WithLabelValues(operation, "success").Observe(duration)
	metrics.StorageRequestTotal.WithLabelValues(operation, "success").Inc()
	logger.LogAPICall("document_storage", operation, "success", duration,
		zap.Int("count", len(documents)))

	return documents, nil
}

// DeleteDocument removes a document from the bucket.
func (c *Client) DeleteDocument(ctx context.Context, key string) error {
	start := time.Now()
	operation := "deleteDocument"

	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(key),
	})

	duration := metrics.MeasureDuration(start)

	if err != nil {
		metrics.StorageRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		metrics.StorageRequestTotal.WithLabelValues(operation, "error").Inc()
		logger.LogAPICall("document_storage", operation, "error", duration,
			zap.Error(err),
			zap.String("key", key))
		return fmt.Errorf("failed to delete document: %w", err)
	}

	metrics.StorageRequestDuration.WithLabelValues(operation, "success").Observe(duration)
	metrics.StorageRequestTotal.WithLabelValues(operation, "success").Inc()
	logger.LogAPICall("document_storage", operation, "success", duration,
		zap.String("key", key))

	return nil
}

// ValidateDocumentType rejects content types the ingest pipeline cannot parse.
func (c *Client) ValidateDocumentType(contentType string) error {
	validTypes := map[string]bool{
		"application/pdf": true,
		"text/plain":      true,
		"text/markdown":   true,
		"text/csv":        true,
	}

	if !validTypes[strings.ToLower(contentType)] {
		return fmt.Errorf("invalid file type: %s. Allowed types: pdf, txt, md, csv", contentType)
	}

	return nil
}

// ValidateDocumentSize rejects documents over 25MB.
func (c *Client) ValidateDocumentSize(data []byte) error {
	const maxSize = 25 * 1024 * 1024

	if len(data) > maxSize {
		return fmt.Errorf("file too large: %d bytes (max %d bytes)", len(data), maxSize)
	}

	return nil
}
