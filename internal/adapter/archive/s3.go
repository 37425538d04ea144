// internal/adapter/archive/s3.go

// Package archive uploads generated trend reports to S3 so dashboards
// can read the latest sweep without hitting the API.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"trendradar/internal/domain/trend"
)

// Archiver writes report JSON under a configured bucket and prefix.
// Saving is a no-op when no bucket or client is configured.
type Archiver struct {
	client *s3.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// NewArchiver creates a report archiver. Pass a nil client or empty
// bucket to disable uploads.
func NewArchiver(client *s3.Client, bucket, prefix string, logger *zap.Logger) *Archiver {
	return &Archiver{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// Enabled reports whether uploads are configured
func (a *Archiver) Enabled() bool {
	return a != nil && a.client != nil && a.bucket != ""
}

// SaveReport uploads one report as {prefix}{user_type}/{timestamp}.json
// and returns the object key.
func (a *Archiver) SaveReport(ctx context.Context, report *trend.TrendReport) (string, error) {
	if !a.Enabled() {
		return "", nil
	}

	key := fmt.Sprintf("%s%s/%s.json", a.prefix, report.UserType, time.Now().UTC().Format("20060102_150405"))

	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report: %w", err)
	}

	a.logger.Info("archived trend report",
		zap.String("key", key),
		zap.String("user_type", string(report.UserType)))
	return key, nil
}
