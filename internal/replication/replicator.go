// Package replication uploads completed snapshots to an S3-compatible
// bucket (MinIO in development). Uploads are best-effort: the caller
// logs failures and keeps going, local snapshots stay authoritative.
package replication

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appcfg "github.com/metascrub-app/core/internal/config"
	"github.com/metascrub-app/core/internal/models"
)

// Seams for tests.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

// Replicator ships snapshots to the configured bucket.
type Replicator struct {
	config *appcfg.Config
}

// New returns a Replicator using the S3 settings from config.
func New(config *appcfg.Config) *Replicator {
	return &Replicator{config: config}
}

func (r *Replicator) client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(r.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			r.config.S3RootUser,     // MINIO_ROOT_USER
			r.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(r.config.S3BaseEndpoint)
	})

	return client, nil
}

// objectKey partitions uploads by date so bucket listings stay navigable.
func objectKey(snap models.Snapshot) string {
	d := snap.TakenAt.UTC()
	return fmt.Sprintf("snapshots/%d/%02d/%02d/%s-%s.json", d.Year(), d.Month(), d.Day(), snap.Operation, snap.ID)
}

// Upload stores the snapshot document under a date-partitioned key and
// returns that key.
func (r *Replicator) Upload(ctx context.Context, snap models.Snapshot) (string, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	client, err := r.client(ctx)
	if err != nil {
		return "", fmt.Errorf("s3 client: %w", err)
	}

	bucket := r.config.S3Bucket
	key := objectKey(snap)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return key, nil
}
