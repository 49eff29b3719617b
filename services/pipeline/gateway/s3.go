package gateway

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/t3-analytics/trucklake/internal/pkg/logger"
	"github.com/t3-analytics/trucklake/internal/pkg/models"
)

// s3API is the slice of the S3 client the gateway uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Gateway copies a staged lake tree to object storage.
type S3Gateway struct {
	client s3API
	bucket string
	prefix string
}

// NewS3Gateway creates a new S3 gateway
func NewS3Gateway(awsCfg aws.Config, cfg *models.Config) *S3Gateway {
	return &S3Gateway{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Lake.Bucket,
		prefix: cfg.Lake.Prefix,
	}
}

// UploadTree walks dir recursively and puts every file under
// <prefix>/<relative-path>. Uploads run sequentially with no retry; on
// failure the keys uploaded so far are returned with the error.
func (g *S3Gateway) UploadTree(ctx context.Context, dir string) ([]string, error) {
	uploaded := make([]string, 0)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		key := g.prefix + "/" + filepath.ToSlash(rel)

		if err := g.putFile(ctx, path, key); err != nil {
			return err
		}
		uploaded = append(uploaded, key)
		logger.Info("Uploaded lake file", logrus.Fields{
			"bucket": g.bucket,
			"key":    key,
		})
		return nil
	})
	if err != nil {
		return uploaded, fmt.Errorf("failed to upload lake tree from %s: %w", dir, err)
	}
	return uploaded, nil
}

func (g *S3Gateway) putFile(ctx context.Context, path, key string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	_, err = g.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return fmt.Errorf("failed to put s3://%s/%s: %w", g.bucket, key, err)
	}
	return nil
}
