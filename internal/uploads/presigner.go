// Package uploads presigns object-storage PUT URLs so clients upload avatars
// and location photos directly to the bucket, never through the API.
package uploads

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"wanderlist/internal/config"
)

const presignTTL = 15 * time.Minute

type Presigner struct {
	client    *s3.PresignClient
	bucket    string
	publicURL string
}

// New builds a presigner against the configured endpoint. Path-style
// addressing keeps it compatible with R2 and MinIO as well as S3.
func New(ctx context.Context, cfg *config.Config) (*Presigner, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Storage.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
		}
		o.UsePathStyle = true
	})

	return &Presigner{
		client:    s3.NewPresignClient(client),
		bucket:    cfg.Storage.Bucket,
		publicURL: strings.TrimRight(cfg.Storage.PublicURL, "/"),
	}, nil
}

// PresignPut returns an upload URL and the public URL the object will have.
// The key is prefixed per user so uploads cannot collide or be guessed.
func (p *Presigner) PresignPut(ctx context.Context, userID int64, filename, contentType string) (uploadURL, objectURL string, err error) {
	ext := path.Ext(filename)
	key := fmt.Sprintf("uploads/%d/%s%s", userID, uuid.NewString(), ext)

	req, err := p.client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload: %w", err)
	}

	return req.URL, fmt.Sprintf("%s/%s", p.publicURL, key), nil
}
