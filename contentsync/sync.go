// Package contentsync pulls blog content from an S3-compatible bucket into
// the local content directory before the site starts serving.
package contentsync

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// Config locates the bucket holding the content files.
type Config struct {
	Bucket    string
	Prefix    string
	Endpoint  string // e.g. https://<account>.r2.cloudflarestorage.com
	Region    string
	AccessKey string
	SecretKey string
}

// API is the subset of the S3 client used for syncing.
type API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Syncer copies markdown objects from a bucket prefix into a directory.
type Syncer struct {
	client API
	bucket string
	prefix string
	logger zerolog.Logger
}

// New builds an S3 client for cfg.
func New(ctx context.Context, cfg Config, logger zerolog.Logger) (*Syncer, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("contentsync: bucket not configured")
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("contentsync: load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})
	return NewWithClient(client, cfg.Bucket, cfg.Prefix, logger), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client API, bucket, prefix string, logger zerolog.Logger) *Syncer {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Syncer{client: client, bucket: bucket, prefix: prefix, logger: logger}
}

// Sync downloads every .md and .mdx object directly under the prefix into dir
// and returns how many files were written. Nested keys are ignored.
func (s *Syncer) Sync(ctx context.Context, dir string) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("contentsync: create %s: %w", dir, err)
	}
	input := &s3.ListObjectsV2Input{Bucket: aws.String(s.bucket)}
	if s.prefix != "" {
		input.Prefix = aws.String(s.prefix)
	}

	written := 0
	pages := s3.NewListObjectsV2Paginator(s.client, input)
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return written, fmt.Errorf("contentsync: list %s: %w", s.bucket, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			name, ok := s.fileName(key)
			if !ok {
				continue
			}
			if err := s.download(ctx, key, filepath.Join(dir, name)); err != nil {
				return written, err
			}
			written++
		}
	}
	s.logger.Info().Str("bucket", s.bucket).Str("prefix", s.prefix).Int("files", written).Msg("content synced")
	return written, nil
}

func (s *Syncer) fileName(key string) (string, bool) {
	rel := strings.TrimPrefix(key, s.prefix)
	if rel == "" || strings.Contains(rel, "/") || strings.HasPrefix(rel, ".") {
		return "", false
	}
	switch path.Ext(rel) {
	case ".md", ".mdx":
		return rel, true
	}
	return "", false
}

// download writes the object to a temporary file and renames it into place so
// readers never see a partial post.
func (s *Syncer) download(ctx context.Context, key, dest string) error {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("contentsync: get %s: %w", key, err)
	}
	defer out.Body.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".sync-*")
	if err != nil {
		return fmt.Errorf("contentsync: temp file: %w", err)
	}
	if _, err := io.Copy(tmp, out.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("contentsync: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("contentsync: write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("contentsync: rename %s: %w", key, err)
	}
	return nil
}
