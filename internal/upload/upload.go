// Package upload copies a finished output file to remote storage: an S3
// object through the AWS SDK, or any pre-signed HTTP(S) URL with a PUT.
package upload

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/vk/hepmctools/internal/ctxlog"
)

// ErrUnsupportedDestination is returned for destinations that are neither
// s3:// nor http(s):// URLs.
var ErrUnsupportedDestination = errors.New("unsupported upload destination")

// Uploader sends files to S3 or to pre-signed URLs.
type Uploader struct {
	httpClient *http.Client
	loadOpts   []func(*config.LoadOptions) error
	s3Opts     []func(*s3.Options)
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithHTTPClient sets the client used for pre-signed URL uploads.
func WithHTTPClient(c *http.Client) Option {
	return func(u *Uploader) { u.httpClient = c }
}

// WithConfigOptions adds options to the AWS default config loader (region,
// credentials).
func WithConfigOptions(opts ...func(*config.LoadOptions) error) Option {
	return func(u *Uploader) { u.loadOpts = append(u.loadOpts, opts...) }
}

// WithS3Options adds options to the S3 client (endpoint, path style).
func WithS3Options(opts ...func(*s3.Options)) Option {
	return func(u *Uploader) { u.s3Opts = append(u.s3Opts, opts...) }
}

// New returns an Uploader. Without options S3 credentials and region come
// from the AWS default chain.
func New(opts ...Option) *Uploader {
	u := &Uploader{httpClient: http.DefaultClient}
	for _, o := range opts {
		o(u)
	}
	return u
}

// Upload copies the file at source to dest. An s3://bucket/key destination
// ending in "/" (or naming only the bucket) gets the source's base name
// appended.
func (u *Uploader) Upload(ctx context.Context, source, dest string) error {
	target, err := url.Parse(dest)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedDestination, err)
	}
	switch target.Scheme {
	case "s3":
		key := strings.TrimPrefix(target.Path, "/")
		if key == "" || strings.HasSuffix(key, "/") {
			key = path.Join(key, filepath.Base(source))
		}
		if target.Host == "" {
			return fmt.Errorf("%w: %q has no bucket", ErrUnsupportedDestination, dest)
		}
		return u.putObject(ctx, source, target.Host, key)
	case "http", "https":
		return u.putPresigned(ctx, source, dest)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedDestination, dest)
}

func contentType(source string) string {
	if ct := mime.TypeByExtension(filepath.Ext(source)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func (u *Uploader) putObject(ctx context.Context, source, bucket, key string) error {
	logger := ctxlog.FromContext(ctx).With("action", "upload", "bucket", bucket, "key", key)

	file, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("failed to open source file '%s': %w", source, err)
	}
	defer file.Close()
	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to get file stats for '%s': %w", source, err)
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, u.loadOpts...)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, u.s3Opts...)

	logger.Info("Uploading file to S3.", "source", source, "size", stat.Size())
	out, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentLength: aws.Int64(stat.Size()),
		ContentType:   aws.String(contentType(source)),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", bucket, key, err)
	}
	logger.Info("Successfully uploaded file.", "etag", aws.ToString(out.ETag))
	return nil
}

func (u *Uploader) putPresigned(ctx context.Context, source, dest string) error {
	logger := ctxlog.FromContext(ctx).With("action", "upload")

	file, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("failed to open source file '%s': %w", source, err)
	}
	defer file.Close()
	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to get file stats for '%s': %w", source, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, dest, file)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType(source))
	req.ContentLength = stat.Size()

	logger.Info("Uploading file to pre-signed URL.", "source", source, "size", stat.Size())
	resp, err := u.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute upload request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upload failed with status: %s", resp.Status)
	}
	logger.Info("Successfully uploaded file.", "status", resp.Status)
	return nil
}
