package reportstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/justapithecus/lode/lode"
	lodes3 "github.com/justapithecus/lode/lode/s3"

	"github.com/pithecene-io/qasereport/config"
)

// S3Config holds configuration for the S3 report driver.
type S3Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string
	// Prefix is the key prefix within the bucket (optional).
	Prefix string
	// Region is the AWS region (optional, uses default chain if empty).
	Region string
	// Endpoint overrides the S3 endpoint for S3-compatible providers.
	Endpoint string
	// UsePathStyle forces path-style addressing.
	UsePathStyle bool
}

// Validate checks that required S3 configuration is present.
func (c *S3Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("S3 bucket is required")
	}
	return nil
}

// ParseS3Path parses a path in format "bucket/prefix" or "bucket".
func ParseS3Path(p string) (bucket, prefix string) {
	bucket, prefix, _ = strings.Cut(strings.TrimPrefix(p, "s3://"), "/")
	return bucket, strings.Trim(prefix, "/")
}

// S3ConfigFrom maps the report connection settings onto an S3Config. The
// report path is "bucket/prefix".
func S3ConfigFrom(cfg config.Config) S3Config {
	bucket, prefix := ParseS3Path(cfg.ReportPath)
	return S3Config{
		Bucket:       bucket,
		Prefix:       prefix,
		Region:       cfg.ReportRegion,
		Endpoint:     cfg.ReportEndpoint,
		UsePathStyle: cfg.ReportPathStyle,
	}
}

// NewS3 creates an S3-backed store using the AWS default credential chain.
// The lode prefix carries cfg.Prefix, so keys returned by Put are relative
// to it.
func NewS3(ctx context.Context, cfg S3Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, WrapInitError(fmt.Errorf("failed to load AWS config: %w", err), cfg.Bucket)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) { o.BaseEndpoint = &endpoint })
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) { o.UsePathStyle = true })
	}
	client := s3.NewFromConfig(awsCfg, s3Opts...)

	factory := func() (lode.Store, error) {
		return lodes3.New(client, lodes3.Config{
			Bucket: cfg.Bucket,
			Prefix: cfg.Prefix,
		})
	}

	desc := "s3://" + cfg.Bucket
	if cfg.Prefix != "" {
		desc += "/" + cfg.Prefix
	}
	s := New(factory, "", desc)
	s.locate = func(key string) string { return desc + "/" + key }
	return s, nil
}
