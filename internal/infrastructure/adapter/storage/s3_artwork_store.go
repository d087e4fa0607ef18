package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	coreport "github.com/ownaimerch/merch-credits/internal/domain/port/core"
	"github.com/ownaimerch/merch-credits/internal/domain/port/provider"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/config"
)

// objectPutter is the part of the S3 client the store needs
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ArtworkStore stores generated artwork in an S3-compatible bucket
type S3ArtworkStore struct {
	client        objectPutter
	bucket        string
	publicBaseURL string
	logger        coreport.Logger
}

// NewS3ArtworkStore builds an S3 client from the storage configuration.
// Static keys are used when present, otherwise the default AWS credential chain.
func NewS3ArtworkStore(ctx context.Context, conf config.StorageConfig, logger coreport.Logger) (*S3ArtworkStore, error) {
	if conf.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	options := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(conf.Region),
	}
	if conf.AccessKey != "" && conf.SecretKey != "" {
		options = append(options, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.AccessKey, conf.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
		}
		o.UsePathStyle = conf.UsePathStyle
	})

	return newS3ArtworkStore(client, conf, logger), nil
}

func newS3ArtworkStore(client objectPutter, conf config.StorageConfig, logger coreport.Logger) *S3ArtworkStore {
	return &S3ArtworkStore{
		client:        client,
		bucket:        conf.Bucket,
		publicBaseURL: publicBaseURL(conf),
		logger:        logger,
	}
}

// publicBaseURL picks the URL prefix buyers' orders will reference
func publicBaseURL(conf config.StorageConfig) string {
	switch {
	case conf.PublicBaseURL != "":
		return strings.TrimRight(conf.PublicBaseURL, "/")
	case conf.Endpoint != "":
		return strings.TrimRight(conf.Endpoint, "/") + "/" + conf.Bucket
	case conf.Region != "":
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", conf.Bucket, conf.Region)
	default:
		return fmt.Sprintf("https://%s.s3.amazonaws.com", conf.Bucket)
	}
}

// Put uploads the image and returns its public URL
func (s *S3ArtworkStore) Put(ctx context.Context, key string, image []byte, contentType string) (*provider.StoredArtwork, error) {
	if contentType == "" {
		contentType = "image/png"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(image),
		ContentLength: aws.Int64(int64(len(image))),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		s.logger.Error("Failed to upload artwork", map[string]any{
			"bucket": s.bucket,
			"key":    key,
			"error":  err.Error(),
		})
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &provider.StoredArtwork{
		Key: key,
		URL: s.URL(key),
	}, nil
}

// URL returns the public URL for a key
func (s *S3ArtworkStore) URL(key string) string {
	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return s.publicBaseURL + "/" + strings.Join(segments, "/")
}
