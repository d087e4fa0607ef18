package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/adapter/logger"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		f.body, _ = io.ReadAll(params.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestPut(t *testing.T) {
	putter := &fakePutter{}
	store := newS3ArtworkStore(putter, config.StorageConfig{
		Bucket:        "artwork",
		PublicBaseURL: "https://cdn.example.com/",
	}, logger.NewNoopLogger())

	stored, err := store.Put(context.Background(), "artwork/42/req 1.png", []byte("png"), "")

	require.NoError(t, err)
	assert.Equal(t, "artwork/42/req 1.png", stored.Key)
	assert.Equal(t, "https://cdn.example.com/artwork/42/req%201.png", stored.URL)
	assert.Equal(t, "artwork", *putter.input.Bucket)
	assert.Equal(t, "image/png", *putter.input.ContentType)
	assert.Equal(t, int64(3), *putter.input.ContentLength)
	assert.Equal(t, []byte("png"), putter.body)
}

func TestPutFailure(t *testing.T) {
	store := newS3ArtworkStore(&fakePutter{err: errors.New("access denied")}, config.StorageConfig{Bucket: "artwork"}, logger.NewNoopLogger())

	_, err := store.Put(context.Background(), "k.png", []byte("x"), "image/png")

	assert.ErrorContains(t, err, "access denied")
}

func TestPublicBaseURL(t *testing.T) {
	tests := []struct {
		name string
		conf config.StorageConfig
		want string
	}{
		{"Explicit public url", config.StorageConfig{Bucket: "b", PublicBaseURL: "https://cdn.example.com"}, "https://cdn.example.com"},
		{"Custom endpoint", config.StorageConfig{Bucket: "b", Endpoint: "http://minio:9000/"}, "http://minio:9000/b"},
		{"Regional AWS", config.StorageConfig{Bucket: "b", Region: "eu-west-1"}, "https://b.s3.eu-west-1.amazonaws.com"},
		{"Global AWS", config.StorageConfig{Bucket: "b"}, "https://b.s3.amazonaws.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, publicBaseURL(tt.conf))
		})
	}
}
