package app

import (
	"context"
	"errors"
	"io"
	"log"
)

// noopPublisher swallows queue messages when Redis is unavailable
type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, queue string, payload interface{}) error {
	log.Printf("queue publishing disabled, dropping message for %s", queue)
	return nil
}

// unconfiguredUploader rejects uploads when Spaces credentials are missing
type unconfiguredUploader struct{}

func (unconfiguredUploader) Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	return "", errors.New("file storage is not configured")
}

func (unconfiguredUploader) Delete(ctx context.Context, key string) error {
	return errors.New("file storage is not configured")
}
