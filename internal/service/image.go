package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/foodgram-app/backend/config"
)

// ImageStorage stores uploaded images and returns their public URL.
// Recipe images and user avatars arrive as base64 payloads.
type ImageStorage interface {
	UploadBase64(ctx context.Context, data string, keyPrefix string) (string, error)
}

// S3ImageService stores images in the configured S3 media bucket.
type S3ImageService struct {
	s3Config *config.S3Config
}

func NewS3ImageService(s3Config *config.S3Config) *S3ImageService {
	return &S3ImageService{s3Config: s3Config}
}

var _ ImageStorage = (*S3ImageService)(nil)

// UploadBase64 decodes a base64 image payload, optionally prefixed with a
// data URI header ("data:image/png;base64,..."), uploads it to S3 and
// returns the public URL.
func (s *S3ImageService) UploadBase64(ctx context.Context, data string, keyPrefix string) (string, error) {
	contentType := "image/png"
	ext := "png"

	if strings.HasPrefix(data, "data:") {
		header, payload, found := strings.Cut(data, ",")
		if !found {
			return "", fmt.Errorf("malformed data URI")
		}
		header = strings.TrimPrefix(header, "data:")
		header = strings.TrimSuffix(header, ";base64")
		if header != "" {
			contentType = header
			if _, sub, ok := strings.Cut(header, "/"); ok {
				ext = sub
			}
		}
		data = payload
	}

	imageData, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode image data: %w", err)
	}

	key := fmt.Sprintf("%s/%s.%s", keyPrefix, uuid.New().String(), ext)

	_, err = s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return s.s3Config.ObjectURL(key), nil
}
