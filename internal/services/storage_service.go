// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/product-inventory/internal/config"
)

var ErrInvalidFile = errors.New("invalid file")

type StorageService struct {
	s3Client *s3.S3
	aws      config.AWSConfig
	storage  config.StorageConfig
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
}

type UploadOptions struct {
	Folder       string
	MaxSize      int64    // in bytes
	AllowedTypes []string // MIME types
	IsPublic     bool
}

// ProductImageOptions applies to images referenced by Product.ImageURL.
var ProductImageOptions = UploadOptions{
	Folder:       "products",
	MaxSize:      5 * 1024 * 1024, // 5MB
	AllowedTypes: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
	IsPublic:     true,
}

// NewStorageService uploads to S3 when AWS credentials are configured and
// to the local filesystem otherwise.
func NewStorageService(awsCfg config.AWSConfig, storageCfg config.StorageConfig) (*StorageService, error) {
	s := &StorageService{aws: awsCfg, storage: storageCfg}

	if awsCfg.AccessKeyID == "" {
		logrus.WithField("path", storageCfg.LocalPath).Info("Storing uploads on the local filesystem")
		return s, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(awsCfg.Region),
		Credentials: credentials.NewStaticCredentials(
			awsCfg.AccessKeyID,
			awsCfg.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	s.s3Client = s3.New(sess)
	return s, nil
}

func (s *StorageService) UsesS3() bool {
	return s.s3Client != nil
}

// Upload reads at most options.MaxSize bytes from r, checks the detected
// content type against options.AllowedTypes and stores the file under a
// fresh key.
func (s *StorageService) Upload(ctx context.Context, r io.Reader, options UploadOptions) (*UploadResult, error) {
	limit := options.MaxSize
	if limit <= 0 {
		limit = ProductImageOptions.MaxSize
	}

	fileBytes, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(fileBytes)) > limit {
		return nil, fmt.Errorf("%w: file exceeds maximum allowed size of %d bytes", ErrInvalidFile, limit)
	}
	if len(fileBytes) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrInvalidFile)
	}

	mtype := mimetype.Detect(fileBytes)
	if len(options.AllowedTypes) > 0 && !mimetype.EqualsAny(mtype.String(), options.AllowedTypes...) {
		return nil, fmt.Errorf("%w: file type %s is not allowed", ErrInvalidFile, mtype.String())
	}

	key := s.generateKey(mtype.Extension(), options.Folder)

	if s.s3Client != nil {
		return s.uploadToS3(ctx, fileBytes, key, mtype.String(), options.IsPublic)
	}
	return s.uploadToLocal(fileBytes, key, mtype.String())
}

func (s *StorageService) uploadToS3(ctx context.Context, fileBytes []byte, key, contentType string, isPublic bool) (*UploadResult, error) {
	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.aws.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(fileBytes),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileBytes))),
	}

	if isPublic {
		params.ACL = aws.String("public-read")
	}

	if _, err := s.s3Client.PutObjectWithContext(ctx, params); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:      s.getS3URL(key),
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) uploadToLocal(fileBytes []byte, key, contentType string) (*UploadResult, error) {
	path := filepath.Join(s.storage.LocalPath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(path, fileBytes, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &UploadResult{
		URL:      strings.TrimRight(s.storage.PublicBaseURL, "/") + "/" + key,
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) generateKey(ext, folder string) string {
	timestamp := time.Now().Format("20060102")
	filename := fmt.Sprintf("%s_%s%s", timestamp, uuid.NewString(), ext)

	if folder != "" {
		return folder + "/" + filename
	}
	return filename
}

func (s *StorageService) getS3URL(key string) string {
	if s.aws.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.aws.CloudFrontURL, "/"), key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.aws.S3Bucket, s.aws.Region, key)
}
