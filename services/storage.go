package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"law_office_app_go/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// FileStore keeps timeline event attachments
type FileStore interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string, size int64) (*StoredObject, error)
	Open(ctx context.Context, key string) (io.ReadCloser, string, error) // reader, content-type
	Remove(ctx context.Context, key string) error
	Name() string
}

// StoredObject describes an object after upload
type StoredObject struct {
	Key      string
	Size     int64
	MimeType string
}

// ErrObjectNotFound is returned by Open for unknown keys
var ErrObjectNotFound = errors.New("stored object not found")

// Storage is the global file store
var Storage FileStore

// InitializeStorage picks R2 when it is configured and reachable, local disk otherwise
func InitializeStorage(cfg *config.Config) {
	if cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" || cfg.R2BucketName == "" {
		Storage = NewDiskStore(cfg.UploadDir)
		log.Printf("Storage connection established (Local filesystem - path: %s)", cfg.UploadDir)
		return
	}

	bucket, err := NewBucketStore(cfg)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, err = bucket.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.R2BucketName)})
	}
	if err != nil {
		log.Printf("[WARNING] R2 storage unavailable: %v. Falling back to local storage.", err)
		Storage = NewDiskStore(cfg.UploadDir)
		return
	}

	Storage = bucket
	log.Printf("Storage connection established (Cloudflare R2 - bucket: %s)", cfg.R2BucketName)
}

// BucketStore keeps objects in an S3 compatible bucket (Cloudflare R2)
type BucketStore struct {
	client *s3.Client
	bucket string
}

// NewBucketStore builds the S3 client against the R2 endpoint
func NewBucketStore(cfg *config.Config) (*BucketStore, error) {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &BucketStore{client: client, bucket: cfg.R2BucketName}, nil
}

func (b *BucketStore) Name() string { return "r2" }

func (b *BucketStore) Put(ctx context.Context, key string, r io.Reader, contentType string, size int64) (*StoredObject, error) {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(key),
		Body:          r,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to R2: %w", err)
	}
	return &StoredObject{Key: key, Size: size, MimeType: contentType}, nil
}

func (b *BucketStore) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get object from R2: %w", err)
	}
	return out.Body, aws.ToString(out.ContentType), nil
}

func (b *BucketStore) Remove(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from R2: %w", err)
	}
	return nil
}

// DiskStore keeps objects under a local directory
type DiskStore struct {
	baseDir string
}

func NewDiskStore(baseDir string) *DiskStore {
	return &DiskStore{baseDir: baseDir}
}

func (d *DiskStore) Name() string { return "local" }

func (d *DiskStore) fullPath(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(d.baseDir, clean), nil
}

func (d *DiskStore) Put(ctx context.Context, key string, r io.Reader, contentType string, size int64) (*StoredObject, error) {
	full, err := d.fullPath(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(full)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, r)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}
	return &StoredObject{Key: key, Size: written, MimeType: contentType}, nil
}

func (d *DiskStore) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	full, err := d.fullPath(key)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrObjectNotFound
		}
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	return f, ContentTypeFor(key), nil
}

func (d *DiskStore) Remove(ctx context.Context, key string) error {
	full, err := d.fullPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// ContentTypeFor guesses a MIME type from the file extension
func ContentTypeFor(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// EventFileKey creates a unique storage key for a timeline event attachment
func EventFileKey(officeID, caseID, eventID, originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	return path.Join("offices", officeID, "cases", caseID, "events", eventID, uuid.New().String()+ext)
}
