package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Provider stores blobs in an S3 (or S3-compatible) bucket.
//
// Key layout: <keyPrefix>/<class>/<uuid><ext>, e.g.
// "cloudvault/image/6f1c...-9a.png". The part after the prefix is the
// locator persisted with the file row; deletion rebuilds the key from
// locator and class.
type S3Provider struct {
	client        *s3.Client
	bucket        string
	keyPrefix     string
	publicBaseURL string
}

// S3ProviderConfig configures an S3Provider.
type S3ProviderConfig struct {
	// Client is the configured S3 client.
	Client *s3.Client
	// Bucket is the bucket name. Must already exist.
	Bucket string
	// KeyPrefix is prepended to every object key.
	KeyPrefix string
	// PublicBaseURL is the address objects are served from, without a
	// trailing slash (CDN or website endpoint in front of the bucket).
	PublicBaseURL string
}

// NewS3Provider builds the provider and verifies bucket access up front
// so a misconfigured bucket fails at startup, not on the first upload.
func NewS3Provider(ctx context.Context, cfg S3ProviderConfig) (*S3Provider, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("S3 client is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	if cfg.PublicBaseURL == "" {
		return nil, fmt.Errorf("public base URL is required")
	}

	if _, err := cfg.Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(cfg.Bucket),
	}); err != nil {
		return nil, fmt.Errorf("failed to access bucket %q: %w", cfg.Bucket, err)
	}

	return &S3Provider{
		client:        cfg.Client,
		bucket:        cfg.Bucket,
		keyPrefix:     strings.TrimSuffix(cfg.KeyPrefix, "/"),
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

func (p *S3Provider) objectKey(locator string, class ObjectClass) string {
	key := string(class) + "/" + locator
	if p.keyPrefix != "" {
		return p.keyPrefix + "/" + key
	}
	return key
}

// Store uploads the blob under a fresh UUID key, keeping the original
// filename's extension so downloads get a sensible Content-Type.
func (p *S3Provider) Store(ctx context.Context, blob []byte, filename string, class ObjectClass) (StoredObject, error) {
	locator := uuid.NewString() + strings.ToLower(path.Ext(filename))
	key := p.objectKey(locator, class)

	contentType := mime.TypeByExtension(path.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(blob),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return StoredObject{}, fmt.Errorf("failed to write object to S3: %w", err)
	}

	return StoredObject{
		URL:     p.publicBaseURL + "/" + key,
		Locator: locator,
	}, nil
}

// Delete removes the object. S3 DeleteObject succeeds on absent keys,
// which gives us idempotency for free.
func (p *S3Provider) Delete(ctx context.Context, locator string, class ObjectClass) error {
	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(p.objectKey(locator, class)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from S3: %w", err)
	}
	return nil
}
