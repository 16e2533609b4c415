// Package media moves photo payloads out of the snapshot and into object
// storage. Phones send photos as base64 data URLs; when Cloudflare R2 is
// configured the bytes are uploaded and the photo keeps only the public URL,
// which keeps the snapshot document (and every sync of it) small.
package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/trentd187/proof/internal/config"
	"github.com/trentd187/proof/internal/trip"
)

// ErrNotDataURL is returned by ParseDataURL for anything that isn't a base64 data URL.
var ErrNotDataURL = errors.New("not a base64 data URL")

// extensions maps the image types phones actually send to a file extension.
var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
	"image/heic": "heic",
}

// ParseDataURL splits "data:<type>;base64,<payload>" into its content type and
// decoded bytes.
func ParseDataURL(s string) (contentType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, ErrNotDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrNotDataURL
	}
	contentType, ok = strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, ErrNotDataURL
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URL: %w", err)
	}
	return contentType, data, nil
}

// Extension returns the file extension for an image content type, or "bin".
func Extension(contentType string) string {
	if ext, ok := extensions[strings.ToLower(contentType)]; ok {
		return ext
	}
	return "bin"
}

// ObjectPutter is the one S3 call we make. *s3.Client satisfies it.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader writes photos to a bucket and returns their public URLs.
type Uploader struct {
	client  ObjectPutter
	bucket  string
	baseURL string
	newKey  func() string
}

// NewUploader wraps an existing client.
func NewUploader(client ObjectPutter, bucket, baseURL string) *Uploader {
	return &Uploader{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		newKey:  uuid.NewString,
	}
}

// NewR2 builds an Uploader for Cloudflare R2. R2 speaks the S3 API at a
// per-account endpoint and signs with the "auto" region.
func NewR2(ctx context.Context, cfg config.Media) (*Uploader, error) {
	if !cfg.Enabled() {
		return nil, errors.New("R2 is not configured")
	}
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)

	sdkCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.AccessKeySecret, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load R2 config: %w", err)
	}
	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	// Without a CDN the objects are still reachable at the bucket endpoint.
	baseURL := cfg.CDNBaseURL
	if baseURL == "" {
		baseURL = endpoint + "/" + cfg.BucketName
	}
	return NewUploader(client, cfg.BucketName, baseURL), nil
}

// Upload stores body under key and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return u.baseURL + "/" + key, nil
}

// PreparePhoto uploads an inline data URL and returns the input pointing at
// the hosted copy instead. Inputs that already carry a URL pass through. A nil
// Uploader or a failed upload leaves the payload inline, so a photo is never
// lost because storage is down.
func (u *Uploader) PreparePhoto(ctx context.Context, in trip.PhotoInput) trip.PhotoInput {
	if u == nil || in.ImageData == "" || in.ImageURL != "" {
		return in
	}
	contentType, data, err := ParseDataURL(in.ImageData)
	if err != nil {
		slog.Warn("photo payload is not a data URL, keeping it inline", "error", err)
		return in
	}
	key := fmt.Sprintf("photos/%s.%s", u.newKey(), Extension(contentType))
	url, err := u.Upload(ctx, key, contentType, data)
	if err != nil {
		slog.Error("photo upload failed, keeping it inline", "key", key, "error", err)
		return in
	}
	in.ImageURL = url
	in.ImageData = ""
	return in
}
