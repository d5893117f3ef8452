// Package storage hands out presigned S3 write URLs and public read URLs
// for asset variants.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/gophmedia/internal/server/config"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

const variantOriginal = "original"

// StorageBase returns a fresh, per-upload key prefix for userID.
func StorageBase(userID string, now time.Time) string {
	return fmt.Sprintf("users/%s/%04d/%02d/%02d/%v", userID, now.Year(), now.Month(), now.Day(), uuid.New())
}

// VariantKey maps a variant onto its object key under base. The original
// sits next to the base and keeps fileName. Derived variants get their own
// folder and the extension of the image the client renders for them: PNG
// for video stills and PNG sources, JPEG otherwise.
func VariantKey(base, variant, fileName, contentType string) string {
	if variant == variantOriginal {
		return path.Join(base, fileName)
	}
	name := strings.TrimSuffix(fileName, path.Ext(fileName)) + derivedExt(contentType)
	return path.Join(base, variant, name)
}

func derivedExt(contentType string) string {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "video") || strings.Contains(ct, "png") {
		return ".png"
	}
	return ".jpg"
}

// Presigner signs PUT requests against the configured bucket.
type Presigner struct {
	config *sc.Config
}

func NewPresigner(config *sc.Config) *Presigner {
	return &Presigner{config: config}
}

func (p *Presigner) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(p.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			p.config.S3RootUser,
			p.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(p.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignPut returns one presigned PUT URL per key, all valid for the
// configured presign expiry.
func (p *Presigner) PresignPut(ctx context.Context, keys map[string]string) (map[string]string, error) {
	presignClient, err := p.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("presign client: %w", err)
	}

	bucket := p.config.S3Bucket
	urls := make(map[string]string, len(keys))
	for name, key := range keys {
		req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		}, s3.WithPresignExpires(p.config.PresignExpiry))
		if err != nil {
			return nil, fmt.Errorf("presign %s: %w", name, err)
		}
		urls[name] = req.URL
	}

	return urls, nil
}

// PublicURL returns the read URL of key under the public base URL.
func (p *Presigner) PublicURL(key string) string {
	base := strings.TrimRight(p.config.PublicBaseURL, "/")
	u, err := url.JoinPath(base, strings.Split(key, "/")...)
	if err != nil {
		return base + "/" + key
	}
	return u
}
