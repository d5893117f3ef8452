package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/gophmedia/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *sc.Config {
	return &sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "media",
		PublicBaseURL:  "https://cdn.example/media/",
		PresignExpiry:  10 * time.Minute,
	}
}

func stubSeams(t *testing.T) {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := presignPutObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				t.Fatalf("load options fn error: %v", err)
			}
		}
		if lo.Region != "us-east-1" {
			t.Fatalf("region not applied: %q", lo.Region)
		}
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		if opts.BaseEndpoint == nil || *opts.BaseEndpoint != "http://127.0.0.1:9000" {
			t.Fatalf("BaseEndpoint not applied")
		}
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
}

func TestPresignPut(t *testing.T) {
	stubSeams(t)

	var expires time.Duration
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		expires = po.Expires
		assert.Equal(t, "media", aws.ToString(in.Bucket))
		return &v4.PresignedHTTPRequest{URL: "https://signed/" + aws.ToString(in.Key)}, nil
	}

	p := NewPresigner(testConfig())
	urls, err := p.PresignPut(context.Background(), map[string]string{
		"original": "users/u1/a/cat.png",
		"small":    "users/u1/a/small/cat.png",
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"original": "https://signed/users/u1/a/cat.png",
		"small":    "https://signed/users/u1/a/small/cat.png",
	}, urls)
	assert.Equal(t, 10*time.Minute, expires)
}

func TestPresignPut_Errors(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		stubSeams(t)
		loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
			return aws.Config{}, errors.New("no config")
		}

		_, err := NewPresigner(testConfig()).PresignPut(context.Background(), map[string]string{"original": "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "presign client")
	})

	t.Run("sign", func(t *testing.T) {
		stubSeams(t)
		presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
			return nil, errors.New("sign failed")
		}

		_, err := NewPresigner(testConfig()).PresignPut(context.Background(), map[string]string{"original": "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "presign original")
	})
}

func TestPublicURL(t *testing.T) {
	p := NewPresigner(testConfig())
	assert.Equal(t, "https://cdn.example/media/users/u1/x/small/cat.png", p.PublicURL("users/u1/x/small/cat.png"))
}

func TestKeys(t *testing.T) {
	now := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	base := StorageBase("u1", now)

	assert.True(t, strings.HasPrefix(base, "users/u1/2026/03/07/"), base)
	assert.Equal(t, base+"/cat.png", VariantKey(base, "original", "cat.png", "image/png"))
	assert.Equal(t, base+"/clip.mp4", VariantKey(base, "original", "clip.mp4", "video/mp4"))
	assert.Equal(t, base+"/video_preview/clip.png", VariantKey(base, "video_preview", "clip.mp4", "video/mp4"))
	assert.Equal(t, base+"/small/clip.png", VariantKey(base, "small", "clip.mp4", "video/mp4"))
	assert.Equal(t, base+"/small/cat.png", VariantKey(base, "small", "cat.png", "image/png"))
	assert.Equal(t, base+"/medium/cat.jpg", VariantKey(base, "medium", "cat.webp", "image/webp"))
}
