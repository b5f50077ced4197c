package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/Dosada05/tournament-brackets/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type CloudflareR2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
}

// Configured reports whether every required field is present.
func (c CloudflareR2Config) Configured() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" && c.BucketName != ""
}

// objectPutter is the slice of the S3 client the archive needs.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type cloudflareR2Archive struct {
	client        objectPutter
	bucketName    string
	publicBaseURL string
}

func NewCloudflareR2Archive(ctx context.Context, cfg CloudflareR2Config) (BracketArchive, error) {
	if !cfg.Configured() {
		return nil, errors.New("invalid Cloudflare R2 configuration: account, keys and bucket are required")
	}

	sdkCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config for R2: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return newCloudflareR2Archive(client, cfg.BucketName, cfg.PublicBaseURL), nil
}

func newCloudflareR2Archive(client objectPutter, bucket, publicBaseURL string) *cloudflareR2Archive {
	return &cloudflareR2Archive{
		client:        client,
		bucketName:    bucket,
		publicBaseURL: publicBaseURL,
	}
}

func (a *cloudflareR2Archive) Archive(ctx context.Context, tournamentID string, doc *models.BracketDocument) (*ArchiveResult, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bracket for archive: %w", err)
	}
	key := ArchiveKey(tournamentID)

	result, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object to R2 (key: %s): %w", key, err)
	}

	etag := ""
	if result.ETag != nil {
		// S3-compatible APIs quote the ETag.
		etag = strings.Trim(*result.ETag, "\"")
	}
	return &ArchiveResult{
		Key:      key,
		Location: a.publicURL(key),
		ETag:     etag,
	}, nil
}

func (a *cloudflareR2Archive) publicURL(key string) string {
	if a.publicBaseURL == "" || key == "" {
		return ""
	}
	baseURL, err := url.Parse(a.publicBaseURL)
	if err != nil {
		return ""
	}
	if !strings.HasSuffix(baseURL.Path, "/") {
		baseURL.Path += "/"
	}
	pathURL, err := url.Parse(strings.TrimPrefix(key, "/"))
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(pathURL).String()
}
