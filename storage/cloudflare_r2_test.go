package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/Dosada05/tournament-brackets/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{ETag: aws.String(`"abc123"`)}, nil
}

func TestCloudflareR2Archive_Archive(t *testing.T) {
	putter := &fakePutter{}
	archive := newCloudflareR2Archive(putter, "brackets-bucket", "https://cdn.example.com/files")

	doc := &models.BracketDocument{
		TournamentType:     models.FormatSwiss,
		TotalRounds:        3,
		TournamentComplete: true,
	}
	res, err := archive.Archive(context.Background(), "t-42", doc)
	require.NoError(t, err)

	assert.Equal(t, "brackets/t-42/final.json", res.Key)
	assert.Equal(t, "https://cdn.example.com/files/brackets/t-42/final.json", res.Location)
	assert.Equal(t, "abc123", res.ETag)

	assert.Equal(t, "brackets-bucket", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "application/json", aws.ToString(putter.input.ContentType))

	var stored models.BracketDocument
	require.NoError(t, json.Unmarshal(putter.body, &stored))
	assert.Equal(t, models.FormatSwiss, stored.TournamentType)
	assert.True(t, stored.TournamentComplete)
}

func TestCloudflareR2Archive_UploadError(t *testing.T) {
	archive := newCloudflareR2Archive(&fakePutter{err: errors.New("boom")}, "b", "")
	_, err := archive.Archive(context.Background(), "t-1", &models.BracketDocument{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "brackets/t-1/final.json")
}

func TestCloudflareR2Config_Configured(t *testing.T) {
	assert.False(t, CloudflareR2Config{}.Configured())
	assert.True(t, CloudflareR2Config{AccountID: "a", AccessKeyID: "k", SecretAccessKey: "s", BucketName: "b"}.Configured())

	_, err := NewCloudflareR2Archive(context.Background(), CloudflareR2Config{AccountID: "a"})
	require.Error(t, err)
}
