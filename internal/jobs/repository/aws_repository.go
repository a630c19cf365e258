package repository

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/clipforge/clipforge/internal/jobs"
	"github.com/clipforge/clipforge/internal/models"
)

var videoKeyPattern = regexp.MustCompile(`.+\.(mp4|mov|avi|mkv|webm)$`)

type awsRepository struct {
	client        *s3.Client
	preSignClient *s3.PresignClient
}

func NewAwsRepository(awsClient *s3.Client, preSignClient *s3.PresignClient) jobs.AWSRepository {
	return &awsRepository{
		client:        awsClient,
		preSignClient: preSignClient,
	}
}

func (a *awsRepository) GetPresignedURL(ctx context.Context, input *models.PresignInput) (string, error) {
	if !videoKeyPattern.MatchString(input.Name) {
		return "", fmt.Errorf("invalid file format: %s", input.Name)
	}
	putObjectReq, err := a.preSignClient.PresignPutObject(
		ctx,
		&s3.PutObjectInput{
			Bucket:        &input.BucketName,
			Key:           &input.Key,
			ContentLength: &input.Size,
			ContentType:   &input.MimeType,
		},
		s3.WithPresignExpires(60*time.Minute),
	)
	if err != nil {
		return "", fmt.Errorf("failed to presign put object: %w", err)
	}
	return putObjectReq.URL, nil
}

func (a *awsRepository) DownloadToFile(ctx context.Context, bucket, key, localPath string) error {
	res, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("failed to download file: %w", err)
	}
	defer res.Body.Close()

	outFile, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create local file: %w", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, res.Body); err != nil {
		return fmt.Errorf("failed to write local file: %w", err)
	}
	return nil
}

func (a *awsRepository) UploadFile(ctx context.Context, bucket, key, localPath string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open local file: %w", err)
	}
	defer file.Close()

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   file,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}
	return nil
}

func (a *awsRepository) RemoveObject(ctx context.Context, bucket, key string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}
