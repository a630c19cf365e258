package jobs

import (
	"context"

	"github.com/clipforge/clipforge/internal/models"
)

type AWSRepository interface {
	GetPresignedURL(ctx context.Context, input *models.PresignInput) (string, error)
	DownloadToFile(ctx context.Context, bucket, key, localPath string) error
	UploadFile(ctx context.Context, bucket, key, localPath string) error
	RemoveObject(ctx context.Context, bucket, key string) error
}
