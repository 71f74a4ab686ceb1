package storage

import (
	"context"
	"fmt"

	"github.com/KatanaSword/portfolio/internal/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore 基于 Cloudinary 的图片存储实现
type CloudinaryStore struct {
	client *cloudinary.Cloudinary
}

// NewCloudinaryStore builds the Cloudinary client from config. Missing
// credentials are a startup error, not a per-request one.
func NewCloudinaryStore(cfg config.StorageConfig) (*CloudinaryStore, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials are not configured")
	}
	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &CloudinaryStore{client: client}, nil
}

// Upload 上传本地文件到指定目录，返回 {url, publicId}
func (s *CloudinaryStore) Upload(ctx context.Context, localPath, folder string) (*UploadResult, error) {
	resp, err := s.client.Upload.Upload(ctx, localPath, uploader.UploadParams{
		Folder:       folder,
		ResourceType: "image",
	})
	if err != nil {
		return nil, fmt.Errorf("upload to cloudinary: %w", err)
	}
	return &UploadResult{
		URL:      resp.SecureURL,
		PublicID: resp.PublicID,
	}, nil
}

// Delete 按 public id 删除远端对象
func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	_, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("delete from cloudinary: %w", err)
	}
	return nil
}
