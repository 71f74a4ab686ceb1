package handler

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// saveUpload 把 multipart 文件落盘到临时目录（uuid 文件名防冲突），
// 上传到外部存储后由调用方删除
func saveUpload(c *gin.Context, file *multipart.FileHeader, dir string) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	localPath := filepath.Join(dir, uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, localPath); err != nil {
		return "", fmt.Errorf("save uploaded file: %w", err)
	}
	return localPath, nil
}
