package storage

import "context"

// UploadResult 外部对象存储返回的引用：访问地址 + 删除用的 public id
type UploadResult struct {
	URL      string
	PublicID string
}

// Store is the object-storage collaborator. Implementations upload a local
// file and return its remote reference; Delete removes a previously
// uploaded object. Handlers depend on this interface so tests can inject
// fakes.
type Store interface {
	Upload(ctx context.Context, localPath, folder string) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}
