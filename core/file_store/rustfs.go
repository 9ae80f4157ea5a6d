package file_store

import (
	"bytes"
	"context"
	"path"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/mindmate-ai/mindmate/core/errors"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type RustfsConfig struct {
	Client     *minio.Client
	BucketName string
}

var rustfsConfig RustfsConfig

// InitRustFS 初始化 RustFS 存储
func InitRustFS(ctx context.Context, endpoint, accessKey, secretKey, bucketName string, ssl bool) error {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: ssl,
	})
	if err != nil {
		return errors.Newf(errors.ErrInternalError, "failed to create MinIO client: %v", err)
	}

	rustfsConfig = RustfsConfig{
		Client:     client,
		BucketName: bucketName,
	}

	// 创建 bucket，如果已存在则跳过
	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return errors.Newf(errors.ErrInternalError, "failed to check if bucket exists: %v", err)
	}
	if exists {
		g.Log().Printf(ctx, "Bucket '%s' already exists, skipping creation.", bucketName)
		return nil
	}

	if err = client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: ""}); err != nil {
		return errors.Newf(errors.ErrInternalError, "failed to create bucket: %v", err)
	}

	g.Log().Printf(ctx, "Created bucket '%s'", bucketName)
	return nil
}

// GetRustfsConfig 获取RustFS配置
func GetRustfsConfig() *RustfsConfig {
	return &rustfsConfig
}

// SaveExportToRustFS 上传导出文件到 RustFS，返回对象键
func SaveExportToRustFS(ctx context.Context, fileName string, data []byte) (string, error) {
	if rustfsConfig.Client == nil {
		return "", errors.Newf(errors.ErrExportFailed, "rustfs storage is not initialized")
	}

	objectKey := path.Join("export", fileName)
	_, err := rustfsConfig.Client.PutObject(ctx, rustfsConfig.BucketName, objectKey,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		g.Log().Errorf(ctx, "Failed to upload export %s: %v", objectKey, err)
		return "", errors.Newf(errors.ErrExportFailed, "failed to upload export %s: %v", objectKey, err)
	}

	g.Log().Infof(ctx, "Export uploaded to RustFS: %s/%s", rustfsConfig.BucketName, objectKey)
	return objectKey, nil
}
