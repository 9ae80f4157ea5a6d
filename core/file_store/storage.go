package file_store

import (
	"context"

	"github.com/gogf/gf/v2/frame/g"
)

// StorageType 导出存储类型
type StorageType string

const (
	StorageTypeLocal  StorageType = "local"
	StorageTypeRustFS StorageType = "rustfs"
)

var storageType StorageType = StorageTypeLocal

// InitStorage 初始化导出存储系统
func InitStorage(ctx context.Context) error {
	storageTypeStr := g.Cfg().MustGet(ctx, "export.storage", "local").String()

	switch storageTypeStr {
	case "rustfs":
		endpoint := g.Cfg().MustGet(ctx, "rustfs.endpoint", "").String()
		if endpoint == "" {
			// 没有配置对象存储时退回本地存储
			storageType = StorageTypeLocal
			g.Log().Infof(ctx, "RustFS not configured, using local export storage")
			return InitLocalExportDir(ctx)
		}

		accessKey := g.Cfg().MustGet(ctx, "rustfs.accessKey").String()
		secretKey := g.Cfg().MustGet(ctx, "rustfs.secretKey").String()
		bucketName := g.Cfg().MustGet(ctx, "rustfs.bucketName").String()
		ssl := g.Cfg().MustGet(ctx, "rustfs.ssl", false).Bool()

		if err := InitRustFS(ctx, endpoint, accessKey, secretKey, bucketName, ssl); err != nil {
			return err
		}
		storageType = StorageTypeRustFS
		g.Log().Infof(ctx, "Using RustFS export storage as configured")
		return nil
	default:
		storageType = StorageTypeLocal
		g.Log().Infof(ctx, "Using local export storage")
		return InitLocalExportDir(ctx)
	}
}

// SetStorageType 设置存储类型，仅供初始化和测试使用
func SetStorageType(t StorageType) {
	storageType = t
}

// GetStorageType 获取当前存储类型
func GetStorageType() StorageType {
	return storageType
}

// SaveExport 按当前存储类型保存导出文件，返回可供客户端定位的路径或对象键
func SaveExport(ctx context.Context, fileName string, data []byte) (string, error) {
	switch storageType {
	case StorageTypeRustFS:
		return SaveExportToRustFS(ctx, fileName, data)
	default:
		return SaveExportToLocal(ctx, fileName, data)
	}
}
