package file_store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/mindmate-ai/mindmate/core/errors"
)

// InitLocalExportDir 创建本地导出目录
func InitLocalExportDir(ctx context.Context) error {
	dir := exportDir(ctx)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Newf(errors.ErrExportFailed, "failed to create export directory %s: %v", dir, err)
	}
	return nil
}

// SaveExportToLocal 保存导出文件到本地存储，先写临时文件再改名，避免读到半截文件
func SaveExportToLocal(ctx context.Context, fileName string, data []byte) (string, error) {
	dir := exportDir(ctx)
	if err := os.MkdirAll(dir, 0755); err != nil {
		g.Log().Errorf(ctx, "Failed to create directory %s: %v", dir, err)
		return "", errors.Newf(errors.ErrExportFailed, "failed to create directory %s: %v", dir, err)
	}

	finalPath := filepath.Join(dir, fileName)

	tmpFile, err := os.CreateTemp(dir, fileName+".tmp.*")
	if err != nil {
		g.Log().Errorf(ctx, "Failed to create temp file in %s: %v", dir, err)
		return "", errors.Newf(errors.ErrExportFailed, "failed to create temp file: %v", err)
	}
	tmpPath := tmpFile.Name()

	if _, err = tmpFile.Write(data); err != nil {
		tmpFile.Close()
		_ = os.Remove(tmpPath)
		g.Log().Errorf(ctx, "Failed to write temp file %s: %v", tmpPath, err)
		return "", errors.Newf(errors.ErrExportFailed, "failed to write file %s: %v", finalPath, err)
	}
	if err = tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", errors.Newf(errors.ErrExportFailed, "failed to close temp file: %v", err)
	}

	if err = os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		g.Log().Errorf(ctx, "Failed to rename temp file to %s: %v", finalPath, err)
		return "", errors.Newf(errors.ErrExportFailed, "failed to rename temp file to %s: %v", finalPath, err)
	}

	g.Log().Infof(ctx, "Export saved to local storage: %s", finalPath)
	return finalPath, nil
}

func exportDir(ctx context.Context) string {
	return g.Cfg().MustGet(ctx, "export.dir", "export").String()
}
