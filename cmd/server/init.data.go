package main

import (
	"os"
	"path/filepath"

	"github.com/Nanford/crossborder-sales-analysis/internal/global"
	"github.com/Nanford/crossborder-sales-analysis/internal/logger"
)

// InitDefaultData chuẩn bị thư mục lưu file upload tạm và kiểm tra quyền ghi.
// Phát hiện sớm lỗi quyền ghi lúc khởi động thay vì lúc user upload file đầu tiên.
func InitDefaultData() {
	log := logger.GetAppLogger()

	uploadDir := global.MongoDB_ServerConfig.UploadDir
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload directory %s: %v", uploadDir, err)
	}

	// Probe quyền ghi
	probe := filepath.Join(uploadDir, ".write_probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		log.Fatalf("Upload directory %s is not writable: %v", uploadDir, err)
	}
	_ = os.Remove(probe)

	log.WithFields(map[string]interface{}{
		"upload_dir": uploadDir,
	}).Info("Upload directory ready")
}
