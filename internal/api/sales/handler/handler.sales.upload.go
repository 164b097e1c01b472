// Package saleshdl - Handler cho domain Sales: upload dữ liệu và các truy vấn so sánh kỳ.
package saleshdl

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	basehdl "github.com/Nanford/crossborder-sales-analysis/internal/api/base/handler"
	salessvc "github.com/Nanford/crossborder-sales-analysis/internal/api/sales/service"
	"github.com/Nanford/crossborder-sales-analysis/internal/common"
	"github.com/Nanford/crossborder-sales-analysis/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// SalesHandler xử lý các route của domain Sales.
type SalesHandler struct {
	SalesService *salessvc.SalesService
	UploadDir    string // Thư mục lưu file upload tạm
}

// NewSalesHandler tạo SalesHandler.
func NewSalesHandler(service *salessvc.SalesService, uploadDir string) *SalesHandler {
	return &SalesHandler{SalesService: service, UploadDir: uploadDir}
}

// HandleUpload xử lý POST /sales/upload — nhận file xlsx/csv và thay thế toàn bộ
// bộ dữ liệu. File được lưu tạm vào UploadDir rồi xóa sau khi xử lý xong.
// Thất bại ở bất kỳ bước nào thì bộ dữ liệu cũ vẫn nguyên vẹn.
func (h *SalesHandler) HandleUpload(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput, "Thiếu file upload (field 'file')", common.StatusBadRequest, nil))
			return nil
		}

		// Lưu file tạm để xử lý, xóa sau khi xong
		tmpPath := filepath.Join(h.UploadDir, fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(fileHeader.Filename)))
		if err := c.SaveFile(fileHeader, tmpPath); err != nil {
			logger.WithRequest(c).WithError(err).Error("Không lưu được file upload vào thư mục tạm")
			basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeIngestionFile, "Không lưu được file upload", common.StatusInternalServerError, nil))
			return nil
		}
		defer os.Remove(tmpPath)

		content, err := os.ReadFile(tmpPath)
		if err != nil {
			basehdl.HandleResponse(c, nil, common.ErrFileUnreadable)
			return nil
		}

		result, err := h.SalesService.IngestFile(c.Context(), fileHeader.Filename, content)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		logger.LogIngest(fileHeader.Filename, int(result.RowsSaved),
			result.Report.RowsDropped, result.Report.CellsCoerced, c)

		basehdl.HandleResponse(c, fiber.Map{
			"filename":   fileHeader.Filename,
			"rows_saved": result.RowsSaved,
			"report":     result.Report,
		}, nil)
		return nil
	})
}
