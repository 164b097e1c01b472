// Package aihdl chứa handler của domain AI.
package aihdl

import (
	"context"

	"github.com/gofiber/fiber/v3"

	aidto "github.com/Nanford/crossborder-sales-analysis/internal/api/ai/dto"
	aisvc "github.com/Nanford/crossborder-sales-analysis/internal/api/ai/service"
	basehdl "github.com/Nanford/crossborder-sales-analysis/internal/api/base/handler"
	salessvc "github.com/Nanford/crossborder-sales-analysis/internal/api/sales/service"
)

// AIHandler xử lý các request sinh nhận định.
type AIHandler struct {
	Narrative    *aisvc.NarrativeService
	SalesService *salessvc.SalesService
}

// NewAIHandler tạo AIHandler.
func NewAIHandler(narrative *aisvc.NarrativeService, salesService *salessvc.SalesService) *AIHandler {
	return &AIHandler{Narrative: narrative, SalesService: salesService}
}

// HandleGenerateAnalysis xử lý POST /ai/generate-analysis — sinh nhận định tuần.
// Body mang gói báo cáo client đã fetch; body rỗng thì server tự dựng gói từ
// dữ liệu hiện có. Sự cố phía AI không làm request fail: trả bản nhận định tự sinh.
func (h *AIHandler) HandleGenerateAnalysis(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		bundle, err := h.resolveBundle(c, func(ctx context.Context) (*salessvc.ReportBundle, error) {
			return h.SalesService.BuildWeeklyReportBundle(ctx)
		})
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		result := h.Narrative.Generate(c.Context(), bundle)
		basehdl.HandleResponse(c, aidto.AnalysisResponse{
			Analysis: result.Analysis,
			Source:   result.Source,
			Model:    result.Model,
		}, nil)
		return nil
	})
}

// HandleGenerateMonthlyAnalysis xử lý POST /analysis/generate-monthly-ai-analysis —
// sinh nhận định tháng trên hai tháng mới nhất có dữ liệu.
func (h *AIHandler) HandleGenerateMonthlyAnalysis(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		bundle, err := h.resolveBundle(c, func(ctx context.Context) (*salessvc.ReportBundle, error) {
			return h.SalesService.BuildMonthlyReportBundle(ctx)
		})
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		result := h.Narrative.GenerateMonthly(c.Context(), bundle)
		basehdl.HandleResponse(c, aidto.AnalysisResponse{
			Analysis: result.Analysis,
			Source:   result.Source,
			Model:    result.Model,
		}, nil)
		return nil
	})
}

// resolveBundle lấy gói báo cáo từ body request, hoặc tự dựng khi body rỗng.
func (h *AIHandler) resolveBundle(c fiber.Ctx, build func(context.Context) (*salessvc.ReportBundle, error)) (*salessvc.ReportBundle, error) {
	var req aidto.AnalysisRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err == nil && !req.IsEmpty() {
			return req.ToBundle(), nil
		}
	}
	return build(c.Context())
}
