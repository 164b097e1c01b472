// Package router đăng ký các route thuộc domain AI: sinh nhận định tuần và tháng.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	aihdl "github.com/Nanford/crossborder-sales-analysis/internal/api/ai/handler"
	aisvc "github.com/Nanford/crossborder-sales-analysis/internal/api/ai/service"
	apirouter "github.com/Nanford/crossborder-sales-analysis/internal/api/router"
	salessvc "github.com/Nanford/crossborder-sales-analysis/internal/api/sales/service"
	"github.com/Nanford/crossborder-sales-analysis/internal/global"
)

// Register đăng ký các route AI lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	salesService, err := salessvc.NewSalesServiceFromRegistry()
	if err != nil {
		return fmt.Errorf("create sales service: %w", err)
	}
	narrative := aisvc.NewNarrativeService(global.MongoDB_ServerConfig)
	handler := aihdl.NewAIHandler(narrative, salesService)

	apirouter.RegisterRouteWithMiddleware(v1, "/ai", "POST", "/generate-analysis", nil, handler.HandleGenerateAnalysis)
	apirouter.RegisterRouteWithMiddleware(v1, "/analysis", "POST", "/generate-monthly-ai-analysis", nil, handler.HandleGenerateMonthlyAnalysis)

	return nil
}
