// Package router đăng ký các route thuộc domain Sales: upload, các truy vấn
// phân tích tuần và tháng.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	apirouter "github.com/Nanford/crossborder-sales-analysis/internal/api/router"
	saleshdl "github.com/Nanford/crossborder-sales-analysis/internal/api/sales/handler"
	salessvc "github.com/Nanford/crossborder-sales-analysis/internal/api/sales/service"
	"github.com/Nanford/crossborder-sales-analysis/internal/global"
)

// Register đăng ký tất cả route sales lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	service, err := salessvc.NewSalesServiceFromRegistry()
	if err != nil {
		return fmt.Errorf("create sales service: %w", err)
	}
	handler := saleshdl.NewSalesHandler(service, global.MongoDB_ServerConfig.UploadDir)

	// Nhập dữ liệu
	apirouter.RegisterRouteWithMiddleware(v1, "/upload", "POST", "/", nil, handler.HandleUpload)

	// Bản ghi thô
	apirouter.RegisterRouteWithMiddleware(v1, "/sales", "GET", "/records", nil, handler.HandleRecords)

	// Phân tích theo tuần
	apirouter.RegisterRouteWithMiddleware(v1, "/analysis", "GET", "/top-sales-volume", nil, handler.HandleTopSalesVolume)
	apirouter.RegisterRouteWithMiddleware(v1, "/analysis", "GET", "/top-sales-amount", nil, handler.HandleTopSalesAmount)
	apirouter.RegisterRouteWithMiddleware(v1, "/analysis", "GET", "/top-increased", nil, handler.HandleTopIncreased)
	apirouter.RegisterRouteWithMiddleware(v1, "/analysis", "GET", "/top-decreased", nil, handler.HandleTopDecreased)
	apirouter.RegisterRouteWithMiddleware(v1, "/analysis", "GET", "/country-distribution", nil, handler.HandleCountryDistribution)
	apirouter.RegisterRouteWithMiddleware(v1, "/analysis", "GET", "/platform-comparison", nil, handler.HandlePlatformComparison)
	apirouter.RegisterRouteWithMiddleware(v1, "/analysis", "GET", "/platform-detail", nil, handler.HandlePlatformDetail)
	apirouter.RegisterRouteWithMiddleware(v1, "/analysis", "GET", "/platform-sales-distribution", nil, handler.HandlePlatformSalesDistribution)
	apirouter.RegisterRouteWithMiddleware(v1, "/analysis", "GET", "/salesperson-comparison", nil, handler.HandleSalespersonComparison)
	apirouter.RegisterRouteWithMiddleware(v1, "/analysis", "GET", "/no-orders-this-week", nil, handler.HandleNoOrdersThisWeek)
	apirouter.RegisterRouteWithMiddleware(v1, "/analysis", "GET", "/report-bundle", nil, handler.HandleReportBundle)

	// Phân tích theo tháng
	apirouter.RegisterRouteWithMiddleware(v1, "/analysis", "GET", "/available-months", nil, handler.HandleAvailableMonths)
	apirouter.RegisterRouteWithMiddleware(v1, "/analysis", "GET", "/month-top-sales-volume", nil, handler.HandleMonthTopSalesVolume)
	apirouter.RegisterRouteWithMiddleware(v1, "/analysis", "GET", "/month-top-sales-amount", nil, handler.HandleMonthTopSalesAmount)
	apirouter.RegisterRouteWithMiddleware(v1, "/analysis", "GET", "/month-top-increased", nil, handler.HandleMonthTopIncreased)
	apirouter.RegisterRouteWithMiddleware(v1, "/analysis", "GET", "/month-top-decreased", nil, handler.HandleMonthTopDecreased)
	apirouter.RegisterRouteWithMiddleware(v1, "/analysis", "GET", "/month-country-distribution", nil, handler.HandleMonthCountryDistribution)
	apirouter.RegisterRouteWithMiddleware(v1, "/analysis", "GET", "/month-platform-comparison", nil, handler.HandleMonthPlatformComparison)
	apirouter.RegisterRouteWithMiddleware(v1, "/analysis", "GET", "/month-salesperson-comparison", nil, handler.HandleMonthSalespersonComparison)

	return nil
}
