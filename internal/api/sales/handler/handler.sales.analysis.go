package saleshdl

import (
	basehdl "github.com/Nanford/crossborder-sales-analysis/internal/api/base/handler"
	salesdto "github.com/Nanford/crossborder-sales-analysis/internal/api/sales/dto"
	salessvc "github.com/Nanford/crossborder-sales-analysis/internal/api/sales/service"
	"github.com/Nanford/crossborder-sales-analysis/internal/common"
	"github.com/Nanford/crossborder-sales-analysis/internal/global"

	"github.com/gofiber/fiber/v3"
)

// bindQuery parse query string vào DTO và chạy validator. Trả về false nếu đã
// trả lỗi cho client.
func bindQuery(c fiber.Ctx, out interface{}) bool {
	if err := c.Bind().Query(out); err != nil {
		basehdl.HandleResponse(c, nil, common.ErrInvalidInput)
		return false
	}
	if err := global.Validate.Struct(out); err != nil {
		basehdl.HandleResponse(c, nil, common.NewError(
			common.ErrCodeValidationInput, "Tham số truy vấn không hợp lệ", common.StatusBadRequest, err.Error()))
		return false
	}
	return true
}

// HandleTopSalesVolume xử lý GET /analysis/top-sales-volume — top SKU theo số lượng bán.
// Query: week (mặc định 本周), limit (mặc định 5).
func (h *SalesHandler) HandleTopSalesVolume(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q salesdto.WeekQuery
		if !bindQuery(c, &q) {
			return nil
		}
		rows, err := h.SalesService.TopSales(c.Context(), salessvc.MetricVolume, q.Week, q.Limit)
		basehdl.HandleResponse(c, rows, err)
		return nil
	})
}

// HandleTopSalesAmount xử lý GET /analysis/top-sales-amount — top SKU theo doanh thu.
func (h *SalesHandler) HandleTopSalesAmount(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q salesdto.WeekQuery
		if !bindQuery(c, &q) {
			return nil
		}
		rows, err := h.SalesService.TopSales(c.Context(), salessvc.MetricAmount, q.Week, q.Limit)
		basehdl.HandleResponse(c, rows, err)
		return nil
	})
}

// HandleTopIncreased xử lý GET /analysis/top-increased — SKU tăng doanh thu mạnh nhất
// giữa hai kỳ tuần (chỉ SKU có mặt cả hai kỳ).
func (h *SalesHandler) HandleTopIncreased(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q salesdto.WeekComparisonQuery
		if !bindQuery(c, &q) {
			return nil
		}
		rows, err := h.SalesService.TopIncreased(c.Context(), q.Current, q.Previous, q.Limit)
		basehdl.HandleResponse(c, rows, err)
		return nil
	})
}

// HandleTopDecreased xử lý GET /analysis/top-decreased — SKU giảm doanh thu mạnh nhất.
func (h *SalesHandler) HandleTopDecreased(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q salesdto.WeekComparisonQuery
		if !bindQuery(c, &q) {
			return nil
		}
		rows, err := h.SalesService.TopDecreased(c.Context(), q.Current, q.Previous, q.Limit)
		basehdl.HandleResponse(c, rows, err)
		return nil
	})
}

// HandleCountryDistribution xử lý GET /analysis/country-distribution — phân bố
// doanh thu theo quốc gia kèm % đóng góp và so sánh kỳ trước.
func (h *SalesHandler) HandleCountryDistribution(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q salesdto.WeekComparisonQuery
		if !bindQuery(c, &q) {
			return nil
		}
		rows, err := h.SalesService.CountryDistribution(c.Context(), q.Current, q.Previous)
		basehdl.HandleResponse(c, rows, err)
		return nil
	})
}

// HandlePlatformComparison xử lý GET /analysis/platform-comparison — so sánh tổng hợp
// toàn bộ dữ liệu giữa hai kỳ tuần.
func (h *SalesHandler) HandlePlatformComparison(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q salesdto.WeekComparisonQuery
		if !bindQuery(c, &q) {
			return nil
		}
		result, err := h.SalesService.PlatformComparison(c.Context(), q.Current, q.Previous)
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}

// HandlePlatformDetail xử lý GET /analysis/platform-detail — so sánh theo từng nền tảng.
func (h *SalesHandler) HandlePlatformDetail(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q salesdto.WeekComparisonQuery
		if !bindQuery(c, &q) {
			return nil
		}
		rows, err := h.SalesService.PlatformDetail(c.Context(), q.Current, q.Previous)
		basehdl.HandleResponse(c, rows, err)
		return nil
	})
}

// HandlePlatformSalesDistribution xử lý GET /analysis/platform-sales-distribution —
// phân bố doanh thu theo nền tảng trong một kỳ.
func (h *SalesHandler) HandlePlatformSalesDistribution(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q salesdto.WeekQuery
		if !bindQuery(c, &q) {
			return nil
		}
		rows, err := h.SalesService.PlatformSalesDistribution(c.Context(), q.Week)
		basehdl.HandleResponse(c, rows, err)
		return nil
	})
}

// HandleSalespersonComparison xử lý GET /analysis/salesperson-comparison — so sánh
// theo nhân viên bán hàng giữa hai kỳ tuần.
func (h *SalesHandler) HandleSalespersonComparison(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q salesdto.WeekComparisonQuery
		if !bindQuery(c, &q) {
			return nil
		}
		rows, err := h.SalesService.SalespersonComparison(c.Context(), q.Current, q.Previous)
		basehdl.HandleResponse(c, rows, err)
		return nil
	})
}

// HandleNoOrdersThisWeek xử lý GET /analysis/no-orders-this-week — SKU có doanh số
// kỳ trước nhưng hoàn toàn vắng mặt kỳ này.
func (h *SalesHandler) HandleNoOrdersThisWeek(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q salesdto.WeekComparisonQuery
		if !bindQuery(c, &q) {
			return nil
		}
		rows, err := h.SalesService.NoOrdersThisWeek(c.Context(), q.Current, q.Previous, q.Limit)
		basehdl.HandleResponse(c, rows, err)
		return nil
	})
}

// HandleRecords xử lý GET /sales/records — bản ghi thô có phân trang.
// Query: page (mặc định 1), limit (mặc định 50, max 200), week (optional).
func (h *SalesHandler) HandleRecords(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q salesdto.RecordsQuery
		if !bindQuery(c, &q) {
			return nil
		}
		if q.Page < 1 {
			q.Page = 1
		}
		if q.Limit <= 0 {
			q.Limit = 50
		}
		if q.Limit > 200 {
			q.Limit = 200
		}
		result, err := h.SalesService.ListRecords(c.Context(), q.Week, q.Page, q.Limit)
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}

// ====================================
// CÁC ENDPOINT THÁNG
// ====================================

// HandleAvailableMonths xử lý GET /analysis/available-months — nhãn tháng distinct,
// mới nhất đứng đầu.
func (h *SalesHandler) HandleAvailableMonths(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		months, err := h.SalesService.AvailableMonths(c.Context())
		basehdl.HandleResponse(c, months, err)
		return nil
	})
}

// HandleMonthTopSalesVolume xử lý GET /analysis/month-top-sales-volume.
// Query: month (mặc định tháng mới nhất), limit (mặc định 10).
func (h *SalesHandler) HandleMonthTopSalesVolume(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q salesdto.MonthQuery
		if !bindQuery(c, &q) {
			return nil
		}
		rows, err := h.SalesService.MonthTopSales(c.Context(), salessvc.MetricVolume, q.Month, q.Limit)
		basehdl.HandleResponse(c, rows, err)
		return nil
	})
}

// HandleMonthTopSalesAmount xử lý GET /analysis/month-top-sales-amount.
func (h *SalesHandler) HandleMonthTopSalesAmount(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q salesdto.MonthQuery
		if !bindQuery(c, &q) {
			return nil
		}
		rows, err := h.SalesService.MonthTopSales(c.Context(), salessvc.MetricAmount, q.Month, q.Limit)
		basehdl.HandleResponse(c, rows, err)
		return nil
	})
}

// HandleMonthTopIncreased xử lý GET /analysis/month-top-increased — SKU tăng số lượng
// giữa hai tháng. Không truyền tháng → tự chọn hai tháng mới nhất; ít hơn hai tháng
// dữ liệu → kết quả rỗng.
func (h *SalesHandler) HandleMonthTopIncreased(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q salesdto.MonthComparisonQuery
		if !bindQuery(c, &q) {
			return nil
		}
		rows, err := h.SalesService.MonthTopIncreased(c.Context(), q.CurrentMonth, q.PreviousMonth, q.Limit)
		basehdl.HandleResponse(c, rows, err)
		return nil
	})
}

// HandleMonthTopDecreased xử lý GET /analysis/month-top-decreased.
func (h *SalesHandler) HandleMonthTopDecreased(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q salesdto.MonthComparisonQuery
		if !bindQuery(c, &q) {
			return nil
		}
		rows, err := h.SalesService.MonthTopDecreased(c.Context(), q.CurrentMonth, q.PreviousMonth, q.Limit)
		basehdl.HandleResponse(c, rows, err)
		return nil
	})
}

// HandleMonthCountryDistribution xử lý GET /analysis/month-country-distribution.
func (h *SalesHandler) HandleMonthCountryDistribution(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q salesdto.MonthComparisonQuery
		if !bindQuery(c, &q) {
			return nil
		}
		rows, err := h.SalesService.MonthCountryDistribution(c.Context(), q.CurrentMonth, q.PreviousMonth)
		basehdl.HandleResponse(c, rows, err)
		return nil
	})
}

// HandleMonthPlatformComparison xử lý GET /analysis/month-platform-comparison.
func (h *SalesHandler) HandleMonthPlatformComparison(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q salesdto.MonthComparisonQuery
		if !bindQuery(c, &q) {
			return nil
		}
		result, err := h.SalesService.MonthPlatformComparison(c.Context(), q.CurrentMonth, q.PreviousMonth)
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}

// HandleMonthSalespersonComparison xử lý GET /analysis/month-salesperson-comparison.
func (h *SalesHandler) HandleMonthSalespersonComparison(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q salesdto.MonthComparisonQuery
		if !bindQuery(c, &q) {
			return nil
		}
		rows, err := h.SalesService.MonthSalespersonComparison(c.Context(), q.CurrentMonth, q.PreviousMonth)
		basehdl.HandleResponse(c, rows, err)
		return nil
	})
}

// HandleReportBundle xử lý GET /analysis/report-bundle — gói dữ liệu báo cáo tuần
// (đầu vào của bộ sinh nhận định).
func (h *SalesHandler) HandleReportBundle(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		bundle, err := h.SalesService.BuildWeeklyReportBundle(c.Context())
		basehdl.HandleResponse(c, bundle, err)
		return nil
	})
}
