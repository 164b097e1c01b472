// Package salessvc - Service cho domain Sales: chuẩn hóa dữ liệu, kho bản ghi và các phép so sánh kỳ.
package salessvc

import (
	"strconv"
	"strings"

	"github.com/Nanford/crossborder-sales-analysis/internal/api/sales/models"
	"github.com/Nanford/crossborder-sales-analysis/internal/common"
	"github.com/Nanford/crossborder-sales-analysis/internal/logger"
)

// columnMapping ánh xạ tiêu đề cột trong file nguồn sang tên field chuẩn.
// Tiêu đề đã ở dạng chuẩn thì giữ nguyên (sku → sku).
var columnMapping = map[string]string{
	"sku":   "sku",
	"spu":   "spu",
	"名称":    "product_name",
	"店铺":    "shop",
	"站点":    "site",
	"仓库":    "warehouse",
	"销量":    "sales_volume",
	"销售额":   "sales_amount",
	"买家国家":  "buyer_country",
	"平台":    "platform",
	"销售":    "sales_person",
	"订单数":   "order_count",
	"销售毛利额": "profit",
	"毛利率":   "profit_rate",
	"周":     "week_label",
	"订单状态":  "order_status",
	"月":     "month_label",
	// Các tiêu đề đã chuẩn hóa sẵn cũng được chấp nhận
	"product_name":  "product_name",
	"shop":          "shop",
	"site":          "site",
	"warehouse":     "warehouse",
	"sales_volume":  "sales_volume",
	"sales_amount":  "sales_amount",
	"buyer_country": "buyer_country",
	"platform":      "platform",
	"sales_person":  "sales_person",
	"order_count":   "order_count",
	"cost":          "cost",
	"profit":        "profit",
	"profit_rate":   "profit_rate",
	"week":          "week_label",
	"week_label":    "week_label",
	"order_status":  "order_status",
	"month":         "month_label",
	"month_label":   "month_label",
}

// requiredColumns là các field chuẩn bắt buộc phải có sau khi ánh xạ tiêu đề.
var requiredColumns = []string{"sku", "product_name", "sales_volume", "sales_amount", "week_label"}

// NormalizeReport thống kê các sự cố đã được phục hồi trong quá trình chuẩn hóa.
// Các ô lỗi không làm hỏng batch: giá trị số không đọc được thành 0,
// dòng thiếu sku bị loại bỏ.
type NormalizeReport struct {
	RowsTotal    int `json:"rows_total"`    // Tổng số dòng dữ liệu trong file
	RowsKept     int `json:"rows_kept"`     // Số dòng được giữ lại
	RowsDropped  int `json:"rows_dropped"`  // Số dòng bị loại (sku rỗng)
	CellsCoerced int `json:"cells_coerced"` // Số ô numeric không đọc được, đã ép về 0
}

// Normalize ánh xạ tiêu đề cột và ép kiểu từng ô, trả về danh sách bản ghi chuẩn.
// File thiếu cột bắt buộc sẽ bị từ chối nguyên batch với danh sách cột thiếu đầy đủ.
// Cột không nhận diện được bị bỏ qua, không gây lỗi.
func Normalize(header []string, rows [][]string) ([]models.SalesRecord, *NormalizeReport, error) {
	// Ánh xạ vị trí cột → tên field chuẩn
	fieldIndex := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if canonical, ok := columnMapping[name]; ok {
			// Cột trùng tên: giữ cột xuất hiện trước
			if _, exists := fieldIndex[canonical]; !exists {
				fieldIndex[canonical] = i
			}
		}
	}

	// Kiểm tra đủ cột bắt buộc — thiếu cột nào báo đủ cột đó
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := fieldIndex[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, common.NewSchemaError(missing)
	}

	report := &NormalizeReport{RowsTotal: len(rows)}
	records := make([]models.SalesRecord, 0, len(rows))

	cell := func(row []string, field string) string {
		idx, ok := fieldIndex[field]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	for _, row := range rows {
		sku := cell(row, "sku")
		if sku == "" {
			report.RowsDropped++
			continue
		}

		rec := models.SalesRecord{
			SKU:          sku,
			SPU:          cell(row, "spu"),
			ProductName:  cell(row, "product_name"),
			Platform:     cell(row, "platform"),
			Shop:         cell(row, "shop"),
			Site:         cell(row, "site"),
			Warehouse:    cell(row, "warehouse"),
			BuyerCountry: cell(row, "buyer_country"),
			SalesPerson:  cell(row, "sales_person"),
			OrderStatus:  cell(row, "order_status"),
			WeekLabel:    cell(row, "week_label"),
			MonthLabel:   cell(row, "month_label"),
		}
		rec.SalesVolume = coerceFloat(cell(row, "sales_volume"), report)
		rec.SalesAmount = coerceFloat(cell(row, "sales_amount"), report)
		rec.Cost = coerceFloat(cell(row, "cost"), report)
		rec.Profit = coerceFloat(cell(row, "profit"), report)
		rec.ProfitRate = coerceFloat(cell(row, "profit_rate"), report)
		rec.OrderCount = int64(coerceFloat(cell(row, "order_count"), report))

		records = append(records, rec)
	}

	report.RowsKept = len(records)
	if report.RowsDropped > 0 || report.CellsCoerced > 0 {
		logger.WithModule("sales").WithFields(map[string]interface{}{
			"rows_total":    report.RowsTotal,
			"rows_dropped":  report.RowsDropped,
			"cells_coerced": report.CellsCoerced,
		}).Warn("Chuẩn hóa dữ liệu có ô/dòng bị phục hồi")
	}

	return records, report, nil
}

// coerceFloat ép một ô về float64. Ô rỗng hoặc không đọc được thành 0,
// không làm hỏng batch. Chấp nhận dấu phẩy ngăn cách hàng nghìn và hậu tố %.
func coerceFloat(s string, report *NormalizeReport) float64 {
	if s == "" {
		return 0
	}
	cleaned := strings.ReplaceAll(s, ",", "")
	cleaned = strings.TrimSuffix(cleaned, "%")
	cleaned = strings.TrimSpace(cleaned)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		report.CellsCoerced++
		return 0
	}
	return v
}
