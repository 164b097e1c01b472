// Package salessvc - Test chuẩn hóa schema: ánh xạ tiêu đề, cột bắt buộc, ép kiểu ô.
package salessvc

import (
	"errors"
	"testing"

	"github.com/Nanford/crossborder-sales-analysis/internal/common"
)

func TestNormalize_MapsChineseHeaders(t *testing.T) {
	header := []string{"sku", "名称", "销量", "销售额", "周", "买家国家", "平台", "销售", "订单数", "销售毛利额", "毛利率", "月"}
	rows := [][]string{
		{"SKU-1", "Áo thun", "10", "199.5", "本周", "US", "Amazon", "An", "8", "50", "25.06", "2024-03"},
	}

	records, report, err := Normalize(header, rows)
	if err != nil {
		t.Fatalf("Normalize trả về lỗi: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("muốn 1 bản ghi, nhận %d", len(records))
	}

	r := records[0]
	if r.SKU != "SKU-1" || r.ProductName != "Áo thun" {
		t.Errorf("ánh xạ sku/名称 sai: %+v", r)
	}
	if r.SalesVolume != 10 || r.SalesAmount != 199.5 {
		t.Errorf("ánh xạ 销量/销售额 sai: volume=%v amount=%v", r.SalesVolume, r.SalesAmount)
	}
	if r.WeekLabel != "本周" || r.MonthLabel != "2024-03" {
		t.Errorf("ánh xạ 周/月 sai: week=%q month=%q", r.WeekLabel, r.MonthLabel)
	}
	if r.BuyerCountry != "US" || r.Platform != "Amazon" || r.SalesPerson != "An" {
		t.Errorf("ánh xạ chiều phụ sai: %+v", r)
	}
	if r.OrderCount != 8 || r.Profit != 50 || r.ProfitRate != 25.06 {
		t.Errorf("ánh xạ 订单数/销售毛利额/毛利率 sai: %+v", r)
	}
	if report.RowsKept != 1 || report.RowsDropped != 0 || report.CellsCoerced != 0 {
		t.Errorf("report sai: %+v", report)
	}
}

func TestNormalize_MissingRequiredColumns_ReportsFullList(t *testing.T) {
	// Thiếu cả sales_volume, sales_amount và week_label — phải báo đủ cả ba
	header := []string{"sku", "名称"}
	_, _, err := Normalize(header, [][]string{{"SKU-1", "X"}})
	if err == nil {
		t.Fatal("muốn lỗi schema, nhận nil")
	}

	var schemaErr *common.Error
	if !errors.As(err, &schemaErr) {
		t.Fatalf("muốn *common.Error, nhận %T", err)
	}
	if schemaErr.Code.Code != common.ErrCodeIngestionSchema.Code {
		t.Errorf("muốn mã %s, nhận %s", common.ErrCodeIngestionSchema.Code, schemaErr.Code.Code)
	}
	if schemaErr.StatusCode != common.StatusBadRequest {
		t.Errorf("muốn status 400, nhận %d", schemaErr.StatusCode)
	}

	missing, ok := schemaErr.Details.([]string)
	if !ok {
		t.Fatalf("Details phải là []string, nhận %T", schemaErr.Details)
	}
	want := map[string]bool{"sales_volume": true, "sales_amount": true, "week_label": true}
	if len(missing) != len(want) {
		t.Fatalf("muốn %d cột thiếu, nhận %v", len(want), missing)
	}
	for _, col := range missing {
		if !want[col] {
			t.Errorf("cột %q không được nằm trong danh sách thiếu", col)
		}
	}
}

func TestNormalize_CoercesBadNumericCellsToZero(t *testing.T) {
	header := []string{"sku", "product_name", "sales_volume", "sales_amount", "week"}
	rows := [][]string{
		{"SKU-1", "A", "abc", "1,234.50", "本周"}, // volume hỏng → 0, amount có dấu phẩy
		{"SKU-2", "B", "5", "không phải số", "本周"},
	}

	records, report, err := Normalize(header, rows)
	if err != nil {
		t.Fatalf("ô hỏng không được làm hỏng batch: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("muốn 2 bản ghi, nhận %d", len(records))
	}
	if records[0].SalesVolume != 0 {
		t.Errorf("ô volume hỏng phải thành 0, nhận %v", records[0].SalesVolume)
	}
	if records[0].SalesAmount != 1234.50 {
		t.Errorf("dấu phẩy ngăn cách hàng nghìn phải được chấp nhận, nhận %v", records[0].SalesAmount)
	}
	if records[1].SalesAmount != 0 {
		t.Errorf("ô amount hỏng phải thành 0, nhận %v", records[1].SalesAmount)
	}
	if report.CellsCoerced != 2 {
		t.Errorf("muốn 2 ô bị ép về 0, nhận %d", report.CellsCoerced)
	}
}

func TestNormalize_PercentSuffixAccepted(t *testing.T) {
	header := []string{"sku", "product_name", "sales_volume", "sales_amount", "week", "毛利率"}
	rows := [][]string{{"SKU-1", "A", "1", "10", "本周", "25.5%"}}

	records, report, err := Normalize(header, rows)
	if err != nil {
		t.Fatalf("Normalize trả về lỗi: %v", err)
	}
	if records[0].ProfitRate != 25.5 {
		t.Errorf("hậu tố %% phải được bỏ, nhận %v", records[0].ProfitRate)
	}
	if report.CellsCoerced != 0 {
		t.Errorf("25.5%% là giá trị hợp lệ, không được đếm là coerced: %d", report.CellsCoerced)
	}
}

func TestNormalize_DropsRowsWithEmptySKU(t *testing.T) {
	header := []string{"sku", "product_name", "sales_volume", "sales_amount", "week"}
	rows := [][]string{
		{"SKU-1", "A", "1", "10", "本周"},
		{"", "B", "2", "20", "本周"},
		{"  ", "C", "3", "30", "本周"}, // chỉ khoảng trắng cũng coi là rỗng
	}

	records, report, err := Normalize(header, rows)
	if err != nil {
		t.Fatalf("Normalize trả về lỗi: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("muốn 1 bản ghi giữ lại, nhận %d", len(records))
	}
	if report.RowsTotal != 3 || report.RowsKept != 1 || report.RowsDropped != 2 {
		t.Errorf("report sai: %+v", report)
	}
}

func TestNormalize_IgnoresUnknownColumns(t *testing.T) {
	header := []string{"sku", "product_name", "sales_volume", "sales_amount", "week", "cột lạ"}
	rows := [][]string{{"SKU-1", "A", "1", "10", "本周", "giá trị lạ"}}

	records, _, err := Normalize(header, rows)
	if err != nil {
		t.Fatalf("cột không nhận diện được phải bị bỏ qua, nhận lỗi: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("muốn 1 bản ghi, nhận %d", len(records))
	}
}

func TestNormalize_DuplicateHeaderKeepsFirst(t *testing.T) {
	header := []string{"sku", "product_name", "sales_volume", "sales_volume", "sales_amount", "week"}
	rows := [][]string{{"SKU-1", "A", "7", "9999", "10", "本周"}}

	records, _, err := Normalize(header, rows)
	if err != nil {
		t.Fatalf("Normalize trả về lỗi: %v", err)
	}
	if records[0].SalesVolume != 7 {
		t.Errorf("cột trùng tên phải giữ cột đầu tiên, nhận %v", records[0].SalesVolume)
	}
}

func TestNormalize_ShortRowsPadded(t *testing.T) {
	// Dòng thiếu ô cuối (csv linh hoạt số cột) vẫn phải đọc được
	header := []string{"sku", "product_name", "sales_volume", "sales_amount", "week"}
	rows := [][]string{{"SKU-1", "A", "1"}}

	records, _, err := Normalize(header, rows)
	if err != nil {
		t.Fatalf("Normalize trả về lỗi: %v", err)
	}
	if records[0].SalesAmount != 0 || records[0].WeekLabel != "" {
		t.Errorf("ô vắng mặt phải thành giá trị rỗng/0: %+v", records[0])
	}
}
