// Package aidto - Test hợp đồng JSON giữa gói báo cáo và request sinh nhận định.
package aidto

import (
	"encoding/json"
	"strings"
	"testing"

	salessvc "github.com/Nanford/crossborder-sales-analysis/internal/api/sales/service"
)

// Gói báo cáo xuất ra với khóa top_increased/top_decreased trùng với khóa
// request bind vào — client lấy kết quả từ endpoint report-bundle rồi gửi
// thẳng lên endpoint sinh nhận định mà không phải đổi tên khóa.
func TestAnalysisRequest_BindsReportBundleComparisonKeys(t *testing.T) {
	bundle := &salessvc.ReportBundle{
		TopSales: []salessvc.GroupRow{
			{Key: "SKU-1", Name: "Áo thun", Amount: 150},
		},
		TopIncreased: []salessvc.ComparisonRow{
			{Key: "SKU-1", CurrentAmount: 150, PreviousAmount: 100, AmountChange: 50, ChangeRate: 50},
		},
		TopDecreased: []salessvc.ComparisonRow{
			{Key: "SKU-2", CurrentAmount: 40, PreviousAmount: 90, AmountChange: -50, ChangeRate: -55.56},
		},
	}

	raw, err := json.Marshal(bundle)
	if err != nil {
		t.Fatalf("marshal gói báo cáo thất bại: %v", err)
	}
	for _, key := range []string{
		"top_sales", "top_increased", "top_decreased",
		"country_distribution", "platform_data", "salesperson_data",
	} {
		if !strings.Contains(string(raw), `"`+key+`"`) {
			t.Errorf("gói báo cáo thiếu khóa %q: %s", key, raw)
		}
	}

	var req AnalysisRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		t.Fatalf("bind request từ gói báo cáo thất bại: %v", err)
	}
	if len(req.TopIncreased) != 1 || req.TopIncreased[0].Key != "SKU-1" {
		t.Errorf("top_increased không bind được: %+v", req.TopIncreased)
	}
	if len(req.TopDecreased) != 1 || req.TopDecreased[0].Key != "SKU-2" {
		t.Errorf("top_decreased không bind được: %+v", req.TopDecreased)
	}

	got := req.ToBundle()
	if len(got.TopIncreased) != 1 || got.TopIncreased[0].ChangeRate != 50 {
		t.Errorf("ToBundle làm mất dữ liệu top_increased: %+v", got.TopIncreased)
	}
}
