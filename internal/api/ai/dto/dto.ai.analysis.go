// Package aidto chứa các DTO của domain AI (sinh nhận định từ gói báo cáo).
package aidto

import (
	salessvc "github.com/Nanford/crossborder-sales-analysis/internal/api/sales/service"
)

// AnalysisRequest là gói dữ liệu báo cáo client gửi lên để sinh nhận định.
// Mọi trường đều optional: body rỗng thì server tự dựng gói từ dữ liệu hiện có.
type AnalysisRequest struct {
	TopSalesAmount        []salessvc.GroupRow        `json:"top_sales_amount"`
	TopIncreased          []salessvc.ComparisonRow   `json:"top_increased"`
	TopDecreased          []salessvc.ComparisonRow   `json:"top_decreased"`
	CountryDistribution   []salessvc.RollupRow       `json:"country_distribution"`
	PlatformComparison    *salessvc.PeriodComparison `json:"platform_comparison"`
	SalespersonComparison []salessvc.RollupRow       `json:"salesperson_comparison"`
}

// IsEmpty báo request không mang dữ liệu nào — server sẽ tự dựng gói báo cáo.
func (r *AnalysisRequest) IsEmpty() bool {
	return len(r.TopSalesAmount) == 0 &&
		len(r.TopIncreased) == 0 &&
		len(r.TopDecreased) == 0 &&
		len(r.CountryDistribution) == 0 &&
		r.PlatformComparison == nil &&
		len(r.SalespersonComparison) == 0
}

// ToBundle chuyển request thành gói báo cáo dùng chung với layer sinh nhận định.
func (r *AnalysisRequest) ToBundle() *salessvc.ReportBundle {
	return &salessvc.ReportBundle{
		TopSales:            r.TopSalesAmount,
		TopIncreased:        r.TopIncreased,
		TopDecreased:        r.TopDecreased,
		CountryDistribution: r.CountryDistribution,
		PlatformData:        r.PlatformComparison,
		SalespersonData:     r.SalespersonComparison,
	}
}

// AnalysisResponse là kết quả sinh nhận định.
type AnalysisResponse struct {
	Analysis string `json:"analysis"`        // Nội dung Markdown
	Source   string `json:"source"`          // "ai" hoặc "fallback"
	Model    string `json:"model,omitempty"` // Model đã dùng (khi source = ai)
}
