package aisvc

import (
	"fmt"
	"sort"
	"strings"

	salessvc "github.com/Nanford/crossborder-sales-analysis/internal/api/sales/service"
)

// periodWords là cặp từ chỉ kỳ dùng trong prompt và nhận định tự sinh.
type periodWords struct {
	Current  string // 本周 / 本月
	Previous string // 上周 / 上月
}

var (
	weeklyPeriod  = periodWords{Current: "本周", Previous: "上周"}
	monthlyPeriod = periodWords{Current: "本月", Previous: "上月"}
)

// buildPrompt dựng prompt phân tích từ gói báo cáo.
func buildPrompt(bundle *salessvc.ReportBundle, period periodWords) string {
	var b strings.Builder
	b.WriteString("作为一名电子商务销售数据分析专家，请基于以下跨境电商销售数据对业务表现进行详细分析。\n")
	b.WriteString("请提供具体的业务洞察和改进建议。\n\n")
	b.WriteString("数据摘要:\n")
	b.WriteString(formatBundle(bundle, period))
	b.WriteString("\n请从以下几个方面进行分析:\n")
	b.WriteString("1. 热销商品分析和建议\n")
	b.WriteString("2. 产品涨跌趋势分析\n")
	b.WriteString("3. 各国市场表现分析\n")
	b.WriteString("4. 销售平台表现分析\n")
	b.WriteString("5. 整体销售趋势和建议\n\n")
	b.WriteString("格式要求:\n")
	b.WriteString("- 使用Markdown格式\n")
	b.WriteString("- 每个部分使用二级标题\n")
	b.WriteString("- 对重要的发现使用粗体强调\n")
	b.WriteString("- 包含3-5条切实可行的业务建议\n")
	return b.String()
}

// formatBundle trình bày gói báo cáo thành text cho prompt.
func formatBundle(bundle *salessvc.ReportBundle, period periodWords) string {
	var b strings.Builder

	b.WriteString("## 销售额Top商品:\n")
	for _, item := range bundle.TopSales {
		fmt.Fprintf(&b, "- %s (SKU: %s): ¥%.2f\n", item.Name, item.Key, item.Amount)
	}

	fmt.Fprintf(&b, "\n## 环比上升Top:\n")
	for _, item := range bundle.TopIncreased {
		fmt.Fprintf(&b, "- %s (SKU: %s): %.2f%% (%s:%.2f, %s:%.2f)\n",
			item.Name, item.Key, item.ChangeRate,
			period.Current, item.CurrentAmount, period.Previous, item.PreviousAmount)
	}

	fmt.Fprintf(&b, "\n## 环比下降Top:\n")
	for _, item := range bundle.TopDecreased {
		fmt.Fprintf(&b, "- %s (SKU: %s): %.2f%% (%s:%.2f, %s:%.2f)\n",
			item.Name, item.Key, item.ChangeRate,
			period.Current, item.CurrentAmount, period.Previous, item.PreviousAmount)
	}

	b.WriteString("\n## 国家销售分布:\n")
	for _, item := range bundle.CountryDistribution {
		fmt.Fprintf(&b, "- %s: ¥%.2f (%.2f%%), 环比变化: %.2f%%\n",
			item.Key, item.CurrentAmount, item.Percentage, item.ChangeRate)
	}

	if p := bundle.PlatformData; p != nil {
		b.WriteString("\n## 平台总体表现:\n")
		fmt.Fprintf(&b, "- 销售额: ¥%.2f, 环比变化: %.2f%%\n", p.CurrentAmount, p.AmountChangeRate)
		fmt.Fprintf(&b, "- 销量: %.2f, 环比变化: %.2f%%\n", p.CurrentVolume, p.VolumeChangeRate)
		fmt.Fprintf(&b, "- 订单数: %d, 环比变化: %.2f%%\n", p.CurrentOrders, p.OrdersChangeRate)
		fmt.Fprintf(&b, "- 毛利率: %.2f%%, 环比变化: %.2f个百分点\n", p.CurrentProfitRate, p.ProfitRateChange)
	}

	return b.String()
}

// RenderWeeklyFallback sinh bản nhận định tuần không cần AI.
func RenderWeeklyFallback(bundle *salessvc.ReportBundle) string {
	return renderFallback(bundle, weeklyPeriod)
}

// RenderMonthlyFallback sinh bản nhận định tháng không cần AI.
func RenderMonthlyFallback(bundle *salessvc.ReportBundle) string {
	return renderFallback(bundle, monthlyPeriod)
}

// renderFallback sinh bản nhận định Markdown thuần từ gói báo cáo.
// Deterministic: cùng gói dữ liệu luôn cho cùng kết quả.
func renderFallback(bundle *salessvc.ReportBundle, period periodWords) string {
	var b strings.Builder
	b.WriteString("## 销售数据分析报告\n\n### 热销商品分析\n")

	if len(bundle.TopSales) > 0 {
		fmt.Fprintf(&b, "%s销售额靠前的产品是:\n\n", period.Current)
		for i, product := range bundle.TopSales {
			fmt.Fprintf(&b, "%d. **%s** (SKU: %s)，销售额: ¥%.2f\n", i+1, product.Name, product.Key, product.Amount)
		}
		b.WriteString("\n**建议**: 确保这些热销商品库存充足，并考虑开发相似产品线。\n\n")
	}

	b.WriteString("### 产品涨跌趋势分析\n\n")

	if len(bundle.TopIncreased) > 0 {
		b.WriteString("**增长最快的产品**:\n\n")
		for i, product := range topN(bundle.TopIncreased, 3) {
			fmt.Fprintf(&b, "%d. **%s** 增长率: %.2f%%\n", i+1, product.Name, product.ChangeRate)
		}
		b.WriteString("\n**建议**: 增加这些产品的营销投入，扩大增长趋势。\n\n")
	}

	if len(bundle.TopDecreased) > 0 {
		b.WriteString("**下降最多的产品**:\n\n")
		for i, product := range topN(bundle.TopDecreased, 3) {
			fmt.Fprintf(&b, "%d. **%s** 下降率: %.2f%%\n", i+1, product.Name, product.ChangeRate)
		}
		b.WriteString("\n**建议**: 检查这些产品的价格竞争力和市场定位，考虑调整促销策略。\n\n")
	}

	b.WriteString("### 各国市场表现分析\n\n")

	if len(bundle.CountryDistribution) > 0 {
		sorted := make([]salessvc.RollupRow, len(bundle.CountryDistribution))
		copy(sorted, bundle.CountryDistribution)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CurrentAmount > sorted[j].CurrentAmount })

		b.WriteString("主要销售市场:\n\n")
		top := sorted
		if len(top) > 3 {
			top = top[:3]
		}
		for i, country := range top {
			fmt.Fprintf(&b, "%d. **%s**: 销售额 ¥%.2f (占比 %.2f%%)，环比变化 %.2f%%\n",
				i+1, country.Key, country.CurrentAmount, country.Percentage, country.ChangeRate)
		}

		// Thị trường tăng trưởng nhanh nhất
		growth := make([]salessvc.RollupRow, len(bundle.CountryDistribution))
		copy(growth, bundle.CountryDistribution)
		sort.SliceStable(growth, func(i, j int) bool { return growth[i].ChangeRate > growth[j].ChangeRate })
		if growth[0].ChangeRate > 0 {
			fmt.Fprintf(&b, "\n增长最快的市场是 **%s**，环比增长 %.2f%%\n", growth[0].Key, growth[0].ChangeRate)
		}

		b.WriteString("\n**建议**: 对主要市场增加本地化服务，探索增长市场的新机会。\n\n")
	}

	b.WriteString(`### 整体业务建议

1. **库存管理优化**: 根据热销商品和增长趋势调整库存水平
2. **营销资源分配**: 将资源集中在增长市场和增长产品上
3. **产品组合调整**: 考虑淘汰持续下滑的产品，增加有增长潜力的品类
4. **价格策略优化**: 对下滑产品进行价格竞争力分析，必要时调整定价
5. **市场扩展计划**: 基于国家分布数据，制定新市场开发计划

*分析基于当前可用数据生成，建议结合实际业务情况进行决策。*
`)

	return b.String()
}

// topN cắt danh sách so sánh còn n phần tử đầu.
func topN(rows []salessvc.ComparisonRow, n int) []salessvc.ComparisonRow {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}
