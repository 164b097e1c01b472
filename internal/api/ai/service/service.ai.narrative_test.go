// Package aisvc - Test sinh nhận định: gọi API thành công, mọi sự cố rơi về fallback.
package aisvc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Nanford/crossborder-sales-analysis/config"
	salessvc "github.com/Nanford/crossborder-sales-analysis/internal/api/sales/service"
)

func testBundle() *salessvc.ReportBundle {
	return &salessvc.ReportBundle{
		TopSales: []salessvc.GroupRow{
			{Key: "SKU-1", Name: "Áo thun", Amount: 1500.5, Volume: 100},
			{Key: "SKU-2", Name: "Quần jean", Amount: 900, Volume: 40},
		},
		TopIncreased: []salessvc.ComparisonRow{
			{Key: "SKU-1", Name: "Áo thun", CurrentAmount: 1500.5, PreviousAmount: 1000, AmountChange: 500.5, ChangeRate: 50.05},
		},
		TopDecreased: []salessvc.ComparisonRow{
			{Key: "SKU-3", Name: "Mũ len", CurrentAmount: 100, PreviousAmount: 400, AmountChange: -300, ChangeRate: -75},
		},
		CountryDistribution: []salessvc.RollupRow{
			{Key: "US", CurrentAmount: 1600, Percentage: 66.67, ChangeRate: 20},
			{Key: "DE", CurrentAmount: 800, Percentage: 33.33, ChangeRate: -10},
		},
		PlatformData: &salessvc.PeriodComparison{
			CurrentAmount: 2400, AmountChangeRate: 9.09,
			CurrentVolume: 140, VolumeChangeRate: 7.69,
			CurrentOrders: 120, OrdersChangeRate: 5,
			CurrentProfitRate: 28.5, ProfitRateChange: 1.5,
		},
	}
}

func testService(apiURL, apiKey string) *NarrativeService {
	return NewNarrativeService(&config.Configuration{
		AI_APIURL:         apiURL,
		AI_APIKey:         apiKey,
		AI_Model:          "deepseek-chat",
		AI_Temperature:    0.7,
		AI_TimeoutSeconds: 5,
	})
}

func TestGenerate_UsesAIResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization header sai: %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type sai: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"## Nhận định từ AI"}}]}`))
	}))
	defer server.Close()

	svc := testService(server.URL, "test-key")
	result := svc.Generate(context.Background(), testBundle())

	if result.Source != SourceAI {
		t.Fatalf("muốn source=%s, nhận %s", SourceAI, result.Source)
	}
	if result.Analysis != "## Nhận định từ AI" {
		t.Errorf("nội dung sai: %q", result.Analysis)
	}
	if result.Model != "deepseek-chat" {
		t.Errorf("model sai: %q", result.Model)
	}
}

func TestGenerate_EmptyAPIKeyFallsBack(t *testing.T) {
	svc := testService("http://127.0.0.1:1", "")
	result := svc.Generate(context.Background(), testBundle())

	if result.Source != SourceFallback {
		t.Fatalf("API key trống phải dùng fallback, nhận source=%s", result.Source)
	}
	if !strings.Contains(result.Analysis, "销售数据分析报告") {
		t.Errorf("fallback phải là bản nhận định tự sinh: %q", result.Analysis[:80])
	}
}

func TestGenerate_ServerErrorFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := testService(server.URL, "test-key")
	result := svc.Generate(context.Background(), testBundle())

	if result.Source != SourceFallback {
		t.Errorf("API lỗi 500 phải rơi về fallback, nhận source=%s", result.Source)
	}
}

func TestGenerate_UnreachableServerFallsBack(t *testing.T) {
	svc := testService("http://127.0.0.1:1", "test-key")
	result := svc.Generate(context.Background(), testBundle())

	if result.Source != SourceFallback {
		t.Errorf("không kết nối được API phải rơi về fallback, nhận source=%s", result.Source)
	}
	if result.Analysis == "" {
		t.Error("fallback không được rỗng")
	}
}

func TestGenerate_EmptyChoicesFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	svc := testService(server.URL, "test-key")
	result := svc.Generate(context.Background(), testBundle())
	if result.Source != SourceFallback {
		t.Errorf("response không có choices phải rơi về fallback, nhận source=%s", result.Source)
	}
}

func TestRenderFallback_Deterministic(t *testing.T) {
	bundle := testBundle()
	first := RenderWeeklyFallback(bundle)
	second := RenderWeeklyFallback(bundle)
	if first != second {
		t.Error("cùng gói dữ liệu phải sinh cùng bản nhận định")
	}
}

func TestRenderFallback_ContainsBundleData(t *testing.T) {
	text := RenderWeeklyFallback(testBundle())

	for _, want := range []string{"Áo thun", "SKU-1", "US", "销售数据分析报告", "整体业务建议"} {
		if !strings.Contains(text, want) {
			t.Errorf("bản nhận định thiếu %q", want)
		}
	}
	// Thị trường tăng trưởng nhanh nhất là US (+20%)
	if !strings.Contains(text, "增长最快的市场是 **US**") {
		t.Error("bản nhận định phải nêu thị trường tăng trưởng nhanh nhất")
	}
}

func TestRenderFallback_EmptyBundle(t *testing.T) {
	text := RenderWeeklyFallback(&salessvc.ReportBundle{})
	if !strings.Contains(text, "销售数据分析报告") {
		t.Error("gói rỗng vẫn phải sinh được khung báo cáo")
	}
	if !strings.Contains(text, "整体业务建议") {
		t.Error("gói rỗng vẫn phải có phần khuyến nghị chung")
	}
}

func TestRenderMonthlyFallback_UsesMonthlyWording(t *testing.T) {
	text := RenderMonthlyFallback(testBundle())
	if !strings.Contains(text, "本月") {
		t.Error("bản nhận định tháng phải dùng từ chỉ kỳ tháng")
	}
	if strings.Contains(text, "本周销售额靠前") {
		t.Error("bản nhận định tháng không được dùng từ chỉ kỳ tuần")
	}
}
