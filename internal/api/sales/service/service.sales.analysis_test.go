// Package salessvc - Test các phép so sánh kỳ thuần túy.
package salessvc

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestChangeRate(t *testing.T) {
	cases := []struct {
		name     string
		current  float64
		previous float64
		want     float64
	}{
		{"tăng 50%", 150, 100, 50},
		{"giảm 50%", 50, 100, -50},
		{"không đổi", 100, 100, 0},
		{"kỳ trước 0 phải trả 0, không chia cho 0", 150, 0, 0},
		{"cả hai 0", 0, 0, 0},
		{"về 0", 0, 100, -100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ChangeRate(tc.current, tc.previous); !almostEqual(got, tc.want) {
				t.Errorf("ChangeRate(%v, %v) = %v, muốn %v", tc.current, tc.previous, got, tc.want)
			}
		})
	}
}

func TestTopNRows(t *testing.T) {
	rows := []GroupRow{
		{Key: "A", Amount: 10, Volume: 5},
		{Key: "B", Amount: 30, Volume: 1},
		{Key: "C", Amount: 20, Volume: 9},
	}

	top := TopNRows(rows, MetricAmount, 2)
	if len(top) != 2 || top[0].Key != "B" || top[1].Key != "C" {
		t.Errorf("xếp theo doanh thu sai: %+v", top)
	}

	top = TopNRows(rows, MetricVolume, 10)
	if len(top) != 3 || top[0].Key != "C" {
		t.Errorf("n lớn hơn số nhóm phải trả về tất cả, xếp theo volume: %+v", top)
	}

	if got := TopNRows(rows, MetricAmount, 0); len(got) != 0 {
		t.Errorf("n=0 phải trả về rỗng, nhận %+v", got)
	}
}

func TestTopNRows_StableOnTies(t *testing.T) {
	rows := []GroupRow{
		{Key: "X", Amount: 10},
		{Key: "Y", Amount: 10},
		{Key: "Z", Amount: 10},
	}
	top := TopNRows(rows, MetricAmount, 3)
	if top[0].Key != "X" || top[1].Key != "Y" || top[2].Key != "Z" {
		t.Errorf("nhóm bằng điểm phải giữ thứ tự đầu vào: %+v", top)
	}
}

// Ví dụ chuẩn: SKU A tuần trước 100, tuần này 150 → delta 50, tỷ lệ 50%.
func TestMatchedComparison_WorkedExample(t *testing.T) {
	current := []GroupRow{{Key: "A", Name: "Sản phẩm A", Amount: 150, Volume: 15}}
	previous := []GroupRow{{Key: "A", Name: "Sản phẩm A", Amount: 100, Volume: 10}}

	increased, decreased := MatchedComparison(current, previous, MetricAmount, 5)
	if len(increased) != 1 || len(decreased) != 0 {
		t.Fatalf("muốn 1 tăng 0 giảm, nhận %d/%d", len(increased), len(decreased))
	}
	row := increased[0]
	if !almostEqual(row.AmountChange, 50) {
		t.Errorf("delta doanh thu = %v, muốn 50", row.AmountChange)
	}
	if !almostEqual(row.ChangeRate, 50) {
		t.Errorf("tỷ lệ thay đổi = %v, muốn 50", row.ChangeRate)
	}
}

func TestMatchedComparison_InnerJoinOnly(t *testing.T) {
	current := []GroupRow{
		{Key: "A", Amount: 150},
		{Key: "NEW", Amount: 999}, // chỉ có kỳ này — không tham gia
	}
	previous := []GroupRow{
		{Key: "A", Amount: 100},
		{Key: "GONE", Amount: 888}, // chỉ có kỳ trước — không tham gia
	}

	increased, decreased := MatchedComparison(current, previous, MetricAmount, 5)
	for _, r := range append(increased, decreased...) {
		if r.Key == "NEW" || r.Key == "GONE" {
			t.Errorf("nhóm chỉ xuất hiện một kỳ không được tham gia so sánh: %+v", r)
		}
	}
	if len(increased) != 1 || increased[0].Key != "A" {
		t.Errorf("muốn chỉ A tăng, nhận %+v", increased)
	}
}

func TestMatchedComparison_OrderedByAbsDeltaAndDisjoint(t *testing.T) {
	current := []GroupRow{
		{Key: "A", Amount: 110}, // +10
		{Key: "B", Amount: 200}, // +100
		{Key: "C", Amount: 50},  // -50
		{Key: "D", Amount: 10},  // -90
		{Key: "E", Amount: 70},  // không đổi
	}
	previous := []GroupRow{
		{Key: "A", Amount: 100},
		{Key: "B", Amount: 100},
		{Key: "C", Amount: 100},
		{Key: "D", Amount: 100},
		{Key: "E", Amount: 70},
	}

	increased, decreased := MatchedComparison(current, previous, MetricAmount, 5)
	if len(increased) != 2 || increased[0].Key != "B" || increased[1].Key != "A" {
		t.Errorf("chiều tăng phải xếp theo |delta| giảm dần: %+v", increased)
	}
	if len(decreased) != 2 || decreased[0].Key != "D" || decreased[1].Key != "C" {
		t.Errorf("chiều giảm phải xếp theo |delta| giảm dần: %+v", decreased)
	}

	// Hai danh sách phải rời nhau và không chứa nhóm không đổi
	seen := map[string]bool{}
	for _, r := range increased {
		seen[r.Key] = true
	}
	for _, r := range decreased {
		if seen[r.Key] {
			t.Errorf("nhóm %s xuất hiện ở cả hai chiều", r.Key)
		}
		if r.Key == "E" {
			t.Error("nhóm không đổi không được xuất hiện")
		}
	}
}

func TestMatchedComparison_TruncatesToN(t *testing.T) {
	current := []GroupRow{
		{Key: "A", Amount: 200}, {Key: "B", Amount: 300}, {Key: "C", Amount: 400},
	}
	previous := []GroupRow{
		{Key: "A", Amount: 100}, {Key: "B", Amount: 100}, {Key: "C", Amount: 100},
	}
	increased, _ := MatchedComparison(current, previous, MetricAmount, 2)
	if len(increased) != 2 || increased[0].Key != "C" || increased[1].Key != "B" {
		t.Errorf("phải cắt còn 2 theo |delta|: %+v", increased)
	}
}

func TestRollupComparison_OuterJoinWithZeroSides(t *testing.T) {
	current := []GroupRow{
		{Key: "US", Amount: 80, Volume: 8},
		{Key: "DE", Amount: 20, Volume: 2},
	}
	previous := []GroupRow{
		{Key: "US", Amount: 40, Volume: 4},
		{Key: "JP", Amount: 60, Volume: 6}, // biến mất kỳ này
	}

	rows := RollupComparison(current, previous)
	if len(rows) != 3 {
		t.Fatalf("outer join phải giữ cả 3 nhóm, nhận %d", len(rows))
	}

	byKey := map[string]RollupRow{}
	for _, r := range rows {
		byKey[r.Key] = r
	}

	jp := byKey["JP"]
	if jp.CurrentAmount != 0 || jp.PreviousAmount != 60 {
		t.Errorf("nhóm vắng mặt kỳ này phải có current=0: %+v", jp)
	}
	if !almostEqual(jp.ChangeRate, -100) {
		t.Errorf("JP từ 60 về 0 phải là -100%%, nhận %v", jp.ChangeRate)
	}

	de := byKey["DE"]
	if !almostEqual(de.ChangeRate, 0) {
		t.Errorf("DE kỳ trước 0 phải có tỷ lệ 0 (zero-guard), nhận %v", de.ChangeRate)
	}

	// Percentage theo tổng doanh thu kỳ hiện tại (100)
	if !almostEqual(byKey["US"].Percentage, 80) || !almostEqual(de.Percentage, 20) {
		t.Errorf("percentage sai: US=%v DE=%v", byKey["US"].Percentage, de.Percentage)
	}
	if !almostEqual(jp.Percentage, 0) {
		t.Errorf("JP không có doanh thu kỳ này, percentage phải 0: %v", jp.Percentage)
	}

	// Xếp theo doanh thu kỳ hiện tại giảm dần
	if rows[0].Key != "US" || rows[1].Key != "DE" || rows[2].Key != "JP" {
		t.Errorf("thứ tự sai: %v %v %v", rows[0].Key, rows[1].Key, rows[2].Key)
	}
}

func TestRollupComparison_ZeroCurrentTotal(t *testing.T) {
	rows := RollupComparison(nil, []GroupRow{{Key: "US", Amount: 50}})
	if len(rows) != 1 {
		t.Fatalf("muốn 1 nhóm, nhận %d", len(rows))
	}
	if !almostEqual(rows[0].Percentage, 0) {
		t.Errorf("tổng kỳ hiện tại = 0 thì mọi percentage phải 0, nhận %v", rows[0].Percentage)
	}
}

func TestRollupComparison_ProfitRateChangeIsPointDifference(t *testing.T) {
	current := []GroupRow{{Key: "Amazon", Amount: 100, ProfitRate: 30}}
	previous := []GroupRow{{Key: "Amazon", Amount: 100, ProfitRate: 25}}

	rows := RollupComparison(current, previous)
	if !almostEqual(rows[0].ProfitRateChange, 5) {
		t.Errorf("thay đổi tỷ suất phải là hiệu số điểm phần trăm (5), không phải %% thay đổi: %v", rows[0].ProfitRateChange)
	}
}

func TestDisappeared(t *testing.T) {
	current := []GroupRow{
		{Key: "A", Amount: 100},
		{Key: "Z", Amount: 0}, // có mặt với giá trị 0 — KHÔNG phải biến mất
	}
	previous := []GroupRow{
		{Key: "A", Amount: 90},
		{Key: "Z", Amount: 10},
		{Key: "GONE1", Amount: 50},
		{Key: "GONE2", Amount: 70},
	}

	gone := Disappeared(current, previous, MetricAmount, 5)
	if len(gone) != 2 {
		t.Fatalf("muốn 2 nhóm biến mất, nhận %+v", gone)
	}
	if gone[0].Key != "GONE2" || gone[1].Key != "GONE1" {
		t.Errorf("phải xếp theo giá trị kỳ trước giảm dần: %+v", gone)
	}
	for _, g := range gone {
		if g.Key == "Z" {
			t.Error("nhóm có mặt kỳ này với giá trị 0 không được coi là biến mất")
		}
	}
}

func TestDisappeared_TruncatesToN(t *testing.T) {
	previous := []GroupRow{
		{Key: "A", Amount: 1}, {Key: "B", Amount: 2}, {Key: "C", Amount: 3},
	}
	gone := Disappeared(nil, previous, MetricAmount, 2)
	if len(gone) != 2 || gone[0].Key != "C" {
		t.Errorf("phải cắt còn 2 theo giá trị kỳ trước: %+v", gone)
	}
}

// Ví dụ chuẩn: dữ liệu có 2024-01, 2024-02, 2024-03 → tự chọn 2024-03 và 2024-02.
func TestLatestTwoLabels_WorkedExample(t *testing.T) {
	current, previous, ok := LatestTwoLabels([]string{"2024-01", "2024-03", "2024-02"})
	if !ok {
		t.Fatal("ba nhãn phải đủ để so sánh")
	}
	if current != "2024-03" || previous != "2024-02" {
		t.Errorf("muốn (2024-03, 2024-02), nhận (%s, %s)", current, previous)
	}
}

func TestLatestTwoLabels_Degenerate(t *testing.T) {
	if _, _, ok := LatestTwoLabels(nil); ok {
		t.Error("không có nhãn nào phải trả ok=false")
	}
	if _, _, ok := LatestTwoLabels([]string{"2024-03"}); ok {
		t.Error("một nhãn phải trả ok=false")
	}
	if _, _, ok := LatestTwoLabels([]string{"2024-03", "2024-03", ""}); ok {
		t.Error("nhãn trùng và rỗng không được đếm, phải trả ok=false")
	}
}
