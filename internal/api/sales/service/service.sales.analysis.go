package salessvc

import (
	"math"
	"sort"
)

// Metric chọn chỉ số dùng để xếp hạng / so sánh.
type Metric string

const (
	MetricVolume Metric = "volume" // Số lượng bán
	MetricAmount Metric = "amount" // Doanh thu
)

// GroupRow là một nhóm đã được cộng dồn theo một chiều (sku, quốc gia, nền tảng, ...)
// trong một kỳ. Đây là đầu vào của mọi phép so sánh, không phụ thuộc nguồn dữ liệu.
type GroupRow struct {
	Key        string  `json:"key"`            // Khóa nhóm (sku / quốc gia / nền tảng / nhân viên)
	Name       string  `json:"name,omitempty"` // Tên phụ (tên sản phẩm khi group theo sku)
	Volume     float64 `json:"volume"`         // Tổng số lượng bán
	Amount     float64 `json:"amount"`         // Tổng doanh thu
	Orders     int64   `json:"orders"`         // Tổng số đơn
	Profit     float64 `json:"profit"`         // Tổng lợi nhuận
	ProfitRate float64 `json:"profit_rate"`    // Tỷ suất lợi nhuận trung bình (điểm phần trăm)
}

// ComparisonRow là kết quả so sánh một nhóm giữa hai kỳ (inner join theo Key).
type ComparisonRow struct {
	Key            string  `json:"key"`
	Name           string  `json:"name,omitempty"`
	CurrentVolume  float64 `json:"current_volume"`
	PreviousVolume float64 `json:"previous_volume"`
	VolumeChange   float64 `json:"volume_change"`
	CurrentAmount  float64 `json:"current_amount"`
	PreviousAmount float64 `json:"previous_amount"`
	AmountChange   float64 `json:"amount_change"`
	ChangeRate     float64 `json:"change_rate"` // Phần trăm thay đổi theo metric đã chọn
}

// RollupRow là kết quả so sánh rollup (outer join) — nhóm chỉ xuất hiện một kỳ
// vẫn được giữ với phía còn lại bằng 0.
type RollupRow struct {
	Key                string  `json:"key"`
	CurrentVolume      float64 `json:"current_volume"`
	PreviousVolume     float64 `json:"previous_volume"`
	VolumeChange       float64 `json:"volume_change"`
	CurrentAmount      float64 `json:"current_amount"`
	PreviousAmount     float64 `json:"previous_amount"`
	AmountChange       float64 `json:"amount_change"`
	ChangeRate         float64 `json:"change_rate"`        // % thay đổi doanh thu, previous=0 → 0
	VolumeChangeRate   float64 `json:"volume_change_rate"` // % thay đổi số lượng, previous=0 → 0
	Percentage         float64 `json:"percentage"`         // % đóng góp vào tổng doanh thu kỳ hiện tại
	CurrentOrders      int64   `json:"current_orders"`
	PreviousOrders     int64   `json:"previous_orders"`
	OrdersChangeRate   float64 `json:"orders_change_rate"` // % thay đổi số đơn, previous=0 → 0
	CurrentProfitRate  float64 `json:"current_profit_rate"`
	PreviousProfitRate float64 `json:"previous_profit_rate"`
	ProfitRateChange   float64 `json:"profit_rate_change"` // Hiệu số điểm phần trăm, KHÔNG phải % thay đổi
}

// ChangeRate tính phần trăm thay đổi giữa hai kỳ.
// previous == 0 thì trả về 0 thay vì chia cho 0 — nhóm mới xuất hiện
// không được coi là tăng trưởng vô hạn.
func ChangeRate(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// metricOf trả về giá trị metric đã chọn của một GroupRow.
func metricOf(r GroupRow, m Metric) float64 {
	if m == MetricVolume {
		return r.Volume
	}
	return r.Amount
}

// TopNRows xếp hạng các nhóm theo metric giảm dần và cắt còn n phần tử.
// Sắp xếp ổn định: hai nhóm bằng điểm giữ nguyên thứ tự đầu vào.
// n <= 0 trả về rỗng; n lớn hơn số nhóm trả về tất cả.
func TopNRows(rows []GroupRow, metric Metric, n int) []GroupRow {
	if n <= 0 || len(rows) == 0 {
		return []GroupRow{}
	}
	sorted := make([]GroupRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return metricOf(sorted[i], metric) > metricOf(sorted[j], metric)
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// MatchedComparison so sánh hai kỳ theo inner join trên Key: chỉ nhóm có mặt ở
// CẢ HAI kỳ mới tham gia. Kết quả tách thành tăng (current > previous theo metric)
// và giảm (current < previous), mỗi chiều sắp theo |delta| giảm dần rồi cắt còn n.
// Nhóm không đổi không xuất hiện ở cả hai danh sách.
func MatchedComparison(current, previous []GroupRow, metric Metric, n int) (increased, decreased []ComparisonRow) {
	increased = []ComparisonRow{}
	decreased = []ComparisonRow{}
	if n <= 0 {
		return increased, decreased
	}

	prevByKey := make(map[string]GroupRow, len(previous))
	for _, p := range previous {
		prevByKey[p.Key] = p
	}

	for _, c := range current {
		p, ok := prevByKey[c.Key]
		if !ok {
			continue
		}
		row := ComparisonRow{
			Key:            c.Key,
			Name:           c.Name,
			CurrentVolume:  c.Volume,
			PreviousVolume: p.Volume,
			VolumeChange:   c.Volume - p.Volume,
			CurrentAmount:  c.Amount,
			PreviousAmount: p.Amount,
			AmountChange:   c.Amount - p.Amount,
			ChangeRate:     ChangeRate(metricOf(c, metric), metricOf(p, metric)),
		}
		delta := metricOf(c, metric) - metricOf(p, metric)
		switch {
		case delta > 0:
			increased = append(increased, row)
		case delta < 0:
			decreased = append(decreased, row)
		}
	}

	deltaOf := func(r ComparisonRow) float64 {
		if metric == MetricVolume {
			return math.Abs(r.VolumeChange)
		}
		return math.Abs(r.AmountChange)
	}
	sort.SliceStable(increased, func(i, j int) bool { return deltaOf(increased[i]) > deltaOf(increased[j]) })
	sort.SliceStable(decreased, func(i, j int) bool { return deltaOf(decreased[i]) > deltaOf(decreased[j]) })

	if n < len(increased) {
		increased = increased[:n]
	}
	if n < len(decreased) {
		decreased = decreased[:n]
	}
	return increased, decreased
}

// RollupComparison so sánh hai kỳ theo outer join: nhóm chỉ xuất hiện một kỳ
// vẫn có mặt với phía còn lại bằng 0. Percentage là % đóng góp doanh thu của
// nhóm vào tổng doanh thu kỳ hiện tại (tổng = 0 thì mọi percentage = 0).
// Kết quả sắp theo doanh thu kỳ hiện tại giảm dần.
func RollupComparison(current, previous []GroupRow) []RollupRow {
	currByKey := make(map[string]GroupRow, len(current))
	for _, c := range current {
		currByKey[c.Key] = c
	}
	prevByKey := make(map[string]GroupRow, len(previous))
	for _, p := range previous {
		prevByKey[p.Key] = p
	}

	var currentTotal float64
	for _, c := range current {
		currentTotal += c.Amount
	}

	// Giữ thứ tự ổn định: các key kỳ hiện tại trước, sau đó các key chỉ có kỳ trước
	keys := make([]string, 0, len(currByKey)+len(prevByKey))
	seen := make(map[string]bool, len(currByKey)+len(prevByKey))
	for _, c := range current {
		if !seen[c.Key] {
			keys = append(keys, c.Key)
			seen[c.Key] = true
		}
	}
	for _, p := range previous {
		if !seen[p.Key] {
			keys = append(keys, p.Key)
			seen[p.Key] = true
		}
	}

	rows := make([]RollupRow, 0, len(keys))
	for _, key := range keys {
		c := currByKey[key] // zero value nếu vắng mặt
		p := prevByKey[key]
		row := RollupRow{
			Key:                key,
			CurrentVolume:      c.Volume,
			PreviousVolume:     p.Volume,
			VolumeChange:       c.Volume - p.Volume,
			CurrentAmount:      c.Amount,
			PreviousAmount:     p.Amount,
			AmountChange:       c.Amount - p.Amount,
			ChangeRate:         ChangeRate(c.Amount, p.Amount),
			VolumeChangeRate:   ChangeRate(c.Volume, p.Volume),
			CurrentOrders:      c.Orders,
			PreviousOrders:     p.Orders,
			OrdersChangeRate:   ChangeRate(float64(c.Orders), float64(p.Orders)),
			CurrentProfitRate:  c.ProfitRate,
			PreviousProfitRate: p.ProfitRate,
			ProfitRateChange:   c.ProfitRate - p.ProfitRate,
		}
		if currentTotal != 0 {
			row.Percentage = c.Amount / currentTotal * 100
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CurrentAmount > rows[j].CurrentAmount })
	return rows
}

// Disappeared tìm các nhóm có hoạt động ở kỳ trước nhưng hoàn toàn vắng mặt ở
// kỳ hiện tại (right outer join, phía hiện tại null). Nhóm có mặt ở kỳ hiện tại
// với giá trị 0 KHÔNG được tính là biến mất. Kết quả sắp theo giá trị kỳ trước
// giảm dần rồi cắt còn n.
func Disappeared(current, previous []GroupRow, metric Metric, n int) []GroupRow {
	if n <= 0 {
		return []GroupRow{}
	}
	currKeys := make(map[string]bool, len(current))
	for _, c := range current {
		currKeys[c.Key] = true
	}

	gone := make([]GroupRow, 0)
	for _, p := range previous {
		if !currKeys[p.Key] {
			gone = append(gone, p)
		}
	}
	sort.SliceStable(gone, func(i, j int) bool {
		return metricOf(gone[i], metric) > metricOf(gone[j], metric)
	})
	if n < len(gone) {
		gone = gone[:n]
	}
	return gone
}

// LatestTwoLabels chọn hai nhãn kỳ lớn nhất (theo thứ tự từ điển) từ danh sách
// nhãn distinct. Nhãn dạng "YYYY-MM" nên thứ tự từ điển trùng thứ tự thời gian.
// Ít hơn hai nhãn khác nhau thì ok = false — không đủ dữ liệu để so sánh.
func LatestTwoLabels(labels []string) (currentLabel, previousLabel string, ok bool) {
	distinct := make([]string, 0, len(labels))
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		distinct = append(distinct, l)
	}
	if len(distinct) < 2 {
		return "", "", false
	}
	sort.Sort(sort.Reverse(sort.StringSlice(distinct)))
	return distinct[0], distinct[1], true
}
