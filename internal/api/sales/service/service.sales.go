package salessvc

import (
	"context"
	"fmt"

	basemodels "github.com/Nanford/crossborder-sales-analysis/internal/api/base/models"
	"github.com/Nanford/crossborder-sales-analysis/internal/api/sales/models"
	"github.com/Nanford/crossborder-sales-analysis/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Nhãn kỳ và giới hạn mặc định. File tuần mang sẵn hai nhãn 本周/上周;
// nhãn tháng dạng "YYYY-MM" được tự chọn từ dữ liệu khi caller không chỉ định.
const (
	CurrentWeekLabel  = "本周"
	PreviousWeekLabel = "上周"

	DefaultWeeklyLimit  = 5
	DefaultMonthlyLimit = 10

	FieldWeekLabel  = "weekLabel"
	FieldMonthLabel = "monthLabel"
)

// SalesService là service chính của domain Sales: nhập dữ liệu và các truy vấn so sánh kỳ.
type SalesService struct {
	store *SalesStore
}

// NewSalesService tạo SalesService trên một SalesStore.
func NewSalesService(store *SalesStore) *SalesService {
	return &SalesService{store: store}
}

// NewSalesServiceFromRegistry tạo SalesService từ database đã đăng ký trong registry.
func NewSalesServiceFromRegistry() (*SalesService, error) {
	db, exist := global.RegistryDatabase.Get(global.MongoDB_ServerConfig.MongoDB_DBName)
	if !exist {
		return nil, fmt.Errorf("database %s chưa được đăng ký trong registry", global.MongoDB_ServerConfig.MongoDB_DBName)
	}
	store := NewSalesStore(db, global.MongoDB_ColNames.SalesRecords, global.MongoDB_ColNames.SalesRecordsStaging)
	return NewSalesService(store), nil
}

// Store trả về kho bản ghi (dùng bởi handler khi cần truy vấn trực tiếp).
func (s *SalesService) Store() *SalesStore {
	return s.store
}

// ====================================
// NHẬP DỮ LIỆU
// ====================================

// UploadResult là kết quả một lần nhập file.
type UploadResult struct {
	RowsSaved int64            `json:"rows_saved"`
	Report    *NormalizeReport `json:"report"`
}

// IngestFile đọc file, chuẩn hóa và thay thế toàn bộ bộ dữ liệu.
// File hỏng schema hoặc kho thay thế thất bại đều không chạm vào dữ liệu cũ.
func (s *SalesService) IngestFile(ctx context.Context, filename string, content []byte) (*UploadResult, error) {
	header, rows, err := ParseTabularFile(filename, content)
	if err != nil {
		return nil, err
	}

	records, report, err := Normalize(header, rows)
	if err != nil {
		return nil, err
	}

	saved, err := s.store.ReplaceAll(ctx, records)
	if err != nil {
		return nil, err
	}

	return &UploadResult{RowsSaved: saved, Report: report}, nil
}

// ListRecords trả về bản ghi thô có phân trang, kỳ tùy chọn.
func (s *SalesService) ListRecords(ctx context.Context, week string, page, limit int64) (*basemodels.PaginateResult[models.SalesRecord], error) {
	filter := bson.M{}
	if week != "" {
		filter[FieldWeekLabel] = week
	}
	return s.store.FindWithPagination(ctx, filter, page, limit, options.Find().SetSort(bson.D{{Key: "salesAmount", Value: -1}}))
}

// ====================================
// TRUY VẤN TUẦN
// ====================================

// TopSales trả về top n SKU theo metric trong một kỳ tuần (mặc định 本周).
func (s *SalesService) TopSales(ctx context.Context, metric Metric, week string, n int) ([]GroupRow, error) {
	if week == "" {
		week = CurrentWeekLabel
	}
	if n <= 0 {
		n = DefaultWeeklyLimit
	}
	rows, err := s.store.AggregateGroups(ctx, AggregateSpec{
		GroupField: "sku", WithName: true, PeriodField: FieldWeekLabel, PeriodValue: week,
	})
	if err != nil {
		return nil, err
	}
	return TopNRows(rows, metric, n), nil
}

// skuComparison gom hai kỳ theo sku rồi so sánh matched.
func (s *SalesService) skuComparison(ctx context.Context, periodField, current, previous string, metric Metric, n int) (increased, decreased []ComparisonRow, err error) {
	currRows, err := s.store.AggregateGroups(ctx, AggregateSpec{
		GroupField: "sku", WithName: true, PeriodField: periodField, PeriodValue: current,
	})
	if err != nil {
		return nil, nil, err
	}
	prevRows, err := s.store.AggregateGroups(ctx, AggregateSpec{
		GroupField: "sku", WithName: true, PeriodField: periodField, PeriodValue: previous,
	})
	if err != nil {
		return nil, nil, err
	}
	increased, decreased = MatchedComparison(currRows, prevRows, metric, n)
	return increased, decreased, nil
}

// TopIncreased trả về top n SKU tăng doanh thu giữa hai kỳ tuần.
// Chỉ SKU có mặt ở cả hai kỳ mới tham gia so sánh.
func (s *SalesService) TopIncreased(ctx context.Context, current, previous string, n int) ([]ComparisonRow, error) {
	current, previous, n = weeklyDefaults(current, previous, n)
	increased, _, err := s.skuComparison(ctx, FieldWeekLabel, current, previous, MetricAmount, n)
	return increased, err
}

// TopDecreased trả về top n SKU giảm doanh thu giữa hai kỳ tuần.
func (s *SalesService) TopDecreased(ctx context.Context, current, previous string, n int) ([]ComparisonRow, error) {
	current, previous, n = weeklyDefaults(current, previous, n)
	_, decreased, err := s.skuComparison(ctx, FieldWeekLabel, current, previous, MetricAmount, n)
	return decreased, err
}

// dimensionRollup gom hai kỳ theo một chiều rồi so sánh rollup (outer join).
func (s *SalesService) dimensionRollup(ctx context.Context, groupField, periodField, current, previous string) ([]RollupRow, error) {
	currRows, err := s.store.AggregateGroups(ctx, AggregateSpec{
		GroupField: groupField, PeriodField: periodField, PeriodValue: current,
	})
	if err != nil {
		return nil, err
	}
	prevRows, err := s.store.AggregateGroups(ctx, AggregateSpec{
		GroupField: groupField, PeriodField: periodField, PeriodValue: previous,
	})
	if err != nil {
		return nil, err
	}
	return RollupComparison(currRows, prevRows), nil
}

// CountryDistribution trả về phân bố doanh thu theo quốc gia kèm % đóng góp và
// so sánh với kỳ trước. Quốc gia vắng mặt một kỳ vẫn có mặt với phía đó bằng 0.
func (s *SalesService) CountryDistribution(ctx context.Context, current, previous string) ([]RollupRow, error) {
	current, previous, _ = weeklyDefaults(current, previous, 0)
	return s.dimensionRollup(ctx, "buyerCountry", FieldWeekLabel, current, previous)
}

// PeriodComparison là so sánh tổng hợp toàn bộ dữ liệu giữa hai kỳ.
// Các *_change_rate là % thay đổi (kỳ trước = 0 → 0);
// profit_rate_change là HIỆU SỐ điểm phần trăm, không phải % thay đổi.
type PeriodComparison struct {
	CurrentAmount      float64 `json:"current_amount"`
	PreviousAmount     float64 `json:"previous_amount"`
	AmountChangeRate   float64 `json:"amount_change_rate"`
	CurrentVolume      float64 `json:"current_volume"`
	PreviousVolume     float64 `json:"previous_volume"`
	VolumeChangeRate   float64 `json:"volume_change_rate"`
	CurrentOrders      int64   `json:"current_orders"`
	PreviousOrders     int64   `json:"previous_orders"`
	OrdersChangeRate   float64 `json:"orders_change_rate"`
	CurrentProfitRate  float64 `json:"current_profit_rate"`
	PreviousProfitRate float64 `json:"previous_profit_rate"`
	ProfitRateChange   float64 `json:"profit_rate_change"`
}

// comparePeriods dựng PeriodComparison từ hai GroupRow tổng.
func comparePeriods(curr, prev GroupRow) *PeriodComparison {
	return &PeriodComparison{
		CurrentAmount:      curr.Amount,
		PreviousAmount:     prev.Amount,
		AmountChangeRate:   ChangeRate(curr.Amount, prev.Amount),
		CurrentVolume:      curr.Volume,
		PreviousVolume:     prev.Volume,
		VolumeChangeRate:   ChangeRate(curr.Volume, prev.Volume),
		CurrentOrders:      curr.Orders,
		PreviousOrders:     prev.Orders,
		OrdersChangeRate:   ChangeRate(float64(curr.Orders), float64(prev.Orders)),
		CurrentProfitRate:  curr.ProfitRate,
		PreviousProfitRate: prev.ProfitRate,
		ProfitRateChange:   curr.ProfitRate - prev.ProfitRate,
	}
}

// PlatformComparison trả về so sánh tổng hợp toàn bộ dữ liệu giữa hai kỳ tuần.
func (s *SalesService) PlatformComparison(ctx context.Context, current, previous string) (*PeriodComparison, error) {
	current, previous, _ = weeklyDefaults(current, previous, 0)
	curr, err := s.store.AggregateTotals(ctx, FieldWeekLabel, current)
	if err != nil {
		return nil, err
	}
	prev, err := s.store.AggregateTotals(ctx, FieldWeekLabel, previous)
	if err != nil {
		return nil, err
	}
	return comparePeriods(curr, prev), nil
}

// PlatformDetail trả về so sánh rollup theo từng nền tảng giữa hai kỳ tuần.
func (s *SalesService) PlatformDetail(ctx context.Context, current, previous string) ([]RollupRow, error) {
	current, previous, _ = weeklyDefaults(current, previous, 0)
	return s.dimensionRollup(ctx, "platform", FieldWeekLabel, current, previous)
}

// PlatformSalesDistribution trả về phân bố doanh thu theo nền tảng trong một kỳ tuần.
func (s *SalesService) PlatformSalesDistribution(ctx context.Context, week string) ([]GroupRow, error) {
	if week == "" {
		week = CurrentWeekLabel
	}
	rows, err := s.store.AggregateGroups(ctx, AggregateSpec{
		GroupField: "platform", PeriodField: FieldWeekLabel, PeriodValue: week,
	})
	if err != nil {
		return nil, err
	}
	// Xếp theo doanh thu giảm dần, trả về tất cả nền tảng
	return TopNRows(rows, MetricAmount, len(rows)), nil
}

// SalespersonComparison trả về so sánh rollup theo nhân viên bán hàng giữa hai kỳ tuần.
func (s *SalesService) SalespersonComparison(ctx context.Context, current, previous string) ([]RollupRow, error) {
	current, previous, _ = weeklyDefaults(current, previous, 0)
	return s.dimensionRollup(ctx, "salesPerson", FieldWeekLabel, current, previous)
}

// NoOrdersThisWeek trả về các SKU có doanh số kỳ trước nhưng hoàn toàn vắng mặt
// ở kỳ hiện tại, xếp theo doanh thu kỳ trước giảm dần.
func (s *SalesService) NoOrdersThisWeek(ctx context.Context, current, previous string, n int) ([]GroupRow, error) {
	current, previous, n = weeklyDefaults(current, previous, n)
	currRows, err := s.store.AggregateGroups(ctx, AggregateSpec{
		GroupField: "sku", WithName: true, PeriodField: FieldWeekLabel, PeriodValue: current,
	})
	if err != nil {
		return nil, err
	}
	prevRows, err := s.store.AggregateGroups(ctx, AggregateSpec{
		GroupField: "sku", WithName: true, PeriodField: FieldWeekLabel, PeriodValue: previous,
	})
	if err != nil {
		return nil, err
	}
	return Disappeared(currRows, prevRows, MetricAmount, n), nil
}

// weeklyDefaults áp nhãn tuần và giới hạn mặc định.
func weeklyDefaults(current, previous string, n int) (string, string, int) {
	if current == "" {
		current = CurrentWeekLabel
	}
	if previous == "" {
		previous = PreviousWeekLabel
	}
	if n <= 0 {
		n = DefaultWeeklyLimit
	}
	return current, previous, n
}

// ====================================
// TRUY VẤN THÁNG
// ====================================

// AvailableMonths trả về các nhãn tháng distinct, mới nhất đứng đầu.
func (s *SalesService) AvailableMonths(ctx context.Context) ([]string, error) {
	return s.store.DistinctLabels(ctx, FieldMonthLabel)
}

// resolveMonths chọn cặp nhãn tháng: dùng tham số nếu có, còn lại tự chọn
// hai tháng lớn nhất trong dữ liệu. ok = false khi dữ liệu có ít hơn hai tháng
// — các truy vấn so sánh tháng khi đó trả kết quả rỗng, không phải lỗi.
func (s *SalesService) resolveMonths(ctx context.Context, current, previous string) (string, string, bool, error) {
	if current != "" && previous != "" {
		return current, previous, true, nil
	}
	labels, err := s.store.DistinctLabels(ctx, FieldMonthLabel)
	if err != nil {
		return "", "", false, err
	}
	autoCurrent, autoPrevious, ok := LatestTwoLabels(labels)
	if !ok {
		return "", "", false, nil
	}
	if current == "" {
		current = autoCurrent
	}
	if previous == "" {
		previous = autoPrevious
	}
	return current, previous, true, nil
}

// MonthTopSales trả về top n SKU theo metric trong một tháng (mặc định tháng mới nhất).
func (s *SalesService) MonthTopSales(ctx context.Context, metric Metric, month string, n int) ([]GroupRow, error) {
	if n <= 0 {
		n = DefaultMonthlyLimit
	}
	if month == "" {
		labels, err := s.store.DistinctLabels(ctx, FieldMonthLabel)
		if err != nil {
			return nil, err
		}
		if len(labels) == 0 {
			return []GroupRow{}, nil
		}
		month = labels[0]
	}
	rows, err := s.store.AggregateGroups(ctx, AggregateSpec{
		GroupField: "sku", WithName: true, PeriodField: FieldMonthLabel, PeriodValue: month,
	})
	if err != nil {
		return nil, err
	}
	return TopNRows(rows, metric, n), nil
}

// MonthTopIncreased trả về top n SKU tăng SỐ LƯỢNG bán giữa hai tháng.
func (s *SalesService) MonthTopIncreased(ctx context.Context, current, previous string, n int) ([]ComparisonRow, error) {
	if n <= 0 {
		n = DefaultMonthlyLimit
	}
	current, previous, ok, err := s.resolveMonths(ctx, current, previous)
	if err != nil || !ok {
		return []ComparisonRow{}, err
	}
	increased, _, err := s.skuComparison(ctx, FieldMonthLabel, current, previous, MetricVolume, n)
	return increased, err
}

// MonthTopDecreased trả về top n SKU giảm SỐ LƯỢNG bán giữa hai tháng.
func (s *SalesService) MonthTopDecreased(ctx context.Context, current, previous string, n int) ([]ComparisonRow, error) {
	if n <= 0 {
		n = DefaultMonthlyLimit
	}
	current, previous, ok, err := s.resolveMonths(ctx, current, previous)
	if err != nil || !ok {
		return []ComparisonRow{}, err
	}
	_, decreased, err := s.skuComparison(ctx, FieldMonthLabel, current, previous, MetricVolume, n)
	return decreased, err
}

// MonthCountryDistribution trả về phân bố doanh thu theo quốc gia giữa hai tháng.
func (s *SalesService) MonthCountryDistribution(ctx context.Context, current, previous string) ([]RollupRow, error) {
	current, previous, ok, err := s.resolveMonths(ctx, current, previous)
	if err != nil || !ok {
		return []RollupRow{}, err
	}
	return s.dimensionRollup(ctx, "buyerCountry", FieldMonthLabel, current, previous)
}

// MonthPlatformComparison trả về so sánh tổng hợp toàn bộ dữ liệu giữa hai tháng.
func (s *SalesService) MonthPlatformComparison(ctx context.Context, current, previous string) (*PeriodComparison, error) {
	current, previous, ok, err := s.resolveMonths(ctx, current, previous)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &PeriodComparison{}, nil
	}
	curr, err := s.store.AggregateTotals(ctx, FieldMonthLabel, current)
	if err != nil {
		return nil, err
	}
	prev, err := s.store.AggregateTotals(ctx, FieldMonthLabel, previous)
	if err != nil {
		return nil, err
	}
	return comparePeriods(curr, prev), nil
}

// MonthSalespersonComparison trả về so sánh rollup theo nhân viên bán hàng giữa hai tháng.
func (s *SalesService) MonthSalespersonComparison(ctx context.Context, current, previous string) ([]RollupRow, error) {
	current, previous, ok, err := s.resolveMonths(ctx, current, previous)
	if err != nil || !ok {
		return []RollupRow{}, err
	}
	return s.dimensionRollup(ctx, "salesPerson", FieldMonthLabel, current, previous)
}

// ====================================
// GÓI BÁO CÁO
// ====================================

// ReportBundle là đầu vào cố định của bộ sinh nhận định: các bảng xếp hạng và
// so sánh chính của một cặp kỳ. Đây cũng là shape JSON client gửi lên khi yêu cầu
// phân tích AI.
type ReportBundle struct {
	TopSales            []GroupRow        `json:"top_sales"`
	TopIncreased        []ComparisonRow   `json:"top_increased"`
	TopDecreased        []ComparisonRow   `json:"top_decreased"`
	CountryDistribution []RollupRow       `json:"country_distribution"`
	PlatformData        *PeriodComparison `json:"platform_data"`
	SalespersonData     []RollupRow       `json:"salesperson_data"`
}

// BuildWeeklyReportBundle gom dữ liệu tuần hiện tại/tuần trước thành gói báo cáo.
func (s *SalesService) BuildWeeklyReportBundle(ctx context.Context) (*ReportBundle, error) {
	topSales, err := s.TopSales(ctx, MetricAmount, CurrentWeekLabel, DefaultWeeklyLimit)
	if err != nil {
		return nil, err
	}
	increased, decreased, err := s.skuComparison(ctx, FieldWeekLabel, CurrentWeekLabel, PreviousWeekLabel, MetricAmount, DefaultWeeklyLimit)
	if err != nil {
		return nil, err
	}
	countries, err := s.CountryDistribution(ctx, CurrentWeekLabel, PreviousWeekLabel)
	if err != nil {
		return nil, err
	}
	platform, err := s.PlatformComparison(ctx, CurrentWeekLabel, PreviousWeekLabel)
	if err != nil {
		return nil, err
	}
	persons, err := s.SalespersonComparison(ctx, CurrentWeekLabel, PreviousWeekLabel)
	if err != nil {
		return nil, err
	}
	return &ReportBundle{
		TopSales:            topSales,
		TopIncreased:        increased,
		TopDecreased:        decreased,
		CountryDistribution: countries,
		PlatformData:        platform,
		SalespersonData:     persons,
	}, nil
}

// BuildMonthlyReportBundle gom dữ liệu hai tháng mới nhất thành gói báo cáo.
// Ít hơn hai tháng dữ liệu → gói rỗng (không phải lỗi).
func (s *SalesService) BuildMonthlyReportBundle(ctx context.Context) (*ReportBundle, error) {
	bundle := &ReportBundle{
		TopSales:            []GroupRow{},
		TopIncreased:        []ComparisonRow{},
		TopDecreased:        []ComparisonRow{},
		CountryDistribution: []RollupRow{},
		PlatformData:        &PeriodComparison{},
		SalespersonData:     []RollupRow{},
	}

	current, previous, ok, err := s.resolveMonths(ctx, "", "")
	if err != nil {
		return nil, err
	}
	if !ok {
		return bundle, nil
	}

	if bundle.TopSales, err = s.MonthTopSales(ctx, MetricAmount, current, DefaultMonthlyLimit); err != nil {
		return nil, err
	}
	if bundle.TopIncreased, bundle.TopDecreased, err = s.skuComparison(ctx, FieldMonthLabel, current, previous, MetricVolume, DefaultMonthlyLimit); err != nil {
		return nil, err
	}
	if bundle.CountryDistribution, err = s.dimensionRollup(ctx, "buyerCountry", FieldMonthLabel, current, previous); err != nil {
		return nil, err
	}
	if bundle.PlatformData, err = s.MonthPlatformComparison(ctx, current, previous); err != nil {
		return nil, err
	}
	if bundle.SalespersonData, err = s.dimensionRollup(ctx, "salesPerson", FieldMonthLabel, current, previous); err != nil {
		return nil, err
	}
	return bundle, nil
}
