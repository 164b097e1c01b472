package salessvc

import (
	"context"
	"fmt"
	"sort"

	basesvc "github.com/Nanford/crossborder-sales-analysis/internal/api/base/service"
	"github.com/Nanford/crossborder-sales-analysis/internal/api/sales/models"
	"github.com/Nanford/crossborder-sales-analysis/internal/common"
	"github.com/Nanford/crossborder-sales-analysis/internal/database"
	"github.com/Nanford/crossborder-sales-analysis/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// insertBatchSize là số bản ghi mỗi lần InsertMany khi nạp dữ liệu vào staging.
const insertBatchSize = 500

// SalesStore là kho bản ghi bán hàng. Toàn bộ dữ liệu được thay thế nguyên khối
// mỗi lần upload: nạp vào collection staging rồi rename đè lên collection chính.
// Reader luôn thấy trọn vẹn bộ dữ liệu cũ hoặc trọn vẹn bộ mới, không bao giờ trộn.
type SalesStore struct {
	*basesvc.BaseServiceMongoImpl[models.SalesRecord]
	db          *mongo.Database
	liveName    string
	stagingName string
}

// NewSalesStore tạo SalesStore trên collection chính và tên collection staging.
func NewSalesStore(db *mongo.Database, liveName, stagingName string) *SalesStore {
	return &SalesStore{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.SalesRecord](db.Collection(liveName)),
		db:                   db,
		liveName:             liveName,
		stagingName:          stagingName,
	}
}

// ReplaceAll thay thế toàn bộ bộ dữ liệu bằng records.
// Quy trình: drop staging cũ → nạp records vào staging theo batch → tạo index →
// renameCollection(dropTarget=true) đè staging lên collection chính.
// Rename là thao tác atomic phía server nên không tồn tại trạng thái trộn lẫn.
// Bất kỳ bước nào thất bại thì staging bị hủy và bộ dữ liệu cũ vẫn nguyên vẹn.
// records rỗng là hợp lệ: kho được thay bằng bộ dữ liệu rỗng.
func (s *SalesStore) ReplaceAll(ctx context.Context, records []models.SalesRecord) (int64, error) {
	staging := s.db.Collection(s.stagingName)
	// Base service trên staging để InsertMany tự đóng dấu createdAt/updatedAt
	stagingSvc := basesvc.NewBaseServiceMongo[models.SalesRecord](staging)

	// Dọn staging còn sót từ lần thay thế thất bại trước đó
	if err := staging.Drop(ctx); err != nil {
		return 0, common.ErrStoreReplace
	}

	var saved int64
	for start := 0; start < len(records); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(records) {
			end = len(records)
		}
		inserted, err := stagingSvc.InsertMany(ctx, records[start:end])
		if err != nil {
			// Hủy staging, dữ liệu cũ vẫn là nguồn chân lý
			_ = staging.Drop(ctx)
			logger.WithModule("sales").WithError(err).Error("Nạp dữ liệu vào staging thất bại, giữ nguyên bộ dữ liệu cũ")
			return 0, common.ErrStoreReplace
		}
		saved += inserted
	}

	// records rỗng: staging chưa tồn tại (chưa insert gì) — tạo tường minh
	// để rename không thất bại vì thiếu source collection.
	if len(records) == 0 {
		if err := s.db.CreateCollection(ctx, s.stagingName); err != nil {
			return 0, common.ErrStoreReplace
		}
	}

	// Index tạo trên staging sẽ đi theo collection qua rename
	if err := database.CreateSalesIndexes(ctx, staging); err != nil {
		_ = staging.Drop(ctx)
		logger.WithModule("sales").WithError(err).Error("Tạo index trên staging thất bại, giữ nguyên bộ dữ liệu cũ")
		return 0, common.ErrStoreReplace
	}

	// Hoán đổi atomic: staging trở thành collection chính
	renameCmd := bson.D{
		{Key: "renameCollection", Value: fmt.Sprintf("%s.%s", s.db.Name(), s.stagingName)},
		{Key: "to", Value: fmt.Sprintf("%s.%s", s.db.Name(), s.liveName)},
		{Key: "dropTarget", Value: true},
	}
	if err := s.db.Client().Database("admin").RunCommand(ctx, renameCmd).Err(); err != nil {
		_ = staging.Drop(ctx)
		logger.WithModule("sales").WithError(err).Error("Rename staging thất bại, giữ nguyên bộ dữ liệu cũ")
		return 0, common.ErrStoreReplace
	}

	logger.WithModule("sales").WithFields(map[string]interface{}{
		"rows_saved": saved,
	}).Info("Đã thay thế toàn bộ bộ dữ liệu bán hàng")
	return saved, nil
}

// AggregateSpec mô tả một truy vấn group theo một chiều trong một kỳ.
type AggregateSpec struct {
	GroupField  string // Field để group: sku | buyerCountry | platform | salesPerson
	WithName    bool   // Kèm productName ($first) — chỉ dùng khi group theo sku
	PeriodField string // weekLabel | monthLabel; rỗng = không lọc theo kỳ
	PeriodValue string // Giá trị nhãn kỳ; rỗng = không lọc
}

// AggregateGroups chạy pipeline $match + $group và trả về các nhóm đã cộng dồn.
// Nhóm có khóa rỗng (vd: bản ghi không có quốc gia) bị loại khỏi kết quả.
func (s *SalesStore) AggregateGroups(ctx context.Context, spec AggregateSpec) ([]GroupRow, error) {
	pipeline := mongo.Pipeline{}

	match := bson.D{{Key: spec.GroupField, Value: bson.D{{Key: "$nin", Value: bson.A{nil, ""}}}}}
	if spec.PeriodField != "" && spec.PeriodValue != "" {
		match = append(match, bson.E{Key: spec.PeriodField, Value: spec.PeriodValue})
	}
	pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})

	group := bson.D{
		{Key: "_id", Value: "$" + spec.GroupField},
		{Key: "volume", Value: bson.D{{Key: "$sum", Value: "$salesVolume"}}},
		{Key: "amount", Value: bson.D{{Key: "$sum", Value: "$salesAmount"}}},
		{Key: "orders", Value: bson.D{{Key: "$sum", Value: "$orderCount"}}},
		{Key: "profit", Value: bson.D{{Key: "$sum", Value: "$profit"}}},
		{Key: "profitRate", Value: bson.D{{Key: "$avg", Value: "$profitRate"}}},
	}
	if spec.WithName {
		group = append(group, bson.E{Key: "name", Value: bson.D{{Key: "$first", Value: "$productName"}}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$group", Value: group}})

	results, err := s.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	rows := make([]GroupRow, 0, len(results))
	for _, doc := range results {
		row := GroupRow{
			Key:        asString(doc["_id"]),
			Name:       asString(doc["name"]),
			Volume:     asFloat(doc["volume"]),
			Amount:     asFloat(doc["amount"]),
			Orders:     asInt(doc["orders"]),
			Profit:     asFloat(doc["profit"]),
			ProfitRate: asFloat(doc["profitRate"]),
		}
		if row.Key == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// AggregateTotals cộng dồn TOÀN BỘ bản ghi của một kỳ thành một GroupRow duy nhất
// (group với _id null). Kỳ không có dữ liệu trả về GroupRow zero.
func (s *SalesStore) AggregateTotals(ctx context.Context, periodField, periodValue string) (GroupRow, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: periodField, Value: periodValue}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "volume", Value: bson.D{{Key: "$sum", Value: "$salesVolume"}}},
			{Key: "amount", Value: bson.D{{Key: "$sum", Value: "$salesAmount"}}},
			{Key: "orders", Value: bson.D{{Key: "$sum", Value: "$orderCount"}}},
			{Key: "profit", Value: bson.D{{Key: "$sum", Value: "$profit"}}},
			{Key: "profitRate", Value: bson.D{{Key: "$avg", Value: "$profitRate"}}},
		}}},
	}

	results, err := s.Aggregate(ctx, pipeline)
	if err != nil {
		return GroupRow{}, err
	}
	if len(results) == 0 {
		return GroupRow{}, nil
	}
	doc := results[0]
	return GroupRow{
		Volume:     asFloat(doc["volume"]),
		Amount:     asFloat(doc["amount"]),
		Orders:     asInt(doc["orders"]),
		Profit:     asFloat(doc["profit"]),
		ProfitRate: asFloat(doc["profitRate"]),
	}, nil
}

// DistinctLabels trả về danh sách nhãn distinct của một field kỳ (weekLabel/monthLabel),
// sắp giảm dần theo thứ tự từ điển — nhãn mới nhất đứng đầu.
func (s *SalesStore) DistinctLabels(ctx context.Context, field string) ([]string, error) {
	values, err := s.Distinct(ctx, field, bson.M{field: bson.M{"$nin": bson.A{nil, ""}}})
	if err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(values))
	for _, v := range values {
		if label, ok := v.(string); ok && label != "" {
			labels = append(labels, label)
		}
	}
	// Nhãn mới nhất đứng đầu (thứ tự từ điển giảm dần)
	sort.Sort(sort.Reverse(sort.StringSlice(labels)))
	return labels, nil
}

// asString/asFloat/asInt đọc giá trị bson.M một cách khoan dung với kiểu số của driver.
func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

func asInt(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}
