// Package salessvc - Test tích hợp kho bản ghi trên MongoDB thật.
// Bỏ qua khi không đặt TEST_MONGODB_URI (vd: mongodb://localhost:27017).
package salessvc

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/Nanford/crossborder-sales-analysis/internal/api/sales/models"
	"github.com/Nanford/crossborder-sales-analysis/internal/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	testLiveCollection    = "sales_records_test"
	testStagingCollection = "sales_records_test_staging"
)

func newTestStore(t *testing.T) (*SalesStore, *mongo.Database) {
	t.Helper()

	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("cần MongoDB thật: đặt TEST_MONGODB_URI để chạy test này")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("kết nối MongoDB thất bại: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Skipf("MongoDB không phản hồi tại %s: %v", uri, err)
	}

	db := client.Database("sales_data_test")
	t.Cleanup(func() {
		cctx, ccancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer ccancel()
		_ = db.Collection(testLiveCollection).Drop(cctx)
		_ = db.Collection(testStagingCollection).Drop(cctx)
		_ = client.Disconnect(cctx)
	})

	return NewSalesStore(db, testLiveCollection, testStagingCollection), db
}

// Nạp bộ B sau bộ A thì chỉ còn bộ B đọc được — không bản ghi nào của A sót lại.
func TestReplaceAll_SecondUploadReplacesFirst(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first := []models.SalesRecord{
		{SKU: "A-1", ProductName: "Áo thun", SalesAmount: 100, WeekLabel: "本周"},
		{SKU: "A-2", ProductName: "Quần jean", SalesAmount: 80, WeekLabel: "上周"},
	}
	if _, err := store.ReplaceAll(ctx, first); err != nil {
		t.Fatalf("nạp bộ dữ liệu đầu thất bại: %v", err)
	}

	second := []models.SalesRecord{
		{SKU: "B-1", ProductName: "Mũ lưỡi trai", SalesAmount: 50, WeekLabel: "本周"},
	}
	saved, err := store.ReplaceAll(ctx, second)
	if err != nil {
		t.Fatalf("nạp bộ dữ liệu thứ hai thất bại: %v", err)
	}
	if saved != 1 {
		t.Errorf("muốn 1 bản ghi được ghi, nhận %d", saved)
	}

	rows, err := store.Find(ctx, nil, nil)
	if err != nil {
		t.Fatalf("đọc lại kho thất bại: %v", err)
	}
	if len(rows) != 1 || rows[0].SKU != "B-1" {
		t.Fatalf("kho phải chỉ còn bộ thứ hai, nhận %+v", rows)
	}
	if rows[0].CreatedAt <= 0 || rows[0].UpdatedAt <= 0 {
		t.Errorf("bản ghi phải được đóng dấu createdAt/updatedAt khi ghi: %+v", rows[0])
	}
}

// Insert vào staging thất bại giữa chừng: kho trả về lỗi thay thế,
// bộ dữ liệu cũ vẫn nguyên vẹn và staging bị hủy.
func TestReplaceAll_InsertFailureKeepsOldDataAndDropsStaging(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	old := []models.SalesRecord{
		{SKU: "OLD-1", ProductName: "Giày thể thao", SalesAmount: 200, WeekLabel: "本周"},
	}
	if _, err := store.ReplaceAll(ctx, old); err != nil {
		t.Fatalf("nạp bộ dữ liệu cũ thất bại: %v", err)
	}

	// Hai bản ghi trùng _id làm InsertMany thất bại giữa batch
	dup := primitive.NewObjectID()
	bad := []models.SalesRecord{
		{ID: dup, SKU: "NEW-1", ProductName: "X", SalesAmount: 1, WeekLabel: "本周"},
		{ID: dup, SKU: "NEW-2", ProductName: "Y", SalesAmount: 2, WeekLabel: "本周"},
	}
	_, err := store.ReplaceAll(ctx, bad)
	if !errors.Is(err, common.ErrStoreReplace) {
		t.Fatalf("muốn lỗi thay thế kho, nhận %v", err)
	}

	// Bộ cũ vẫn là nguồn chân lý
	rows, err := store.Find(ctx, nil, nil)
	if err != nil {
		t.Fatalf("đọc lại kho thất bại: %v", err)
	}
	if len(rows) != 1 || rows[0].SKU != "OLD-1" {
		t.Fatalf("bộ dữ liệu cũ phải nguyên vẹn sau thất bại, nhận %+v", rows)
	}

	// Staging phải bị hủy, không để sót dữ liệu dở dang
	names, err := db.ListCollectionNames(ctx, bson.M{"name": testStagingCollection})
	if err != nil {
		t.Fatalf("liệt kê collection thất bại: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("staging phải bị hủy sau thất bại, vẫn còn %v", names)
	}
}
