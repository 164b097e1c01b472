// Package database - Index cho dữ liệu bán hàng, phục vụ các pipeline so sánh theo kỳ.
package database

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateSalesIndexes tạo các index cho collection bản ghi bán hàng.
// Các truy vấn so sánh luôn lọc theo nhãn kỳ (tuần/tháng) rồi group theo chiều,
// nên index theo nhãn kỳ là quan trọng nhất. Nhận collection thay vì database
// để dùng được cho cả collection staging trước khi rename.
func CreateSalesIndexes(ctx context.Context, salesRecords *mongo.Collection) error {

	// (weekLabel, sku) — mọi pipeline tuần đều match weekLabel trước khi group
	if _, err := salesRecords.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "weekLabel", Value: 1},
			{Key: "sku", Value: 1},
		},
		Options: options.Index().SetName("sales_week_sku"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// (monthLabel, sku) — pipeline tháng, và distinct monthLabel cho available-months
	if _, err := salesRecords.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "monthLabel", Value: 1},
			{Key: "sku", Value: 1},
		},
		Options: options.Index().SetName("sales_month_sku"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// Các chiều group phụ: quốc gia, nền tảng, nhân viên bán hàng
	for name, field := range map[string]string{
		"sales_week_country":  "buyerCountry",
		"sales_week_platform": "platform",
		"sales_week_person":   "salesPerson",
	} {
		if _, err := salesRecords.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{
				{Key: "weekLabel", Value: 1},
				{Key: field, Value: 1},
			},
			Options: options.Index().SetName(name),
		}); err != nil && !isIndexExistsError(err) {
			return err
		}
	}

	return nil
}

func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "already exists") || strings.Contains(s, "duplicate")
}
