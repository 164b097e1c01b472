// Package models - SalesRecord thuộc domain Sales.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SalesRecord là một dòng dữ liệu bán hàng đã được chuẩn hóa (sales_records).
// Mỗi lần upload file sẽ thay thế toàn bộ collection này.
type SalesRecord struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"` // MongoDB _id
	SKU          string             `json:"sku" bson:"sku"`                    // Mã hàng (bắt buộc)
	SPU          string             `json:"spu,omitempty" bson:"spu,omitempty"`
	ProductName  string             `json:"product_name" bson:"productName"` // Tên sản phẩm (bắt buộc)
	Platform     string             `json:"platform,omitempty" bson:"platform,omitempty"`
	Shop         string             `json:"shop,omitempty" bson:"shop,omitempty"`
	Site         string             `json:"site,omitempty" bson:"site,omitempty"`
	Warehouse    string             `json:"warehouse,omitempty" bson:"warehouse,omitempty"`
	BuyerCountry string             `json:"buyer_country,omitempty" bson:"buyerCountry,omitempty"`
	SalesPerson  string             `json:"sales_person,omitempty" bson:"salesPerson,omitempty"`
	OrderStatus  string             `json:"order_status,omitempty" bson:"orderStatus,omitempty"`
	OrderCount   int64              `json:"order_count" bson:"orderCount"`   // Số đơn hàng
	SalesVolume  float64            `json:"sales_volume" bson:"salesVolume"` // Số lượng bán (bắt buộc)
	SalesAmount  float64            `json:"sales_amount" bson:"salesAmount"` // Doanh thu (bắt buộc)
	Cost         float64            `json:"cost" bson:"cost"`
	Profit       float64            `json:"profit" bson:"profit"`
	ProfitRate   float64            `json:"profit_rate" bson:"profitRate"` // Phần trăm (vd: 23.5)
	WeekLabel    string             `json:"week_label" bson:"weekLabel"`                       // Nhãn tuần (vd: 本周, 上周) (bắt buộc)
	MonthLabel   string             `json:"month_label,omitempty" bson:"monthLabel,omitempty"` // Nhãn tháng (vd: 2024-03)
	CreatedAt    int64              `json:"createdAt,omitempty" bson:"createdAt,omitempty"`    // Unix millis
	UpdatedAt    int64              `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`    // Unix millis
}
