package main

import (
	"context"

	"github.com/Nanford/crossborder-sales-analysis/config"
	"github.com/Nanford/crossborder-sales-analysis/internal/database"
	"github.com/Nanford/crossborder-sales-analysis/internal/global"

	"github.com/sirupsen/logrus"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
}

// Hàm khởi tạo tên các collection trong database
func initColNames() {
	global.MongoDB_ColNames.SalesRecords = "sales_records"
	global.MongoDB_ColNames.SalesRecordsStaging = "sales_records_staging"

	logrus.Info("Initialized collection names") // Ghi log thông báo đã khởi tạo tên các collection
}

// Hàm khởi tạo validator (dùng global.InitValidator để đăng ký custom validators: no_xss, month_label, ...)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator") // Ghi log thông báo đã khởi tạo validator
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.MongoDB_ServerConfig = config.NewConfig()
	if global.MongoDB_ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil") // Ghi log lỗi nếu khởi tạo cấu hình thất bại
	}
	logrus.Info("Initialized server config") // Ghi log thông báo đã khởi tạo cấu hình server
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err) // Ghi log lỗi nếu kết nối database thất bại
	}
	logrus.Info("Connected to MongoDB") // Ghi log thông báo đã kết nối database thành công

	// Khởi tạo các index cho collection bản ghi bán hàng.
	// Lưu ý: index phải được tạo lại sau mỗi lần thay thế dữ liệu (rename collection
	// không giữ index của collection cũ) — SalesStore.ReplaceAll tự lo việc này.
	dbName := global.MongoDB_ServerConfig.MongoDB_DBName
	collection := global.MongoDB_Session.Database(dbName).Collection(global.MongoDB_ColNames.SalesRecords)
	if err := database.CreateSalesIndexes(context.TODO(), collection); err != nil {
		logrus.Warnf("Failed to create sales indexes: %v", err)
	}
}
