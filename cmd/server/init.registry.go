package main

import (
	"github.com/Nanford/crossborder-sales-analysis/config"
	"github.com/Nanford/crossborder-sales-analysis/internal/global"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

func InitRegistry() {

	logrus.Info("Initialized registry") // Ghi log thông báo đã khởi tạo registry

	// Khởi tạo registry và đăng ký database + các collections
	err := InitCollections(global.MongoDB_Session, global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to initialize collections: %v", err)
	}
	logrus.Info("Initialized collection registry")
}

// InitCollections khởi tạo và đăng ký database cùng các collections MongoDB
func InitCollections(client *mongo.Client, cfg *config.Configuration) error {
	db := client.Database(cfg.MongoDB_DBName)

	// Domain sales cần cả database (để thao tác staging/rename), không chỉ collection
	if _, err := global.RegistryDatabase.Register(cfg.MongoDB_DBName, db); err != nil {
		logrus.Errorf("Failed to register database %s: %v", cfg.MongoDB_DBName, err)
		return err
	}

	colNames := []string{
		global.MongoDB_ColNames.SalesRecords,
	}

	for _, name := range colNames {
		registered, err := global.RegistryCollections.Register(name, db.Collection(name))
		if err != nil {
			logrus.Errorf("Failed to register collection %s: %v", name, err)
			return err
		}

		if registered {
			logrus.Infof("Collection %s registered successfully", name)
		} else {
			logrus.Errorf("Collection %s already registered", name)
		}

	}

	return nil
}
