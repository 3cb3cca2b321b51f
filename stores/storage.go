package stores

import (
	"gjinn/config"
	"gjinn/core"
	"gjinn/stores/aws"
	"gjinn/stores/filesystem"
	"gjinn/stores/memory"
	"gjinn/stores/sqlite"

	"github.com/sirupsen/logrus"
)

// Store is a union interface that includes all store types.
type Store interface {
	core.WishStore
	core.SettingsStore
	core.ShareStore
}

// GetStore selects the persistence backend from configuration. The
// in-memory store is the default; it keeps the session working with no
// durable storage configured.
func GetStore(cfg *config.Config) Store {
	var store Store

	storageField := logrus.Fields{
		"storageType": cfg.StorageType,
	}

	switch cfg.StorageType {
	case "filesystem":
		storageField["basePath"] = cfg.DataDir
		store = filesystem.NewStore(cfg.DataDir)
	case "sqlite":
		storageField["dataSourceName"] = cfg.DataSourceName
		store = sqlite.NewStore(cfg.DataSourceName)
	case "s3":
		if cfg.S3Bucket == "" {
			logrus.Fatal("GJINN_S3_BUCKET_NAME must be set for s3 storage type")
		}
		storageField["bucketName"] = cfg.S3Bucket
		store = aws.NewStore(cfg.S3Bucket)
	default:
		store = memory.NewStore()
		storageField["storageType"] = "in-memory"
	}
	logrus.WithFields(storageField).Info("Use storage")
	return store
}
