package server

import (
	"context"
	"os"

	"atlas/internal/model"
	"atlas/pkg/log"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateServer struct {
	db  *gorm.DB
	log *log.Logger
}

func NewMigrateServer(db *gorm.DB, log *log.Logger) *MigrateServer {
	return &MigrateServer{
		db:  db,
		log: log,
	}
}

// Models 需要迁移的全部记录类型
func Models() []interface{} {
	return []interface{}{
		&model.Code{},
		&model.Instance{},
		&model.Route{},
		&model.Site{},
		&model.Statistics{},
		&model.Backup{},
		&model.Command{},
		&model.JobResult{},
	}
}

func (m *MigrateServer) Start(ctx context.Context) error {
	if err := m.db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		m.log.Error("migrate error", zap.Error(err))
		return err
	}
	m.log.Info("AutoMigrate success", zap.Int("tables", len(Models())))
	os.Exit(0)
	return nil
}

func (m *MigrateServer) Stop(ctx context.Context) error {
	m.log.Info("AutoMigrate stop")
	return nil
}
