package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm/clause"

	"github.com/kendraSO/site/core/module"
)

// ModuleStatus is one row of the module_status table: a module as it was
// registered at the last startup.
type ModuleStatus struct {
	ID       string         `gorm:"column:id;primaryKey;type:varchar(64)"`
	App      string         `gorm:"column:app;type:varchar(64);not null"`
	Position int            `gorm:"column:position;not null"`
	Provides datatypes.JSON `gorm:"column:provides"`
	Depends  datatypes.JSON `gorm:"column:depends"`
	BootedAt time.Time      `gorm:"column:booted_at;not null"`
}

func (ModuleStatus) TableName() string {
	return "module_status"
}

// Capabilities decodes Provides.
func (s ModuleStatus) Capabilities() ([]module.Capability, error) {
	var out []module.Capability
	if len(s.Provides) == 0 {
		return out, nil
	}
	err := json.Unmarshal(s.Provides, &out)
	return out, err
}

// Status provides the status capability: it records the registered modules
// in the database so other processes can see what an application booted with.
type Status struct {
	host module.Host
}

// NewStatus returns the status module.
func NewStatus(host module.Host) *Status {
	return &Status{host: host}
}

func (s *Status) Provides() []module.Capability { return []module.Capability{module.CapStatus} }
func (s *Status) Depends() []module.Capability  { return []module.Capability{module.CapDatabase} }

// Init migrates module_status and upserts a row per registered module.
func (s *Status) Init(ctx context.Context) error {
	dbModule, err := module.Lookup[*Module](s.host, module.CapDatabase)
	if err != nil {
		return err
	}
	db := dbModule.DB().WithContext(ctx)
	if err := db.AutoMigrate(&ModuleStatus{}); err != nil {
		return fmt.Errorf("migrate module_status: %w", err)
	}

	now := time.Now().In(s.host.Location())
	infos := s.host.Registered()
	rows := make([]ModuleStatus, 0, len(infos))
	for i, info := range infos {
		provides, err := json.Marshal(module.Strings(info.Provides))
		if err != nil {
			return err
		}
		depends, err := json.Marshal(module.Strings(info.Depends))
		if err != nil {
			return err
		}
		rows = append(rows, ModuleStatus{
			ID:       info.ID,
			App:      s.host.ID(),
			Position: i,
			Provides: datatypes.JSON(provides),
			Depends:  datatypes.JSON(depends),
			BootedAt: now,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	err = db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("record module status: %w", err)
	}
	s.host.Logger().Debug("module status recorded", "modules", len(rows))
	return nil
}

// List returns the recorded modules ordered by application and position.
func List(ctx context.Context, dbModule *Module) ([]ModuleStatus, error) {
	var rows []ModuleStatus
	err := dbModule.DB().WithContext(ctx).Order("app").Order("position").Find(&rows).Error
	return rows, err
}
