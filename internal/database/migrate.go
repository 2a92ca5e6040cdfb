package database

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sandeepkv93/product-inventory-admin/internal/domain"
	"github.com/sandeepkv93/product-inventory-admin/internal/observability"
)

func models() []any {
	return []any{&domain.Product{}}
}

func Migrate(db *gorm.DB) error {
	ctx := context.Background()
	start := time.Now()
	defer func() { observability.RecordDatabaseStartupDuration(ctx, "migrate", time.Since(start)) }()

	if err := db.AutoMigrate(models()...); err != nil {
		observability.RecordDatabaseStartupEvent(ctx, "migrate", "error")
		return err
	}
	observability.RecordDatabaseStartupEvent(ctx, "migrate", "success")
	return nil
}

// PlanMigration lists the schema changes Migrate would make without applying
// them. Column type drift is not reported.
func PlanMigration(db *gorm.DB) ([]string, error) {
	m := db.Migrator()
	steps := make([]string, 0)
	for _, model := range models() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, err
		}
		table := stmt.Schema.Table
		if !m.HasTable(model) {
			steps = append(steps, "create table "+table)
			continue
		}
		for _, field := range stmt.Schema.Fields {
			if field.DBName == "" {
				continue
			}
			if !m.HasColumn(model, field.DBName) {
				steps = append(steps, "add column "+table+"."+field.DBName)
			}
		}
		for _, idx := range stmt.Schema.ParseIndexes() {
			if !m.HasIndex(model, idx.Name) {
				steps = append(steps, "create index "+idx.Name)
			}
		}
	}
	return steps, nil
}
