package health

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestDBCheckerPingsSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:health_db_checker?mode=memory&cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if res := NewDBChecker(db).Check(context.Background()); !res.Healthy {
		t.Fatalf("expected healthy db, got %+v", res)
	}

	sqlDB, _ := db.DB()
	_ = sqlDB.Close()
	if res := NewDBChecker(db).Check(context.Background()); res.Healthy || res.Error == "" {
		t.Fatalf("expected closed db to be unhealthy, got %+v", res)
	}
	if res := NewDBChecker(nil).Check(context.Background()); res.Healthy {
		t.Fatal("expected unconfigured db to be unhealthy")
	}
}

func TestRedisCheckerAgainstMiniredis(t *testing.T) {
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	if res := NewRedisChecker(client).Check(context.Background()); !res.Healthy || res.Name != "redis" {
		t.Fatalf("expected healthy redis, got %+v", res)
	}
	m.Close()
	if res := NewRedisChecker(client).Check(context.Background()); res.Healthy {
		t.Fatal("expected unhealthy redis after shutdown")
	}
}
