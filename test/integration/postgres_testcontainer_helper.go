package integration

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/sandeepkv93/product-inventory-admin/internal/config"
	"github.com/sandeepkv93/product-inventory-admin/internal/database"
)

const defaultPostgresTestImage = "docker.io/library/postgres:16-alpine"

// newPostgresIntegrationDB starts a disposable Postgres and returns a migrated
// connection. Containers need Docker, so the test is skipped unless
// POSTGRES_INTEGRATION=1.
func newPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()
	if os.Getenv("POSTGRES_INTEGRATION") != "1" {
		t.Skip("set POSTGRES_INTEGRATION=1 to run Postgres container tests")
	}

	ctx := context.Background()
	image := os.Getenv("POSTGRES_TEST_IMAGE")
	if strings.TrimSpace(image) == "" {
		image = defaultPostgresTestImage
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image: image,
			Env: map[string]string{
				"POSTGRES_USER":     "inventory",
				"POSTGRES_PASSWORD": "inventory",
				"POSTGRES_DB":       "inventory",
			},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres test container: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("resolve postgres host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("resolve postgres port: %v", err)
	}

	db, err := database.Open(&config.Config{
		DatabaseDriver: config.DatabaseDriverPostgres,
		DatabaseURL:    fmt.Sprintf("postgres://inventory:inventory@%s:%s/inventory?sslmode=disable", host, port.Port()),
	})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate postgres: %v", err)
	}
	return db
}
