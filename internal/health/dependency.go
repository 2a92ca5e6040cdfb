package health

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// PingChecker reports a dependency healthy when its ping returns nil.
type PingChecker struct {
	name string
	ping func(ctx context.Context) error
}

func (c *PingChecker) Check(ctx context.Context) CheckResult {
	res := CheckResult{Name: c.name, Healthy: true}
	if err := c.ping(ctx); err != nil {
		res.Healthy = false
		res.Error = err.Error()
	}
	return res
}

// NewDBChecker pings the product store's connection pool.
func NewDBChecker(db *gorm.DB) *PingChecker {
	return &PingChecker{name: "db", ping: func(ctx context.Context) error {
		if db == nil {
			return errors.New("db not configured")
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}}
}

// NewRedisChecker is registered only when the shared rate limiter is enabled.
func NewRedisChecker(client redis.UniversalClient) *PingChecker {
	return &PingChecker{name: "redis", ping: func(ctx context.Context) error {
		if client == nil {
			return errors.New("redis not configured")
		}
		return client.Ping(ctx).Err()
	}}
}
