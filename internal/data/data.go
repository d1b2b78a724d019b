package data

import (
	"context"
	"fmt"
	"time"

	"github.com/yixianOu/movie-rating/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewData,
	NewMovieRepo,
	NewRatingRepo,
	NewRankingRepo,
	NewStatsRepo,
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
)

// Data encapsulates database and cache connections
type Data struct {
	db  *gorm.DB
	rdb *redis.Client
	log *log.Helper
}

// Open opens a gorm handle for the given driver
func Open(driver, source string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres, "":
		dialector = postgres.Open(source)
	case DriverSQLite:
		dialector = sqlite.Dialector{DriverName: "sqlite", DSN: source}
	case DriverMySQL:
		dialector = mysql.Open(source)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
}

// NewData creates Data instance with database and Redis connections
func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	l := log.NewHelper(logger)

	db, err := Open(c.Database.Driver, c.Database.Source)
	if err != nil {
		l.Errorf("failed to connect to database: %v", err)
		return nil, nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		l.Errorf("failed to get database instance: %v", err)
		return nil, nil, err
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(orDefault(c.Database.MaxIdleConns, 10))
	sqlDB.SetMaxOpenConns(orDefault(c.Database.MaxOpenConns, 100))
	if lifetime := c.Database.ConnMaxLifetime.AsDuration(); lifetime > 0 {
		sqlDB.SetConnMaxLifetime(lifetime)
	} else {
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	l.Infof("database connected successfully (driver=%s)", driverName(c.Database.Driver))

	if c.Database.AutoMigrate {
		if err := RunMigrations(context.Background(), db, c.Database.Driver); err != nil {
			l.Errorf("failed to run migrations: %v", err)
			_ = sqlDB.Close()
			return nil, nil, err
		}
		l.Info("database migrations applied")
	}

	rdb := newRedis(c.Redis, l)

	data := &Data{
		db:  db,
		rdb: rdb,
		log: l,
	}

	cleanup := func() {
		l.Info("closing data resources")
		if data.rdb != nil {
			if err := data.rdb.Close(); err != nil {
				l.Errorf("failed to close redis: %v", err)
			}
		}
		if err := sqlDB.Close(); err != nil {
			l.Errorf("failed to close database: %v", err)
		}
	}

	return data, cleanup, nil
}

// Ping checks the database connection
func (d *Data) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// newRedis returns nil when redis is not configured or not reachable.
// Leaderboards are optional; everything else works without them.
func newRedis(c *conf.Data_Redis, l *log.Helper) *redis.Client {
	if c == nil || c.Addr == "" {
		l.Info("redis not configured, leaderboards disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.Db,
		ReadTimeout:  c.ReadTimeout.AsDuration(),
		WriteTimeout: c.WriteTimeout.AsDuration(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		l.Warnf("failed to connect to redis: %v", err)
		_ = rdb.Close()
		return nil
	}
	l.Info("redis connected successfully")
	return rdb
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func driverName(driver string) string {
	if driver == "" {
		return DriverPostgres
	}
	return driver
}
