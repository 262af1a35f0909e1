package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bizadmin/internal/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger routes GORM traces into zap, scoped by the request logger when present.
type GormLogger struct {
	base          *zap.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

func NewGormLogger(base *zap.Logger, slow time.Duration) *GormLogger {
	if base == nil {
		base = logger.L()
	}
	return &GormLogger{base: base, level: gormlogger.Warn, slowThreshold: slow}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *GormLogger) log(ctx context.Context) *zap.Logger {
	return logger.FromOr(ctx, l.base).With(logger.Layer("db"))
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		l.log(ctx).Info(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		l.log(ctx).Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		l.log(ctx).Error(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		sql, rows := fc()
		l.log(ctx).Warn("sql error",
			zap.String("sql", sql), zap.Int64("rows", rows), logger.LatencyMs(elapsed), logger.Err(err))
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.log(ctx).Warn("slow sql",
			zap.String("sql", sql), zap.Int64("rows", rows), logger.LatencyMs(elapsed))
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.log(ctx).Debug("sql",
			zap.String("sql", sql), zap.Int64("rows", rows), logger.LatencyMs(elapsed))
	}
}
