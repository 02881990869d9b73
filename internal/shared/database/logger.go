package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lavictoria/club-api/internal/config"
	"github.com/lavictoria/club-api/internal/shared/logger"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// GormLogger routes GORM output through the request logger so SQL lines carry the request id.
type GormLogger struct {
	level         gormlogger.LogLevel
	slowThreshold time.Duration
	// hideParams drops bound values from logged SQL; they include document numbers.
	hideParams bool
}

func NewLogger(cfg *config.Config) gormlogger.Interface {
	level := gormlogger.Info
	switch {
	case cfg.IsProduction():
		level = gormlogger.Error
	case cfg.App.Env == "test":
		level = gormlogger.Warn
	}

	return &GormLogger{
		level:         level,
		slowThreshold: slowQueryThreshold,
		hideParams:    cfg.IsProduction(),
	}
}

func (l *GormLogger) log(ctx context.Context) *slog.Logger {
	return logger.FromContext(ctx).With("component", "gorm")
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		l.log(ctx).InfoContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		l.log(ctx).WarnContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		l.log(ctx).ErrorContext(ctx, fmt.Sprintf(msg, data...))
	}
}

// ParamsFilter is called by GORM before rendering SQL for Trace.
func (l *GormLogger) ParamsFilter(_ context.Context, sql string, params ...any) (string, []any) {
	if l.hideParams {
		return sql, nil
	}
	return sql, params
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	attrs := []any{"elapsed", elapsed.String(), "rows", rows, "sql", sql}

	switch {
	// not found is a domain outcome, services decide whether to log it
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		l.log(ctx).ErrorContext(ctx, "Database query error", append(attrs, "error", err)...)
	case elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		l.log(ctx).WarnContext(ctx, "Slow SQL query", append(attrs, "threshold", l.slowThreshold.String())...)
	case l.level >= gormlogger.Info:
		l.log(ctx).DebugContext(ctx, "SQL query executed", attrs...)
	}
}
