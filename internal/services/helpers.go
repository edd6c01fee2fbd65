package services

import (
	"context"
	"fmt"
	"time"

	"estate_backend/internal/logger"
	"estate_backend/internal/metrics"
	"estate_backend/internal/services/dto"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = defaultPage
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// recordSideEffectFailure фиксирует несработавший побочный эффект: отчет, метрика, лог.
func recordSideEffectFailure(ctx context.Context, report *dto.SideEffectReport, kind, target string, err error) {
	report.Add(kind, target, err)
	metrics.SideEffectFailures.WithLabelValues(kind).Inc()
	logger.CtxWarn(ctx, "Side effect failed", "kind", kind, "target", target, "error", err)
}

// timeAgo - человекочитаемый возраст записи для ленты уведомлений.
func timeAgo(now, t time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}

	days := int(diff.Hours() / 24)
	switch {
	case days > 7:
		return t.Format("Jan 02, 2006")
	case days > 0:
		return plural(days, "day") + " ago"
	case diff >= time.Hour:
		return plural(int(diff.Hours()), "hour") + " ago"
	case diff >= time.Minute:
		return plural(int(diff.Minutes()), "minute") + " ago"
	default:
		return "Just now"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func strPtr(s string) *string {
	return &s
}
