package services

import (
	"context"
	"fmt"

	"estate_backend/internal/metrics"
	"estate_backend/internal/services/dto"

	"gorm.io/gorm"
)

// sideEffects - уведомления и записи журнала после коммита.
// Ошибки не возвращаются, а попадают в отчет операции.
type sideEffects struct {
	notifications NotificationService
	logs          ActivityLogService
}

func (e sideEffects) notify(ctx context.Context, db *gorm.DB, report *dto.SideEffectReport, input dto.NotifyInput) {
	if _, err := e.notifications.Notify(ctx, db, input); err != nil {
		target := fmt.Sprintf("%s:%s", input.RecipientRole, input.RecipientID)
		recordSideEffectFailure(ctx, report, metrics.KindNotification, target, err)
	}
}

func (e sideEffects) notifyAdmins(ctx context.Context, db *gorm.DB, report *dto.SideEffectReport, input dto.AdminNotifyInput) {
	if _, err := e.notifications.NotifyAllAdmins(ctx, db, input); err != nil {
		recordSideEffectFailure(ctx, report, metrics.KindNotification, "admins", err)
	}
}

func (e sideEffects) record(ctx context.Context, db *gorm.DB, report *dto.SideEffectReport, userID, action string) {
	if _, err := e.logs.Record(ctx, db, userID, action); err != nil {
		recordSideEffectFailure(ctx, report, metrics.KindActivityLog, userID, err)
	}
}
