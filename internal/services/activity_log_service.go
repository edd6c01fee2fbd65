package services

import (
	"context"
	"fmt"
	"strings"

	"estate_backend/internal/logger"
	"estate_backend/internal/metrics"
	"estate_backend/internal/models"
	"estate_backend/internal/repositories"
	"estate_backend/internal/services/dto"
	"estate_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ActivityLogService interface {
	Record(ctx context.Context, db *gorm.DB, userID, action string) (*models.ActivityLog, error)
	List(ctx context.Context, db *gorm.DB, actor models.Actor, criteria dto.ActivityLogCriteria) (*dto.ActivityLogListResponse, error)
	BulkDelete(ctx context.Context, db *gorm.DB, actor models.Actor, req *dto.BulkDeleteLogsRequest) (*dto.BulkDeleteLogsResult, error)
}

type activityLogService struct {
	logRepo repositories.ActivityLogRepository
}

func NewActivityLogService(logRepo repositories.ActivityLogRepository) ActivityLogService {
	return &activityLogService{logRepo: logRepo}
}

// Record проверяет только наличие актора: текст действия свободный и может быть пустым.
func (s *activityLogService) Record(ctx context.Context, db *gorm.DB, userID, action string) (*models.ActivityLog, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.ErrInvalidArgument("activity_log", "actor id is required")
	}

	entry := &models.ActivityLog{
		UserID: userID,
		Action: action,
	}
	if err := s.logRepo.CreateLog(db, entry); err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return entry, nil
}

func (s *activityLogService) List(ctx context.Context, db *gorm.DB, actor models.Actor, criteria dto.ActivityLogCriteria) (*dto.ActivityLogListResponse, error) {
	page, pageSize := normalizePage(criteria.Page, criteria.PageSize)

	// Не-админ видит только собственный журнал, фильтр user_id игнорируется
	userID := actor.UserID
	if actor.IsAdmin() {
		userID = criteria.UserID
	}

	logs, total, err := s.logRepo.FindLogs(db, repositories.ActivityLogCriteria{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	items := make([]*dto.ActivityLogResponse, 0, len(logs))
	for _, l := range logs {
		items = append(items, &dto.ActivityLogResponse{
			ID:        l.ID,
			UserID:    l.UserID,
			Action:    l.Action,
			Timestamp: l.CreatedAt,
		})
	}

	return &dto.ActivityLogListResponse{
		Logs:       items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// BulkDelete удаляет записи журнала. Админ удаляет любые записи, остальные - только свои.
// Чужие и несуществующие id молча пропускаются.
func (s *activityLogService) BulkDelete(ctx context.Context, db *gorm.DB, actor models.Actor, req *dto.BulkDeleteLogsRequest) (*dto.BulkDeleteLogsResult, error) {
	ids := uniqueNonEmpty(req.LogIDs)
	if len(ids) == 0 {
		return nil, apperrors.ErrInvalidArgument("activity_log", "no log ids provided")
	}

	ownerID := actor.UserID
	if actor.IsAdmin() {
		ownerID = ""
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.DatabaseError(tx.Error)
	}
	defer tx.Rollback()

	found, err := s.logRepo.FindLogIDs(tx, ids, ownerID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if len(found) == 0 {
		return nil, apperrors.ErrNoLogsToDelete
	}

	deleted, err := s.logRepo.DeleteLogs(tx, found)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	result := &dto.BulkDeleteLogsResult{
		DeletedCount: deleted,
		DeletedIDs:   found,
	}

	action := fmt.Sprintf("Bulk deleted %d activity log(s)", deleted)
	if _, err := s.Record(ctx, db, actor.UserID, action); err != nil {
		recordSideEffectFailure(ctx, &result.SideEffectReport, metrics.KindActivityLog, actor.UserID, err)
	}

	logger.CtxInfo(ctx, "Activity logs deleted", "count", deleted, "admin", actor.IsAdmin())
	return result, nil
}

func uniqueNonEmpty(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
