// services/notification_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rank-progression-system/apperr"
	"rank-progression-system/dto"
	"rank-progression-system/logger"
	"rank-progression-system/metrics"
	"rank-progression-system/models"
	"rank-progression-system/progression"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationService struct {
	DB  *gorm.DB
	log *logger.Logger
}

func NewNotificationService(db *gorm.DB, log *logger.Logger) *NotificationService {
	return &NotificationService{DB: db, log: log}
}

// NotifyRankAssignment is sent when a user receives their first rank.
func (s *NotificationService) NotifyRankAssignment(ctx context.Context, userID string, rank progression.Rank) (*models.Notification, error) {
	meta := encodeMetadata(rankAssignmentMetadata{
		RankLevel: rank.Level,
		RankName:  rank.Name,
		Branch:    string(rank.Branch),
	}).OrElse(func(error) string {
		return fmt.Sprintf(`{"rankLevel":%d}`, rank.Level)
	})
	return s.persist(ctx, userID, models.NotificationRankAssignment, titleRankAssignment, rankAssignmentContent(rank), meta)
}

func (s *NotificationService) NotifyRankPromotion(ctx context.Context, userID string, from, to progression.Rank) (*models.Notification, error) {
	meta := encodeMetadata(rankPromotionMetadata{
		OldRankLevel: from.Level,
		OldRankName:  from.Name,
		NewRankLevel: to.Level,
		NewRankName:  to.Name,
	}).OrElse(func(error) string {
		return fmt.Sprintf(`{"oldRankLevel":%d,"newRankLevel":%d}`, from.Level, to.Level)
	})
	return s.persist(ctx, userID, models.NotificationRankPromotion, titleRankPromotion, rankPromotionContent(from, to), meta)
}

func (s *NotificationService) NotifyMissionCompleted(ctx context.Context, userID string, mission *models.Mission) (*models.Notification, error) {
	meta := encodeMetadata(missionCompletedMetadata{
		MissionID:        mission.ID,
		MissionName:      mission.Name,
		ExperienceGained: mission.ExperienceReward,
		ManaGained:       mission.ManaReward,
	}).OrElse(minimalMetadata(models.NotificationMissionCompleted))
	return s.persist(ctx, userID, models.NotificationMissionCompleted, titleMissionCompleted, missionCompletedContent(mission), meta)
}

// NotifyArtifactAcquired records an artifact grant; source is "mission" or "shop".
func (s *NotificationService) NotifyArtifactAcquired(ctx context.Context, userID string, artifact *models.Artifact, source string) (*models.Notification, error) {
	meta := encodeMetadata(artifactAcquiredMetadata{
		ArtifactID:   artifact.ID,
		ArtifactName: artifact.Name,
		Rarity:       string(artifact.Rarity),
		Source:       source,
	}).OrElse(minimalMetadata(models.NotificationArtifactAcquired))
	return s.persist(ctx, userID, models.NotificationArtifactAcquired, titleArtifactAcquired, artifactAcquiredContent(artifact), meta)
}

func (s *NotificationService) NotifyShopPurchase(ctx context.Context, userID string, purchase *models.Purchase, item *models.ShopItem, manaLeft int64) (*models.Notification, error) {
	meta := encodeMetadata(shopPurchaseMetadata{
		PurchaseID: purchase.ID,
		ItemID:     item.ID,
		ItemName:   item.Name,
		Price:      purchase.Price,
		ManaLeft:   manaLeft,
	}).OrElse(minimalMetadata(models.NotificationShopPurchase))
	return s.persist(ctx, userID, models.NotificationShopPurchase, titleShopPurchase, shopPurchaseContent(item, manaLeft), meta)
}

func (s *NotificationService) NotifyCardAcquired(ctx context.Context, userID string, card *models.Card, reason string) (*models.Notification, error) {
	meta := encodeMetadata(cardAcquiredMetadata{
		CardID:   card.ID,
		CardName: card.Name,
		Rarity:   string(card.Rarity),
		Series:   card.Series,
	}).OrElse(minimalMetadata(models.NotificationCardAcquired))
	return s.persist(ctx, userID, models.NotificationCardAcquired, titleCardAcquired, cardAcquiredContent(card, reason), meta)
}

// Create stores a caller-composed notification, e.g. SYSTEM_MESSAGE or ACHIEVEMENT.
func (s *NotificationService) Create(ctx context.Context, req dto.CreateNotificationRequest) (*models.Notification, error) {
	kind := models.NotificationType(req.NotificationType)
	if !kind.Valid() {
		return nil, apperr.Validation(map[string]string{"notification_type": "unknown notification type"})
	}
	var meta []byte
	if req.Metadata != nil {
		meta = encodeMetadata(req.Metadata).OrElse(func(error) string { return "{}" })
	}
	return s.persist(ctx, req.UserID, kind, req.Title, req.Content, meta)
}

// persist writes an unread notification. Nothing is written when the user does not exist.
func (s *NotificationService) persist(ctx context.Context, userID string, kind models.NotificationType, title, content string, meta []byte) (*models.Notification, error) {
	n := &models.Notification{
		ID:               uuid.NewString(),
		UserID:           userID,
		Title:            title,
		Content:          content,
		NotificationType: kind,
		IsRead:           false,
		Metadata:         meta,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUserExists(tx, userID); err != nil {
			return err
		}
		return tx.Create(n).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordNotification(string(kind))
	s.log.Debug("notification created", "user_id", userID, "type", kind, "id", n.ID)
	return n, nil
}

// List returns a user's notifications newest first, with the total count.
// A negative limit returns every notification.
func (s *NotificationService) List(ctx context.Context, userID string, limit, offset int) ([]models.Notification, int64, error) {
	var total int64
	base := s.DB.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	var list []models.Notification
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	return list, total, nil
}

func (s *NotificationService) ListUnread(ctx context.Context, userID string) ([]models.Notification, error) {
	var list []models.Notification
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list unread notifications: %w", err)
	}
	return list, nil
}

func (s *NotificationService) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkAsRead is idempotent: ReadAt is set by the first call only.
func (s *NotificationService) MarkAsRead(ctx context.Context, id string) (*models.Notification, error) {
	var n models.Notification
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&n, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("notification", id)
			}
			return err
		}
		if n.IsRead {
			return nil
		}
		now := time.Now()
		res := tx.Model(&models.Notification{}).
			Where("id = ? AND is_read = ?", id, false).
			Updates(map[string]any{"is_read": true, "read_at": now})
		if res.Error != nil {
			return res.Error
		}
		n.IsRead = true
		if res.RowsAffected > 0 {
			n.ReadAt = &now
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// MarkAllAsRead flips every unread notification of the user and returns how many changed.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	res := s.DB.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]any{"is_read": true, "read_at": time.Now()})
	if res.Error != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *NotificationService) Delete(ctx context.Context, id string) error {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Notification{})
	if res.Error != nil {
		return fmt.Errorf("delete notification: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("notification", id)
	}
	return nil
}

// ListAfter returns notifications ordered after the (since, afterID) cursor, oldest first.
// Rows sharing the cursor timestamp are ordered by id.
func (s *NotificationService) ListAfter(ctx context.Context, userID string, since time.Time, afterID string) ([]models.Notification, error) {
	q := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	if afterID == "" {
		q = q.Where("created_at > ?", since)
	} else {
		q = q.Where("created_at > ? OR (created_at = ? AND id > ?)", since, since, afterID)
	}
	var list []models.Notification
	err := q.Order("created_at ASC, id ASC").Find(&list).Error
	return list, err
}

// PurgeRead removes read notifications older than cutoff.
func (s *NotificationService) PurgeRead(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&models.Notification{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge read notifications: %w", res.Error)
	}
	metrics.RecordPurged(res.RowsAffected)
	return res.RowsAffected, nil
}

func ensureUserExists(tx *gorm.DB, userID string) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if count == 0 {
		return apperr.NotFound("user", userID)
	}
	return nil
}
