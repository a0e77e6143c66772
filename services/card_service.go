// services/card_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rank-progression-system/apperr"
	"rank-progression-system/dto"
	"rank-progression-system/logger"
	"rank-progression-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CardService struct {
	DB            *gorm.DB
	notifications *NotificationService
	log           *logger.Logger
}

func NewCardService(db *gorm.DB, notifications *NotificationService, log *logger.Logger) *CardService {
	return &CardService{DB: db, notifications: notifications, log: log}
}

func (s *CardService) List(ctx context.Context) ([]models.Card, error) {
	var list []models.Card
	if err := s.DB.WithContext(ctx).Order("series ASC, name ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return list, nil
}

func (s *CardService) Create(ctx context.Context, in dto.CreateCardRequest) (*models.Card, error) {
	card := in.ToModel()
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUniqueName(tx, &models.Card{}, card.Name, card.Slug); err != nil {
			return err
		}
		return tx.Create(card).Error
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// Grant awards a card to the user. A user may hold several copies of the same card.
func (s *CardService) Grant(ctx context.Context, cardID, userID string, in dto.GrantCardRequest) (*models.UserCard, error) {
	var uc models.UserCard
	reason := strings.TrimSpace(in.Reason)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var card models.Card
		if err := tx.First(&card, "id = ?", cardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("card", cardID)
			}
			return err
		}
		if _, err := findUser(tx, userID); err != nil {
			return err
		}
		uc = models.UserCard{
			ID:         uuid.NewString(),
			UserID:     userID,
			CardID:     card.ID,
			AwardedFor: reason,
		}
		if err := tx.Create(&uc).Error; err != nil {
			return err
		}
		uc.Card = card
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("card granted", "user_id", userID, "card", uc.Card.Name)
	if _, err := s.notifications.NotifyCardAcquired(ctx, userID, &uc.Card, reason); err != nil {
		s.log.Warn("card notification failed", "user_id", userID, "error", err)
	}
	return &uc, nil
}

func (s *CardService) ListForUser(ctx context.Context, userID string) ([]models.UserCard, error) {
	if _, err := findUser(s.DB.WithContext(ctx), userID); err != nil {
		return nil, err
	}
	var list []models.UserCard
	err := s.DB.WithContext(ctx).
		Preload("Card").
		Where("user_id = ?", userID).
		Order("awarded_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list user cards: %w", err)
	}
	return list, nil
}
