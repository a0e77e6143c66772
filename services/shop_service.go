// services/shop_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"rank-progression-system/apperr"
	"rank-progression-system/dto"
	"rank-progression-system/logger"
	"rank-progression-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShopService struct {
	DB            *gorm.DB
	notifications *NotificationService
	log           *logger.Logger
}

func NewShopService(db *gorm.DB, notifications *NotificationService, log *logger.Logger) *ShopService {
	return &ShopService{DB: db, notifications: notifications, log: log}
}

type PurchaseResult struct {
	Purchase *models.Purchase
	User     *models.User
	Artifact *models.Artifact
}

func (s *ShopService) ListItems(ctx context.Context, activeOnly bool) ([]models.ShopItem, error) {
	q := s.DB.WithContext(ctx).Order("price ASC, name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var list []models.ShopItem
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list shop items: %w", err)
	}
	return list, nil
}

func (s *ShopService) CreateItem(ctx context.Context, in dto.CreateShopItemRequest) (*models.ShopItem, error) {
	item := in.ToModel()
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUniqueName(tx, &models.ShopItem{}, item.Name, item.Slug); err != nil {
			return err
		}
		if item.ArtifactID != nil {
			if _, err := findArtifact(tx, *item.ArtifactID); err != nil {
				return err
			}
		}
		return tx.Create(item).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("shop item created", "id", item.ID, "name", item.Name, "price", item.Price)
	return item, nil
}

// Purchase spends the user's mana on an item. Stock and balance are
// decremented with conditional updates so concurrent buyers cannot overdraw.
func (s *ShopService) Purchase(ctx context.Context, itemID, userID string) (*PurchaseResult, error) {
	var (
		result PurchaseResult
		item   models.ShopItem
	)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("shop item", itemID)
			}
			return err
		}
		if !item.IsActive {
			return apperr.BusinessRule(apperr.CodeItemInactive, fmt.Sprintf("item %q is not for sale", item.Name))
		}
		user, err := findUser(tx, userID)
		if err != nil {
			return err
		}

		if item.Stock != nil {
			res := tx.Model(&models.ShopItem{}).
				Where("id = ? AND stock > 0", item.ID).
				Update("stock", gorm.Expr("stock - 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperr.BusinessRule(apperr.CodeOutOfStock, fmt.Sprintf("item %q is out of stock", item.Name))
			}
		}

		res := tx.Model(&models.User{}).
			Where("id = ? AND mana >= ?", user.ID, item.Price).
			Update("mana", gorm.Expr("mana - ?", item.Price))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.BusinessRule(apperr.CodeInsufficientMana,
				fmt.Sprintf("item %q costs %d mana, balance is %d", item.Name, item.Price, user.Mana))
		}

		purchase := &models.Purchase{
			ID:         uuid.NewString(),
			UserID:     user.ID,
			ShopItemID: item.ID,
			Price:      item.Price,
		}
		if err := tx.Create(purchase).Error; err != nil {
			return err
		}
		purchase.ShopItem = item
		result.Purchase = purchase

		if item.ArtifactID != nil {
			artifact, err := grantArtifact(tx, user.ID, *item.ArtifactID, artifactSourceShop)
			if err != nil {
				return err
			}
			result.Artifact = artifact
		}

		result.User, err = findUser(tx, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("shop purchase", "user_id", userID, "item", item.Name, "price", item.Price)
	if _, err := s.notifications.NotifyShopPurchase(ctx, userID, result.Purchase, &item, result.User.Mana); err != nil {
		s.log.Warn("purchase notification failed", "user_id", userID, "error", err)
	}
	if result.Artifact != nil {
		if _, err := s.notifications.NotifyArtifactAcquired(ctx, userID, result.Artifact, artifactSourceShop); err != nil {
			s.log.Warn("artifact notification failed", "user_id", userID, "error", err)
		}
	}
	return &result, nil
}

func (s *ShopService) ListPurchases(ctx context.Context, userID string) ([]models.Purchase, error) {
	var list []models.Purchase
	err := s.DB.WithContext(ctx).
		Preload("ShopItem").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	return list, nil
}
