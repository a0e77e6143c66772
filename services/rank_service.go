// services/rank_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rank-progression-system/apperr"
	"rank-progression-system/dto"
	"rank-progression-system/logger"
	"rank-progression-system/metrics"
	"rank-progression-system/models"
	"rank-progression-system/progression"

	"gorm.io/gorm"
)

type RankService struct {
	DB        *gorm.DB
	evaluator *progression.Evaluator
	log       *logger.Logger
}

func NewRankService(db *gorm.DB, evaluator *progression.Evaluator, log *logger.Logger) *RankService {
	if evaluator == nil {
		evaluator = progression.NewEvaluator(nil)
	}
	return &RankService{DB: db, evaluator: evaluator, log: log}
}

type PromotionResult struct {
	User *models.User
	From progression.Rank
	To   progression.Rank
}

// Eligibility is the read-only view of a user's standing against the next rank.
type Eligibility struct {
	User         *models.User
	Current      progression.Rank
	Next         *progression.Rank
	Requirements *models.RankRequirements
	Snapshot     progression.Snapshot
	Unmet        []progression.UnmetRequirement
	// Blocker holds the error that stops promotion before requirements are evaluated.
	Blocker *apperr.Error
}

func (e *Eligibility) CanPromote() bool {
	return e.Blocker == nil && len(e.Unmet) == 0
}

// Promote moves the user exactly one rank up when the next rank's requirements are met.
// It does not emit notifications.
func (s *RankService) Promote(ctx context.Context, userID string) (*PromotionResult, error) {
	var result *PromotionResult

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		el, err := s.eligibility(tx, userID)
		if err != nil {
			return err
		}
		if el.Blocker != nil {
			return el.Blocker
		}
		if len(el.Unmet) > 0 {
			details := make([]string, 0, len(el.Unmet))
			for _, u := range el.Unmet {
				details = append(details, u.Message)
			}
			return apperr.BusinessRule(
				apperr.CodeRequirementsNotMet,
				fmt.Sprintf("requirements for rank %q are not met: %s", el.Next.Name, strings.Join(details, "; ")),
				details...,
			)
		}

		// compare-and-swap on the rank we evaluated against
		res := tx.Model(&models.User{}).
			Where("id = ? AND rank = ?", el.User.ID, el.Current.Level).
			Update("rank", el.Next.Level)
		if res.Error != nil {
			return fmt.Errorf("update rank: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.BusinessRule(apperr.CodeRankChangedConcurrent, "rank was changed by another request, retry")
		}

		el.User.Rank = el.Next.Level
		result = &PromotionResult{User: el.User, From: el.Current, To: *el.Next}
		return nil
	})
	if err != nil {
		metrics.RecordPromotion(promotionOutcome(err))
		return nil, err
	}

	metrics.RecordPromotion("promoted")
	s.log.Info("user promoted", "user_id", userID, "from", result.From.Code, "to", result.To.Code)
	return result, nil
}

// CanPromote runs the same checks as Promote without changing anything.
// Only a missing user or a storage failure is returned as an error.
func (s *RankService) CanPromote(ctx context.Context, userID string) (bool, error) {
	el, err := s.Eligibility(ctx, userID)
	if err != nil {
		return false, err
	}
	return el.CanPromote(), nil
}

func (s *RankService) Eligibility(ctx context.Context, userID string) (*Eligibility, error) {
	return s.eligibility(s.DB.WithContext(ctx), userID)
}

func (s *RankService) eligibility(tx *gorm.DB, userID string) (*Eligibility, error) {
	user, err := findUser(tx, userID)
	if err != nil {
		return nil, err
	}

	el := &Eligibility{User: user}
	current, err := progression.RankByLevel(user.Rank)
	if err != nil {
		el.Current = progression.RankByLevelOrDefault(user.Rank)
		el.Blocker = apperr.BusinessRule(apperr.CodeUnknownRankLevel, err.Error())
		return el, nil
	}
	el.Current = current

	next, ok := current.Next()
	if !ok {
		el.Blocker = apperr.BusinessRule(apperr.CodeMaxRankReached, fmt.Sprintf("rank %q is the highest rank", current.Name))
		return el, nil
	}
	el.Next = &next

	var req models.RankRequirements
	if err := tx.Where("rank_level = ?", next.Level).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			el.Blocker = apperr.NotFound("rank requirements", next.Level)
			return el, nil
		}
		return nil, fmt.Errorf("load rank requirements: %w", err)
	}
	el.Requirements = &req
	if !req.IsActive {
		el.Blocker = apperr.BusinessRule(apperr.CodeRequirementsInactive, fmt.Sprintf("requirements for rank %q are inactive", next.Name))
		return el, nil
	}

	snap, err := loadSnapshot(tx, user)
	if err != nil {
		return nil, err
	}
	el.Snapshot = snap
	el.Unmet = s.evaluator.Unmet(snap, dto.ToRequirements(&req))
	return el, nil
}

// loadSnapshot collects completed mission names and per-competency points.
func loadSnapshot(tx *gorm.DB, user *models.User) (progression.Snapshot, error) {
	snap := progression.Snapshot{Experience: user.Experience}

	err := tx.Model(&models.UserMission{}).
		Joins("JOIN missions ON missions.id = user_missions.mission_id").
		Where("user_missions.user_id = ? AND user_missions.status = ?", user.ID, models.MissionStatusCompleted).
		Pluck("missions.name", &snap.CompletedMissionNames).Error
	if err != nil {
		return snap, fmt.Errorf("load completed missions: %w", err)
	}

	err = tx.Model(&models.UserCompetency{}).
		Where("user_id = ?", user.ID).
		Pluck("experience_points", &snap.CompetencyPoints).Error
	if err != nil {
		return snap, fmt.Errorf("load competencies: %w", err)
	}
	return snap, nil
}

func promotionOutcome(err error) string {
	if e, ok := apperr.As(err); ok {
		return e.Code
	}
	return "error"
}

/* ===================== REQUIREMENTS ===================== */

func (s *RankService) ListRequirements(ctx context.Context) ([]models.RankRequirements, error) {
	var list []models.RankRequirements
	if err := s.DB.WithContext(ctx).Order("rank_level ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list rank requirements: %w", err)
	}
	return list, nil
}

func (s *RankService) GetRequirements(ctx context.Context, id string) (*models.RankRequirements, error) {
	var req models.RankRequirements
	if err := s.DB.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("rank requirements", id)
		}
		return nil, err
	}
	return &req, nil
}

func (s *RankService) GetRequirementsByLevel(ctx context.Context, level int) (*models.RankRequirements, error) {
	if _, err := progression.RankByLevel(level); err != nil {
		return nil, apperr.BusinessRule(apperr.CodeUnknownRankLevel, err.Error())
	}
	var req models.RankRequirements
	if err := s.DB.WithContext(ctx).Where("rank_level = ?", level).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("rank requirements", level)
		}
		return nil, err
	}
	return &req, nil
}

func (s *RankService) CreateRequirements(ctx context.Context, in dto.CreateRankRequirementsRequest) (*models.RankRequirements, error) {
	req := in.ToModel()
	if err := validateRequirementLevel(req.RankLevel); err != nil {
		return nil, err
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureLevelFree(tx, req.RankLevel, ""); err != nil {
			return err
		}
		return tx.Create(req).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("rank requirements created", "id", req.ID, "rank_level", req.RankLevel)
	return req, nil
}

func (s *RankService) UpdateRequirements(ctx context.Context, id string, in dto.UpdateRankRequirementsRequest) (*models.RankRequirements, error) {
	var req models.RankRequirements
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("rank requirements", id)
			}
			return err
		}
		in.ApplyToModel(&req)
		if err := validateRequirementLevel(req.RankLevel); err != nil {
			return err
		}
		if err := ensureLevelFree(tx, req.RankLevel, req.ID); err != nil {
			return err
		}
		return tx.Save(&req).Error
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// DeactivateRequirements disables a rank's requirements; the row is kept.
func (s *RankService) DeactivateRequirements(ctx context.Context, id string) (*models.RankRequirements, error) {
	inactive := false
	return s.UpdateRequirements(ctx, id, dto.UpdateRankRequirementsRequest{IsActive: &inactive})
}

// validateRequirementLevel accepts catalog levels that can be promoted into.
func validateRequirementLevel(level int) error {
	if !progression.IsValidLevel(level) || level == progression.StartLevel {
		return apperr.Validation(map[string]string{
			"rank_level": fmt.Sprintf("must be between %d and %d", progression.StartLevel+1, progression.MaxLevel),
		})
	}
	return nil
}

func ensureLevelFree(tx *gorm.DB, level int, exceptID string) error {
	q := tx.Model(&models.RankRequirements{}).Where("rank_level = ?", level)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("check duplicate requirements: %w", err)
	}
	if count > 0 {
		return apperr.BusinessRule(apperr.CodeDuplicateRequirements, fmt.Sprintf("requirements for rank level %d already exist", level))
	}
	return nil
}

func findUser(tx *gorm.DB, userID string) (*models.User, error) {
	var user models.User
	if err := tx.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user", userID)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}
