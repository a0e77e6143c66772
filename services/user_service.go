// services/user_service.go
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
	"rank-progression-system/progression"
	"rank-progression-system/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserService struct {
	DB            *gorm.DB
	ranks         *RankService
	notifications *NotificationService
	log           *logger.Logger
}

func NewUserService(db *gorm.DB, ranks *RankService, notifications *NotificationService, log *logger.Logger) *UserService {
	return &UserService{DB: db, ranks: ranks, notifications: notifications, log: log}
}

// Create registers a user at the starting rank and sends the rank assignment notification.
func (s *UserService) Create(ctx context.Context, in dto.CreateUserRequest) (*models.User, error) {
	user := in.ToModel()

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.BusinessRule(apperr.CodeDuplicateName, fmt.Sprintf("username %q is taken", user.Username))
		}
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, err
	}

	s.assignStartingRank(ctx, user)
	return user, nil
}

func (s *UserService) assignStartingRank(ctx context.Context, user *models.User) {
	start := progression.RankByLevelOrDefault(user.Rank)
	if _, err := s.notifications.NotifyRankAssignment(ctx, user.ID, start); err != nil {
		s.log.Warn("rank assignment notification failed", "user_id", user.ID, "error", err)
	}
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return findUser(s.DB.WithContext(ctx), id)
}

// Progress reports the user's standing against the next rank.
func (s *UserService) Progress(ctx context.Context, id string) (*dto.ProgressResponse, error) {
	el, err := s.ranks.Eligibility(ctx, id)
	if err != nil {
		return nil, err
	}
	competencies, err := s.Competencies(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &dto.ProgressResponse{
		User:              dto.NewUserResponse(el.User),
		CompletedMissions: el.Snapshot.CompletedMissionNames,
		Competencies:      competencies,
		Unmet:             el.Unmet,
		CanPromote:        el.CanPromote(),
	}
	if resp.CompletedMissions == nil {
		resp.CompletedMissions = []string{}
	}
	if resp.Unmet == nil {
		resp.Unmet = []progression.UnmetRequirement{}
	}
	if el.Next != nil {
		next := dto.NewRankResponse(*el.Next)
		resp.NextRank = &next
	}
	if el.Requirements != nil {
		req := dto.NewRankRequirementsResponse(el.Requirements)
		resp.Requirements = &req
	}
	if el.Blocker != nil {
		resp.Blocker = el.Blocker.Code
	}
	return resp, nil
}

func (s *UserService) Competencies(ctx context.Context, userID string) ([]dto.CompetencyProgress, error) {
	var rows []models.UserCompetency
	err := s.DB.WithContext(ctx).
		Preload("Competency").
		Where("user_id = ?", userID).
		Order("experience_points DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load competencies: %w", err)
	}
	out := make([]dto.CompetencyProgress, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.CompetencyProgress{
			CompetencyID: r.CompetencyID,
			Name:         r.Competency.Name,
			Points:       r.ExperiencePoints,
		})
	}
	return out, nil
}

// AwardCompetency adds points to one competency of the user.
func (s *UserService) AwardCompetency(ctx context.Context, userID string, in dto.AwardCompetencyRequest) (*models.UserCompetency, error) {
	if strings.TrimSpace(in.CompetencyID) == "" && strings.TrimSpace(in.CompetencyName) == "" {
		return nil, apperr.Validation(map[string]string{"competency_id": "competency_id or competency_name is required"})
	}

	var uc models.UserCompetency
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findUser(tx, userID); err != nil {
			return err
		}
		comp, err := findCompetency(tx, in.CompetencyID, in.CompetencyName)
		if err != nil {
			return err
		}
		if err := addCompetencyPoints(tx, userID, comp.ID, in.Points); err != nil {
			return err
		}
		return tx.Preload("Competency").
			Where("user_id = ? AND competency_id = ?", userID, comp.ID).
			First(&uc).Error
	})
	if err != nil {
		return nil, err
	}
	return &uc, nil
}

// GrantExperience adds experience. Promotion stays an explicit action.
func (s *UserService) GrantExperience(ctx context.Context, userID string, in dto.GrantExperienceRequest) (*models.User, error) {
	var user *models.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("experience", gorm.Expr("experience + ?", in.Experience))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("user", userID)
		}
		var err error
		user, err = findUser(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("experience granted", "user_id", userID, "experience", in.Experience, "reason", in.Reason)
	return user, nil
}

func findCompetency(tx *gorm.DB, id, name string) (*models.Competency, error) {
	var comp models.Competency
	q := tx
	var key any
	if id = strings.TrimSpace(id); id != "" {
		q, key = q.Where("id = ?", id), id
	} else {
		name = utils.NormalizeName(name)
		q, key = q.Where("name = ?", name), name
	}
	if err := q.First(&comp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("competency", key)
		}
		return nil, err
	}
	return &comp, nil
}

// addCompetencyPoints upserts the (user, competency) row and increments its points.
func addCompetencyPoints(tx *gorm.DB, userID, competencyID string, points int64) error {
	row := models.UserCompetency{
		ID:               uuid.NewString(),
		UserID:           userID,
		CompetencyID:     competencyID,
		ExperiencePoints: points,
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "competency_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"experience_points": gorm.Expr("user_competencies.experience_points + ?", points),
		}),
	}).Create(&row).Error
}
