// services/mission_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rank-progression-system/apperr"
	"rank-progression-system/dto"
	"rank-progression-system/logger"
	"rank-progression-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MissionService struct {
	DB            *gorm.DB
	notifications *NotificationService
	log           *logger.Logger
}

func NewMissionService(db *gorm.DB, notifications *NotificationService, log *logger.Logger) *MissionService {
	return &MissionService{DB: db, notifications: notifications, log: log}
}

type MissionCompletion struct {
	UserMission *models.UserMission
	User        *models.User
	Artifact    *models.Artifact
}

func (s *MissionService) List(ctx context.Context, activeOnly bool) ([]models.Mission, error) {
	q := s.DB.WithContext(ctx).Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var list []models.Mission
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list missions: %w", err)
	}
	return list, nil
}

func (s *MissionService) Create(ctx context.Context, in dto.CreateMissionRequest) (*models.Mission, error) {
	m := in.ToModel()
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUniqueName(tx, &models.Mission{}, m.Name, m.Slug); err != nil {
			return err
		}
		if m.CompetencyID != nil {
			if _, err := findCompetency(tx, *m.CompetencyID, ""); err != nil {
				return err
			}
		}
		if m.ArtifactID != nil {
			if _, err := findArtifact(tx, *m.ArtifactID); err != nil {
				return err
			}
		}
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("mission created", "id", m.ID, "name", m.Name)
	return m, nil
}

// Start marks the mission IN_PROGRESS for the user. Starting again is a no-op.
func (s *MissionService) Start(ctx context.Context, missionID, userID string) (*models.UserMission, error) {
	var um models.UserMission
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		mission, err := findMission(tx, missionID)
		if err != nil {
			return err
		}
		if !mission.IsActive {
			return apperr.BusinessRule(apperr.CodeMissionInactive, fmt.Sprintf("mission %q is not active", mission.Name))
		}
		if _, err := findUser(tx, userID); err != nil {
			return err
		}

		existing, err := findUserMission(tx, userID, missionID)
		if err != nil {
			return err
		}
		now := time.Now()
		switch {
		case existing == nil:
			um = models.UserMission{
				ID:        uuid.NewString(),
				UserID:    userID,
				MissionID: missionID,
				Status:    models.MissionStatusInProgress,
				StartedAt: &now,
			}
			if err := tx.Create(&um).Error; err != nil {
				return err
			}
		case existing.Status == models.MissionStatusCompleted:
			return apperr.BusinessRule(apperr.CodeMissionAlreadyComplete, fmt.Sprintf("mission %q is already completed", mission.Name))
		case existing.Status == models.MissionStatusInProgress:
			um = *existing
		default:
			existing.Status = models.MissionStatusInProgress
			existing.StartedAt = &now
			if err := tx.Save(existing).Error; err != nil {
				return err
			}
			um = *existing
		}
		um.Mission = *mission
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &um, nil
}

// Complete finishes the mission and pays out its rewards in one transaction.
// Notifications are sent after commit; their failures are logged only.
func (s *MissionService) Complete(ctx context.Context, missionID, userID string) (*MissionCompletion, error) {
	var (
		result  MissionCompletion
		mission *models.Mission
	)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		mission, err = findMission(tx, missionID)
		if err != nil {
			return err
		}
		if !mission.IsActive {
			return apperr.BusinessRule(apperr.CodeMissionInactive, fmt.Sprintf("mission %q is not active", mission.Name))
		}
		if _, err := findUser(tx, userID); err != nil {
			return err
		}

		existing, err := findUserMission(tx, userID, missionID)
		if err != nil {
			return err
		}
		now := time.Now()
		if existing == nil {
			existing = &models.UserMission{
				ID:          uuid.NewString(),
				UserID:      userID,
				MissionID:   missionID,
				Status:      models.MissionStatusCompleted,
				StartedAt:   &now,
				CompletedAt: &now,
			}
			if err := tx.Create(existing).Error; err != nil {
				return err
			}
		} else {
			// conditional so two concurrent completions pay out once
			res := tx.Model(&models.UserMission{}).
				Where("id = ? AND status <> ?", existing.ID, models.MissionStatusCompleted).
				Updates(map[string]any{"status": models.MissionStatusCompleted, "completed_at": now})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperr.BusinessRule(apperr.CodeMissionAlreadyComplete, fmt.Sprintf("mission %q is already completed", mission.Name))
			}
			existing.Status = models.MissionStatusCompleted
			existing.CompletedAt = &now
		}
		existing.Mission = *mission
		result.UserMission = existing

		if mission.ExperienceReward > 0 || mission.ManaReward > 0 {
			err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
				"experience": gorm.Expr("experience + ?", mission.ExperienceReward),
				"mana":       gorm.Expr("mana + ?", mission.ManaReward),
			}).Error
			if err != nil {
				return fmt.Errorf("apply mission rewards: %w", err)
			}
		}

		if mission.CompetencyID != nil && mission.CompetencyReward > 0 {
			if err := addCompetencyPoints(tx, userID, *mission.CompetencyID, mission.CompetencyReward); err != nil {
				return fmt.Errorf("apply competency reward: %w", err)
			}
		}

		if mission.ArtifactID != nil {
			artifact, err := grantArtifact(tx, userID, *mission.ArtifactID, artifactSourceMission)
			if err != nil {
				return err
			}
			result.Artifact = artifact
		}

		result.User, err = findUser(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("mission completed", "user_id", userID, "mission", mission.Name)
	if _, err := s.notifications.NotifyMissionCompleted(ctx, userID, mission); err != nil {
		s.log.Warn("mission notification failed", "user_id", userID, "error", err)
	}
	if result.Artifact != nil {
		if _, err := s.notifications.NotifyArtifactAcquired(ctx, userID, result.Artifact, artifactSourceMission); err != nil {
			s.log.Warn("artifact notification failed", "user_id", userID, "error", err)
		}
	}
	return &result, nil
}

func (s *MissionService) ListForUser(ctx context.Context, userID string) ([]models.UserMission, error) {
	if _, err := findUser(s.DB.WithContext(ctx), userID); err != nil {
		return nil, err
	}
	var list []models.UserMission
	err := s.DB.WithContext(ctx).
		Preload("Mission").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list user missions: %w", err)
	}
	return list, nil
}

func findMission(tx *gorm.DB, id string) (*models.Mission, error) {
	var m models.Mission
	if err := tx.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("mission", id)
		}
		return nil, err
	}
	return &m, nil
}

// findUserMission returns nil without error when the user never touched the mission.
func findUserMission(tx *gorm.DB, userID, missionID string) (*models.UserMission, error) {
	var um models.UserMission
	err := tx.Where("user_id = ? AND mission_id = ?", userID, missionID).First(&um).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &um, nil
}

// ensureUniqueName rejects a name or slug already used by another row of model's table.
func ensureUniqueName(tx *gorm.DB, model any, name, slug string) error {
	var count int64
	if err := tx.Model(model).Where("name = ? OR slug = ?", name, slug).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.BusinessRule(apperr.CodeDuplicateName, fmt.Sprintf("%q already exists", name))
	}
	return nil
}
