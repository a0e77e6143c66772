// services/artifact_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"rank-progression-system/apperr"
	"rank-progression-system/dto"
	"rank-progression-system/logger"
	"rank-progression-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	artifactSourceMission = "mission"
	artifactSourceShop    = "shop"
)

// ImageUploader stores an object and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

type ArtifactService struct {
	DB       *gorm.DB
	uploader ImageUploader
	log      *logger.Logger
}

// NewArtifactService accepts a nil uploader; image uploads are then rejected.
func NewArtifactService(db *gorm.DB, uploader ImageUploader, log *logger.Logger) *ArtifactService {
	return &ArtifactService{DB: db, uploader: uploader, log: log}
}

func (s *ArtifactService) List(ctx context.Context) ([]models.Artifact, error) {
	var list []models.Artifact
	if err := s.DB.WithContext(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	return list, nil
}

func (s *ArtifactService) Create(ctx context.Context, in dto.CreateArtifactRequest) (*models.Artifact, error) {
	a := in.ToModel()
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUniqueName(tx, &models.Artifact{}, a.Name, a.Slug); err != nil {
			return err
		}
		return tx.Create(a).Error
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *ArtifactService) ListForUser(ctx context.Context, userID string) ([]models.UserArtifact, error) {
	if _, err := findUser(s.DB.WithContext(ctx), userID); err != nil {
		return nil, err
	}
	var list []models.UserArtifact
	err := s.DB.WithContext(ctx).
		Preload("Artifact").
		Where("user_id = ?", userID).
		Order("acquired_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list user artifacts: %w", err)
	}
	return list, nil
}

// UploadImage stores the artifact picture and saves its public URL.
func (s *ArtifactService) UploadImage(ctx context.Context, id, filename, contentType string, body io.Reader) (*models.Artifact, error) {
	if s.uploader == nil {
		return nil, apperr.BusinessRule(apperr.CodeStorageDisabled, "image storage is not configured")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperr.Validation(map[string]string{"image": "must be an image"})
	}

	artifact, err := findArtifact(s.DB.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("artifacts/%s/%s%s", artifact.Slug, uuid.NewString(), strings.ToLower(path.Ext(filename)))
	url, err := s.uploader.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("upload artifact image: %w", err)
	}

	if err := s.DB.WithContext(ctx).Model(artifact).Update("image_url", url).Error; err != nil {
		return nil, fmt.Errorf("save artifact image: %w", err)
	}
	artifact.ImageURL = url
	s.log.Info("artifact image uploaded", "artifact_id", artifact.ID, "key", key)
	return artifact, nil
}

func findArtifact(tx *gorm.DB, id string) (*models.Artifact, error) {
	var a models.Artifact
	if err := tx.First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("artifact", id)
		}
		return nil, err
	}
	return &a, nil
}

// grantArtifact adds the artifact to the user's collection inside tx.
func grantArtifact(tx *gorm.DB, userID, artifactID, source string) (*models.Artifact, error) {
	artifact, err := findArtifact(tx, artifactID)
	if err != nil {
		return nil, err
	}
	ua := models.UserArtifact{
		ID:         uuid.NewString(),
		UserID:     userID,
		ArtifactID: artifact.ID,
		Source:     source,
	}
	if err := tx.Create(&ua).Error; err != nil {
		return nil, fmt.Errorf("grant artifact: %w", err)
	}
	return artifact, nil
}
