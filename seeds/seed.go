// Package seeds loads the default catalog (competencies, artifacts, cards,
// missions, shop items and rank requirements) from embedded YAML.
// Every record is skipped when its natural key already exists, so seeding is
// safe to repeat.
package seeds

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"rank-progression-system/dto"
	"rank-progression-system/logger"
	"rank-progression-system/models"
	"rank-progression-system/utils"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed data/*.yaml
var embedded embed.FS

type competencySeed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type artifactSeed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Rarity      string `yaml:"rarity"`
}

type cardSeed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Series      string `yaml:"series"`
	Rarity      string `yaml:"rarity"`
}

type missionSeed struct {
	Name             string `yaml:"name"`
	Description      string `yaml:"description"`
	Branch           string `yaml:"branch"`
	ExperienceReward int64  `yaml:"experience_reward"`
	ManaReward       int64  `yaml:"mana_reward"`
	Competency       string `yaml:"competency"`
	CompetencyReward int64  `yaml:"competency_reward"`
	Artifact         string `yaml:"artifact"`
}

type shopItemSeed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Emoji       string `yaml:"emoji"`
	Price       int64  `yaml:"price"`
	Stock       *int64 `yaml:"stock"`
	Artifact    string `yaml:"artifact"`
}

type requirementSeed struct {
	RankLevel                int      `yaml:"rank_level"`
	RequiredExperience       int64    `yaml:"required_experience"`
	RequiredMission          string   `yaml:"required_mission"`
	RequiredCompetencyPoints int64    `yaml:"required_competency_points"`
	CompetencyNames          []string `yaml:"competency_names"`
	Description              string   `yaml:"description"`
}

// Catalog is the merged content of every seed file.
type Catalog struct {
	Competencies []competencySeed  `yaml:"competencies"`
	Artifacts    []artifactSeed    `yaml:"artifacts"`
	Cards        []cardSeed        `yaml:"cards"`
	Missions     []missionSeed     `yaml:"missions"`
	ShopItems    []shopItemSeed    `yaml:"shop_items"`
	Requirements []requirementSeed `yaml:"requirements"`
}

// Kinds lists the seeded record kinds in insertion order.
var Kinds = []string{"competencies", "artifacts", "cards", "missions", "shop_items", "requirements"}

// Summary counts inserted and skipped records per kind.
type Summary struct {
	Inserted map[string]int
	Skipped  map[string]int
}

func (s Summary) add(kind string, inserted bool) {
	if inserted {
		s.Inserted[kind]++
	} else {
		s.Skipped[kind]++
	}
}

// LoadCatalog reads every *.yaml file under fsys/data and merges them.
func LoadCatalog(fsys fs.FS) (*Catalog, error) {
	files, err := fs.Glob(fsys, "data/*.yaml")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("no seed files found")
	}

	var cat Catalog
	for _, name := range files {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		var part Catalog
		if err := yaml.Unmarshal(raw, &part); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		cat.Competencies = append(cat.Competencies, part.Competencies...)
		cat.Artifacts = append(cat.Artifacts, part.Artifacts...)
		cat.Cards = append(cat.Cards, part.Cards...)
		cat.Missions = append(cat.Missions, part.Missions...)
		cat.ShopItems = append(cat.ShopItems, part.ShopItems...)
		cat.Requirements = append(cat.Requirements, part.Requirements...)
	}
	return &cat, nil
}

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(embedded)
}

type Seeder struct {
	DB  *gorm.DB
	log *logger.Logger
}

func NewSeeder(db *gorm.DB, log *logger.Logger) *Seeder {
	return &Seeder{DB: db, log: log}
}

// Run inserts the catalog in dependency order inside one transaction.
func (s *Seeder) Run(ctx context.Context, cat *Catalog) (Summary, error) {
	sum := Summary{Inserted: map[string]int{}, Skipped: map[string]int{}}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			name string
			fn   func(*gorm.DB, *Catalog, Summary) error
		}{
			{"competencies", seedCompetencies},
			{"artifacts", seedArtifacts},
			{"cards", seedCards},
			{"missions", seedMissions},
			{"shop_items", seedShopItems},
			{"requirements", seedRequirements},
		}
		for _, step := range steps {
			if err := step.fn(tx, cat, sum); err != nil {
				return fmt.Errorf("seed %s: %w", step.name, err)
			}
		}
		return nil
	})
	if err != nil {
		return sum, err
	}

	for _, kind := range Kinds {
		s.log.Info("seeded", "kind", kind, "inserted", sum.Inserted[kind], "skipped", sum.Skipped[kind])
	}
	return sum, nil
}

// exists reports whether a row of model matches the condition.
func exists(tx *gorm.DB, model any, query string, args ...any) (bool, error) {
	var n int64
	if err := tx.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func seedCompetencies(tx *gorm.DB, cat *Catalog, sum Summary) error {
	for _, c := range cat.Competencies {
		name := utils.NormalizeName(c.Name)
		found, err := exists(tx, &models.Competency{}, "name = ?", name)
		if err != nil {
			return err
		}
		if !found {
			if err := tx.Create(&models.Competency{ID: uuid.NewString(), Name: name, Description: c.Description}).Error; err != nil {
				return err
			}
		}
		sum.add("competencies", !found)
	}
	return nil
}

func seedArtifacts(tx *gorm.DB, cat *Catalog, sum Summary) error {
	for _, a := range cat.Artifacts {
		req := dto.CreateArtifactRequest{Name: a.Name, Description: a.Description, Rarity: a.Rarity}
		if err := dto.Validate(req); err != nil {
			return fmt.Errorf("artifact %q: %w", a.Name, err)
		}
		m := req.ToModel()
		found, err := exists(tx, &models.Artifact{}, "name = ? OR slug = ?", m.Name, m.Slug)
		if err != nil {
			return err
		}
		if !found {
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}
		sum.add("artifacts", !found)
	}
	return nil
}

func seedCards(tx *gorm.DB, cat *Catalog, sum Summary) error {
	for _, c := range cat.Cards {
		req := dto.CreateCardRequest{Name: c.Name, Description: c.Description, Series: c.Series, Rarity: c.Rarity}
		if err := dto.Validate(req); err != nil {
			return fmt.Errorf("card %q: %w", c.Name, err)
		}
		m := req.ToModel()
		found, err := exists(tx, &models.Card{}, "name = ? OR slug = ?", m.Name, m.Slug)
		if err != nil {
			return err
		}
		if !found {
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}
		sum.add("cards", !found)
	}
	return nil
}

func seedMissions(tx *gorm.DB, cat *Catalog, sum Summary) error {
	for _, ms := range cat.Missions {
		req := dto.CreateMissionRequest{
			Name:             ms.Name,
			Description:      ms.Description,
			Branch:           ms.Branch,
			ExperienceReward: ms.ExperienceReward,
			ManaReward:       ms.ManaReward,
			CompetencyReward: ms.CompetencyReward,
		}
		if ms.Competency != "" {
			id, err := idByName(tx, &models.Competency{}, ms.Competency)
			if err != nil {
				return fmt.Errorf("mission %q: %w", ms.Name, err)
			}
			req.CompetencyID = &id
		}
		if ms.Artifact != "" {
			id, err := idByName(tx, &models.Artifact{}, ms.Artifact)
			if err != nil {
				return fmt.Errorf("mission %q: %w", ms.Name, err)
			}
			req.ArtifactID = &id
		}
		if err := dto.Validate(req); err != nil {
			return fmt.Errorf("mission %q: %w", ms.Name, err)
		}

		m := req.ToModel()
		found, err := exists(tx, &models.Mission{}, "name = ? OR slug = ?", m.Name, m.Slug)
		if err != nil {
			return err
		}
		if !found {
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}
		sum.add("missions", !found)
	}
	return nil
}

func seedShopItems(tx *gorm.DB, cat *Catalog, sum Summary) error {
	for _, it := range cat.ShopItems {
		req := dto.CreateShopItemRequest{
			Name:        it.Name,
			Description: it.Description,
			Emoji:       it.Emoji,
			Price:       it.Price,
			Stock:       it.Stock,
		}
		if it.Artifact != "" {
			id, err := idByName(tx, &models.Artifact{}, it.Artifact)
			if err != nil {
				return fmt.Errorf("shop item %q: %w", it.Name, err)
			}
			req.ArtifactID = &id
		}
		if err := dto.Validate(req); err != nil {
			return fmt.Errorf("shop item %q: %w", it.Name, err)
		}

		m := req.ToModel()
		found, err := exists(tx, &models.ShopItem{}, "name = ? OR slug = ?", m.Name, m.Slug)
		if err != nil {
			return err
		}
		if !found {
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}
		sum.add("shop_items", !found)
	}
	return nil
}

func seedRequirements(tx *gorm.DB, cat *Catalog, sum Summary) error {
	for _, r := range cat.Requirements {
		req := dto.CreateRankRequirementsRequest{
			RankLevel:                r.RankLevel,
			RequiredExperience:       r.RequiredExperience,
			RequiredCompetencyPoints: r.RequiredCompetencyPoints,
			CompetencyNames:          r.CompetencyNames,
			Description:              r.Description,
		}
		if r.RequiredMission != "" {
			mission := r.RequiredMission
			req.RequiredMissionName = &mission
		}
		if err := dto.Validate(req); err != nil {
			return fmt.Errorf("requirements for level %d: %w", r.RankLevel, err)
		}

		found, err := exists(tx, &models.RankRequirements{}, "rank_level = ?", r.RankLevel)
		if err != nil {
			return err
		}
		if !found {
			if err := tx.Create(req.ToModel()).Error; err != nil {
				return err
			}
		}
		sum.add("requirements", !found)
	}
	return nil
}

// idByName resolves a catalog reference written by name in the YAML.
func idByName(tx *gorm.DB, model any, name string) (string, error) {
	var ids []string
	if err := tx.Model(model).Where("name = ?", utils.NormalizeName(name)).Limit(1).Pluck("id", &ids).Error; err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("unknown reference %q", name)
	}
	return ids[0], nil
}
