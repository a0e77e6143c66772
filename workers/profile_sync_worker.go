// workers/profile_sync_worker.go
package workers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"rank-progression-system/logger"
	"rank-progression-system/models"
	"rank-progression-system/progression"
	"rank-progression-system/services"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	ProfilesEndpoint = "/api/v1/public/profiles"
	maxResponseBytes = 10 << 20
)

// DirectoryProfile is one employee record returned by the HR directory.
type DirectoryProfile struct {
	ExternalID string    `json:"external_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  *string   `json:"first_name,omitempty"`
	LastName   *string   `json:"last_name,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type profileChangesResponse struct {
	Users []DirectoryProfile `json:"users"`
}

// SyncResult summarises one batch.
type SyncResult struct {
	Received int
	Created  int
	Updated  int
	Failed   int
}

// ProfileSyncWorker mirrors employee profiles from the HR directory into users.
// Newly seen employees start at the first rank and get a rank assignment notification.
type ProfileSyncWorker struct {
	db            *gorm.DB
	notifications *services.NotificationService
	log           *logger.Logger
	interval      time.Duration
	baseURL       string
	serviceToken  string
	httpClient    *http.Client

	mu     sync.Mutex
	cursor time.Time
}

func NewProfileSyncWorker(db *gorm.DB, notifications *services.NotificationService, log *logger.Logger, baseURL, serviceToken string, interval time.Duration) *ProfileSyncWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ProfileSyncWorker{
		db:            db,
		notifications: notifications,
		log:           log.With("worker", "profile_sync"),
		interval:      interval,
		baseURL:       baseURL,
		serviceToken:  serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Run backfills everything once, then polls for changes until ctx is done.
func (w *ProfileSyncWorker) Run(ctx context.Context) error {
	w.log.Info("starting profile sync", "base_url", w.baseURL, "interval", w.interval.String())

	if _, err := w.SyncOnce(ctx); err != nil {
		w.log.Warn("initial profile sync failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.SyncOnce(ctx); err != nil {
				w.log.Error("profile sync batch failed", "error", err)
			}
		case <-ctx.Done():
			w.log.Info("profile sync stopped")
			return nil
		}
	}
}

// SyncOnce fetches profiles changed since the last seen update and upserts them.
func (w *ProfileSyncWorker) SyncOnce(ctx context.Context) (SyncResult, error) {
	w.mu.Lock()
	since := w.cursor
	w.mu.Unlock()

	profiles, err := w.fetch(ctx, since)
	if err != nil {
		return SyncResult{}, err
	}
	res := SyncResult{Received: len(profiles)}
	if len(profiles) == 0 {
		w.log.Debug("no profile changes", "since", since.UTC().Format(time.RFC3339))
		return res, nil
	}

	latest := since
	var oldestFailed *time.Time
	for i := range profiles {
		p := &profiles[i]
		created, err := w.upsert(ctx, p)
		switch {
		case err != nil:
			res.Failed++
			if oldestFailed == nil || p.UpdatedAt.Before(*oldestFailed) {
				oldestFailed = &p.UpdatedAt
			}
			w.log.Warn("profile upsert failed", "external_id", p.ExternalID, "username", p.Username, "error", err)
			continue
		case created:
			res.Created++
		default:
			res.Updated++
		}
		if p.UpdatedAt.After(latest) {
			latest = p.UpdatedAt
		}
	}

	// The cursor stays below the oldest failed profile so the next poll fetches it again.
	if oldestFailed != nil {
		if hold := oldestFailed.Add(-time.Nanosecond); hold.Before(latest) {
			latest = hold
		}
		if latest.Before(since) {
			latest = since
		}
	}

	w.mu.Lock()
	w.cursor = latest
	w.mu.Unlock()

	w.log.Info("profiles synced",
		"received", res.Received,
		"created", res.Created,
		"updated", res.Updated,
		"failed", res.Failed,
		"cursor", latest.UTC().Format(time.RFC3339),
	)
	return res, nil
}

func (w *ProfileSyncWorker) fetch(ctx context.Context, since time.Time) ([]DirectoryProfile, error) {
	base, err := url.Parse(w.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid directory URL %q: %w", w.baseURL, err)
	}
	endpoint := base.JoinPath(ProfilesEndpoint)
	q := endpoint.Query()
	q.Set("since", since.UTC().Format(time.RFC3339))
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build directory request: %w", err)
	}
	if w.serviceToken != "" {
		req.Header.Set("X-Service-Token", w.serviceToken)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("directory returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read directory response: %w", err)
	}
	var out profileChangesResponse
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode directory response: %w", err)
	}
	return out.Users, nil
}

// upsert writes one profile keyed by external_id and reports whether the user is new.
func (w *ProfileSyncWorker) upsert(ctx context.Context, p *DirectoryProfile) (bool, error) {
	externalID := strings.TrimSpace(p.ExternalID)
	username := strings.TrimSpace(p.Username)
	if externalID == "" || username == "" {
		return false, errors.New("profile without external_id or username")
	}

	var created bool
	user := models.User{
		ID:         uuid.NewString(),
		ExternalID: &externalID,
		Username:   username,
		Email:      strings.ToLower(strings.TrimSpace(p.Email)),
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Rank:       progression.StartLevel,
	}

	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.User{}).Where("external_id = ?", externalID).Count(&existing).Error; err != nil {
			return err
		}
		created = existing == 0

		// progression columns are never touched by the directory
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "email", "first_name", "last_name", "updated_at"}),
		}).Create(&user).Error; err != nil {
			return err
		}
		if created {
			return nil
		}
		var stored models.User
		if err := tx.Where("external_id = ?", externalID).First(&stored).Error; err != nil {
			return err
		}
		user = stored
		return nil
	})
	if err != nil {
		return false, err
	}

	if created {
		start := progression.RankByLevelOrDefault(user.Rank)
		if _, err := w.notifications.NotifyRankAssignment(ctx, user.ID, start); err != nil {
			w.log.Warn("rank assignment notification failed", "user_id", user.ID, "error", err)
		}
	}
	return created, nil
}
