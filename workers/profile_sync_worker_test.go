package workers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"rank-progression-system/database/dbtest"
	"rank-progression-system/logger"
	"rank-progression-system/models"
	"rank-progression-system/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	mu       sync.Mutex
	profiles []DirectoryProfile
	sinces   []string
	tokens   []string
	status   int
	// filterSince makes the directory return only profiles updated after ?since=.
	filterSince bool
}

func (d *fakeDirectory) set(profiles ...DirectoryProfile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.profiles = profiles
}

func (d *fakeDirectory) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r.URL.Path != ProfilesEndpoint {
		http.NotFound(w, r)
		return
	}
	d.sinces = append(d.sinces, r.URL.Query().Get("since"))
	d.tokens = append(d.tokens, r.Header.Get("X-Service-Token"))
	if d.status != 0 {
		http.Error(w, "directory down", d.status)
		return
	}
	users := d.profiles
	if d.filterSince {
		since, err := time.Parse(time.RFC3339, r.URL.Query().Get("since"))
		if err != nil {
			http.Error(w, "bad since", http.StatusBadRequest)
			return
		}
		users = nil
		for _, p := range d.profiles {
			if p.UpdatedAt.After(since) {
				users = append(users, p)
			}
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(profileChangesResponse{Users: users})
}

func newWorker(t *testing.T, dir *fakeDirectory) (*ProfileSyncWorker, *services.NotificationService) {
	t.Helper()
	db := dbtest.Open(t)
	srv := httptest.NewServer(dir)
	t.Cleanup(srv.Close)

	log := logger.Nop()
	notifications := services.NewNotificationService(db, log)
	return NewProfileSyncWorker(db, notifications, log, srv.URL, "dir-token", time.Minute), notifications
}

func strPtr(s string) *string { return &s }

func TestSyncOnceCreatesUsersAtStartRank(t *testing.T) {
	dir := &fakeDirectory{}
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	dir.set(
		DirectoryProfile{ExternalID: "hr-1", Username: "anna", Email: "Anna@Corp.io", FirstName: strPtr("Анна"), UpdatedAt: ts},
		DirectoryProfile{ExternalID: "hr-2", Username: "boris", UpdatedAt: ts.Add(time.Hour)},
	)
	w, notifications := newWorker(t, dir)
	ctx := context.Background()

	res, err := w.SyncOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Received: 2, Created: 2}, res)

	var users []models.User
	require.NoError(t, w.db.Order("username").Find(&users).Error)
	require.Len(t, users, 2)
	assert.Equal(t, "anna@corp.io", users[0].Email)
	assert.Equal(t, 0, users[0].Rank)

	list, total, err := notifications.List(ctx, users[0].ID, 10, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	assert.Equal(t, models.NotificationRankAssignment, list[0].NotificationType)

	assert.Equal(t, "0001-01-01T00:00:00Z", dir.sinces[0])
	assert.Equal(t, "dir-token", dir.tokens[0])
}

func TestSyncOnceUpdatesWithoutTouchingProgression(t *testing.T) {
	dir := &fakeDirectory{}
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	dir.set(DirectoryProfile{ExternalID: "hr-1", Username: "anna", UpdatedAt: ts})
	w, _ := newWorker(t, dir)
	ctx := context.Background()

	_, err := w.SyncOnce(ctx)
	require.NoError(t, err)

	var u models.User
	require.NoError(t, w.db.Where("external_id = ?", "hr-1").First(&u).Error)
	require.NoError(t, w.db.Model(&u).Updates(map[string]any{"rank": 3, "experience": 900}).Error)

	dir.set(DirectoryProfile{ExternalID: "hr-1", Username: "anna.k", Email: "anna@corp.io", UpdatedAt: ts.Add(time.Hour)})
	res, err := w.SyncOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Received: 1, Updated: 1}, res)

	var after models.User
	require.NoError(t, w.db.First(&after, "id = ?", u.ID).Error)
	assert.Equal(t, "anna.k", after.Username)
	assert.Equal(t, 3, after.Rank)
	assert.EqualValues(t, 900, after.Experience)

	var count int64
	require.NoError(t, w.db.Model(&models.Notification{}).Where("user_id = ?", u.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	require.Len(t, dir.sinces, 2)
	assert.Equal(t, ts.Format(time.RFC3339), dir.sinces[1])
}

func TestSyncOnceSkipsInvalidProfiles(t *testing.T) {
	dir := &fakeDirectory{}
	dir.set(
		DirectoryProfile{ExternalID: "", Username: "ghost"},
		DirectoryProfile{ExternalID: "hr-3", Username: "vera", UpdatedAt: time.Now().UTC()},
	)
	w, _ := newWorker(t, dir)

	res, err := w.SyncOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Failed)
}

func TestSyncOnceRetriesFailedProfilesOnNextPoll(t *testing.T) {
	dir := &fakeDirectory{filterSince: true}
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	dir.set(
		DirectoryProfile{ExternalID: "hr-1", Username: "anna", UpdatedAt: ts},
		DirectoryProfile{ExternalID: "hr-2", Username: "boris", UpdatedAt: ts.Add(time.Hour)},
	)
	w, _ := newWorker(t, dir)
	ctx := context.Background()

	// a local account already holds the username, so hr-1 hits the unique index
	local := models.User{ID: uuid.NewString(), Username: "anna"}
	require.NoError(t, w.db.Create(&local).Error)

	res, err := w.SyncOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Received: 2, Created: 1, Failed: 1}, res)

	require.NoError(t, w.db.Model(&local).Update("username", "anna.local").Error)

	res, err = w.SyncOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Received: 2, Created: 1, Updated: 1}, res)

	var synced models.User
	require.NoError(t, w.db.Where("external_id = ?", "hr-1").First(&synced).Error)
	assert.Equal(t, "anna", synced.Username)

	require.Len(t, dir.sinces, 2)
	assert.Equal(t, ts.Add(-time.Second).Format(time.RFC3339), dir.sinces[1])

	// once everything succeeded the cursor moves past the whole batch
	_, err = w.SyncOnce(ctx)
	require.NoError(t, err)
	require.Len(t, dir.sinces, 3)
	assert.Equal(t, ts.Add(time.Hour).Format(time.RFC3339), dir.sinces[2])
}

func TestSyncOnceReportsDirectoryErrors(t *testing.T) {
	dir := &fakeDirectory{status: http.StatusBadGateway}
	w, _ := newWorker(t, dir)

	_, err := w.SyncOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestRunStopsOnCancel(t *testing.T) {
	dir := &fakeDirectory{}
	w, _ := newWorker(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
}
