package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/dmitrijs2005/gophmedia/internal/dbx"
	sc "github.com/dmitrijs2005/gophmedia/internal/server/config"
	"github.com/dmitrijs2005/gophmedia/internal/server/models"
	"github.com/dmitrijs2005/gophmedia/internal/server/repositories/assets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	rows      map[string]*models.Asset
	createErr error
}

func (r *memRepo) Create(ctx context.Context, a *models.Asset) error {
	if r.createErr != nil {
		return r.createErr
	}
	c := *a
	r.rows[a.ContentID] = &c
	return nil
}

func (r *memRepo) Get(ctx context.Context, contentID string) (*models.Asset, error) {
	a, ok := r.rows[contentID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *a
	return &c, nil
}

func (r *memRepo) Commit(ctx context.Context, a *models.Asset) error {
	cur, ok := r.rows[a.ContentID]
	if !ok || cur.Status != models.AssetStatusInitialized {
		return common.ErrorConflict
	}
	c := *a
	c.Status = models.AssetStatusCommitted
	r.rows[a.ContentID] = &c
	a.Status = models.AssetStatusCommitted
	return nil
}

type memManager struct{ repo *memRepo }

func (m *memManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memManager) Assets(dbx.DBTX) assets.Repository            { return m.repo }

type fakePresigner struct {
	keys map[string]string
	err  error
}

func (p *fakePresigner) PresignPut(ctx context.Context, keys map[string]string) (map[string]string, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.keys = keys
	out := make(map[string]string, len(keys))
	for k, v := range keys {
		out[k] = "https://signed/" + v
	}
	return out, nil
}

func (p *fakePresigner) PublicURL(key string) string { return "https://cdn/" + key }

type fixture struct {
	svc       *AssetService
	repo      *memRepo
	presigner *fakePresigner
	mock      sqlmock.Sqlmock
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := &memRepo{rows: map[string]*models.Asset{}}
	p := &fakePresigner{}
	cfg := &sc.Config{PresignExpiry: 15 * time.Minute, DefaultExpirationHours: 24}
	svc := NewAssetService(db, &memManager{repo: repo}, p, cfg)

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	return &fixture{svc: svc, repo: repo, presigner: p, mock: mock, now: now}
}

func (f *fixture) init(t *testing.T, variants ...string) *InitResult {
	t.Helper()
	res, err := f.svc.InitAsset(context.Background(), "u1", &models.Asset{
		ID: "i1", FileName: "cat.png", ContentType: "image/png", Kind: "image", Size: 4000, Variants: variants,
	})
	require.NoError(t, err)
	return res
}

func TestInitAsset(t *testing.T) {
	f := newFixture(t)

	res := f.init(t, "original", "small")

	require.NotEmpty(t, res.ContentID)
	assert.Equal(t, f.now.Add(15*time.Minute), res.ExpiresAt)
	require.Len(t, res.WriteURLs, 2)

	base := f.repo.rows[res.ContentID].StorageKey
	assert.True(t, strings.HasPrefix(base, "users/u1/2026/05/01/"), base)
	assert.Equal(t, "https://signed/"+base+"/cat.png", res.WriteURLs["original"])
	assert.Equal(t, "https://signed/"+base+"/small/cat.png", res.WriteURLs["small"])

	row := f.repo.rows[res.ContentID]
	assert.Equal(t, models.AssetStatusInitialized, row.Status)
	assert.Equal(t, "u1", row.UserID)
	assert.Equal(t, []string{"original", "small"}, row.Variants)
}

func TestInitAsset_VideoDerivedKeysArePNG(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.InitAsset(context.Background(), "u1", &models.Asset{
		ID: "v1", FileName: "clip.mp4", ContentType: "video/mp4", Kind: "video", Size: 900,
		Variants: []string{"original", "video_preview", "small"},
	})
	require.NoError(t, err)

	base := f.repo.rows[res.ContentID].StorageKey
	assert.Equal(t, map[string]string{
		"original":      "https://signed/" + base + "/clip.mp4",
		"video_preview": "https://signed/" + base + "/video_preview/clip.png",
		"small":         "https://signed/" + base + "/small/clip.png",
	}, res.WriteURLs)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	a, err := f.svc.CreateAsset(context.Background(), "u1", &models.Asset{
		ID: "v1", ContentID: res.ContentID, ContentType: "application/octet-stream",
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, "video/mp4", a.ContentType)
	assert.Equal(t, "https://cdn/"+base+"/video_preview/clip.png", a.ReadURLs["video_preview"])
}

func TestInitAsset_Validation(t *testing.T) {
	tests := []struct {
		name  string
		asset *models.Asset
	}{
		{name: "missing id", asset: &models.Asset{FileName: "a.png", Variants: []string{"original"}}},
		{name: "missing file name", asset: &models.Asset{ID: "i", Variants: []string{"original"}}},
		{name: "no variants", asset: &models.Asset{ID: "i", FileName: "a.png"}},
		{name: "no original", asset: &models.Asset{ID: "i", FileName: "a.png", Variants: []string{"small"}}},
		{name: "unknown variant", asset: &models.Asset{ID: "i", FileName: "a.png", Variants: []string{"original", "huge"}}},
		{name: "negative size", asset: &models.Asset{ID: "i", FileName: "a.png", Size: -1, Variants: []string{"original"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.InitAsset(context.Background(), "u1", tt.asset)
			assert.ErrorIs(t, err, common.ErrorValidation)
			assert.Empty(t, f.repo.rows)
		})
	}
}

func TestInitAsset_PresignFailureLeavesNoRow(t *testing.T) {
	f := newFixture(t)
	f.presigner.err = errors.New("s3 down")

	_, err := f.svc.InitAsset(context.Background(), "u1", &models.Asset{ID: "i", FileName: "a.png", Variants: []string{"original"}})

	require.Error(t, err)
	assert.Empty(t, f.repo.rows)
}

func TestCreateAsset(t *testing.T) {
	f := newFixture(t)
	res := f.init(t, "original", "small", "medium")

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	a, err := f.svc.CreateAsset(context.Background(), "u1", &models.Asset{
		ID: "i1", ContentID: res.ContentID, Size: 5000, Color: "#aabbcc", XRes: 40, YRes: 30,
		Caption: "cat", Variants: []string{"original", "small"},
	}, 0)

	require.NoError(t, err)
	require.NoError(t, f.mock.ExpectationsWereMet())

	assert.Equal(t, models.AssetStatusCommitted, a.Status)
	assert.Equal(t, int64(5000), a.Size)
	assert.Equal(t, "image/png", a.ContentType)
	assert.Equal(t, []string{"original", "small"}, a.Variants)
	require.NotNil(t, a.ExpiresAt)
	assert.Equal(t, f.now.Add(24*time.Hour), *a.ExpiresAt)
	assert.Equal(t, map[string]string{
		"original": "https://cdn/" + a.StorageKey + "/cat.png",
		"small":    "https://cdn/" + a.StorageKey + "/small/cat.png",
	}, a.ReadURLs)
}

func TestCreateAsset_ExplicitExpiration(t *testing.T) {
	f := newFixture(t)
	res := f.init(t, "original")

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	a, err := f.svc.CreateAsset(context.Background(), "u1", &models.Asset{ID: "i1", ContentID: res.ContentID}, 2)

	require.NoError(t, err)
	require.NotNil(t, a.ExpiresAt)
	assert.Equal(t, f.now.Add(2*time.Hour), *a.ExpiresAt)
	assert.Equal(t, []string{"original"}, a.Variants)
}

func TestCreateAsset_Errors(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		asset   func(contentID string) *models.Asset
		hours   int
		tx      bool
		wantErr error
	}{
		{name: "unknown content", userID: "u1", tx: true, wantErr: common.ErrorNotFound,
			asset: func(string) *models.Asset { return &models.Asset{ContentID: "missing"} }},
		{name: "foreign user", userID: "u2", tx: true, wantErr: common.ErrorUnauthorized,
			asset: func(c string) *models.Asset { return &models.Asset{ContentID: c} }},
		{name: "id mismatch", userID: "u1", tx: true, wantErr: common.ErrorValidation,
			asset: func(c string) *models.Asset { return &models.Asset{ContentID: c, ID: "other"} }},
		{name: "variant not initialized", userID: "u1", tx: true, wantErr: common.ErrorValidation,
			asset: func(c string) *models.Asset { return &models.Asset{ContentID: c, Variants: []string{"large"}} }},
		{name: "missing content id", userID: "u1", wantErr: common.ErrorValidation,
			asset: func(string) *models.Asset { return &models.Asset{} }},
		{name: "negative expiration", userID: "u1", hours: -1, wantErr: common.ErrorValidation,
			asset: func(c string) *models.Asset { return &models.Asset{ContentID: c} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			res := f.init(t, "original")
			if tt.tx {
				f.mock.ExpectBegin()
				f.mock.ExpectRollback()
			}

			_, err := f.svc.CreateAsset(context.Background(), tt.userID, tt.asset(res.ContentID), tt.hours)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, models.AssetStatusInitialized, f.repo.rows[res.ContentID].Status)
			require.NoError(t, f.mock.ExpectationsWereMet())
		})
	}
}

func TestCreateAsset_Twice(t *testing.T) {
	f := newFixture(t)
	res := f.init(t, "original")

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	_, err := f.svc.CreateAsset(context.Background(), "u1", &models.Asset{ContentID: res.ContentID}, 0)
	require.NoError(t, err)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err = f.svc.CreateAsset(context.Background(), "u1", &models.Asset{ContentID: res.ContentID}, 0)
	assert.ErrorIs(t, err, common.ErrorConflict)
}
