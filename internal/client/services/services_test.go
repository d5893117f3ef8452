package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophmedia/internal/client/client"
	"github.com/dmitrijs2005/gophmedia/internal/client/models"
	"github.com/dmitrijs2005/gophmedia/internal/client/repositories/intents"
	"github.com/dmitrijs2005/gophmedia/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophmedia/internal/client/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "media.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func intent(id, tx string, st models.Status) *models.UploadIntent {
	now := time.UnixMilli(1_700_000_000_000).UTC()
	return &models.UploadIntent{
		ID: id, UserID: "u1", SessionID: "s1", TransactionID: tx,
		Path: id, LocalPath: id, FileName: id, Kind: models.KindUnknown,
		ContentType: "application/pdf", Status: st,
		CreatedAt: now, UpdatedAt: now,
	}
}

// ---- fake client ----

type fakeClient struct {
	PingErr   error
	PingCalls int
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) Ping(ctx context.Context) error {
	f.PingCalls++
	return f.PingErr
}

func (f *fakeClient) InitAsset(ctx context.Context, i *models.UploadIntent) (*client.InitAssetResult, error) {
	return nil, errors.New("not used")
}

func (f *fakeClient) CreateAsset(ctx context.Context, i *models.UploadIntent) (*models.Asset, error) {
	return nil, errors.New("not used")
}

// ---- session ----

func TestSession_Ping(t *testing.T) {
	fc := &fakeClient{PingErr: client.ErrUnavailable}
	svc := NewSessionService(fc, openStore(t).Metadata())

	require.ErrorIs(t, svc.Ping(context.Background()), client.ErrUnavailable)
	require.Equal(t, 1, fc.PingCalls)
}

func TestSession_IdentityIsStable(t *testing.T) {
	ctx := context.Background()
	meta := openStore(t).Metadata()
	svc := NewSessionService(&fakeClient{}, meta)

	first, err := svc.Identity(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "alice", first.UserID)
	require.NotEmpty(t, first.SessionID)

	second, err := svc.Identity(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	stored, ok, err := meta.Get(ctx, metadata.KeySessionID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.SessionID, stored)
}

func TestSession_ResetStartsNewSession(t *testing.T) {
	ctx := context.Background()
	svc := NewSessionService(&fakeClient{}, openStore(t).Metadata())

	first, err := svc.Identity(ctx, "bob")
	require.NoError(t, err)
	require.NoError(t, svc.Reset(ctx))

	second, err := svc.Identity(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "bob", second.UserID)
	assert.NotEqual(t, first.SessionID, second.SessionID)
}

// ---- report ----

func TestReport_Transaction(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	a := intent("a", "tx1", models.StatusUploaded)
	b := intent("b", "tx1", models.StatusFailure)
	b.Index = 1
	b.Error = "transfer failed"
	c := intent("c", "tx2", models.StatusPending)
	require.NoError(t, st.SaveIntents(ctx, []*models.UploadIntent{a, b, c}))

	r, err := NewReportService(st).Transaction(ctx, "tx1")
	require.NoError(t, err)
	assert.Equal(t, 2, r.Total())
	assert.Equal(t, 1, r.Counts[models.StatusUploaded])
	assert.Equal(t, 1, r.Counts[models.StatusFailure])
	require.Len(t, r.Failed, 1)
	assert.Equal(t, "transfer failed", r.Failed[0].Error)
}

func TestReport_Unfinished(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	require.NoError(t, st.SaveIntents(ctx, []*models.UploadIntent{
		intent("a", "tx1", models.StatusUploaded),
		intent("b", "tx1", models.StatusUploading),
		intent("c", "tx2", models.StatusPending),
	}))

	left, err := NewReportService(st).Unfinished(ctx, "s1")
	require.NoError(t, err)
	var ids []string
	for _, i := range left {
		ids = append(ids, i.ID)
	}
	assert.ElementsMatch(t, []string{"b", "c"}, ids)
}

type brokenLister struct{}

func (brokenLister) Intents(ctx context.Context, f intents.Filter) ([]*models.UploadIntent, error) {
	return nil, errors.New("db gone")
}

func TestReport_PropagatesStoreError(t *testing.T) {
	_, err := NewReportService(brokenLister{}).Transaction(context.Background(), "tx")
	require.ErrorContains(t, err, "db gone")
}
