package uploads

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophmedia/internal/client/client"
	"github.com/dmitrijs2005/gophmedia/internal/client/media"
	"github.com/dmitrijs2005/gophmedia/internal/client/models"
	"github.com/dmitrijs2005/gophmedia/internal/client/store"
	"github.com/dmitrijs2005/gophmedia/internal/logging"
	"github.com/dmitrijs2005/gophmedia/internal/netx"
	"github.com/stretchr/testify/require"
)

/*************
 * Files
 *************/

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return p
}

func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(strings.Repeat("x", size)), 0o600))
	return p
}

func fileSize(t *testing.T, path string) int64 {
	t.Helper()
	fi, err := os.Stat(path)
	require.NoError(t, err)
	return fi.Size()
}

/*************
 * Media fake: real image code, canned video operations
 *************/

type fakeMedia struct {
	*media.Processor
	still image.Image
	dur   time.Duration
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{
		Processor: media.New(media.Options{}),
		still:     image.NewRGBA(image.Rect(0, 0, 64, 36)),
		dur:       3 * time.Second,
	}
}

func (f *fakeMedia) Thumbnail(ctx context.Context, videoPath string) (image.Image, error) {
	if _, err := os.Stat(videoPath); err != nil {
		return nil, err
	}
	return f.still, nil
}

func (f *fakeMedia) Duration(ctx context.Context, path string) (time.Duration, error) {
	return f.dur, nil
}

/*************
 * Object storage recorder
 *************/

type put struct {
	Path        string
	ContentType string
	Size        int64
}

type storageServer struct {
	*httptest.Server

	mu      sync.Mutex
	puts    []put
	failFor map[string]int
}

func newStorageServer(t *testing.T) *storageServer {
	s := &storageServer{failFor: map[string]int{}}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, _ := io.Copy(io.Discard, r.Body)
		s.mu.Lock()
		s.puts = append(s.puts, put{Path: r.URL.Path, ContentType: r.Header.Get("Content-Type"), Size: n})
		code, fail := s.failFor[r.URL.Path]
		s.mu.Unlock()
		if fail {
			w.WriteHeader(code)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *storageServer) recorded() []put {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]put(nil), s.puts...)
}

func (s *storageServer) paths() []string {
	var out []string
	for _, p := range s.recorded() {
		out = append(out, p.Path)
	}
	return out
}

/*************
 * Backend fake
 *************/

type fakeBackend struct {
	baseURL string

	mu         sync.Mutex
	inits      []string
	creates    []string
	initErr    map[string]error
	createErr  map[string]error
	dropURLFor models.Variant
}

func newFakeBackend(baseURL string) *fakeBackend {
	return &fakeBackend{baseURL: baseURL, initErr: map[string]error{}, createErr: map[string]error{}}
}

func (b *fakeBackend) InitAsset(ctx context.Context, intent *models.UploadIntent) (*client.InitAssetResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inits = append(b.inits, intent.FileName)
	if err := b.initErr[intent.FileName]; err != nil {
		return nil, err
	}

	var urls models.URLs
	for _, v := range intent.Variants() {
		if v == b.dropURLFor {
			continue
		}
		urls.Set(v, b.baseURL+"/"+intent.FileName+"/"+string(v))
	}
	return &client.InitAssetResult{ContentID: "c-" + intent.FileName, WriteURLs: urls}, nil
}

func (b *fakeBackend) CreateAsset(ctx context.Context, intent *models.UploadIntent) (*models.Asset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.creates = append(b.creates, intent.FileName)
	if err := b.createErr[intent.FileName]; err != nil {
		return nil, err
	}
	return &models.Asset{
		ID:          intent.ID,
		ContentID:   intent.ContentID,
		FileName:    intent.FileName,
		ContentType: intent.ContentType,
		Kind:        intent.Kind,
		Size:        intent.Size,
		ReadURLs:    models.URLs{Original: "https://cdn.test/" + intent.FileName},
		Status:      "committed",
		CreatedAt:   time.UnixMilli(1_700_000_000_000).UTC(),
	}, nil
}

func (b *fakeBackend) initCalls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.inits...)
}

var errBackend = errors.New("backend said no")

/*************
 * Event recorder
 *************/

type event struct {
	TxID  string
	State UploadState
}

type recorder struct {
	mu     sync.Mutex
	events []event
	ended  chan string
}

func newRecorder() *recorder {
	return &recorder{ended: make(chan string, 16)}
}

func (r *recorder) callback(txID string, st UploadState) {
	r.mu.Lock()
	r.events = append(r.events, event{TxID: txID, State: st})
	r.mu.Unlock()
	if _, ok := st.(TransactionEnd); ok {
		r.ended <- txID
	}
}

func (r *recorder) waitEnd(t *testing.T) string {
	t.Helper()
	select {
	case id := <-r.ended:
		return id
	case <-time.After(10 * time.Second):
		t.Fatal("transaction did not end")
		return ""
	}
}

func (r *recorder) all() []event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event(nil), r.events...)
}

// names returns state names with progress collapsed to one entry per run.
func (r *recorder) names() []string {
	var out []string
	for _, e := range r.all() {
		n := e.State.Name()
		if n == "asset_progress" && len(out) > 0 && out[len(out)-1] == n {
			continue
		}
		out = append(out, n)
	}
	return out
}

/*************
 * Manager fixture
 *************/

type fixture struct {
	dir     string
	store   *store.Store
	storage *storageServer
	backend *fakeBackend
	media   *fakeMedia
	manager *Manager
	tempDir string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	st, err := store.Open(ctx, filepath.Join(dir, "media.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	storage := newStorageServer(t)
	backend := newFakeBackend(storage.URL)
	fm := newFakeMedia()

	tempDir := filepath.Join(dir, "staging")
	require.NoError(t, os.MkdirAll(tempDir, 0o700))

	m := NewManager(Deps{
		Store:     st,
		Backend:   backend,
		Transport: netx.NewUploader(5 * time.Second),
		Media:     fm,
		Logger:    logging.NewNop(),
	}, Settings{
		UserID:        "u1",
		SessionID:     "s1",
		TempDir:       tempDir,
		SettleTimeout: 5 * time.Second,
	})

	return &fixture{dir: dir, store: st, storage: storage, backend: backend, media: fm, manager: m, tempDir: tempDir}
}

func (f *fixture) start(t *testing.T) {
	t.Helper()
	require.NoError(t, f.manager.Start(context.Background()))
	t.Cleanup(f.manager.Stop)
}
