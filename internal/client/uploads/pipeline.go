package uploads

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"os"
	"strings"

	"github.com/dmitrijs2005/gophmedia/internal/client/client"
	"github.com/dmitrijs2005/gophmedia/internal/client/media"
	"github.com/dmitrijs2005/gophmedia/internal/client/models"
	"github.com/dmitrijs2005/gophmedia/internal/filex"
	"github.com/dmitrijs2005/gophmedia/internal/logging"
	"github.com/dmitrijs2005/gophmedia/internal/netx"
)

const pngContentType = "image/png"

// Backend is the part of the RPC client the pipeline calls.
type Backend interface {
	InitAsset(ctx context.Context, intent *models.UploadIntent) (*client.InitAssetResult, error)
	CreateAsset(ctx context.Context, intent *models.UploadIntent) (*models.Asset, error)
}

// Transport PUTs bodies to write URLs and returns the HTTP status code.
type Transport interface {
	PutBytes(ctx context.Context, req netx.PutRequest, body []byte) (int, error)
	PutFile(ctx context.Context, req netx.PutRequest, path string) (int, error)
}

// Pipeline runs the per-asset steps: init, transfer and commit. It mutates
// the intent it is given and never touches the local store.
type Pipeline struct {
	backend   Backend
	transport Transport
	media     media.Transformer
	tempDir   string
	logger    logging.Logger
}

func NewPipeline(backend Backend, transport Transport, m media.Transformer, tempDir string, logger logging.Logger) *Pipeline {
	return &Pipeline{
		backend:   backend,
		transport: transport,
		media:     m,
		tempDir:   tempDir,
		logger:    logger,
	}
}

// Init asks the backend for a content id and write URLs and moves the
// intent to initialized.
func (p *Pipeline) Init(ctx context.Context, intent *models.UploadIntent) error {
	res, err := p.backend.InitAsset(ctx, intent)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInit, err)
	}
	if res == nil || res.ContentID == "" {
		return fmt.Errorf("%w: empty content id", ErrInit)
	}

	intent.ContentID = res.ContentID
	intent.WriteURLs = res.WriteURLs
	intent.Status = models.StatusInitialized
	return nil
}

// Transfer uploads the original and every derived variant. progress gets
// the cumulative byte count, capped at intent.Size.
func (p *Pipeline) Transfer(ctx context.Context, intent *models.UploadIntent, progress netx.ProgressFunc) error {
	t := &transfer{p: p, intent: intent, report: progress}

	switch {
	case strings.Contains(intent.ContentType, "image"):
		return t.image(ctx)
	case strings.Contains(intent.ContentType, "video"):
		return t.video(ctx)
	default:
		return t.putFile(ctx, models.VariantOriginal, intent.LocalPath, intent.ContentType)
	}
}

// Commit registers the uploaded asset with the backend. On success the
// intent carries the read URLs and is marked uploaded.
func (p *Pipeline) Commit(ctx context.Context, intent *models.UploadIntent) (*models.Asset, error) {
	asset, err := p.backend.CreateAsset(ctx, intent)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCommit, err)
	}
	if asset == nil {
		return nil, fmt.Errorf("%w: empty asset", ErrCommit)
	}

	asset = asset.Clone()
	if asset.ID == "" {
		asset.ID = intent.ID
	}
	asset.UserID = intent.UserID
	asset.SessionID = intent.SessionID
	asset.Path = intent.Path
	if asset.ContentID == "" {
		asset.ContentID = intent.ContentID
	}
	if asset.FileName == "" {
		asset.FileName = intent.FileName
	}
	if asset.ContentType == "" {
		asset.ContentType = intent.ContentType
	}
	if asset.Kind == "" {
		asset.Kind = intent.Kind
	}
	if asset.Size == 0 {
		asset.Size = intent.Size
	}

	intent.ReadURLs = asset.ReadURLs
	intent.Status = models.StatusUploaded
	intent.Error = ""
	return asset, nil
}

// transfer carries the state of one Transfer call.
type transfer struct {
	p      *Pipeline
	intent *models.UploadIntent
	report netx.ProgressFunc
	sent   int64
}

func (t *transfer) image(ctx context.Context) error {
	m := t.p.media

	img, err := m.DecodeFile(t.intent.LocalPath)
	if err != nil {
		return fmt.Errorf("%w: decode: %w", ErrInvalidAsset, err)
	}

	encoded := media.EncodedType(t.intent.ContentType)
	body, err := m.Encode(img, encoded)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrInvalidAsset, err)
	}
	if err := t.putBytes(ctx, models.VariantOriginal, body, encoded); err != nil {
		return err
	}

	if !t.intent.GeneratesCuts() {
		return nil
	}
	return t.cuts(ctx, img, encoded)
}

func (t *transfer) video(ctx context.Context) error {
	m := t.p.media

	staged, cleanup, err := filex.TempCopy(t.intent.LocalPath, t.p.tempDir)
	if err != nil {
		return fmt.Errorf("%w: stage video: %w", ErrInvalidAsset, err)
	}
	defer cleanup()

	if err := t.putFile(ctx, models.VariantOriginal, staged, t.intent.ContentType); err != nil {
		return err
	}

	still, err := m.Thumbnail(ctx, staged)
	if err != nil {
		return fmt.Errorf("%w: still frame: %w", ErrTransferFailed, err)
	}
	if t.intent.XRes == 0 && t.intent.YRes == 0 {
		b := still.Bounds()
		t.intent.XRes, t.intent.YRes = b.Dx(), b.Dy()
	}

	body, err := m.Encode(still, pngContentType)
	if err != nil {
		return fmt.Errorf("%w: encode still: %w", ErrTransferFailed, err)
	}
	if err := t.putBytes(ctx, models.VariantVideoPreview, body, pngContentType); err != nil {
		return err
	}

	if !t.intent.GeneratesCuts() {
		return nil
	}
	return t.cuts(ctx, still, pngContentType)
}

func (t *transfer) cuts(ctx context.Context, img image.Image, contentType string) error {
	m := t.p.media
	for _, v := range models.CutVariants {
		body, err := m.Encode(m.Resize(img, t.intent.Cuts.Dimension(v)), contentType)
		if err != nil {
			return fmt.Errorf("%w: encode %s: %w", ErrTransferFailed, v, err)
		}
		if err := t.putBytes(ctx, v, body, contentType); err != nil {
			return err
		}
	}
	return nil
}

func (t *transfer) request(v models.Variant, contentType string) (netx.PutRequest, error) {
	url := t.intent.WriteURLs.Get(v)
	if url == "" {
		return netx.PutRequest{}, fmt.Errorf("%w: no write url for %s", ErrTransferFailed, v)
	}

	base := t.sent
	return netx.PutRequest{
		URL:         url,
		ContentType: contentType,
		IntentID:    t.intent.ID,
		Progress: func(sent, _ int64) {
			t.progress(base + sent)
		},
	}, nil
}

func (t *transfer) putBytes(ctx context.Context, v models.Variant, body []byte, contentType string) error {
	req, err := t.request(v, contentType)
	if err != nil {
		return err
	}
	code, err := t.p.transport.PutBytes(ctx, req, body)
	if err := t.check(v, code, err); err != nil {
		return err
	}
	t.sent += int64(len(body))
	t.progress(t.sent)
	return nil
}

func (t *transfer) putFile(ctx context.Context, v models.Variant, path, contentType string) error {
	req, err := t.request(v, contentType)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAsset, err)
	}

	code, err := t.p.transport.PutFile(ctx, req, path)
	if err := t.check(v, code, err); err != nil {
		return err
	}
	t.sent += info.Size()
	t.progress(t.sent)
	return nil
}

func (t *transfer) check(v models.Variant, code int, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTransferFailed, v, err)
	}
	if code != http.StatusOK {
		return fmt.Errorf("%w: %s: status %d", ErrTransferFailed, v, code)
	}
	return nil
}

func (t *transfer) progress(sent int64) {
	if t.report == nil {
		return
	}
	total := t.intent.Size
	if total > 0 && sent > total {
		sent = total
	}
	t.report(sent, total)
}
