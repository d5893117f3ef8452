package uploads

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophmedia/internal/client/media"
	"github.com/dmitrijs2005/gophmedia/internal/client/models"
	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/dmitrijs2005/gophmedia/internal/filex"
	"github.com/dmitrijs2005/gophmedia/internal/logging"
	"github.com/google/uuid"
)

const octetStream = "application/octet-stream"

// Builder turns UploadItems into pending UploadIntents. It reads local
// files only and persists nothing.
type Builder struct {
	media    media.Transformer
	logger   logging.Logger
	settings Settings

	now   func() time.Time
	newID func() string
}

func NewBuilder(m media.Transformer, logger logging.Logger, s Settings) *Builder {
	return &Builder{
		media:    m,
		logger:   logger,
		settings: s,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// Build extracts metadata for item and returns a pending intent at
// position index of transaction txID.
func (b *Builder) Build(ctx context.Context, txID string, index int, item models.UploadItem) (*models.UploadIntent, error) {
	intent := b.newIntent(txID, index, item)

	path, info, err := resolve(item.Path)
	if err != nil {
		return intent, err
	}
	intent.LocalPath = path
	intent.FileName = filex.CompactName(path)

	intent.ContentType = item.ContentType
	if intent.ContentType == "" {
		intent.ContentType = b.detectContentType(path, intent.FileName)
	}
	if intent.Kind == models.KindUnknown {
		intent.Kind = models.KindFromContentType(intent.ContentType)
	}

	intent.Size = info.Size()

	switch models.KindFromContentType(intent.ContentType) {
	case models.KindImage:
		img, err := b.media.DecodeFile(path)
		if err != nil {
			return intent, fmt.Errorf("%w: decode %s: %w", ErrInvalidAsset, intent.FileName, err)
		}
		bounds := img.Bounds()
		intent.XRes, intent.YRes = bounds.Dx(), bounds.Dy()
		intent.Color = b.media.AverageColor(img)
		if intent.GeneratesCuts() {
			intent.Size += common.SizePadding
		}
	case models.KindVideo, models.KindAudio:
		d, err := b.media.Duration(ctx, path)
		if err != nil {
			b.logger.Warn(ctx, "duration probe failed", "path", path, "error", err)
		} else {
			intent.Duration = d
		}
	}

	return intent, nil
}

func (b *Builder) newIntent(txID string, index int, item models.UploadItem) *models.UploadIntent {
	now := b.now()

	cuts := item.Cuts
	def := b.settings.cuts()
	if cuts.Small <= 0 {
		cuts.Small = def.Small
	}
	if cuts.Medium <= 0 {
		cuts.Medium = def.Medium
	}
	if cuts.Large <= 0 {
		cuts.Large = def.Large
	}

	exp := item.ExpirationHours
	if exp <= 0 {
		exp = b.settings.ExpirationHours
	}

	kind := item.Kind
	if kind == "" {
		kind = models.KindUnknown
	}

	return &models.UploadIntent{
		ID:              b.newID(),
		UserID:          b.settings.UserID,
		SessionID:       b.settings.SessionID,
		TransactionID:   txID,
		Index:           index,
		Path:            item.Path,
		FileName:        filex.CompactName(item.Path),
		Kind:            kind,
		Caption:         item.Caption,
		NoCuts:          item.NoCuts,
		Cuts:            cuts,
		ExpirationHours: exp,
		Status:          models.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (b *Builder) detectContentType(path, name string) string {
	ct := b.media.MimeType(name)
	if ct != "" && ct != octetStream {
		return ct
	}
	sniffed, err := b.media.Sniff(path)
	if err != nil || sniffed == "" {
		return octetStream
	}
	return sniffed
}

func resolve(path string) (string, os.FileInfo, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil, fmt.Errorf("%w: empty path", ErrInvalidAsset)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidAsset, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidAsset, err)
	}
	if info.IsDir() {
		return "", nil, fmt.Errorf("%w: %s is a directory", ErrInvalidAsset, abs)
	}
	return abs, info, nil
}
