// Package services implements the server-side asset workflow: announcing an
// upload with presigned write URLs and committing it once the bytes landed.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/dmitrijs2005/gophmedia/internal/dbx"
	sc "github.com/dmitrijs2005/gophmedia/internal/server/config"
	"github.com/dmitrijs2005/gophmedia/internal/server/models"
	"github.com/dmitrijs2005/gophmedia/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophmedia/internal/server/storage"
	"github.com/google/uuid"
)

// Variants the server accepts.
var knownVariants = map[string]struct{}{
	"original":      {},
	"small":         {},
	"medium":        {},
	"large":         {},
	"video_preview": {},
}

type Presigner interface {
	PresignPut(ctx context.Context, keys map[string]string) (map[string]string, error)
	PublicURL(key string) string
}

// InitResult is what a client needs to start writing bytes.
type InitResult struct {
	ContentID string
	WriteURLs map[string]string
	ExpiresAt time.Time
}

type AssetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	presigner   Presigner
	config      *sc.Config
	now         func() time.Time
}

func NewAssetService(db *sql.DB, repomanager repomanager.RepositoryManager, presigner Presigner, config *sc.Config) *AssetService {
	return &AssetService{
		db:          db,
		repomanager: repomanager,
		presigner:   presigner,
		config:      config,
		now:         time.Now,
	}
}

func validateVariants(variants []string) error {
	if len(variants) == 0 {
		return fmt.Errorf("%w: no variants", common.ErrorValidation)
	}
	hasOriginal := false
	for _, v := range variants {
		if _, ok := knownVariants[v]; !ok {
			return fmt.Errorf("%w: unknown variant %q", common.ErrorValidation, v)
		}
		if v == "original" {
			hasOriginal = true
		}
	}
	if !hasOriginal {
		return fmt.Errorf("%w: original variant missing", common.ErrorValidation)
	}
	return nil
}

// InitAsset registers an upload for userID and returns one presigned write
// URL per requested variant.
func (s *AssetService) InitAsset(ctx context.Context, userID string, a *models.Asset) (*InitResult, error) {
	if a.ID == "" || a.FileName == "" {
		return nil, fmt.Errorf("%w: id and file name are required", common.ErrorValidation)
	}
	if a.Size < 0 {
		return nil, fmt.Errorf("%w: negative size", common.ErrorValidation)
	}
	if err := validateVariants(a.Variants); err != nil {
		return nil, err
	}

	now := s.now()
	base := storage.StorageBase(userID, now)

	keys := make(map[string]string, len(a.Variants))
	for _, v := range a.Variants {
		keys[v] = storage.VariantKey(base, v, a.FileName, a.ContentType)
	}

	urls, err := s.presigner.PresignPut(ctx, keys)
	if err != nil {
		return nil, err
	}

	row := &models.Asset{
		ContentID:   uuid.NewString(),
		ID:          a.ID,
		UserID:      userID,
		StorageKey:  base,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		Kind:        a.Kind,
		Size:        a.Size,
		Variants:    a.Variants,
		Status:      models.AssetStatusInitialized,
	}
	if err := s.repomanager.Assets(s.db).Create(ctx, row); err != nil {
		return nil, err
	}

	return &InitResult{
		ContentID: row.ContentID,
		WriteURLs: urls,
		ExpiresAt: now.Add(s.config.PresignExpiry),
	}, nil
}

// CreateAsset commits a previously initialized asset owned by userID.
// expirationHours of 0 falls back to the configured default; a default of 0
// keeps the asset forever.
func (s *AssetService) CreateAsset(ctx context.Context, userID string, a *models.Asset, expirationHours int) (*models.Asset, error) {
	if a.ContentID == "" {
		return nil, fmt.Errorf("%w: content id is required", common.ErrorValidation)
	}
	if expirationHours < 0 {
		return nil, fmt.Errorf("%w: negative expiration", common.ErrorValidation)
	}
	if expirationHours == 0 {
		expirationHours = s.config.DefaultExpirationHours
	}

	var result *models.Asset
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Assets(tx)

		stored, err := repo.Get(ctx, a.ContentID)
		if err != nil {
			return err
		}
		if stored.UserID != userID {
			return common.ErrorUnauthorized
		}
		if a.ID != "" && stored.ID != a.ID {
			return fmt.Errorf("%w: id does not match content", common.ErrorValidation)
		}

		variants := a.Variants
		if len(variants) == 0 {
			variants = stored.Variants
		}
		for _, v := range variants {
			if !stored.HasVariant(v) {
				return fmt.Errorf("%w: variant %q was not initialized", common.ErrorValidation, v)
			}
		}

		stored.Kind = firstNonEmpty(a.Kind, stored.Kind)
		if a.Size > 0 {
			stored.Size = a.Size
		}
		stored.Duration = a.Duration
		stored.Color = a.Color
		stored.XRes = a.XRes
		stored.YRes = a.YRes
		stored.Caption = a.Caption
		stored.Variants = variants
		if expirationHours > 0 {
			t := s.now().Add(time.Duration(expirationHours) * time.Hour)
			stored.ExpiresAt = &t
		}

		if err := repo.Commit(ctx, stored); err != nil {
			return err
		}
		result = stored
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.ReadURLs = make(map[string]string, len(result.Variants))
	for _, v := range result.Variants {
		result.ReadURLs[v] = s.presigner.PublicURL(storage.VariantKey(result.StorageKey, v, result.FileName, result.ContentType))
	}
	return result, nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
