package uploads

import "github.com/dmitrijs2005/gophmedia/internal/client/models"

// UploadState is one event delivered to a transaction callback.
type UploadState interface {
	// Name is a stable identifier used in logs.
	Name() string
}

// Callback receives every event of one transaction.
type Callback func(txID string, state UploadState)

type TransactionStart struct {
	Total int
}

type AssetStart struct {
	Index  int
	Total  int
	Intent *models.UploadIntent
}

// AssetProgress reports bytes sent for the intent across all of its PUTs.
type AssetProgress struct {
	Sent   int64
	Total  int64
	Intent *models.UploadIntent
}

// AssetUploadError is the terminal event of a failed member.
type AssetUploadError struct {
	Err    error
	Intent *models.UploadIntent
}

// AssetUploadEnd reports that all bytes of the intent were transferred.
type AssetUploadEnd struct {
	Intent *models.UploadIntent
}

// AssetCreated is the terminal event of a committed member.
type AssetCreated struct {
	Asset  *models.Asset
	Intent *models.UploadIntent
}

type TransactionEnd struct {
	Total  int
	Assets []*models.Asset
	Tx     *Transaction
}

func (TransactionStart) Name() string { return "transaction_start" }
func (AssetStart) Name() string       { return "asset_start" }
func (AssetProgress) Name() string    { return "asset_progress" }
func (AssetUploadError) Name() string { return "asset_upload_error" }
func (AssetUploadEnd) Name() string   { return "asset_upload_end" }
func (AssetCreated) Name() string     { return "asset_created" }
func (TransactionEnd) Name() string   { return "transaction_end" }
