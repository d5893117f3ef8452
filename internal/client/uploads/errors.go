package uploads

import "errors"

var (
	ErrInvalidAsset         = errors.New("invalid asset")
	ErrTransferFailed       = errors.New("transfer failed")
	ErrInit                 = errors.New("asset init failed")
	ErrCommit               = errors.New("asset commit failed")
	ErrNoUploads            = errors.New("no uploads")
	ErrDuplicateTransaction = errors.New("duplicate transaction")
	ErrStopped              = errors.New("upload manager stopped")
)
