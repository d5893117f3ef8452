package services

import (
	"context"

	"github.com/dmitrijs2005/gophmedia/internal/client/models"
	"github.com/dmitrijs2005/gophmedia/internal/client/repositories/intents"
)

// IntentLister is the read side of the local store.
type IntentLister interface {
	Intents(ctx context.Context, f intents.Filter) ([]*models.UploadIntent, error)
}

// Report summarizes the persisted state of one transaction.
type Report struct {
	TransactionID string
	Counts        map[models.Status]int
	Failed        []*models.UploadIntent
}

// Total is the number of intents in the transaction.
func (r Report) Total() int {
	n := 0
	for _, c := range r.Counts {
		n += c
	}
	return n
}

type ReportService struct {
	store IntentLister
}

func NewReportService(store IntentLister) *ReportService {
	return &ReportService{store: store}
}

func (s *ReportService) Transaction(ctx context.Context, txID string) (Report, error) {
	items, err := s.store.Intents(ctx, intents.Filter{TransactionID: txID})
	if err != nil {
		return Report{}, err
	}

	r := Report{TransactionID: txID, Counts: make(map[models.Status]int)}
	for _, i := range items {
		r.Counts[i.Status]++
		if i.Status == models.StatusFailure {
			r.Failed = append(r.Failed, i)
		}
	}
	return r, nil
}

// Unfinished lists intents of the session left pending, initialized or
// uploading, typically by an interrupted run.
func (s *ReportService) Unfinished(ctx context.Context, sessionID string) ([]*models.UploadIntent, error) {
	return s.store.Intents(ctx, intents.Filter{
		SessionID: sessionID,
		Statuses:  []models.Status{models.StatusPending, models.StatusInitialized, models.StatusUploading},
	})
}
