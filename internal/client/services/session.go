// Package services contains application services for the GophMedia client.
// This file defines the session service: backend liveness probe and the
// persisted client identity (user id and session id) used to tag uploads.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophmedia/internal/client/client"
	"github.com/dmitrijs2005/gophmedia/internal/client/repositories/metadata"
	"github.com/google/uuid"
)

// Identity tags every intent and asset this client produces.
type Identity struct {
	UserID    string
	SessionID string
}

// SessionService defines session operations for the CLI.
//
// Contract:
//   - Ping: check server liveness.
//   - Identity: return the persisted identity, creating the session id on
//     first use and recording userID when one is given.
//   - Reset: forget the session id so the next run starts a new session.
type SessionService interface {
	Ping(ctx context.Context) error
	Identity(ctx context.Context, userID string) (Identity, error)
	Reset(ctx context.Context) error
}

type sessionService struct {
	client client.Client
	meta   metadata.Repository
	newID  func() string
}

// NewSessionService constructs a SessionService bound to the given API
// client and metadata repository.
func NewSessionService(c client.Client, meta metadata.Repository) SessionService {
	return &sessionService{client: c, meta: meta, newID: uuid.NewString}
}

func (s *sessionService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

// Identity loads the session id, generating and storing one when absent.
// A non-empty userID replaces the stored one; an empty userID falls back
// to the stored value.
func (s *sessionService) Identity(ctx context.Context, userID string) (Identity, error) {
	sessionID, err := s.meta.GetOrCreate(ctx, metadata.KeySessionID, s.newID)
	if err != nil {
		return Identity{}, fmt.Errorf("session id: %w", err)
	}

	if userID != "" {
		if err := s.meta.Set(ctx, metadata.KeyUserID, userID); err != nil {
			return Identity{}, fmt.Errorf("user id: %w", err)
		}
		return Identity{UserID: userID, SessionID: sessionID}, nil
	}

	stored, _, err := s.meta.Get(ctx, metadata.KeyUserID)
	if err != nil {
		return Identity{}, fmt.Errorf("user id: %w", err)
	}
	return Identity{UserID: stored, SessionID: sessionID}, nil
}

func (s *sessionService) Reset(ctx context.Context) error {
	return s.meta.Delete(ctx, metadata.KeySessionID)
}
