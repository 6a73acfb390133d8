package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/redmercy-dev/MotionsAssistant/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SessionService handles session lifecycle and workspace administration
type SessionService struct {
	sessions  SessionStore
	turns     TurnStore
	drafts    DraftStore
	caseFiles CaseFileStore
	configs   ConfigStore
}

// SessionServiceOption is a functional option for SessionService
type SessionServiceOption func(*SessionService)

// WithSessionStore sets the session store
func WithSessionStore(s SessionStore) SessionServiceOption {
	return func(svc *SessionService) {
		svc.sessions = s
	}
}

// WithTurnStore sets the conversation turn store
func WithTurnStore(t TurnStore) SessionServiceOption {
	return func(svc *SessionService) {
		svc.turns = t
	}
}

// WithDraftStore sets the draft store
func WithDraftStore(d DraftStore) SessionServiceOption {
	return func(svc *SessionService) {
		svc.drafts = d
	}
}

// WithCaseFileStore sets the case file store
func WithCaseFileStore(c CaseFileStore) SessionServiceOption {
	return func(svc *SessionService) {
		svc.caseFiles = c
	}
}

// WithConfigStore sets the workspace config store
func WithConfigStore(c ConfigStore) SessionServiceOption {
	return func(svc *SessionService) {
		svc.configs = c
	}
}

// NewSessionService creates a new session service
func NewSessionService(opts ...SessionServiceOption) *SessionService {
	svc := &SessionService{}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// CreateSessionRequest represents a request to start a drafting session
type CreateSessionRequest struct {
	MotionType   models.MotionType
	Jurisdiction *string
	Chapter      *string
}

// CreateSessionResult represents the result of starting a session
type CreateSessionResult struct {
	Session *models.Session
}

// CreateSession starts a drafting session for one motion type. The workspace
// must be fully configured first: a knowledge store for every motion type and
// a drafting agent.
func (s *SessionService) CreateSession(ctx context.Context, req CreateSessionRequest) (*CreateSessionResult, error) {
	if s.sessions == nil || s.configs == nil {
		return nil, errors.New("session service not wired")
	}

	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load workspace config: %w", err)
	}
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}

	session := &models.Session{
		ID:           uuid.New(),
		MotionType:   req.MotionType,
		Jurisdiction: req.Jurisdiction,
		Chapter:      req.Chapter,
		State:        models.StateIdle,
		Ledger:       models.NewLedger(req.MotionType),
		Pending:      models.PendingVariables{},
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return &CreateSessionResult{Session: session}, nil
}

// GetSessionRequest represents a request to fetch a session
type GetSessionRequest struct {
	ID uuid.UUID
}

// GetSessionResult represents the result of fetching a session
type GetSessionResult struct {
	Session *models.Session
}

// GetSession retrieves a session by ID
func (s *SessionService) GetSession(ctx context.Context, req GetSessionRequest) (*GetSessionResult, error) {
	if s.sessions == nil {
		return nil, errors.New("session service not wired")
	}

	session, err := s.sessions.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return &GetSessionResult{Session: session}, nil
}

// ListTurnsRequest represents a request to list a session's conversation
type ListTurnsRequest struct {
	SessionID uuid.UUID
}

// ListTurnsResult represents the result of listing a conversation
type ListTurnsResult struct {
	Turns []*models.ConversationTurn
}

// ListTurns returns the session's conversation record in order
func (s *SessionService) ListTurns(ctx context.Context, req ListTurnsRequest) (*ListTurnsResult, error) {
	if s.turns == nil {
		return nil, errors.New("session service not wired")
	}

	turns, err := s.turns.ListBySession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	return &ListTurnsResult{Turns: turns}, nil
}

// GetDraftRequest represents a request for a session's latest draft
type GetDraftRequest struct {
	SessionID uuid.UUID
}

// GetDraftResult represents the result of fetching the latest draft
type GetDraftResult struct {
	Draft *models.DraftState
}

// GetDraft returns the most recent draft revision for a session
func (s *SessionService) GetDraft(ctx context.Context, req GetDraftRequest) (*GetDraftResult, error) {
	if s.drafts == nil {
		return nil, errors.New("session service not wired")
	}

	draft, err := s.drafts.GetLatest(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}

	return &GetDraftResult{Draft: draft}, nil
}

// ClearChatRequest represents a request to clear a session's conversation
type ClearChatRequest struct {
	SessionID uuid.UUID
}

// ClearChatResult represents the result of clearing a conversation
type ClearChatResult struct {
	Session *models.Session
}

// ClearChat deletes the session's conversation record and drafts and resets
// the ledger to all-Unset. The session itself survives with its motion type,
// jurisdiction and chapter intact.
func (s *SessionService) ClearChat(ctx context.Context, req ClearChatRequest) (*ClearChatResult, error) {
	if s.sessions == nil || s.turns == nil || s.drafts == nil {
		return nil, errors.New("session service not wired")
	}

	session, err := s.sessions.GetByID(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if err := s.turns.DeleteBySession(ctx, session.ID); err != nil {
		return nil, err
	}
	if err := s.drafts.DeleteBySession(ctx, session.ID); err != nil {
		return nil, err
	}

	session.Ledger = models.NewLedger(session.MotionType)
	session.Pending = models.PendingVariables{}
	session.State = models.StateIdle
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	return &ClearChatResult{Session: session}, nil
}

// ResetWorkspaceRequest represents a request to reset the whole workspace
type ResetWorkspaceRequest struct{}

// ResetWorkspaceResult represents the result of a workspace reset
type ResetWorkspaceResult struct{}

// ResetWorkspace wipes every session, uploaded case file and the workspace
// configuration. The next session cannot start until the workspace is
// configured again.
func (s *SessionService) ResetWorkspace(ctx context.Context, req ResetWorkspaceRequest) (*ResetWorkspaceResult, error) {
	if s.sessions == nil || s.caseFiles == nil || s.configs == nil {
		return nil, errors.New("session service not wired")
	}

	if err := s.sessions.DeleteAll(ctx); err != nil {
		return nil, err
	}
	if err := s.caseFiles.DeleteAll(ctx); err != nil {
		return nil, err
	}
	if err := s.configs.Clear(ctx); err != nil {
		return nil, err
	}

	return &ResetWorkspaceResult{}, nil
}
