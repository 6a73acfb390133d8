package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/redmercy-dev/MotionsAssistant/models"
	"github.com/redmercy-dev/MotionsAssistant/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	defaultExtractTimeout = 90 * time.Second
	defaultLookupTimeout  = 30 * time.Second
	defaultComposeTimeout = 120 * time.Second
)

// OrchestratorService drives the per-session drafting state machine:
// Idle -> CollectingFacts -> AwaitingClarification -> Drafted -> Revising.
// Each user turn is resolved fully (extraction merge, state transition,
// optional lookup, optional draft) before the next turn for the same session
// is accepted. Independent sessions run in parallel.
type OrchestratorService struct {
	sessions  SessionStore
	turns     TurnStore
	drafts    DraftStore
	caseFiles CaseFileStore
	configs   ConfigStore
	files     storage.Storage
	extractor FactExtractor
	lookup    KnowledgeLookup
	composer  DraftComposer
	fallback  DraftComposer

	extractTimeout time.Duration
	lookupTimeout  time.Duration
	composeTimeout time.Duration

	locks sync.Map // session ID -> *sync.Mutex
}

// OrchestratorOption is a functional option for OrchestratorService
type OrchestratorOption func(*OrchestratorService)

// OrchestratorWithSessionStore sets the session store
func OrchestratorWithSessionStore(s SessionStore) OrchestratorOption {
	return func(o *OrchestratorService) {
		o.sessions = s
	}
}

// OrchestratorWithTurnStore sets the conversation turn store
func OrchestratorWithTurnStore(t TurnStore) OrchestratorOption {
	return func(o *OrchestratorService) {
		o.turns = t
	}
}

// OrchestratorWithDraftStore sets the draft store
func OrchestratorWithDraftStore(d DraftStore) OrchestratorOption {
	return func(o *OrchestratorService) {
		o.drafts = d
	}
}

// OrchestratorWithCaseFileStore sets the case file store
func OrchestratorWithCaseFileStore(c CaseFileStore) OrchestratorOption {
	return func(o *OrchestratorService) {
		o.caseFiles = c
	}
}

// OrchestratorWithConfigStore sets the workspace config store
func OrchestratorWithConfigStore(c ConfigStore) OrchestratorOption {
	return func(o *OrchestratorService) {
		o.configs = c
	}
}

// OrchestratorWithStorage sets the file storage backend
func OrchestratorWithStorage(s storage.Storage) OrchestratorOption {
	return func(o *OrchestratorService) {
		o.files = s
	}
}

// OrchestratorWithExtractor sets the fact extractor
func OrchestratorWithExtractor(e FactExtractor) OrchestratorOption {
	return func(o *OrchestratorService) {
		o.extractor = e
	}
}

// OrchestratorWithLookup sets the knowledge lookup
func OrchestratorWithLookup(l KnowledgeLookup) OrchestratorOption {
	return func(o *OrchestratorService) {
		o.lookup = l
	}
}

// OrchestratorWithComposer sets the drafting-agent composer
func OrchestratorWithComposer(c DraftComposer) OrchestratorOption {
	return func(o *OrchestratorService) {
		o.composer = c
	}
}

// OrchestratorWithTimeouts overrides the external-call timeouts
func OrchestratorWithTimeouts(extract, lookup, compose time.Duration) OrchestratorOption {
	return func(o *OrchestratorService) {
		o.extractTimeout = extract
		o.lookupTimeout = lookup
		o.composeTimeout = compose
	}
}

// NewOrchestratorService creates a new drafting orchestrator
func NewOrchestratorService(opts ...OrchestratorOption) *OrchestratorService {
	o := &OrchestratorService{
		fallback:       NewAssembler(),
		extractTimeout: defaultExtractTimeout,
		lookupTimeout:  defaultLookupTimeout,
		composeTimeout: defaultComposeTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// TurnUpload is one document uploaded with a user turn
type TurnUpload struct {
	Filename string
	Data     []byte
}

// HandleTurnRequest represents one user turn: a message, uploaded documents,
// or both
type HandleTurnRequest struct {
	SessionID uuid.UUID
	Message   string
	Uploads   []TurnUpload
}

// HandleTurnResult represents the orchestrator's response to a turn
type HandleTurnResult struct {
	Session *models.Session
	Reply   *models.ConversationTurn
	Draft   *models.DraftState // set when this turn produced or revised a draft
}

// HandleTurn resolves one user turn end to end. Extraction and lookup
// failures degrade inside this method and surface as status notes in the
// reply; they never corrupt the ledger or fail the turn.
func (o *OrchestratorService) HandleTurn(ctx context.Context, req HandleTurnRequest) (*HandleTurnResult, error) {
	if o.sessions == nil || o.turns == nil || o.drafts == nil {
		return nil, errors.New("orchestrator not wired")
	}

	unlock := o.lockSession(req.SessionID)
	defer unlock()

	session, err := o.sessions.GetByID(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	// Leaving Idle requires a fully configured workspace, even if the
	// configuration was wiped after the session was created.
	if session.State == models.StateIdle {
		if err := o.requireConfigured(ctx); err != nil {
			return nil, err
		}
		session.State = models.StateCollectingFacts
	}

	attachments, err := o.storeUploads(ctx, session, req.Uploads)
	if err != nil {
		return nil, err
	}

	userTurn := &models.ConversationTurn{
		ID:          uuid.New(),
		SessionID:   session.ID,
		Speaker:     models.SpeakerUser,
		Content:     req.Message,
		Attachments: attachments,
	}
	if err := o.turns.Append(ctx, userTurn); err != nil {
		return nil, err
	}

	var notes []string
	ledgerChanged := false

	// A reply while clarification is pending is read first as answers to
	// the variables just asked about.
	if session.State == models.StateAwaitingClarification && strings.TrimSpace(req.Message) != "" {
		changed, note := o.applyClarification(session, req.Message)
		ledgerChanged = ledgerChanged || changed
		if note != "" {
			notes = append(notes, note)
		}
	}

	for _, upload := range req.Uploads {
		facts, extractErr := o.extractFacts(ctx, session, upload)
		if extractErr != nil {
			log.Printf("Warning: extraction failed for %s: %v", upload.Filename, extractErr)
			notes = append(notes, fmt.Sprintf("I could not read %s, so no facts were taken from it.", upload.Filename))
			continue
		}
		if applied := session.Ledger.Merge(facts); len(applied) > 0 {
			ledgerChanged = true
		}
	}

	result := &HandleTurnResult{Session: session}

	switch {
	case !session.Ledger.IsComplete():
		session.Pending = models.PendingVariables(session.Ledger.Missing())
		session.State = models.StateAwaitingClarification
		result.Reply, err = o.replyTurn(ctx, session, o.clarificationPrompt(session, notes))
		if err != nil {
			return nil, err
		}

	case session.State == models.StateDrafted && !ledgerChanged:
		result.Reply, err = o.replyTurn(ctx, session,
			joinNotes(notes, "The draft is current. Correct a variable or upload a new document to revise it."))
		if err != nil {
			return nil, err
		}

	default:
		if session.State == models.StateDrafted {
			session.State = models.StateRevising
		}
		draft, draftNotes, draftErr := o.produceDraft(ctx, session)
		if draftErr != nil {
			return nil, draftErr
		}
		session.Pending = models.PendingVariables{}
		session.State = models.StateDrafted
		result.Draft = draft
		notes = append(notes, draftNotes...)
		result.Reply, err = o.replyTurn(ctx, session, joinNotes(notes, draftSummary(session, draft)))
		if err != nil {
			return nil, err
		}
	}

	if err := o.sessions.Update(ctx, session); err != nil {
		return nil, err
	}
	return result, nil
}

// CorrectVariableRequest represents a user correction to one ledger variable
type CorrectVariableRequest struct {
	SessionID uuid.UUID
	Name      string
	Value     string
}

// CorrectVariableResult represents the result of a correction
type CorrectVariableResult struct {
	Session *models.Session
	Draft   *models.DraftState // set when the correction triggered a re-draft
}

// CorrectVariable records a user-supplied value for one variable. Provenance
// becomes UserProvided and later extractions can never displace it. A
// correction while Drafted moves through Revising and produces a new draft
// revision.
func (o *OrchestratorService) CorrectVariable(ctx context.Context, req CorrectVariableRequest) (*CorrectVariableResult, error) {
	if o.sessions == nil || o.drafts == nil {
		return nil, errors.New("orchestrator not wired")
	}

	unlock := o.lockSession(req.SessionID)
	defer unlock()

	session, err := o.sessions.GetByID(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if !session.Ledger.SetUserValue(req.Name, req.Value) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVariable, req.Name)
	}

	result := &CorrectVariableResult{Session: session}

	switch {
	case session.State == models.StateDrafted:
		session.State = models.StateRevising
		draft, notes, draftErr := o.produceDraft(ctx, session)
		if draftErr != nil {
			return nil, draftErr
		}
		session.State = models.StateDrafted
		result.Draft = draft
		if o.turns != nil {
			if _, replyErr := o.replyTurn(ctx, session, joinNotes(notes, draftSummary(session, draft))); replyErr != nil {
				return nil, replyErr
			}
		}

	case !session.Ledger.IsComplete():
		session.Pending = models.PendingVariables(session.Ledger.Missing())
		if session.State == models.StateIdle {
			session.State = models.StateCollectingFacts
		}

	default:
		// Ledger just became complete through corrections alone.
		draft, notes, draftErr := o.produceDraft(ctx, session)
		if draftErr != nil {
			return nil, draftErr
		}
		session.Pending = models.PendingVariables{}
		session.State = models.StateDrafted
		result.Draft = draft
		if o.turns != nil {
			if _, replyErr := o.replyTurn(ctx, session, joinNotes(notes, draftSummary(session, draft))); replyErr != nil {
				return nil, replyErr
			}
		}
	}

	if err := o.sessions.Update(ctx, session); err != nil {
		return nil, err
	}
	return result, nil
}

// lockSession serializes turns per session
func (o *OrchestratorService) lockSession(id uuid.UUID) func() {
	mu, _ := o.locks.LoadOrStore(id, &sync.Mutex{})
	lock := mu.(*sync.Mutex)
	lock.Lock()
	return lock.Unlock
}

func (o *OrchestratorService) requireConfigured(ctx context.Context) error {
	if o.configs == nil {
		return ErrNotConfigured
	}
	cfg, err := o.configs.Get(ctx)
	if err != nil {
		return fmt.Errorf("load workspace config: %w", err)
	}
	if !cfg.Configured() {
		return ErrNotConfigured
	}
	return nil
}

// storeUploads persists uploaded documents and returns the turn attachments
func (o *OrchestratorService) storeUploads(ctx context.Context, session *models.Session, uploads []TurnUpload) (models.TurnAttachments, error) {
	attachments := make(models.TurnAttachments, 0, len(uploads))
	for _, upload := range uploads {
		kind, err := models.DocumentKindFromFilename(upload.Filename)
		if err != nil {
			return nil, err
		}

		file := &models.CaseFile{
			ID:        uuid.New(),
			SessionID: &session.ID,
			Filename:  upload.Filename,
			Kind:      kind,
			Size:      int64(len(upload.Data)),
		}

		if o.files != nil {
			path, err := o.files.Upload(ctx, file.ID, upload.Filename, bytes.NewReader(upload.Data))
			if err != nil {
				return nil, fmt.Errorf("store %s: %w", upload.Filename, err)
			}
			file.StoragePath = path
		}
		if o.caseFiles != nil {
			if err := o.caseFiles.Create(ctx, file); err != nil {
				return nil, err
			}
		}

		attachments = append(attachments, models.TurnAttachment{FileID: file.ID, Filename: upload.Filename})
	}
	return attachments, nil
}

// applyClarification attributes a free-text answer to the pending variables.
// Matched values land as UserProvided; an answer that matched nothing yields
// an ambiguity note so the user is re-prompted rather than guessed at.
func (o *OrchestratorService) applyClarification(session *models.Session, message string) (bool, string) {
	var pending []models.VariableSpec
	for _, name := range session.Pending {
		if v, ok := session.Ledger.Get(name); ok && v.Resolved() {
			continue
		}
		if spec, ok := session.MotionType.SchemaVariable(name); ok {
			pending = append(pending, spec)
		}
	}
	if len(pending) == 0 {
		return false, ""
	}

	matched, _ := attributeAnswer(message, pending)
	for name, value := range matched {
		session.Ledger.SetUserValue(name, value)
	}

	if len(matched) == 0 {
		log.Printf("Warning: %v for session %s", ErrAmbiguousAnswer, session.ID)
		return false, "I could not confidently match your answer to the missing items, so nothing was recorded."
	}
	return true, ""
}

// extractFacts runs one document through the fact extractor under a timeout
func (o *OrchestratorService) extractFacts(ctx context.Context, session *models.Session, upload TurnUpload) (models.ExtractedFacts, error) {
	if o.extractor == nil {
		return nil, fmt.Errorf("%w: no extractor wired", ErrExtractionFailed)
	}

	kind, err := models.DocumentKindFromFilename(upload.Filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	extractCtx, cancel := context.WithTimeout(ctx, o.extractTimeout)
	defer cancel()

	return o.extractor.Extract(extractCtx, ExtractRequest{
		Document:   upload.Data,
		Kind:       kind,
		MotionType: session.MotionType,
	})
}

// produceDraft runs the lookup+compose step and persists a new revision.
// Lookup failure degrades to a citation gap; composer failure degrades to
// the deterministic assembler. Neither fails the turn.
func (o *OrchestratorService) produceDraft(ctx context.Context, session *models.Session) (*models.DraftState, []string, error) {
	var notes []string

	citations, citationGap := o.retrieveCitations(ctx, session)
	if citationGap {
		notes = append(notes, "Supporting authority could not be retrieved; the draft was produced without citations.")
	}

	composeReq := ComposeRequest{
		Motion:       session.MotionType,
		Ledger:       session.Ledger,
		Jurisdiction: session.Jurisdiction,
		Chapter:      session.Chapter,
		Citations:    citations,
	}
	if o.configs != nil {
		if cfg, err := o.configs.Get(ctx); err == nil {
			composeReq.AgentID = cfg.DraftingAgentID
		}
	}

	composed, degraded := o.compose(ctx, composeReq)
	if degraded {
		notes = append(notes, "The drafting agent was unavailable; a template rendering was produced instead.")
	}

	draft := &models.DraftState{
		ID:                uuid.New(),
		SessionID:         session.ID,
		MotionText:        composed.MotionText,
		ProposedOrderText: composed.ProposedOrderText,
		Citations:         citations,
		CitationGap:       citationGap,
		Degraded:          degraded,
	}
	if err := o.drafts.Create(ctx, draft); err != nil {
		return nil, nil, err
	}
	return draft, notes, nil
}

// retrieveCitations issues the single per-draft knowledge lookup
func (o *OrchestratorService) retrieveCitations(ctx context.Context, session *models.Session) (models.Citations, bool) {
	if o.lookup == nil {
		return models.Citations{}, true
	}

	lookupCtx, cancel := context.WithTimeout(ctx, o.lookupTimeout)
	defer cancel()

	results, err := o.lookup.Lookup(lookupCtx, models.KnowledgeQuery{
		Query:        fmt.Sprintf("governing standard and supporting authority for a %s under %s", session.MotionType.Label(), session.MotionType.Statute()),
		MotionType:   session.MotionType,
		Jurisdiction: session.Jurisdiction,
		Chapter:      session.Chapter,
	})
	if err != nil {
		log.Printf("Warning: knowledge lookup failed for session %s: %v", session.ID, err)
		return models.Citations{}, true
	}

	citations := make(models.Citations, 0, len(results))
	for _, r := range results {
		citations = append(citations, models.Citation{Snippet: r.Snippet, Citation: r.Citation})
	}
	return citations, false
}

// compose calls the drafting agent, falling back to the assembler on failure
func (o *OrchestratorService) compose(ctx context.Context, req ComposeRequest) (*ComposeResult, bool) {
	if o.composer != nil && req.AgentID != "" {
		composeCtx, cancel := context.WithTimeout(ctx, o.composeTimeout)
		defer cancel()

		result, err := o.composer.Compose(composeCtx, req)
		if err == nil {
			return result, false
		}
		log.Printf("Warning: drafting agent failed, falling back to template: %v", err)
	}

	result, _ := o.fallback.Compose(ctx, req)
	return result, true
}

// replyTurn appends the orchestrator's reply to the conversation record
func (o *OrchestratorService) replyTurn(ctx context.Context, session *models.Session, content string) (*models.ConversationTurn, error) {
	turn := &models.ConversationTurn{
		ID:        uuid.New(),
		SessionID: session.ID,
		Speaker:   models.SpeakerSystem,
		Content:   content,
	}
	if err := o.turns.Append(ctx, turn); err != nil {
		return nil, err
	}
	return turn, nil
}

// clarificationPrompt lists the still-missing variables in schema order
func (o *OrchestratorService) clarificationPrompt(session *models.Session, notes []string) string {
	var asks []string
	for _, name := range session.Ledger.Missing() {
		if spec, ok := session.MotionType.SchemaVariable(name); ok {
			asks = append(asks, "- "+spec.Prompt)
		}
	}

	var b strings.Builder
	for _, note := range notes {
		b.WriteString(note + "\n")
	}
	fmt.Fprintf(&b, "To draft the %s I still need:\n", session.MotionType.Label())
	b.WriteString(strings.Join(asks, "\n"))
	return b.String()
}

func draftSummary(session *models.Session, draft *models.DraftState) string {
	label := session.MotionType.Label()
	if draft.Revision > 1 {
		return fmt.Sprintf("Your %s has been revised (revision %d). Review the motion and proposed order when ready.", label, draft.Revision)
	}
	return fmt.Sprintf("Your %s is drafted, with a proposed order. Review it and correct any variable to revise.", label)
}

func joinNotes(notes []string, tail string) string {
	if len(notes) == 0 {
		return tail
	}
	return strings.Join(notes, "\n") + "\n" + tail
}
