package service

import "errors"

// Error taxonomy for the drafting workflow. ErrNotConfigured is the only one
// fatal to a turn; the rest degrade inside the orchestrator and surface as
// status notes.
var (
	ErrNotConfigured     = errors.New("workspace not configured: knowledge stores or drafting agent missing")
	ErrExtractionFailed  = errors.New("document extraction failed")
	ErrLookupUnavailable = errors.New("knowledge store lookup unavailable")
	ErrAmbiguousAnswer   = errors.New("answer could not be attributed to a missing variable")
	ErrSessionNotFound   = errors.New("session not found")
	ErrUnknownVariable   = errors.New("variable is not part of the motion's schema")
	ErrDraftNotFound     = errors.New("no draft produced yet")
)
