package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// identifierPattern is the expected registry-ID shape: exactly 10 ASCII digits.
var identifierPattern = regexp.MustCompile(`^[0-9]{10}$`)

// ValidIdentifier reports whether s matches the registry-ID shape.
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// ProviderRecord is the operator-submitted identity claim. It is immutable
// input to a single workflow run.
type ProviderRecord struct {
	Identifier  string   `json:"identifier"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	InputSource string   `json:"input_source,omitempty"`
	Specialties []string `json:"specialties,omitempty"`
}

type WorkflowStatus string

const (
	StatusProcessing WorkflowStatus = "Processing"
	StatusReady      WorkflowStatus = "Ready"
	StatusFlagged    WorkflowStatus = "Flagged"
	StatusBlocked    WorkflowStatus = "Blocked"
	StatusUnverified WorkflowStatus = "Unverified"
)

func ValidWorkflowStatus(s string) bool {
	switch WorkflowStatus(s) {
	case StatusProcessing, StatusReady, StatusFlagged, StatusBlocked, StatusUnverified:
		return true
	}
	return false
}

// Terminal reports whether the status ends a workflow run.
func (s WorkflowStatus) Terminal() bool {
	return s != StatusProcessing
}

// ProviderState is the persisted per-record workflow state. Stage artifacts
// accumulate as the run progresses and are never discarded, so a run that
// blocks midway still leaves an inspectable audit trail.
type ProviderState struct {
	ID                  uuid.UUID           `json:"id"`
	Record              ProviderRecord      `json:"record"`
	Status              WorkflowStatus      `json:"status"`
	SecurityCheck       *SecurityAssessment `json:"security_check,omitempty"`
	AddressVerification *AddressAssessment  `json:"address_verification,omitempty"`
	Evidence            *EvidenceRecord     `json:"evidence,omitempty"`
	Scoring             *ScoringResult      `json:"scoring,omitempty"`
	Enrichment          *Enrichment         `json:"enrichment,omitempty"`
	AuditLog            []string            `json:"audit_log,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	LastUpdated         time.Time           `json:"last_updated"`
}

// StatePatch carries a partial update to a ProviderState. Nil fields are
// left untouched so each workflow stage can persist its artifact as it
// completes.
type StatePatch struct {
	Status              *WorkflowStatus
	SecurityCheck       *SecurityAssessment
	AddressVerification *AddressAssessment
	Evidence            *EvidenceRecord
	Scoring             *ScoringResult
	Enrichment          *Enrichment
	AuditLog            []string
}
