package domain

import "time"

// AddressAssessment is the structural verdict on a claimed address.
// Derived purely from the address text; identical input always yields an
// identical assessment.
type AddressAssessment struct {
	// InferredCountry is an ISO-ish country code, or "" when no rule matched.
	InferredCountry string   `json:"inferred_country,omitempty"`
	Confidence      int      `json:"confidence"`
	Issues          []string `json:"issues,omitempty"`
	Normalized      string   `json:"normalized"`
}

// SecurityAssessment is the deterministic pre-flight screen result.
type SecurityAssessment struct {
	Passed  bool     `json:"passed"`
	Reasons []string `json:"reasons,omitempty"`
}

type VerificationStatus string

const (
	VerificationVerified   VerificationStatus = "VERIFIED"
	VerificationFlagged    VerificationStatus = "FLAGGED"
	VerificationBlocked    VerificationStatus = "BLOCKED"
	VerificationUnverified VerificationStatus = "UNVERIFIED"
)

// WorkflowStatus maps a scoring verdict to the persisted record status.
func (v VerificationStatus) WorkflowStatus() WorkflowStatus {
	switch v {
	case VerificationVerified:
		return StatusReady
	case VerificationFlagged:
		return StatusFlagged
	case VerificationBlocked:
		return StatusBlocked
	default:
		return StatusUnverified
	}
}

// ScoringResult is the terminal artifact of the scoring engine.
type ScoringResult struct {
	IdentityScore int                `json:"identity_score"`
	TrustLevel    float64            `json:"trust_level"`
	IsFatal       bool               `json:"is_fatal"`
	Discrepancies []string           `json:"discrepancies,omitempty"`
	FinalStatus   VerificationStatus `json:"final_status"`
}

// Enrichment is display text generated from verified evidence details.
// It is cosmetic; enrichment failure never affects a verdict.
type Enrichment struct {
	Bio              string    `json:"bio"`
	EducationSummary string    `json:"education_summary"`
	GeneratedAt      time.Time `json:"generated_at"`
}
