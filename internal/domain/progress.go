package domain

// Progress agents, one per workflow stage.
const (
	AgentOrchestrator = "ORCHESTRATOR"
	AgentSecurity     = "SECURITY"
	AgentValidator    = "VALIDATOR"
	AgentAcquisition  = "ACQUISITION"
	AgentJudge        = "JUDGE"
	AgentEnrichment   = "ENRICHMENT"
)

type ProgressLevel string

const (
	ProgressInfo    ProgressLevel = "info"
	ProgressSuccess ProgressLevel = "success"
	ProgressWarning ProgressLevel = "warning"
	ProgressError   ProgressLevel = "error"
)

// ProgressEvent is an advisory stage update. Events never affect control
// flow; consumers may drop them freely.
type ProgressEvent struct {
	Agent   string        `json:"agent"`
	Message string        `json:"message"`
	Level   ProgressLevel `json:"level"`
}

// ProgressFunc receives stage updates during a workflow run. A nil
// ProgressFunc disables event delivery.
type ProgressFunc func(ProgressEvent)
