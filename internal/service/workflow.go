package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/verityhealth/verity/internal/domain"
	"github.com/verityhealth/verity/internal/enrich"
	"github.com/verityhealth/verity/internal/verify"
	"go.uber.org/zap"
)

// WorkflowService sequences a single verification run:
// security gate -> address assessment -> evidence acquisition -> scoring
// -> conditional enrichment. Each stage's artifact is persisted as it
// completes so a crash mid-run leaves a partial, inspectable audit trail.
//
// Runs for different records are independent; each run owns its own state
// and no locking is needed between them.
type WorkflowService struct {
	store    domain.ProviderStore
	registry domain.RegistryClient
	enricher domain.EnrichmentClient
	scorer   *verify.Scorer
	logger   *zap.Logger
	progress domain.ProgressFunc
}

func NewWorkflowService(
	store domain.ProviderStore,
	registry domain.RegistryClient,
	enricher domain.EnrichmentClient,
	scorer *verify.Scorer,
	logger *zap.Logger,
) *WorkflowService {
	return &WorkflowService{
		store:    store,
		registry: registry,
		enricher: enricher,
		scorer:   scorer,
		logger:   logger,
	}
}

// SetProgressFunc installs an advisory stage-event callback. Events never
// affect control flow.
func (s *WorkflowService) SetProgressFunc(fn domain.ProgressFunc) {
	s.progress = fn
}

// Run executes the verification pipeline for one record and returns its
// terminal status. Any unexpected failure forces the record to Unverified
// so it stays visible for manual reprocessing instead of sticking in
// Processing forever.
func (s *WorkflowService) Run(ctx context.Context, providerID uuid.UUID, rec domain.ProviderRecord) (status domain.WorkflowStatus, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("workflow panicked",
				zap.String("provider_id", providerID.String()),
				zap.Any("panic", r))
			s.emit(domain.AgentOrchestrator, fmt.Sprintf("Critical system failure: %v", r), domain.ProgressError)
			s.persist(ctx, providerID, statusPatch(domain.StatusUnverified))
			status = domain.StatusUnverified
			err = fmt.Errorf("workflow panicked: %v", r)
		}
	}()

	s.emit(domain.AgentOrchestrator, "Starting provider validation workflow", domain.ProgressInfo)
	if rec.InputSource != "" {
		s.emit(domain.AgentOrchestrator, "Input source: "+rec.InputSource, domain.ProgressInfo)
	}
	s.persist(ctx, providerID, statusPatch(domain.StatusProcessing))

	// Stage 1: security gate. Failing short-circuits the run before any
	// evidence-acquisition cost is paid.
	securityCheck := verify.CheckRecord(rec)
	if !securityCheck.Passed {
		s.emit(domain.AgentSecurity, "Blocked by security checks: "+strings.Join(securityCheck.Reasons, ", "), domain.ProgressError)

		// The address assessment is still recorded for the audit trail.
		addressCheck := verify.AssessAddress(rec.Address)
		blocked := domain.StatusBlocked
		s.persist(ctx, providerID, domain.StatePatch{
			Status:              &blocked,
			SecurityCheck:       &securityCheck,
			AddressVerification: &addressCheck,
			AuditLog:            securityCheck.Reasons,
		})
		return domain.StatusBlocked, nil
	}
	s.emit(domain.AgentSecurity, "Security checks passed", domain.ProgressSuccess)
	s.persist(ctx, providerID, domain.StatePatch{SecurityCheck: &securityCheck})

	// Stage 2: world-aware address assessment. Always runs once the gate
	// passes; informational even if a later stage blocks.
	addressCheck := verify.AssessAddress(rec.Address)
	region := addressCheck.InferredCountry
	if region == "" {
		region = "GLOBAL"
	}
	if addressCheck.Confidence >= verify.AddressConfidenceFloor {
		s.emit(domain.AgentValidator,
			fmt.Sprintf("Address validated (%s) at %d%% confidence", region, addressCheck.Confidence),
			domain.ProgressSuccess)
	} else {
		s.emit(domain.AgentValidator,
			fmt.Sprintf("Address needs review (%s) at %d%% confidence: %s", region, addressCheck.Confidence, summarizeIssues(addressCheck.Issues)),
			domain.ProgressWarning)
	}
	s.persist(ctx, providerID, domain.StatePatch{AddressVerification: &addressCheck})

	// Stage 3: evidence acquisition.
	s.emit(domain.AgentAcquisition, "Collecting registry evidence", domain.ProgressInfo)
	evidence, lookupErr := s.registry.Lookup(ctx, rec)
	if lookupErr != nil {
		// Adapters express operational failure as SIMULATION provenance,
		// so an error here is a programming fault. Fail safe.
		s.logger.Error("registry lookup failed",
			zap.String("provider_id", providerID.String()),
			zap.Error(lookupErr))
		s.emit(domain.AgentAcquisition, "Registry adapter failure: "+lookupErr.Error(), domain.ProgressError)
		s.persist(ctx, providerID, statusPatch(domain.StatusUnverified))
		return domain.StatusUnverified, fmt.Errorf("registry lookup: %w", lookupErr)
	}

	switch evidence.Provenance {
	case domain.ProvenanceLiveAPI:
		s.emit(domain.AgentAcquisition, "Registry match found (live)", domain.ProgressSuccess)
	case domain.ProvenanceUserInput:
		s.emit(domain.AgentAcquisition, "No registry lookup performed (missing/invalid identifier)", domain.ProgressWarning)
	case domain.ProvenanceSimulation:
		s.emit(domain.AgentAcquisition, "Registry evidence unavailable; using a fallback evidence source", domain.ProgressWarning)
	default:
		s.emit(domain.AgentAcquisition,
			fmt.Sprintf("Evidence source: %s (not independently verified)", evidence.Provenance),
			domain.ProgressWarning)
	}
	s.persist(ctx, providerID, domain.StatePatch{Evidence: evidence})

	// Stage 4: scoring.
	s.emit(domain.AgentJudge, "Computing identity score and trust level", domain.ProgressInfo)
	scoring := s.scorer.Score(rec, *evidence, addressCheck)
	s.emit(domain.AgentJudge,
		fmt.Sprintf("Result: %s (score %d/100)", scoring.FinalStatus, scoring.IdentityScore),
		verdictLevel(scoring.FinalStatus))

	status = scoring.FinalStatus.WorkflowStatus()

	// Stage 5: enrichment, only for records worth displaying, and only
	// from the evidence's verified details - never the raw claim.
	var enrichment *domain.Enrichment
	if status == domain.StatusReady || status == domain.StatusFlagged {
		s.emit(domain.AgentEnrichment, "Generating provider summary", domain.ProgressInfo)
		generated, enrichErr := s.enricher.Enrich(ctx, evidence.Details)
		if enrichErr != nil {
			s.logger.Warn("enrichment failed; storing placeholder text",
				zap.String("provider_id", providerID.String()),
				zap.Error(enrichErr))
			s.emit(domain.AgentEnrichment, "Enrichment failed; storing placeholder text", domain.ProgressWarning)
			generated = &domain.Enrichment{
				Bio:              enrich.PlaceholderBio,
				EducationSummary: enrich.PlaceholderEducation,
				GeneratedAt:      time.Now().UTC(),
			}
		}
		enrichment = generated
	}

	s.persist(ctx, providerID, domain.StatePatch{
		Status:     &status,
		Scoring:    &scoring,
		Enrichment: enrichment,
		AuditLog:   scoring.Discrepancies,
	})

	s.emit(domain.AgentOrchestrator, "Workflow completed: "+string(status), domain.ProgressSuccess)
	return status, nil
}

// persist applies a stage patch. Persistence failures are logged and
// surfaced as events but never change a verdict.
func (s *WorkflowService) persist(ctx context.Context, id uuid.UUID, patch domain.StatePatch) {
	if err := s.store.UpdateState(ctx, id, patch); err != nil {
		s.logger.Error("state persist failed",
			zap.String("provider_id", id.String()),
			zap.Error(err))
		s.emit(domain.AgentOrchestrator, "State persist failed: "+err.Error(), domain.ProgressError)
	}
}

func (s *WorkflowService) emit(agent, message string, level domain.ProgressLevel) {
	switch level {
	case domain.ProgressWarning:
		s.logger.Warn(message, zap.String("agent", agent))
	case domain.ProgressError:
		s.logger.Error(message, zap.String("agent", agent))
	default:
		s.logger.Info(message, zap.String("agent", agent))
	}
	if s.progress != nil {
		s.progress(domain.ProgressEvent{Agent: agent, Message: message, Level: level})
	}
}

func statusPatch(status domain.WorkflowStatus) domain.StatePatch {
	return domain.StatePatch{Status: &status}
}

func verdictLevel(v domain.VerificationStatus) domain.ProgressLevel {
	switch v {
	case domain.VerificationVerified:
		return domain.ProgressSuccess
	case domain.VerificationBlocked:
		return domain.ProgressError
	default:
		// FLAGGED and UNVERIFIED are actionable, not failures.
		return domain.ProgressWarning
	}
}

func summarizeIssues(issues []string) string {
	if len(issues) <= 2 {
		return strings.Join(issues, "; ")
	}
	return strings.Join(issues[:2], "; ") + "; ..."
}
