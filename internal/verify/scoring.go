package verify

import (
	"fmt"
	"math"

	"github.com/verityhealth/verity/internal/domain"
)

const (
	// SimilarityThreshold is the minimum fuzzy match for claim vs evidence
	// fields before a mismatch penalty applies.
	SimilarityThreshold = 0.8
	// AddressConfidenceFloor is the assessment confidence below which
	// address quality is penalized.
	AddressConfidenceFloor = 80
	// MaxAddressQualityPenalty caps the address quality penalty so a bad
	// address cannot fully dominate scoring on its own.
	MaxAddressQualityPenalty = 40
	// NameMismatchPenalty is the flat penalty for a weak name match.
	NameMismatchPenalty = 20
	// LicenseNotFoundPenalty applies when a trusted source has no license.
	LicenseNotFoundPenalty = 50
	// VerifiedScoreFloor is the final score below which a trusted record
	// is flagged instead of verified.
	VerifiedScoreFloor = 80
	// VerifiableTrustFloor is the trust level below which evidence is too
	// weak to affirmatively verify or flag anything.
	VerifiableTrustFloor = 0.5
)

// Scorer fuses the security-gated claim, the acquired evidence, and the
// address assessment into a final identity score and status. Scoring is
// bit-for-bit reproducible: no randomness, no wall-clock reads.
type Scorer struct {
	// SimulationTrust is the trust multiplier assigned to SIMULATION
	// provenance. Kept configurable pending product clarification on
	// whether fallback evidence should count for anything at all.
	SimulationTrust float64
}

func NewScorer() *Scorer {
	return &Scorer{SimulationTrust: domain.DefaultSimulationTrust}
}

// TrustFor returns the trust multiplier for a provenance type, honoring
// the configured SIMULATION override.
func (s *Scorer) TrustFor(p domain.ProvenanceType) float64 {
	if p == domain.ProvenanceSimulation {
		return s.SimulationTrust
	}
	return p.TrustLevel()
}

// Score computes the verification verdict for one claim. All penalties
// accumulate on an integer running score starting at 100; trust scaling
// is applied last so a perfect raw score from untrusted evidence still
// collapses toward zero.
func (s *Scorer) Score(claim domain.ProviderRecord, evidence domain.EvidenceRecord, address domain.AddressAssessment) domain.ScoringResult {
	score := 100
	var discrepancies []string
	isFatal := false

	validID := domain.ValidIdentifier(claim.Identifier)
	if !validID {
		discrepancies = append(discrepancies, "Missing/invalid registry ID")
		score -= 10
	}

	// Fold in the structural address verdict.
	for _, issue := range address.Issues {
		discrepancies = append(discrepancies, "Address: "+issue)
	}
	if address.Confidence < AddressConfidenceFloor {
		penalty := int(math.Round(float64(AddressConfidenceFloor-address.Confidence) * 0.75))
		if penalty > MaxAddressQualityPenalty {
			penalty = MaxAddressQualityPenalty
		}
		score -= penalty
		discrepancies = append(discrepancies, fmt.Sprintf("Address quality low (%d%%)", address.Confidence))
	}

	trust := s.TrustFor(evidence.Provenance)

	// A found-but-inactive license is fatal and overrides every other
	// signal. NOT_FOUND only counts against the claim when the source was
	// trusted: absence of proof from an untrusted source proves nothing.
	if evidence.Details.LicenseStatus == domain.LicenseInactive {
		score = 0
		isFatal = true
		discrepancies = append(discrepancies, "License is INACTIVE/REVOKED")
	} else if evidence.Details.LicenseStatus == domain.LicenseNotFound && trust > 0 {
		score -= LicenseNotFoundPenalty
		discrepancies = append(discrepancies, "License not found in registry")
	}

	addrSimilarity := Similarity(claim.Address, evidence.Details.Address)
	if addrSimilarity < SimilarityThreshold {
		score -= int(math.Round((SimilarityThreshold - addrSimilarity) * 100))
		discrepancies = append(discrepancies, fmt.Sprintf("Address mismatch (%d%% match)", int(math.Round(addrSimilarity*100))))
	}

	nameSimilarity := Similarity(claim.Name, evidence.Details.Name)
	if nameSimilarity < SimilarityThreshold {
		score -= NameMismatchPenalty
		discrepancies = append(discrepancies, fmt.Sprintf("Name mismatch (%d%% match)", int(math.Round(nameSimilarity*100))))
	}

	finalScore := int(math.Round(float64(score) * trust))
	if finalScore < 0 {
		finalScore = 0
	}

	finalStatus := domain.VerificationVerified
	switch {
	case isFatal:
		finalStatus = domain.VerificationBlocked
	case trust < VerifiableTrustFloor:
		// Evidence too weak to affirmatively verify or flag. Explain why.
		finalStatus = domain.VerificationUnverified
		switch {
		case !validID:
			discrepancies = append(discrepancies, "Unverified: no valid registry ID provided; add a 10-digit identifier to enable registry verification")
		case evidence.Provenance == domain.ProvenanceSimulation:
			discrepancies = append(discrepancies, "Unverified: registry evidence unavailable at the time of validation; try again later")
		default:
			discrepancies = append(discrepancies, "Unverified: no trusted registry evidence available for verification")
		}
	case finalScore < VerifiedScoreFloor:
		finalStatus = domain.VerificationFlagged
	}

	return domain.ScoringResult{
		IdentityScore: finalScore,
		TrustLevel:    trust,
		IsFatal:       isFatal,
		Discrepancies: discrepancies,
		FinalStatus:   finalStatus,
	}
}
