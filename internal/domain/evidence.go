package domain

import "time"

// ProvenanceType tags how a piece of registry evidence was obtained. It is
// the sole input to the trust level used during scoring.
type ProvenanceType string

const (
	// ProvenanceLiveAPI is externally verified evidence from a live lookup.
	ProvenanceLiveAPI ProvenanceType = "LIVE_API"
	// ProvenanceCachedValid is a recent valid cache hit.
	ProvenanceCachedValid ProvenanceType = "CACHED_VALID"
	// ProvenanceStaleLive is live data past its freshness window.
	ProvenanceStaleLive ProvenanceType = "STALE_LIVE"
	// ProvenanceSimulation is heuristic/fallback evidence that cannot be
	// independently verified (registry outage, degraded mode).
	ProvenanceSimulation ProvenanceType = "SIMULATION"
	// ProvenanceUserInput is the raw unverified claim.
	ProvenanceUserInput ProvenanceType = "USER_INPUT"
)

func ValidProvenance(p string) bool {
	switch ProvenanceType(p) {
	case ProvenanceLiveAPI, ProvenanceCachedValid, ProvenanceStaleLive, ProvenanceSimulation, ProvenanceUserInput:
		return true
	}
	return false
}

// DefaultSimulationTrust is the trust multiplier for SIMULATION evidence.
// The scorer exposes it as a configuration knob; this is the shipped default.
const DefaultSimulationTrust = 0.5

// TrustLevel returns the fixed trust multiplier for a provenance type.
// Trust is a pure function of provenance and is never recomputed from
// other fields.
func (p ProvenanceType) TrustLevel() float64 {
	switch p {
	case ProvenanceLiveAPI:
		return 1.0
	case ProvenanceCachedValid:
		return 0.9
	case ProvenanceStaleLive:
		return 0.5
	case ProvenanceSimulation:
		return DefaultSimulationTrust
	default:
		return 0.0
	}
}

type LicenseStatus string

const (
	LicenseActive   LicenseStatus = "ACTIVE"
	LicenseInactive LicenseStatus = "INACTIVE"
	LicenseNotFound LicenseStatus = "NOT_FOUND"
	LicenseError    LicenseStatus = "ERROR"
)

// EvidenceDetails are the registry-side fields compared against the claim.
type EvidenceDetails struct {
	Identifier    string        `json:"identifier"`
	Name          string        `json:"name"`
	Address       string        `json:"address"`
	LicenseStatus LicenseStatus `json:"license_status"`
	Specialties   []string      `json:"specialties"`
}

// EvidenceRecord is produced once per workflow run by the acquisition
// adapter and never mutated afterward.
type EvidenceRecord struct {
	Provenance ProvenanceType  `json:"provenance"`
	ObservedAt time.Time       `json:"observed_at"`
	Details    EvidenceDetails `json:"details"`
}
