package verify

import (
	"strings"

	"github.com/verityhealth/verity/internal/domain"
)

// CheckRecord is the deterministic pre-flight screen. It runs before any
// evidence is acquired so that hostile or malformed input never consumes a
// registry lookup or an enrichment call.
func CheckRecord(rec domain.ProviderRecord) domain.SecurityAssessment {
	var reasons []string

	// Postal-code sabotage: a 5-6 digit run of zeros.
	if allZerosPostal.MatchString(rec.Address) {
		reasons = append(reasons, "Security block: invalid postal code pattern")
	}

	// Crude injection/XSS screen over every submitted field.
	if recordContainsAngleBrackets(rec) {
		reasons = append(reasons, "Security block: malformed characters detected")
	}

	return domain.SecurityAssessment{
		Passed:  len(reasons) == 0,
		Reasons: reasons,
	}
}

func recordContainsAngleBrackets(rec domain.ProviderRecord) bool {
	fields := []string{rec.Identifier, rec.Name, rec.Address, rec.InputSource}
	fields = append(fields, rec.Specialties...)
	for _, f := range fields {
		if strings.ContainsAny(f, "<>") {
			return true
		}
	}
	return false
}
