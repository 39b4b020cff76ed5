package verify

import (
	"regexp"
	"strings"

	"github.com/verityhealth/verity/internal/domain"
)

// Address normalization.
var (
	wsRun        = regexp.MustCompile(`\s+`)
	commaSpacing = regexp.MustCompile(`\s*,\s*`)
	commaRun     = regexp.MustCompile(`,+`)
	emptySegment = regexp.MustCompile(`,\s*,`)
)

// Postal-code and locality signals, matched against the lowercased
// normalized address.
var (
	indiaPINSignal  = regexp.MustCompile(`(^|[^0-9])[0-9]{6}([^0-9]|$)`)
	indiaPINCapture = regexp.MustCompile(`(?:^|[^0-9])([0-9]{6})(?:[^0-9]|$)`)
	indiaCountry    = regexp.MustCompile(`\bindia\b`)
	indiaStateHint  = regexp.MustCompile(`\b(maharashtra|karnataka|tamil nadu|telangana|kerala|delhi|uttar pradesh|west bengal|gujarat|rajasthan|punjab|haryana|odisha|assam|bihar)\b`)
	indiaState      = regexp.MustCompile(`(?i)\b(andhra pradesh|arunachal pradesh|assam|bihar|chhattisgarh|goa|gujarat|haryana|himachal pradesh|jharkhand|karnataka|kerala|madhya pradesh|maharashtra|manipur|meghalaya|mizoram|nagaland|odisha|punjab|rajasthan|sikkim|tamil nadu|telangana|tripura|uttar pradesh|uttarakhand|west bengal|delhi|jammu and kashmir|ladakh|puducherry)\b`)
	indiaLocality   = regexp.MustCompile(`(?i)\b(flat|fl|plot|near|opp|opposite|behind|beside|sector|phase|taluk|tehsil|district|dist|road|rd|street|st|lane|ln|nagar|colony|layout)\b`)

	usZip      = regexp.MustCompile(`\b[0-9]{5}(-[0-9]{4})?\b`)
	usCountry  = regexp.MustCompile(`\b(usa|united states)\b`)
	ukPostcode = regexp.MustCompile(`(?i)\b[a-z]{1,2}[0-9][a-z0-9]?\s*[0-9][a-z]{2}\b`)
	ukCountry  = regexp.MustCompile(`\b(uk|united kingdom)\b`)
	caPostal   = regexp.MustCompile(`(?i)\b[abceghj-nprstvxy][0-9][abceghj-nprstv-z]\s*[0-9][abceghj-nprstv-z][0-9]\b`)
	caCountry  = regexp.MustCompile(`\bcanada\b`)
	auCountry  = regexp.MustCompile(`\b(australia|au)\b`)
	auState    = regexp.MustCompile(`\b(nsw|vic|qld|wa|sa|tas|act|nt)\b`)
	nzCountry  = regexp.MustCompile(`\b(new zealand|nz)\b`)
	deCountry  = regexp.MustCompile(`\b(germany|deutschland|de)\b`)
	frCountry  = regexp.MustCompile(`\b(france|fr)\b`)

	fourDigitRun = regexp.MustCompile(`\b[0-9]{4}\b`)
	fiveDigitRun = regexp.MustCompile(`\b[0-9]{5}\b`)

	anyLetter    = regexp.MustCompile(`[a-zA-Z]`)
	anyDigit     = regexp.MustCompile(`[0-9]`)
	anySeparator = regexp.MustCompile(`[,-]`)

	placeholderText = regexp.MustCompile(`\b(unknown|n/?a|null island|invalid address)\b`)
	allZerosPostal  = regexp.MustCompile(`\b0{5,6}\b`)
)

// countryRule pairs a country code with the signals that select it. Rules
// are evaluated in order and the first match wins, so the more specific
// signals (a 6-digit PIN run) must stay ahead of the broader ones.
type countryRule struct {
	code    string
	signals []*regexp.Regexp
}

var countryRules = []countryRule{
	{code: "IN", signals: []*regexp.Regexp{indiaPINSignal, indiaCountry, indiaStateHint}},
	{code: "US", signals: []*regexp.Regexp{usZip, usCountry}},
	{code: "GB", signals: []*regexp.Regexp{ukPostcode, ukCountry}},
	{code: "CA", signals: []*regexp.Regexp{caPostal, caCountry}},
	{code: "AU", signals: []*regexp.Regexp{auCountry, auState}},
	{code: "NZ", signals: []*regexp.Regexp{nzCountry}},
	{code: "DE", signals: []*regexp.Regexp{deCountry}},
	{code: "FR", signals: []*regexp.Regexp{frCountry}},
}

// NormalizeAddress collapses whitespace, canonicalizes comma spacing, and
// strips duplicate commas.
func NormalizeAddress(address string) string {
	s := wsRun.ReplaceAllString(address, " ")
	s = commaSpacing.ReplaceAllString(s, ", ")
	s = commaRun.ReplaceAllString(s, ",")
	s = emptySegment.ReplaceAllString(s, ",")
	return strings.TrimSpace(s)
}

// InferCountry applies the ordered rule table to free-text and returns a
// country code, or "" when no rule matches.
func InferCountry(address string) string {
	lower := strings.ToLower(address)
	for _, rule := range countryRules {
		for _, signal := range rule.signals {
			if signal.MatchString(lower) {
				return rule.code
			}
		}
	}
	return ""
}

// AssessAddress runs the world-aware structural validation over a claimed
// address and returns a confidence percentage plus human-readable issues.
func AssessAddress(address string) domain.AddressAssessment {
	normalized := NormalizeAddress(address)
	lower := strings.ToLower(normalized)
	country := InferCountry(normalized)

	var issues []string
	confidence := 100

	// Signals that an address is obviously bogus, regardless of country.
	if len(normalized) < 8 {
		issues = append(issues, "Address too short")
		confidence -= 50
	}
	if !anyLetter.MatchString(normalized) {
		issues = append(issues, "Address missing alphabetic locality text")
		confidence -= 30
	}
	if placeholderText.MatchString(lower) {
		issues = append(issues, "Address contains placeholder/bogus text")
		confidence -= 60
	}
	if allZerosPostal.MatchString(lower) {
		issues = append(issues, "Postal code appears invalid (all zeros)")
		confidence -= 80
	}

	switch country {
	case "IN":
		issues, confidence = assessIndianAddress(normalized, issues, confidence)
	case "US":
		if !usZip.MatchString(normalized) {
			issues = append(issues, "Missing US ZIP code")
			confidence -= 25
		}
	case "GB":
		if !ukPostcode.MatchString(normalized) {
			issues = append(issues, "Missing UK postcode")
			confidence -= 25
		}
	case "CA":
		if !caPostal.MatchString(normalized) {
			issues = append(issues, "Missing Canada postal code")
			confidence -= 25
		}
	case "AU":
		if !fourDigitRun.MatchString(normalized) {
			issues = append(issues, "Missing Australia postcode (4 digits)")
			confidence -= 20
		}
	case "NZ":
		if !fourDigitRun.MatchString(normalized) {
			issues = append(issues, "Missing New Zealand postcode (4 digits)")
			confidence -= 20
		}
	case "DE":
		if !fiveDigitRun.MatchString(normalized) {
			issues = append(issues, "Missing Germany postcode (5 digits)")
			confidence -= 20
		}
	case "FR":
		if !fiveDigitRun.MatchString(normalized) {
			issues = append(issues, "Missing France postcode (5 digits)")
			confidence -= 20
		}
	default:
		// Generic expectations for a global address string.
		if !anyDigit.MatchString(normalized) {
			issues = append(issues, "Address missing building/plot/street number")
			confidence -= 15
		}
		if !anySeparator.MatchString(normalized) {
			issues = append(issues, "Address missing separators (comma/hyphen)")
			confidence -= 10
		}
	}

	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	return domain.AddressAssessment{
		InferredCountry: country,
		Confidence:      confidence,
		Issues:          issues,
		Normalized:      normalized,
	}
}

func assessIndianAddress(normalized string, issues []string, confidence int) ([]string, int) {
	hasLocalityKeywords := indiaLocality.MatchString(normalized)

	var pin string
	if m := indiaPINCapture.FindStringSubmatch(normalized); m != nil {
		pin = m[1]
	}

	if pin == "" {
		issues = append(issues, "Missing Indian PIN code (6 digits)")
		confidence -= 35
	} else {
		if pin[0] == '0' {
			issues = append(issues, "Indian PIN code cannot start with 0")
			confidence -= 25
		}
		if repeatedDigits(pin) {
			issues = append(issues, "Indian PIN code looks synthetic")
			confidence -= 25
		}
	}

	segments := 0
	for _, part := range strings.Split(normalized, ",") {
		if strings.TrimSpace(part) != "" {
			segments++
		}
	}
	if segments < 3 {
		issues = append(issues, "Indian address should include locality, city, state, and PIN")
		if hasLocalityKeywords {
			confidence -= 10
		} else {
			confidence -= 20
		}
	}

	state := indiaState.FindString(normalized)

	// Prefer "City, State PIN" ordering when both a state and a PIN are
	// present; a PIN that appears before the state is a structural smell.
	pinIndex := -1
	if pin != "" {
		pinIndex = strings.LastIndex(normalized, pin)
	}
	stateIndex := -1
	if state != "" {
		stateIndex = strings.LastIndex(normalized, state)
	}
	if pinIndex != -1 && stateIndex != -1 && pinIndex < stateIndex {
		issues = append(issues, "PIN appears before state; expected 'City, State PIN' ordering")
		confidence -= 10
	}

	if state == "" {
		issues = append(issues, "Missing Indian state/UT")
		confidence -= 10
	}

	// Natural Indian addresses carry locality cues (road, sector, nagar).
	if !hasLocalityKeywords && segments >= 3 {
		confidence -= 5
	}

	return issues, confidence
}

func repeatedDigits(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return len(s) > 0
}
