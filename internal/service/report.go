package service

import (
	"sort"
	"time"

	"github.com/verityhealth/verity/internal/domain"
	"github.com/verityhealth/verity/internal/verify"
	"go.uber.org/zap"
)

// TopIssueLimit caps how many discrepancy strings a directory report lists.
const TopIssueLimit = 5

// ReportService builds batch rollups over already-scored records. The
// reduction is pure: no side effects, safe to run repeatedly.
type ReportService struct {
	logger *zap.Logger
}

func NewReportService(logger *zap.Logger) *ReportService {
	return &ReportService{logger: logger}
}

func (s *ReportService) BuildDirectoryReport(records []domain.ProviderState) domain.DirectoryReport {
	s.logger.Info("building directory report", zap.Int("records", len(records)))

	issueCounts := make(map[string]int)
	var issueOrder []string
	countryCounts := make(map[string]int)
	var countryOrder []string

	verified := 0
	flagged := 0
	scoreSum := 0
	reportRecords := make([]domain.ReportRecord, 0, len(records))

	for _, p := range records {
		confidence := 0
		var issues []string
		if p.Scoring != nil {
			confidence = p.Scoring.IdentityScore
			issues = p.Scoring.Discrepancies
		}
		scoreSum += confidence

		switch p.Status {
		case domain.StatusReady:
			verified++
		case domain.StatusFlagged:
			flagged++
		}

		for _, issue := range issues {
			if _, seen := issueCounts[issue]; !seen {
				issueOrder = append(issueOrder, issue)
			}
			issueCounts[issue]++
		}

		country := reportCountry(p)
		if _, seen := countryCounts[country]; !seen {
			countryOrder = append(countryOrder, country)
		}
		countryCounts[country]++

		reportRecords = append(reportRecords, domain.ReportRecord{
			Identifier: p.Record.Identifier,
			Name:       p.Record.Name,
			Status:     p.Status,
			Confidence: confidence,
			Issues:     issues,
		})
	}

	avg := 0.0
	if len(records) > 0 {
		avg = float64(scoreSum) / float64(len(records))
	}

	topIssues := make([]domain.IssueCount, 0, len(issueOrder))
	for _, issue := range issueOrder {
		topIssues = append(topIssues, domain.IssueCount{Issue: issue, Count: issueCounts[issue]})
	}
	// Descending by count; ties keep first-encountered order.
	sort.SliceStable(topIssues, func(i, j int) bool { return topIssues[i].Count > topIssues[j].Count })
	if len(topIssues) > TopIssueLimit {
		topIssues = topIssues[:TopIssueLimit]
	}

	countries := make([]domain.CountryCount, 0, len(countryOrder))
	for _, country := range countryOrder {
		countries = append(countries, domain.CountryCount{Country: country, Count: countryCounts[country]})
	}
	sort.SliceStable(countries, func(i, j int) bool { return countries[i].Count > countries[j].Count })

	return domain.DirectoryReport{
		Timestamp:           time.Now().UTC(),
		TotalProviders:      len(records),
		VerifiedCount:       verified,
		FlaggedCount:        flagged,
		AvgConfidence:       avg,
		TopIssues:           topIssues,
		CountryDistribution: countries,
		Records:             reportRecords,
	}
}

// reportCountry prefers the cached assessment and re-derives the country
// from the stored address when no assessment was persisted.
func reportCountry(p domain.ProviderState) string {
	if p.AddressVerification != nil && p.AddressVerification.InferredCountry != "" {
		return p.AddressVerification.InferredCountry
	}
	if country := verify.InferCountry(verify.NormalizeAddress(p.Record.Address)); country != "" {
		return country
	}
	return "GLOBAL"
}
