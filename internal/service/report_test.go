package service

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/verityhealth/verity/internal/domain"
	"go.uber.org/zap"
)

func reportState(status domain.WorkflowStatus, score int, issues []string) domain.ProviderState {
	return domain.ProviderState{
		ID:     uuid.New(),
		Record: domain.ProviderRecord{Name: "Dr. X", Address: "12, MG Road, Bengaluru, Karnataka 560001"},
		Status: status,
		AddressVerification: &domain.AddressAssessment{
			InferredCountry: "IN",
			Confidence:      100,
		},
		Scoring: &domain.ScoringResult{
			IdentityScore: score,
			Discrepancies: issues,
		},
	}
}

func TestDirectoryReport_Empty(t *testing.T) {
	svc := NewReportService(zap.NewNop())

	got := svc.BuildDirectoryReport(nil)

	if got.TotalProviders != 0 {
		t.Fatalf("expected 0 providers, got %d", got.TotalProviders)
	}
	if got.AvgConfidence != 0 {
		t.Fatalf("expected avg 0 for empty input, got %v", got.AvgConfidence)
	}
	if len(got.TopIssues) != 0 || len(got.CountryDistribution) != 0 || len(got.Records) != 0 {
		t.Fatalf("expected empty rollups, got %+v", got)
	}
}

func TestDirectoryReport_Rollup(t *testing.T) {
	svc := NewReportService(zap.NewNop())

	records := []domain.ProviderState{
		reportState(domain.StatusReady, 95, nil),
		reportState(domain.StatusFlagged, 60, []string{"Address quality low (40%)", "Name mismatch (50% match)"}),
		{
			// No scoring artifact and no cached assessment; the country is
			// re-derived from the stored address.
			ID:     uuid.New(),
			Record: domain.ProviderRecord{Name: "Dr. Y", Address: "123 Main St, Springfield, IL 62704, USA"},
			Status: domain.StatusUnverified,
		},
		{
			ID:      uuid.New(),
			Record:  domain.ProviderRecord{Name: "Dr. Z", Address: "gibberish"},
			Status:  domain.StatusBlocked,
			Scoring: &domain.ScoringResult{IdentityScore: 0, Discrepancies: []string{"Address quality low (40%)"}},
		},
	}

	got := svc.BuildDirectoryReport(records)

	if got.TotalProviders != 4 {
		t.Fatalf("expected 4 providers, got %d", got.TotalProviders)
	}
	if got.VerifiedCount != 1 {
		t.Fatalf("expected 1 verified, got %d", got.VerifiedCount)
	}
	if got.FlaggedCount != 1 {
		t.Fatalf("expected 1 flagged, got %d", got.FlaggedCount)
	}
	if want := (95.0 + 60.0 + 0 + 0) / 4.0; got.AvgConfidence != want {
		t.Fatalf("expected avg %v, got %v", want, got.AvgConfidence)
	}

	if len(got.TopIssues) != 2 {
		t.Fatalf("expected 2 distinct issues, got %v", got.TopIssues)
	}
	if got.TopIssues[0].Issue != "Address quality low (40%)" || got.TopIssues[0].Count != 2 {
		t.Fatalf("expected the repeated issue first, got %+v", got.TopIssues[0])
	}

	wantCountries := []domain.CountryCount{
		{Country: "IN", Count: 2},
		{Country: "US", Count: 1},
		{Country: "GLOBAL", Count: 1},
	}
	if len(got.CountryDistribution) != len(wantCountries) {
		t.Fatalf("expected %d countries, got %v", len(wantCountries), got.CountryDistribution)
	}
	for i, want := range wantCountries {
		if got.CountryDistribution[i] != want {
			t.Fatalf("country %d: expected %+v, got %+v", i, want, got.CountryDistribution[i])
		}
	}

	if len(got.Records) != 4 {
		t.Fatalf("expected 4 report records, got %d", len(got.Records))
	}
	if got.Records[0].Confidence != 95 || got.Records[0].Status != domain.StatusReady {
		t.Fatalf("unexpected first record %+v", got.Records[0])
	}
}

func TestDirectoryReport_TopIssuesOrderAndLimit(t *testing.T) {
	svc := NewReportService(zap.NewNop())

	// Six singleton issues in order, then a seventh record repeating the
	// last one so it outranks them all.
	var records []domain.ProviderState
	for i := 0; i < 6; i++ {
		records = append(records, reportState(domain.StatusFlagged, 50, []string{fmt.Sprintf("issue-%d", i)}))
	}
	records = append(records, reportState(domain.StatusFlagged, 50, []string{"issue-5"}))

	got := svc.BuildDirectoryReport(records)

	if len(got.TopIssues) != TopIssueLimit {
		t.Fatalf("expected top issues capped at %d, got %d", TopIssueLimit, len(got.TopIssues))
	}
	if got.TopIssues[0].Issue != "issue-5" || got.TopIssues[0].Count != 2 {
		t.Fatalf("expected issue-5 ranked first, got %+v", got.TopIssues[0])
	}
	// Ties keep first-encountered order.
	for i, want := range []string{"issue-0", "issue-1", "issue-2", "issue-3"} {
		if got.TopIssues[i+1].Issue != want {
			t.Fatalf("position %d: expected %s, got %s", i+1, want, got.TopIssues[i+1].Issue)
		}
	}
}
