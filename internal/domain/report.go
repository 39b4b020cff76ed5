package domain

import "time"

type IssueCount struct {
	Issue string `json:"issue"`
	Count int    `json:"count"`
}

type CountryCount struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

type ReportRecord struct {
	Identifier string         `json:"identifier"`
	Name       string         `json:"name"`
	Status     WorkflowStatus `json:"status"`
	Confidence int            `json:"confidence"`
	Issues     []string       `json:"issues,omitempty"`
}

// DirectoryReport is a pure rollup over already-scored records.
type DirectoryReport struct {
	Timestamp           time.Time      `json:"timestamp"`
	TotalProviders      int            `json:"total_providers"`
	VerifiedCount       int            `json:"verified_count"`
	FlaggedCount        int            `json:"flagged_count"`
	AvgConfidence       float64        `json:"avg_confidence"`
	TopIssues           []IssueCount   `json:"top_issues"`
	CountryDistribution []CountryCount `json:"country_distribution"`
	Records             []ReportRecord `json:"records"`
}
