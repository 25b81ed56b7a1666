// Package ai defines the contract with the external generative-model
// service that performs the actual CV/job-matching analysis. The server
// treats it as an opaque, schema-constrained function call.
package ai

import (
	"context"
	"errors"
)

// SchemaVersion tags every AnalysisResult (and every stored history record)
// so the payload can evolve without ad hoc parsing fallbacks.
const SchemaVersion = 1

var ErrUnavailable = errors.New("analysis service unavailable")

// SkillsGap lists what the candidate is missing for the role and how to
// close the gap.
type SkillsGap struct {
	Missing         []string `json:"missing"`
	Recommendations []string `json:"recommendations"`
}

// LinkedInCopy is ready-to-paste profile copy matching the target role.
type LinkedInCopy struct {
	Headline string `json:"headline"`
	About    string `json:"about"`
}

// JobListing is one suggested matching position.
type JobListing struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	URL         string `json:"url"`
	MatchReason string `json:"matchReason"`
}

// AnalysisResult is the full structured outcome of one analysis run.
type AnalysisResult struct {
	SchemaVersion      int          `json:"schemaVersion"`
	MatchScore         int          `json:"matchScore"`
	Summary            string       `json:"summary"`
	Strengths          []string     `json:"strengths"`
	Weaknesses         []string     `json:"weaknesses"`
	Suggestions        []string     `json:"suggestions"`
	OptimizedCV        string       `json:"optimizedCv"`
	CoverLetter        string       `json:"coverLetter"`
	InterviewQuestions []string     `json:"interviewQuestions"`
	SkillsGap          SkillsGap    `json:"skillsGap"`
	LinkedIn           LinkedInCopy `json:"linkedin"`
	JobListings        []JobListing `json:"jobListings"`
}

// Analyzer is the AI collaborator. Implementations must honor ctx deadlines
// and cancel the upstream call when the caller goes away.
type Analyzer interface {
	Analyze(ctx context.Context, cvText, jobDescription string) (AnalysisResult, error)
}
