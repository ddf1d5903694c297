package domain

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DateLayout is the ISO calendar date layout used for firstContactDate
const DateLayout = "2006-01-02"

// DisplayDateLayout is the month/day/year layout used for history and follow-up dates
const DisplayDateLayout = "01/02/2006"

// Default color tokens for values outside the known enums
const (
	DefaultStageColor  = "bg-slate-500"
	DefaultStatusColor = "text-muted-foreground"
)

var stageColors = map[string]string{
	string(StageLead):          "bg-slate-500",
	string(StageQualified):     "bg-blue-500",
	string(StageProposalSent):  "bg-purple-500",
	string(StageInNegotiation): "bg-yellow-500",
	string(StageWon):           "bg-green-500",
}

var statusColors = map[string]string{
	string(ProposalStatusInNegotiation):    "text-yellow-600",
	string(ProposalStatusOnHold):           "text-orange-600",
	string(ProposalStatusProposalRejected): "text-red-600",
}

// ComputeDaysInPipeline returns the number of whole days elapsed between
// firstContact and now. The result is negative for future dates.
func ComputeDaysInPipeline(firstContact, now time.Time) int {
	// time.Duration overflows past about 292 years, so work in Unix seconds
	elapsed := now.Unix() - firstContact.Unix()
	days := elapsed / secondsPerDay
	if elapsed%secondsPerDay < 0 {
		days--
	}
	return int(days)
}

const secondsPerDay = 24 * 60 * 60

// DaysInPipelineSince parses firstContactDate and computes the days elapsed until now.
// Dates that cannot be parsed count as 0 days.
func DaysInPipelineSince(firstContactDate string, now time.Time) int {
	first, ok := ParseContactDate(firstContactDate)
	if !ok {
		return 0
	}
	return ComputeDaysInPipeline(first, now)
}

// ParseContactDate parses an ISO calendar date (UTC midnight) or an RFC 3339 timestamp
func ParseContactDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ResolveStageColor maps a stage to its display token. Unknown values fall back to DefaultStageColor.
func ResolveStageColor(stage string) string {
	if color, ok := stageColors[stage]; ok {
		return color
	}
	return DefaultStageColor
}

// ResolveStatusColor maps a proposal status to its display token. Unknown and empty values
// fall back to DefaultStatusColor.
func ResolveStatusColor(status string) string {
	if color, ok := statusColors[status]; ok {
		return color
	}
	return DefaultStatusColor
}

// ParseProjectValue converts a display value such as "$250K" or "$2.5M" into absolute
// currency units. Input without a leading number yields 0.
func ParseProjectValue(display string) float64 {
	var digits strings.Builder
	for _, r := range display {
		if (r >= '0' && r <= '9') || r == '.' {
			digits.WriteRune(r)
		}
	}

	value, ok := parseLeadingFloat(digits.String())
	if !ok {
		return 0
	}

	trimmed := strings.TrimSpace(display)
	switch {
	case strings.HasSuffix(trimmed, "K"), strings.HasSuffix(trimmed, "k"):
		value *= 1_000
	case strings.HasSuffix(trimmed, "M"), strings.HasSuffix(trimmed, "m"):
		value *= 1_000_000
	}
	return value
}

// parseLeadingFloat parses the longest prefix of s that forms a decimal number, so "1.2.3" is 1.2
func parseLeadingFloat(s string) (float64, bool) {
	end := 0
	seenDot := false
	seenDigit := false
	for end < len(s) {
		c := s[end]
		if c == '.' {
			if seenDot {
				break
			}
			seenDot = true
		} else {
			seenDigit = true
		}
		end++
	}
	if !seenDigit {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// normalizeLabel folds case and drops separators so "proposal_sent" matches "Proposal Sent"
func normalizeLabel(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == ' ' || r == '_' || r == '-' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// ParseStage resolves user input to a Stage
func ParseStage(s string) (Stage, bool) {
	n := normalizeLabel(s)
	for _, v := range Stages {
		if normalizeLabel(string(v)) == n {
			return v, true
		}
	}
	return "", false
}

// ParseProposalStatus resolves user input to a ProposalStatus. "none" and "" map to ProposalStatusNone.
func ParseProposalStatus(s string) (ProposalStatus, bool) {
	n := normalizeLabel(s)
	if n == "" || n == "none" {
		return ProposalStatusNone, true
	}
	for _, v := range ProposalStatuses {
		if v != ProposalStatusNone && normalizeLabel(string(v)) == n {
			return v, true
		}
	}
	return "", false
}

// ParsePriority resolves user input to a Priority
func ParsePriority(s string) (Priority, bool) {
	n := normalizeLabel(s)
	for _, v := range Priorities {
		if string(v) == n {
			return v, true
		}
	}
	return "", false
}
