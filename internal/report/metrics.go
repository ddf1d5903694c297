// Package report reduces a client view into dashboard metrics and renders it as CSV.
package report

import (
	"fmt"

	"github.com/straye-as/pipeline-api/internal/domain"
)

// Summarize computes the dashboard metrics of exactly the clients given.
// Callers pass the filtered view so the numbers match what the user sees.
func Summarize(clients []domain.Client) domain.PipelineMetrics {
	m := domain.PipelineMetrics{TotalClients: len(clients)}
	for i := range clients {
		c := &clients[i]
		if c.Stage == domain.StageWon {
			m.WonClients++
		}
		switch c.ProposalStatus {
		case domain.ProposalStatusInNegotiation:
			m.NegotiationClients++
		case domain.ProposalStatusProposalRejected:
			m.RejectedClients++
		}
		m.TotalPipeline += c.ValueNumeric
	}
	m.FormattedPipeline = FormatPipelineValue(m.TotalPipeline)
	return m
}

// FormatPipelineValue renders a currency amount in millions, e.g. 2600000 -> "$2.60M"
func FormatPipelineValue(total float64) string {
	return fmt.Sprintf("$%.2fM", total/1_000_000)
}
