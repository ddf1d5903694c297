package repository

import "github.com/straye-as/pipeline-api/internal/domain"

// SeedClients returns the demo collection used when no state has been persisted
func SeedClients() []domain.Client {
	clients := []domain.Client{
		{
			ID:               1,
			Name:             "Acme Corporation",
			Stage:            domain.StageQualified,
			LastFollowup:     "11/15/2025",
			NextFollowup:     "11/20/2025",
			ProposalStatus:   domain.ProposalStatusInNegotiation,
			ProjectValue:     "$250K",
			Priority:         domain.PriorityHigh,
			DaysInPipeline:   45,
			FirstContactDate: "2025-10-04",
			ContactPerson:    "John Smith",
			Email:            "john@acme.com",
			Phone:            "+1 234-567-8900",
			Notes:            "Interested in enterprise package. Decision maker meeting scheduled.",
			History: []domain.HistoryEntry{
				{Date: "11/15/2025", Action: "Follow-up call completed", User: "Sarah"},
				{Date: "11/10/2025", Action: "Proposal sent", User: "Mike"},
				{Date: "11/05/2025", Action: "Initial meeting", User: "Sarah"},
			},
		},
		{
			ID:               2,
			Name:             "TechStart Inc",
			Stage:            domain.StageProposalSent,
			LastFollowup:     "11/16/2025",
			NextFollowup:     "11/22/2025",
			ProposalStatus:   domain.ProposalStatusProposalRejected,
			ProjectValue:     "$180K",
			Priority:         domain.PriorityMedium,
			DaysInPipeline:   32,
			FirstContactDate: "2025-10-17",
			ContactPerson:    "Emily Chen",
			Email:            "emily@techstart.com",
			Phone:            "+1 234-567-8901",
			Notes:            "Budget concerns. Considering revised proposal with phased approach.",
			History: []domain.HistoryEntry{
				{Date: "11/16/2025", Action: "Rejection received - budget", User: "Mike"},
				{Date: "11/12/2025", Action: "Proposal presented", User: "Sarah"},
				{Date: "11/08/2025", Action: "Requirements gathering", User: "Mike"},
			},
		},
		{
			ID:               3,
			Name:             "Global Solutions Ltd",
			Stage:            domain.StageWon,
			LastFollowup:     "11/17/2025",
			NextFollowup:     "11/25/2025",
			ProposalStatus:   domain.ProposalStatusOnHold,
			ProjectValue:     "$420K",
			Priority:         domain.PriorityHigh,
			DaysInPipeline:   67,
			FirstContactDate: "2025-09-12",
			ContactPerson:    "Robert Taylor",
			Email:            "robert@globalsolutions.com",
			Phone:            "+1 234-567-8902",
			Notes:            "Large enterprise deal. Currently on hold pending Q1 budget approval.",
			History: []domain.HistoryEntry{
				{Date: "11/17/2025", Action: "Contract signed", User: "Sarah"},
				{Date: "11/14/2025", Action: "Final negotiations", User: "Mike"},
				{Date: "11/08/2025", Action: "Proposal revision", User: "Sarah"},
			},
		},
		{
			ID:               4,
			Name:             "FutureTech Systems",
			Stage:            domain.StageInNegotiation,
			LastFollowup:     "11/18/2025",
			NextFollowup:     "11/21/2025",
			ProposalStatus:   domain.ProposalStatusInNegotiation,
			ProjectValue:     "$320K",
			Priority:         domain.PriorityHigh,
			DaysInPipeline:   28,
			FirstContactDate: "2025-10-22",
			ContactPerson:    "David Wu",
			Email:            "david@futuretech.com",
			Phone:            "+1 234-567-8903",
			Notes:            "Technical requirements finalized. Discussing payment terms.",
			History: []domain.HistoryEntry{
				{Date: "11/18/2025", Action: "Negotiation meeting", User: "Mike"},
				{Date: "11/15/2025", Action: "Technical demo completed", User: "Sarah"},
				{Date: "11/10/2025", Action: "Proposal delivered", User: "Mike"},
			},
		},
		{
			ID:               5,
			Name:             "Innovation Hub",
			Stage:            domain.StageLead,
			LastFollowup:     "11/14/2025",
			NextFollowup:     "11/19/2025",
			ProposalStatus:   domain.ProposalStatusNone,
			ProjectValue:     "$95K",
			Priority:         domain.PriorityLow,
			DaysInPipeline:   5,
			FirstContactDate: "2025-11-09",
			ContactPerson:    "Lisa Anderson",
			Email:            "lisa@innovationhub.com",
			Phone:            "+1 234-567-8904",
			Notes:            "Initial contact made. Awaiting response on discovery call.",
			History: []domain.HistoryEntry{
				{Date: "11/14/2025", Action: "Follow-up email sent", User: "Sarah"},
				{Date: "11/09/2025", Action: "First contact established", User: "Mike"},
			},
		},
	}

	for i := range clients {
		clients[i].ValueNumeric = domain.ParseProjectValue(clients[i].ProjectValue)
		clients[i].RefreshColors()
	}
	return clients
}
