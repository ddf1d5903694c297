package domain

import "time"

// Stage represents a client's position in the sales pipeline
type Stage string

const (
	StageLead          Stage = "Lead"
	StageQualified     Stage = "Qualified"
	StageProposalSent  Stage = "Proposal Sent"
	StageInNegotiation Stage = "In Negotiation"
	StageWon           Stage = "Won"
)

// Stages lists every pipeline stage in pipeline order
var Stages = []Stage{StageLead, StageQualified, StageProposalSent, StageInNegotiation, StageWon}

// IsValid reports whether s is one of the known pipeline stages
func (s Stage) IsValid() bool {
	for _, v := range Stages {
		if s == v {
			return true
		}
	}
	return false
}

// ProposalStatus is an optional flag on an active proposal. It is independent of Stage.
type ProposalStatus string

const (
	ProposalStatusNone             ProposalStatus = ""
	ProposalStatusInNegotiation    ProposalStatus = "In Negotiation"
	ProposalStatusOnHold           ProposalStatus = "On Hold"
	ProposalStatusProposalRejected ProposalStatus = "Proposal Rejected"
)

// ProposalStatuses lists every proposal status, including the empty "none" value
var ProposalStatuses = []ProposalStatus{
	ProposalStatusNone,
	ProposalStatusInNegotiation,
	ProposalStatusOnHold,
	ProposalStatusProposalRejected,
}

// IsValid reports whether s is one of the known proposal statuses
func (s ProposalStatus) IsValid() bool {
	for _, v := range ProposalStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Priority represents how urgently a client should be worked
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from lowest to highest
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// IsValid reports whether p is one of the known priorities
func (p Priority) IsValid() bool {
	for _, v := range Priorities {
		if p == v {
			return true
		}
	}
	return false
}

// HistoryEntry is one immutable audit record embedded in a Client
type HistoryEntry struct {
	Date   string `json:"date"`
	Action string `json:"action"`
	User   string `json:"user"`
}

// History actions written by the repository
const (
	HistoryActionCreated = "Client created"
	HistoryActionUpdated = "Client updated"
)

// Client is a pipeline entity. DaysInPipeline, StageColor and StatusColor are derived.
type Client struct {
	ID               int            `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name             string         `gorm:"type:text;not null" json:"name"`
	Stage            Stage          `gorm:"type:text;not null" json:"stage"`
	StageColor       string         `gorm:"type:text;not null" json:"stageColor"`
	LastFollowup     string         `gorm:"type:text;not null" json:"lastFollowup"`
	NextFollowup     string         `gorm:"type:text;not null" json:"nextFollowup"`
	ProposalStatus   ProposalStatus `gorm:"type:text;not null" json:"proposalStatus"`
	StatusColor      string         `gorm:"type:text;not null" json:"statusColor"`
	ProjectValue     string         `gorm:"type:text;not null" json:"projectValue"`
	ValueNumeric     float64        `gorm:"not null" json:"valueNumeric"`
	Priority         Priority       `gorm:"type:text;not null" json:"priority"`
	DaysInPipeline   int            `gorm:"not null" json:"daysInPipeline"`
	FirstContactDate string         `gorm:"type:text;not null" json:"firstContactDate"`
	ContactPerson    string         `gorm:"type:text;not null" json:"contactPerson"`
	Email            string         `gorm:"type:text;not null" json:"email"`
	Phone            string         `gorm:"type:text;not null" json:"phone"`
	Notes            string         `gorm:"type:text;not null" json:"notes"`
	History          []HistoryEntry `gorm:"-" json:"history"`
}

// TableName overrides the gorm table name
func (Client) TableName() string {
	return "clients"
}

// Clone returns a copy of c that shares no history backing array with it
func (c Client) Clone() Client {
	out := c
	if c.History != nil {
		out.History = make([]HistoryEntry, len(c.History))
		copy(out.History, c.History)
	}
	return out
}

// RefreshColors recomputes the cached color tokens from the enum fields
func (c *Client) RefreshColors() {
	c.StageColor = ResolveStageColor(string(c.Stage))
	c.StatusColor = ResolveStatusColor(string(c.ProposalStatus))
}

// ClientHistory is the relational row of a history entry (client_history table)
type ClientHistory struct {
	ID       uint   `gorm:"primaryKey"`
	ClientID int    `gorm:"not null;index;column:client_id"`
	Date     string `gorm:"type:text;not null"`
	Action   string `gorm:"type:text;not null"`
	User     string `gorm:"type:text;not null;column:user"`
}

// TableName overrides the gorm table name
func (ClientHistory) TableName() string {
	return "client_history"
}

// PipelineState is the single row marking that the collection has been saved
// at least once, so an emptied clients table is told apart from a fresh one
type PipelineState struct {
	ID          int       `gorm:"primaryKey;autoIncrement:false"`
	ClientCount int       `gorm:"not null"`
	SavedAt     time.Time `gorm:"not null"`
}

// TableName overrides the gorm table name
func (PipelineState) TableName() string {
	return "pipeline_state"
}

// ClientFields holds everything a caller may set when creating a client.
// Identity, history and daysInPipeline are owned by the repository.
type ClientFields struct {
	Name             string
	ContactPerson    string
	Email            string
	Phone            string
	Stage            Stage
	ProposalStatus   ProposalStatus
	Priority         Priority
	ProjectValue     string
	ValueNumeric     float64
	FirstContactDate string
	LastFollowup     string
	NextFollowup     string
	Notes            string
}

// ClientPatch is a partial update; nil fields are left unchanged
type ClientPatch struct {
	Name             *string
	ContactPerson    *string
	Email            *string
	Phone            *string
	Stage            *Stage
	ProposalStatus   *ProposalStatus
	Priority         *Priority
	ProjectValue     *string
	ValueNumeric     *float64
	FirstContactDate *string
	LastFollowup     *string
	NextFollowup     *string
	Notes            *string
}

// Apply merges the non-nil fields of p into c
func (p ClientPatch) Apply(c *Client) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.ContactPerson != nil {
		c.ContactPerson = *p.ContactPerson
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Stage != nil {
		c.Stage = *p.Stage
	}
	if p.ProposalStatus != nil {
		c.ProposalStatus = *p.ProposalStatus
	}
	if p.Priority != nil {
		c.Priority = *p.Priority
	}
	if p.ProjectValue != nil {
		c.ProjectValue = *p.ProjectValue
	}
	if p.ValueNumeric != nil {
		c.ValueNumeric = *p.ValueNumeric
	}
	if p.FirstContactDate != nil {
		c.FirstContactDate = *p.FirstContactDate
	}
	if p.LastFollowup != nil {
		c.LastFollowup = *p.LastFollowup
	}
	if p.NextFollowup != nil {
		c.NextFollowup = *p.NextFollowup
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
}

// PipelineMetrics summarizes a set of clients for the dashboard
type PipelineMetrics struct {
	TotalClients       int     `json:"totalClients"`
	WonClients         int     `json:"wonClients"`
	NegotiationClients int     `json:"negotiationClients"`
	RejectedClients    int     `json:"rejectedClients"`
	TotalPipeline      float64 `json:"totalPipeline"`
	FormattedPipeline  string  `json:"formattedPipeline"`
}
