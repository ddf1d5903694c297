package domain

// ErrorResponse is the simple error body returned by handlers
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// ClientDTO is the read model of a client. Colors are always resolved from the enum values.
type ClientDTO struct {
	ID               int            `json:"id"`
	Name             string         `json:"name"`
	Stage            Stage          `json:"stage"`
	StageColor       string         `json:"stageColor"`
	LastFollowup     string         `json:"lastFollowup"`
	NextFollowup     string         `json:"nextFollowup"`
	ProposalStatus   ProposalStatus `json:"proposalStatus"`
	StatusColor      string         `json:"statusColor"`
	ProjectValue     string         `json:"projectValue"`
	ValueNumeric     float64        `json:"valueNumeric"`
	Priority         Priority       `json:"priority"`
	DaysInPipeline   int            `json:"daysInPipeline"`
	FirstContactDate string         `json:"firstContactDate"`
	ContactPerson    string         `json:"contactPerson"`
	Email            string         `json:"email"`
	Phone            string         `json:"phone"`
	Notes            string         `json:"notes"`
	History          []HistoryEntry `json:"history"`
}

// SortDTO echoes the active sort of a list response
type SortDTO struct {
	Key       string `json:"key,omitempty"`
	Direction string `json:"direction"`
}

// ClientListResponse is the filtered and sorted client view
type ClientListResponse struct {
	Data    []ClientDTO     `json:"data"`
	Total   int             `json:"total"`
	Sort    SortDTO         `json:"sort"`
	Metrics PipelineMetrics `json:"metrics"`
}

// CreateClientRequest is the form payload for a new client.
// valueNumeric is derived from projectValue and cannot be supplied.
type CreateClientRequest struct {
	Name             string `json:"name" validate:"required,max=200"`
	ContactPerson    string `json:"contactPerson" validate:"required,max=200"`
	Email            string `json:"email" validate:"required,email"`
	Phone            string `json:"phone" validate:"required,max=50"`
	Stage            string `json:"stage" validate:"required,stage"`
	ProposalStatus   string `json:"proposalStatus" validate:"proposal_status"`
	Priority         string `json:"priority" validate:"required,priority"`
	ProjectValue     string `json:"projectValue" validate:"required,max=50"`
	FirstContactDate string `json:"firstContactDate" validate:"required,datetime=2006-01-02"`
	LastFollowup     string `json:"lastFollowup" validate:"required,max=50"`
	NextFollowup     string `json:"nextFollowup" validate:"required,max=50"`
	Notes            string `json:"notes" validate:"max=5000"`
}

// UpdateClientRequest is a partial update; omitted fields are left unchanged
type UpdateClientRequest struct {
	Name             *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	ContactPerson    *string `json:"contactPerson,omitempty" validate:"omitempty,min=1,max=200"`
	Email            *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone            *string `json:"phone,omitempty" validate:"omitempty,min=1,max=50"`
	Stage            *string `json:"stage,omitempty" validate:"omitempty,stage"`
	ProposalStatus   *string `json:"proposalStatus,omitempty" validate:"omitempty,proposal_status"`
	Priority         *string `json:"priority,omitempty" validate:"omitempty,priority"`
	ProjectValue     *string `json:"projectValue,omitempty" validate:"omitempty,min=1,max=50"`
	FirstContactDate *string `json:"firstContactDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	LastFollowup     *string `json:"lastFollowup,omitempty" validate:"omitempty,min=1,max=50"`
	NextFollowup     *string `json:"nextFollowup,omitempty" validate:"omitempty,min=1,max=50"`
	Notes            *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// AddNoteRequest appends a note to a client's notes
type AddNoteRequest struct {
	Note string `json:"note" validate:"required,notblank,max=2000"`
}

// ScheduleFollowupRequest sets the next follow-up date
type ScheduleFollowupRequest struct {
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Notes string `json:"notes,omitempty" validate:"max=2000"`
}

// UpdateStatusRequest moves a client to a new stage and proposal status
type UpdateStatusRequest struct {
	Stage          string `json:"stage" validate:"required,stage"`
	ProposalStatus string `json:"proposalStatus" validate:"proposal_status"`
	Notes          string `json:"notes,omitempty" validate:"max=2000"`
}
