package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ExchangeEOD is the topic exchange every Looply event goes through
const ExchangeEOD = "eod.events"

// Event types
const (
	EventReportSaved     = "eod.report.saved"
	EventReportSubmitted = "eod.report.submitted"

	EventEmployeeAdded   = "company.employee.added"
	EventEmployeeRemoved = "company.employee.removed"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            uuid.New().String(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// ReportSavedEvent is published whenever a draft is written
type ReportSavedEvent struct {
	ReportID   string  `json:"report_id"`
	EmployeeID string  `json:"employee_id"`
	CompanyID  string  `json:"company_id"`
	Date       string  `json:"date"`
	TotalHours float64 `json:"total_hours"`
}

// ReportSubmittedEvent is published when a draft becomes submitted
type ReportSubmittedEvent struct {
	ReportID    string    `json:"report_id"`
	EmployeeID  string    `json:"employee_id"`
	CompanyID   string    `json:"company_id"`
	Date        string    `json:"date"`
	TotalHours  float64   `json:"total_hours"`
	Summary     string    `json:"summary"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// EmployeeAddedEvent is published when an employer adds someone to the roster
type EmployeeAddedEvent struct {
	EmployeeID string `json:"employee_id"`
	CompanyID  string `json:"company_id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
}

// EmployeeRemovedEvent is published when an employee is deleted from the roster
type EmployeeRemovedEvent struct {
	EmployeeID string `json:"employee_id"`
	CompanyID  string `json:"company_id"`
}
