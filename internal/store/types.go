package store

import "time"

// Application statuses. Statuses are flat labels, not a state machine:
// any record may be set to any status at any time.
const (
	StatusInProcess        = "In Process"
	StatusInterviewPending = "Interview Pending"
	StatusTechInterview    = "Technical Interview"
	StatusHRInterview      = "HR Interview"
	StatusAssignment       = "Case/Assignment"
	StatusOfferReceived    = "Offer Received"
	StatusPositive         = "Positive"
	StatusRejected         = "Rejected"
	StatusCancelled        = "Cancelled"
	StatusNoResponse       = "No Response"
)

// Statuses lists every known status label in display order.
var Statuses = []string{
	StatusInProcess,
	StatusInterviewPending,
	StatusTechInterview,
	StatusHRInterview,
	StatusAssignment,
	StatusOfferReceived,
	StatusPositive,
	StatusRejected,
	StatusCancelled,
	StatusNoResponse,
}

// User is the denormalized identity of the signed-in user.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Application is one tracked job application. ID is the durable identifier;
// No is a human-facing sequential counter assigned as max+1 on insert and
// never renumbered on delete, so gaps can appear.
type Application struct {
	ID             string    `json:"id"`
	No             int       `json:"no"`
	Company        string    `json:"company"`
	Position       string    `json:"position"`
	URL            string    `json:"url"`
	AppliedAt      time.Time `json:"appliedAt"`
	Location       string    `json:"location"`
	WorkType       string    `json:"workType"`
	ContractType   string    `json:"contractType"`
	Platform       string    `json:"platform"`
	CVVersion      string    `json:"cvVersion"`
	TestLink       string    `json:"testLink"`
	Motivation     string    `json:"motivation"`
	Notes          string    `json:"notes"`
	InterviewNotes string    `json:"interviewNotes"`
	HRNotes        string    `json:"hrNotes"`
	OtherNotes     string    `json:"otherNotes"`
	Tags           string    `json:"tags"`
	Status         string    `json:"status"`
	CreatedAt      int64     `json:"createdAt"` // milliseconds since epoch
}

// Fields holds the attributes a caller supplies when creating a record.
// Identity (ID, No, CreatedAt) is assigned by the store.
type Fields struct {
	Company        string    `json:"company"`
	Position       string    `json:"position"`
	URL            string    `json:"url"`
	AppliedAt      time.Time `json:"appliedAt"`
	Location       string    `json:"location"`
	WorkType       string    `json:"workType"`
	ContractType   string    `json:"contractType"`
	Platform       string    `json:"platform"`
	CVVersion      string    `json:"cvVersion"`
	TestLink       string    `json:"testLink"`
	Motivation     string    `json:"motivation"`
	Notes          string    `json:"notes"`
	InterviewNotes string    `json:"interviewNotes"`
	HRNotes        string    `json:"hrNotes"`
	OtherNotes     string    `json:"otherNotes"`
	Tags           string    `json:"tags"`
	Status         string    `json:"status"`
}

// Patch is a partial update restricted to mutable fields. Identity fields
// are not part of the accepted field set, so an update cannot corrupt them.
// A nil pointer leaves the field untouched.
type Patch struct {
	Company        *string    `json:"company,omitempty"`
	Position       *string    `json:"position,omitempty"`
	URL            *string    `json:"url,omitempty"`
	AppliedAt      *time.Time `json:"appliedAt,omitempty"`
	Location       *string    `json:"location,omitempty"`
	WorkType       *string    `json:"workType,omitempty"`
	ContractType   *string    `json:"contractType,omitempty"`
	Platform       *string    `json:"platform,omitempty"`
	CVVersion      *string    `json:"cvVersion,omitempty"`
	TestLink       *string    `json:"testLink,omitempty"`
	Motivation     *string    `json:"motivation,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	InterviewNotes *string    `json:"interviewNotes,omitempty"`
	HRNotes        *string    `json:"hrNotes,omitempty"`
	OtherNotes     *string    `json:"otherNotes,omitempty"`
	Tags           *string    `json:"tags,omitempty"`
	Status         *string    `json:"status,omitempty"`
}

func (p Patch) apply(a *Application) {
	if p.Company != nil {
		a.Company = *p.Company
	}
	if p.Position != nil {
		a.Position = *p.Position
	}
	if p.URL != nil {
		a.URL = *p.URL
	}
	if p.AppliedAt != nil {
		a.AppliedAt = *p.AppliedAt
	}
	if p.Location != nil {
		a.Location = *p.Location
	}
	if p.WorkType != nil {
		a.WorkType = *p.WorkType
	}
	if p.ContractType != nil {
		a.ContractType = *p.ContractType
	}
	if p.Platform != nil {
		a.Platform = *p.Platform
	}
	if p.CVVersion != nil {
		a.CVVersion = *p.CVVersion
	}
	if p.TestLink != nil {
		a.TestLink = *p.TestLink
	}
	if p.Motivation != nil {
		a.Motivation = *p.Motivation
	}
	if p.Notes != nil {
		a.Notes = *p.Notes
	}
	if p.InterviewNotes != nil {
		a.InterviewNotes = *p.InterviewNotes
	}
	if p.HRNotes != nil {
		a.HRNotes = *p.HRNotes
	}
	if p.OtherNotes != nil {
		a.OtherNotes = *p.OtherNotes
	}
	if p.Tags != nil {
		a.Tags = *p.Tags
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
}

// Snapshot is the full serializable state of the store: session flag,
// user identity, and the record list.
type Snapshot struct {
	Authenticated bool          `json:"isAuthenticated"`
	User          User          `json:"user"`
	Applications  []Application `json:"applications"`
}
