package domain

import "time"

// InquiryStatus tracks the follow-up state of a contact request.
type InquiryStatus string

const (
	InquiryStatusNew       InquiryStatus = "new"
	InquiryStatusContacted InquiryStatus = "contacted"
	InquiryStatusClosed    InquiryStatus = "closed"
)

// Inquiry is a contact request submitted from a property detail page.
type Inquiry struct {
	ID         int64         `json:"id"`
	PropertyID int64         `json:"propertyId"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Phone      string        `json:"phone"`
	Message    string        `json:"message"`
	Status     InquiryStatus `json:"status"`
	CreatedAt  time.Time     `json:"createdAt"`

	// Property carries the linked listing summary when the inquiry is read
	// with its join; nil on plain inserts.
	Property *InquiryProperty `json:"property,omitempty"`
}

// InquiryProperty is the embedded listing summary shown next to an inquiry
// in the admin back office.
type InquiryProperty struct {
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Location string  `json:"location"`
}

// InquiryFilter narrows admin inquiry listings.
type InquiryFilter struct {
	Status     InquiryStatus
	PropertyID *int64
}
