package submission

import "strings"

// Category is one of the submission kinds accepted by the site.
type Category string

const (
	EventRegistration      Category = "event-registration"
	RecruitmentApplication Category = "recruitment-application"
	ContactMessage         Category = "contact-message"
)

// Default status labels stamped on new records.
const (
	StatusRegistered    = "Registered"
	StatusPendingReview = "Pending Review"
	StatusReceived      = "Received"
)

// kind is the static description of a category: which fields it carries, which are
// required, how its identifier and stored document are shaped, and what the caller
// is told.
type kind struct {
	fields   []string
	required []string
	// aliases duplicates a field under a second key in the stored document.
	aliases map[string]string

	idPrefix func(fields map[string]string) string
	idKey    string
	dateKey  string
	dataType string
	status   string

	// alwaysReportEmail includes emailSent even on full success, and emailError on
	// failure. Registrations only mention emailSent when it is false.
	alwaysReportEmail bool

	successMessage  string
	degradedMessage string
	faultMessage    string
}

var kinds = map[Category]kind{
	EventRegistration: {
		fields: []string{
			"name", "email", "phone", "organization", "eventId", "eventName",
			"eventDate", "eventTime", "eventLocation", "additionalInfo",
		},
		required: []string{"name", "email", "eventName"},
		idPrefix: func(fields map[string]string) string {
			eventID := strings.TrimSpace(fields["eventId"])
			if eventID == "" {
				eventID = "EVT"
			}
			return "NEX-" + eventID
		},
		idKey:           "registrationId",
		dateKey:         "registrationDate",
		dataType:        "registration",
		status:          StatusRegistered,
		successMessage:  "Registration confirmation email sent successfully",
		degradedMessage: "Registration completed but email delivery failed. Please contact support.",
		faultMessage:    "Registration failed. Please try again or contact support.",
	},
	RecruitmentApplication: {
		fields: []string{
			"fullName", "email", "phone", "portfolio", "role", "experience", "message",
		},
		required:          []string{"fullName", "email", "role"},
		aliases:           map[string]string{"portfolio": "portfolioLink"},
		idPrefix:          func(map[string]string) string { return "NEX-APP" },
		idKey:             "applicationId",
		dateKey:           "applicationDate",
		dataType:          "recruitment",
		status:            StatusPendingReview,
		alwaysReportEmail: true,
		successMessage:    "Application submitted successfully",
		degradedMessage:   "Application submitted but confirmation email failed",
		faultMessage:      "Server error processing application",
	},
	ContactMessage: {
		fields:            []string{"name", "email", "subject", "message"},
		required:          []string{"name", "email", "message"},
		idPrefix:          func(map[string]string) string { return "NEX-MSG" },
		idKey:             "messageId",
		dateKey:           "receivedDate",
		dataType:          "contact",
		status:            StatusReceived,
		alwaysReportEmail: true,
		successMessage:    "Message sent successfully",
		degradedMessage:   "Message received but delivery failed. Please try again later.",
		faultMessage:      "Failed to send your message. Please try again later.",
	},
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := kinds[c]
	return ok
}

// Required lists the wire names of the fields c requires, in reporting order.
func (c Category) Required() []string {
	return append([]string(nil), kinds[c].required...)
}

// IDKey is the JSON key under which the submission identifier is returned and stored.
func (c Category) IDKey() string {
	return kinds[c].idKey
}

// FaultMessage is shown to the caller when the request could not be handled at all.
func (c Category) FaultMessage() string {
	if k, ok := kinds[c]; ok {
		return k.faultMessage
	}
	return "Server error processing submission"
}
