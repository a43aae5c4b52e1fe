package submission

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var fixedNow = time.Date(2024, 6, 10, 6, 15, 23, 456_000_000, time.UTC)

func TestNewRecord_EventRegistration(t *testing.T) {
	rec := NewRecord(EventRegistration, map[string]string{
		"name":      " Ada ",
		"email":     "ada@x.com",
		"eventId":   "7",
		"eventName": "AI/ML Bootcamp",
		"isAdmin":   "true",
	}, fixedNow)

	assert.Regexp(t, regexp.MustCompile(`^NEX-7-\d{6}$`), rec.ID)
	assert.Equal(t, GenerateID("NEX-7", fixedNow), rec.ID)
	assert.Equal(t, "Ada", rec.Field("name"))
	assert.Equal(t, "", rec.Field("phone"))
	assert.Equal(t, StatusRegistered, rec.Status)
	assert.Equal(t, "registrationId", rec.IDKey())

	_, smuggled := rec.Fields["isAdmin"]
	assert.False(t, smuggled, "unknown fields are dropped")
}

func TestNewRecord_EventWithoutEventID(t *testing.T) {
	rec := NewRecord(EventRegistration, map[string]string{"name": "Ada"}, fixedNow)
	assert.Regexp(t, regexp.MustCompile(`^NEX-EVT-\d{6}$`), rec.ID)
}

func TestRecordDocument_Application(t *testing.T) {
	rec := NewRecord(RecruitmentApplication, map[string]string{
		"fullName":  "Bo",
		"email":     "bo@x.com",
		"role":      "developer",
		"portfolio": "https://github.com/bo",
	}, fixedNow)

	doc := rec.Document()
	assert.Regexp(t, regexp.MustCompile(`^NEX-APP-\d{6}$`), doc["applicationId"])
	assert.Equal(t, "Bo", doc["fullName"])
	assert.Equal(t, "https://github.com/bo", doc["portfolio"])
	assert.Equal(t, "https://github.com/bo", doc["portfolioLink"])
	assert.Equal(t, "2024-06-10T06:15:23.456Z", doc["applicationDate"])
	assert.Equal(t, StatusPendingReview, doc["status"])
	assert.Equal(t, "recruitment", doc["dataType"])
}

func TestRecordDocument_Registration(t *testing.T) {
	rec := NewRecord(EventRegistration, map[string]string{
		"name": "Ada", "email": "ada@x.com", "eventId": "3", "eventName": "Hack Night",
	}, fixedNow)

	doc := rec.Document()
	assert.Equal(t, rec.ID, doc["registrationId"])
	assert.Equal(t, "2024-06-10T06:15:23.456Z", doc["registrationDate"])
	assert.Equal(t, "registration", doc["dataType"])
	assert.Equal(t, "", doc["organization"])
}

func TestRecord_TimestampIsUTC(t *testing.T) {
	local := fixedNow.In(time.FixedZone("IST", 5*3600+1800))
	rec := NewRecord(ContactMessage, map[string]string{"name": "Cy"}, local)
	assert.Equal(t, "2024-06-10T06:15:23.456Z", rec.Timestamp())
}
