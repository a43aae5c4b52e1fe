package ticket

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexhub-community/nexhub-api/internal/submission"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestPayloadFor(t *testing.T) {
	rec := submission.NewRecord(submission.EventRegistration, map[string]string{
		"name": "Ada", "email": "ada@x.com", "eventId": "7", "eventName": "AI/ML Bootcamp",
		"eventDate": "2024-06-01", "eventTime": "14:00-16:00",
	}, time.Now())

	p := PayloadFor(rec)
	assert.Equal(t, rec.ID, p.RegistrationID)
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, "AI/ML Bootcamp", p.EventName)
	assert.Equal(t, "2024-06-01", p.EventDate)
	assert.Equal(t, "14:00-16:00", p.EventTime)
}

func TestPNG(t *testing.T) {
	png, err := PNG(Payload{RegistrationID: "NEX-7-123456", Name: "Ada"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestDataURL(t *testing.T) {
	url, err := DataURL(Payload{RegistrationID: "NEX-7-123456"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
}
