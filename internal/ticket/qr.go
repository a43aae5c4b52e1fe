// Package ticket renders the QR hall ticket attached to registration confirmations.
package ticket

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/nexhub-community/nexhub-api/internal/submission"
)

// Size is the rendered PNG edge length in pixels.
const Size = 256

// Payload is what the door scanner reads back from the code.
type Payload struct {
	RegistrationID string `json:"registrationId"`
	Name           string `json:"name"`
	EventName      string `json:"eventName"`
	EventDate      string `json:"eventDate"`
	EventTime      string `json:"eventTime"`
}

// PayloadFor extracts the ticket payload from a registration record.
func PayloadFor(rec submission.Record) Payload {
	return Payload{
		RegistrationID: rec.ID,
		Name:           rec.Field("name"),
		EventName:      rec.Field("eventName"),
		EventDate:      rec.Field("eventDate"),
		EventTime:      rec.Field("eventTime"),
	}
}

// PNG encodes the payload as a QR code image.
func PNG(p Payload) ([]byte, error) {
	content, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal ticket payload: %w", err)
	}
	png, err := qrcode.Encode(string(content), qrcode.Medium, Size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}

// DataURL renders the payload as an inline "data:image/png;base64,..." URL.
func DataURL(p Payload) (string, error) {
	png, err := PNG(p)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
