package logging

import (
	"log/slog"
	"time"
)

// Common field names so every component logs submissions the same way.
const (
	FieldService      = "service"
	FieldRequestID    = "request_id"
	FieldCategory     = "category"
	FieldSubmissionID = "submission_id"
	FieldSink         = "sink"
	FieldEndpoint     = "endpoint"
	FieldRecipient    = "recipient"
	FieldMessageID    = "message_id"
	FieldMethod       = "method"
	FieldPath         = "path"
	FieldStatus       = "status"
	FieldDuration     = "duration_ms"
	FieldError        = "error"
)

func Service(name string) slog.Attr { return slog.String(FieldService, name) }

func RequestID(id string) slog.Attr { return slog.String(FieldRequestID, id) }

func Category(c string) slog.Attr { return slog.String(FieldCategory, c) }

func SubmissionID(id string) slog.Attr { return slog.String(FieldSubmissionID, id) }

// Sink names the external dependency a log line is about ("sheets", "smtp", ...).
func Sink(name string) slog.Attr { return slog.String(FieldSink, name) }

func Endpoint(url string) slog.Attr { return slog.String(FieldEndpoint, url) }

func Recipient(addr string) slog.Attr { return slog.String(FieldRecipient, addr) }

func MessageID(id string) slog.Attr { return slog.String(FieldMessageID, id) }

func Method(m string) slog.Attr { return slog.String(FieldMethod, m) }

func Path(p string) slog.Attr { return slog.String(FieldPath, p) }

func Status(code int) slog.Attr { return slog.Int(FieldStatus, code) }

// Duration reports d in whole milliseconds.
func Duration(d time.Duration) slog.Attr { return slog.Int64(FieldDuration, d.Milliseconds()) }

// Error returns an error attribute; a nil error is logged as an empty string.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(FieldError, "")
	}
	return slog.String(FieldError, err.Error())
}
