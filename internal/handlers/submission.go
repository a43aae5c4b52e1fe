package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nexhub-community/nexhub-api/internal/logging"
	"github.com/nexhub-community/nexhub-api/internal/models"
	"github.com/nexhub-community/nexhub-api/internal/submission"
)

// Route paths the front-end posts to.
const (
	RegistrationPath = "/api/send-registration-email"
	RecruitmentPath  = "/api/submit-recruitment"
	ContactPath      = "/api/contact"
)

var routes = map[submission.Category]string{
	submission.EventRegistration:      RegistrationPath,
	submission.RecruitmentApplication: RecruitmentPath,
	submission.ContactMessage:         ContactPath,
}

// MaxBodyBytes caps a submission body; anything larger is unreadable.
const MaxBodyBytes = 1 << 20

// RegisterSubmissionRoutes registers one POST endpoint per pipeline.
//
// POST /api/send-registration-email, /api/submit-recruitment, /api/contact
//   - JSON object body of at most MaxBodyBytes; values are read as strings
//   - 400 when required fields are missing, 200 once valid (sink failures only
//     degrade the message), 500 when the body cannot be read at all
func RegisterSubmissionRoutes(r gin.IRoutes, logger *logging.Logger, pipelines ...*submission.Pipeline) error {
	for _, pl := range pipelines {
		path, ok := routes[pl.Category()]
		if !ok {
			return fmt.Errorf("no route for category %q", pl.Category())
		}
		r.POST(path, submitHandler(pl, logger))
	}
	return nil
}

func submitHandler(pl *submission.Pipeline, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

		fields, err := decodeFields(c)
		if err != nil {
			logger.ErrorContext(ctx, "unreadable submission body",
				logging.Category(string(pl.Category())), logging.Error(err))
			c.JSON(http.StatusInternalServerError, models.SubmissionResponse{
				Success: false,
				Message: pl.Category().FaultMessage(),
				Error:   err.Error(),
			})
			return
		}

		resp, status := pl.Handle(ctx, fields)
		c.JSON(status, resp)
	}
}

// decodeFields reads a JSON object and flattens its values to strings. Numbers keep
// their literal form so an eventId of 7 becomes "7".
func decodeFields(c *gin.Context) (map[string]string, error) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON payload: %w", err)
	}
	if raw == nil {
		return nil, errors.New("invalid JSON payload: expected an object")
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
			fields[k] = ""
		case string:
			fields[k] = val
		case float64:
			fields[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			fields[k] = strconv.FormatBool(val)
		default:
			b, err := json.Marshal(val)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", k, err)
			}
			fields[k] = string(b)
		}
	}
	return fields, nil
}
