package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nexhub-community/nexhub-api/internal/submission"
)

// SubmissionCounter is implemented by stores that can report submission volume.
type SubmissionCounter interface {
	CountSubmissions(ctx context.Context, category submission.Category, from, to time.Time) (int64, error)
}

// RegisterStatsRoutes registers the operator reporting endpoint.
//
// GET /api/admin/submissions/count?category=...&from=...&to=...
// - Requires X-API-Key when operator keys are configured
// - Returns count for the window [from,to)
func RegisterStatsRoutes(r gin.IRoutes, st SubmissionCounter) {
	r.GET("/api/admin/submissions/count", func(c *gin.Context) {
		category := submission.Category(c.Query("category"))
		fromStr := c.Query("from")
		toStr := c.Query("to")

		// Required query params per contract.
		if category == "" || fromStr == "" || toStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "category, from, to are required"})
			return
		}
		if !category.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "unknown category"})
			return
		}

		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "from must be RFC3339"})
			return
		}
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "to must be RFC3339"})
			return
		}

		from = from.UTC()
		to = to.UTC()

		// Validate window to avoid confusing results.
		if !from.Before(to) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "from must be < to"})
			return
		}

		count, err := st.CountSubmissions(c.Request.Context(), category, from, to)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "db query failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"category": category,
			"count":    count,
		})
	})
}
