package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"jariyah/internal/impact"
	"jariyah/internal/models"
)

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidDonation), errors.Is(err, models.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrGatewayUnavailable), errors.Is(err, context.DeadlineExceeded):
		log.Println("Gateway unavailable:", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage is unavailable, try again later."})
	default:
		log.Println("Request failed:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
	}
}

const dateLayout = "2006-01-02"

// parseTime accepts RFC 3339 timestamps and plain dates. A plain date used
// as the end of a range covers the whole day.
func parseTime(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a date", models.ErrInvalidInput, s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

// windowFromQuery reads ?from=&to= or ?preset=, defaulting to the last 30
// days. A missing to is now.
func windowFromQuery(c *gin.Context, now time.Time) (impact.Window, error) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" && to == "" {
		return impact.WindowFor(impact.Preset(strings.ToLower(c.Query("preset"))), now)
	}

	w := impact.Window{From: impact.AllTimeStart, To: now}
	var err error
	if from != "" {
		if w.From, err = parseTime(from, false); err != nil {
			return impact.Window{}, err
		}
	}
	if to != "" {
		if w.To, err = parseTime(to, true); err != nil {
			return impact.Window{}, err
		}
	}
	return w, w.Validate()
}
