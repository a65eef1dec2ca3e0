// Package handlers contains the gin HTTP handlers for the card API.
package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// AsOf reads the optional as_of query parameter (YYYY-MM-DD). All derived
// state - periods, reminders, bonus deadlines, eligibility windows - is
// computed against this date, which defaults to today. Exposing it as a
// parameter makes every read deterministic and testable.
func AsOf(c *gin.Context) (time.Time, error) {
	val := c.Query("as_of")
	if val == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse("2006-01-02", val)
	if err != nil {
		return time.Time{}, fmt.Errorf("as_of: expected YYYY-MM-DD, got %q", val)
	}
	return t.UTC(), nil
}
