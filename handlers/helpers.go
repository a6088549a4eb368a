package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/billing"
	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/finance"
)

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(billing.DateLayout, s, time.Local)
}

// periodFromQuery reads from/to query params, defaulting to the current
// calendar month.
func periodFromQuery(c *gin.Context) (finance.Period, error) {
	now := billing.DateOnly(time.Now())
	p := finance.Month(now.Year(), now.Month())

	if s := c.Query("from"); s != "" {
		from, err := parseDate(s)
		if err != nil {
			return p, err
		}
		p.From = from
	}
	if s := c.Query("to"); s != "" {
		to, err := parseDate(s)
		if err != nil {
			return p, err
		}
		p.To = to
	}
	return p, nil
}
