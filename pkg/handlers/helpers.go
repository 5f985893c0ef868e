package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// parseTimeRange はfrom/toクエリを両端を含む期間として解釈します。
// RFC3339と日付のみ(YYYY-MM-DD)を受け付け、日付のみのtoはその日の
// 終わり(翌日0時の直前)を指します。
func parseTimeRange(c *gin.Context) (from, to *time.Time, err error) {
	if raw := c.Query("from"); raw != "" {
		t, perr := parseTimeParam(raw, false)
		if perr != nil {
			return nil, nil, fmt.Errorf("invalid 'from' parameter: %q", raw)
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, perr := parseTimeParam(raw, true)
		if perr != nil {
			return nil, nil, fmt.Errorf("invalid 'to' parameter: %q", raw)
		}
		to = &t
	}
	return from, to, nil
}

func parseTimeParam(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

// parseLimit はlimitクエリをパースします。未指定・不正・0以下は
// defValueを返します。
func parseLimit(c *gin.Context, defValue int) int {
	raw := c.Query("limit")
	if raw == "" {
		return defValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return defValue
	}
	return n
}

// parseThreshold はしきい値クエリをパースします。未指定はdefValueです。
func parseThreshold(c *gin.Context, name string, defValue float64) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return defValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid '%s' parameter: %q", name, raw)
	}
	return v, nil
}
