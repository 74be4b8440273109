package dashboard

import (
	"html/template"
	"net/http"
	"sort"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/job"
)

// statsResponse is the JSON body for GET /api/stats: the raw per-state
// counts plus the derived metrics operators care about.
type statsResponse struct {
	queuectl.Stats
	TotalCompleted   int64   `json:"totalCompleted"`
	AvgExecutionTime float64 `json:"avgExecutionTime"`
	SuccessRate      int     `json:"successRate"`
}

func (s *Server) handleStats(c echo.Context) error {
	stats, err := s.queue.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	resp := statsResponse{Stats: stats, TotalCompleted: stats.Completed}

	denom := stats.Completed + stats.Dead
	if denom > 0 {
		resp.SuccessRate = int(float64(stats.Completed) / float64(denom) * 100)
	}

	resp.AvgExecutionTime, err = s.avgExecutionTime(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// avgExecutionTime averages execution_time_ms over the most recent 100
// completed jobs.
func (s *Server) avgExecutionTime(c echo.Context) (float64, error) {
	recent, err := s.queue.List(c.Request().Context(), job.Completed, 0)
	if err != nil {
		return 0, err
	}
	// List orders by priority and creation time; re-sort newest
	// completion first before taking the 100 most recent.
	sort.Slice(recent, func(a, b int) bool {
		ta, tb := recent[a].CompletedAt, recent[b].CompletedAt
		return ta != nil && (tb == nil || ta.After(*tb))
	})
	if len(recent) > 100 {
		recent = recent[:100]
	}
	if len(recent) == 0 {
		return 0, nil
	}
	var total int64
	var counted int
	for _, j := range recent {
		if j.ExecutionMS != nil {
			total += *j.ExecutionMS
			counted++
		}
	}
	if counted == 0 {
		return 0, nil
	}
	return float64(total) / float64(counted), nil
}

func (s *Server) handleJobs(c echo.Context) error {
	status := job.Unknown
	if raw := c.QueryParam("state"); raw != "" {
		parsed, err := job.ParseStatus(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		status = parsed
	}
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}
	jobs, err := s.queue.List(c.Request().Context(), status, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobs)
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>queuectl</title></head>
<body>
<h1>queuectl dashboard</h1>
<dl>
<dt>pending</dt><dd>{{.Pending}}</dd>
<dt>processing</dt><dd>{{.Processing}}</dd>
<dt>completed</dt><dd>{{.Completed}}</dd>
<dt>dead</dt><dd>{{.Dead}}</dd>
</dl>
<p>See <a href="/api/stats">/api/stats</a>, <a href="/api/jobs">/api/jobs</a> and <a href="/metrics">/metrics</a>.</p>
</body>
</html>
`))

func (s *Server) handleIndex(c echo.Context) error {
	stats, err := s.queue.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return indexTemplate.Execute(c.Response(), stats)
}
