package services

import (
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// リングバッファに保持する最大リクエスト数
const maxLogEntries = 1000

// LogEntry は単一のリクエストログを表します。
type LogEntry struct {
	Timestamp    time.Time     `json:"timestamp"`
	Path         string        `json:"path"`
	Method       string        `json:"method"`
	StatusCode   int           `json:"status_code"`
	ResponseTime time.Duration `json:"response_time"`
}

// MonitoringService はAPIのモニタリング機能を提供します。
// 直近のリクエストログをメモリ上のリングバッファに保持します。
type MonitoringService struct {
	logs      []LogEntry
	startTime time.Time
	mu        sync.RWMutex
}

// NewMonitoringService は新しいMonitoringServiceを生成します。
func NewMonitoringService() *MonitoringService {
	return &MonitoringService{
		logs:      make([]LogEntry, 0, maxLogEntries),
		startTime: time.Now(),
	}
}

// LogRequest はリクエストを記録します。上限を超えた分は古い順に捨てます。
func (s *MonitoringService) LogRequest(entry LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > maxLogEntries {
		s.logs = s.logs[len(s.logs)-maxLogEntries:]
	}
}

// LoggingMiddleware はリクエスト情報を記録するGinミドルウェアです。
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// モニタリング自身へのアクセスは記録しない
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/v1/monitoring") {
			return
		}

		s.LogRequest(LogEntry{
			Timestamp:    start,
			Path:         path,
			Method:       c.Request.Method,
			StatusCode:   c.Writer.Status(),
			ResponseTime: time.Since(start),
		})
	}
}

// DashboardData はダッシュボードに表示するための集計済みデータです。
type DashboardData struct {
	Uptime           string                   `json:"uptime"`
	TotalRequests    int                      `json:"totalRequests"`
	ErrorCount       int                      `json:"errorCount"`
	RequestsOverTime []map[string]interface{} `json:"requestsOverTime"`
	Endpoints        map[string]int           `json:"endpoints"`
	StatusCodes      []map[string]interface{} `json:"statusCodes"`
	AvgResponseTimes []map[string]interface{} `json:"avgResponseTimes"`
	RecentErrors     []LogEntry               `json:"recentErrors"`
}

// GetDashboardData は指定された期間のログを集計してダッシュボード用データを返します。
func (s *MonitoringService) GetDashboardData(periodHours int) DashboardData {
	// 店舗はフランスのため、表示はパリ時間に合わせる
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		loc = time.UTC
	}
	now := time.Now().In(loc)

	recent := s.entriesSince(now.Add(-time.Duration(periodHours) * time.Hour))

	// ステータスコードをクラス別に数える(エラー = 4xx + 5xx)
	var ok2xx, err4xx, err5xx int
	endpoints := make(map[string]int)
	for _, e := range recent {
		endpoints[e.Path]++
		switch {
		case e.StatusCode >= 500:
			err5xx++
		case e.StatusCode >= 400:
			err4xx++
		case e.StatusCode >= 200 && e.StatusCode < 300:
			ok2xx++
		}
	}

	return DashboardData{
		Uptime:           time.Since(s.startTime).Round(time.Second).String(),
		TotalRequests:    len(recent),
		ErrorCount:       err4xx + err5xx,
		RequestsOverTime: requestsPerHour(recent, now, loc, periodHours),
		Endpoints:        endpoints,
		StatusCodes: []map[string]interface{}{
			{"name": "2xx Success", "value": ok2xx},
			{"name": "4xx Client Error", "value": err4xx},
			{"name": "5xx Server Error", "value": err5xx},
		},
		AvgResponseTimes: latencyByEndpoint(recent),
		RecentErrors:     lastServerErrors(recent, 10),
	}
}

// entriesSince はsinceより後に記録されたログのコピーを返します。
func (s *MonitoringService) entriesSince(since time.Time) []LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recent := make([]LogEntry, 0, len(s.logs))
	for _, e := range s.logs {
		if e.Timestamp.After(since) {
			recent = append(recent, e)
		}
	}
	return recent
}

// requestsPerHour は期間内の各1時間バケットのリクエスト数を古い順に返します。
// バケットはログの有無にかかわらずperiodHours個生成します。
func requestsPerHour(entries []LogEntry, now time.Time, loc *time.Location, periodHours int) []map[string]interface{} {
	counts := make(map[string]int, periodHours)
	for _, e := range entries {
		counts[e.Timestamp.In(loc).Truncate(time.Hour).Format(time.RFC3339)]++
	}

	buckets := make([]map[string]interface{}, 0, periodHours)
	for i := periodHours - 1; i >= 0; i-- {
		bucket := now.Add(-time.Duration(i) * time.Hour)
		buckets = append(buckets, map[string]interface{}{
			"time":     bucket.Format("15:00"),
			"requests": counts[bucket.Truncate(time.Hour).Format(time.RFC3339)],
		})
	}
	return buckets
}

// latencyByEndpoint はエンドポイントごとの平均応答時間(ミリ秒)を返します。
func latencyByEndpoint(entries []LogEntry) []map[string]interface{} {
	type acc struct {
		total time.Duration
		count int
	}
	sums := make(map[string]acc)
	for _, e := range entries {
		a := sums[e.Path]
		a.total += e.ResponseTime
		a.count++
		sums[e.Path] = a
	}

	averages := make([]map[string]interface{}, 0, len(sums))
	for path, a := range sums {
		averages = append(averages, map[string]interface{}{
			"endpoint":     path,
			"responseTime": a.total.Milliseconds() / int64(a.count),
		})
	}
	return averages
}

// lastServerErrors は5xxのログを新しい順に最大max件返します。
func lastServerErrors(entries []LogEntry, max int) []LogEntry {
	errorsOut := make([]LogEntry, 0, max)
	for i := len(entries) - 1; i >= 0 && len(errorsOut) < max; i-- {
		if entries[i].StatusCode >= 500 {
			errorsOut = append(errorsOut, entries[i])
		}
	}
	return errorsOut
}
