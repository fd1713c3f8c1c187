package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "timetable"

// 课表提交结果
const (
	OutcomeCreated  = "created"
	OutcomeRejected = "rejected"
	OutcomeBusy     = "busy"
	OutcomeError    = "error"
)

var (
	// EntrySubmissions 课表提交次数，按结果分类
	EntrySubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entry_submissions_total",
		Help:      "Timetable entry submissions by outcome.",
	}, []string{"outcome"})

	// EntryRuleViolations 校验失败次数，按规则分类
	EntryRuleViolations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entry_rule_violations_total",
		Help:      "Rejected timetable entry submissions by violated rule.",
	}, []string{"rule"})

	// EntriesCreated 成功写入的课表记录数
	EntriesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entries_created_total",
		Help:      "Timetable entries persisted by the conflict-validation engine.",
	})

	// CSTExceptionsApplied CST 例外放行的教师冲突次数
	CSTExceptionsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cst_exceptions_applied_total",
		Help:      "Teacher conflicts suppressed by the CST-coded subject exception.",
	})

	// ImportRows Excel 导入行数，按结果分类
	ImportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_rows_total",
		Help:      "Spreadsheet import rows by outcome.",
	}, []string{"outcome"})

	// HTTPRequestDuration HTTP 请求耗时
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method, route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
