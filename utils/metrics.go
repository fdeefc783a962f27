package utils

import (
	"sync"
	"time"
)

// Metrics содержит метрики приложения
type Metrics struct {
	mu sync.RWMutex

	// Метрики запросов
	TotalRequests     int64
	FailedRequests    int64
	RequestLatency    time.Duration
	AverageLatency    time.Duration
	LastRequestTime   time.Time
	RequestsPerMinute float64

	// Метрики леджера
	TransactionsPosted   int64
	TransactionsReversed int64
	NotesApproved        int64
	NotesRejected        int64
	ResultLinesIngested  int64
	ResultLinesSkipped   int64
	DriftDetected        int64
	DriftRepaired        int64
	LastLedgerOperation  time.Time

	// Метрики ошибок
	ErrorCount     int64
	LastErrorTime  time.Time
	ErrorTypes     map[string]int64
	CriticalErrors int64
}

// MetricsSnapshot представляет срез метрик для служебного сервера
type MetricsSnapshot struct {
	TotalRequests        int64         `json:"total_requests"`
	FailedRequests       int64         `json:"failed_requests"`
	AverageLatency       time.Duration `json:"average_latency"`
	TransactionsPosted   int64         `json:"transactions_posted"`
	TransactionsReversed int64         `json:"transactions_reversed"`
	NotesApproved        int64         `json:"notes_approved"`
	NotesRejected        int64         `json:"notes_rejected"`
	ResultLinesIngested  int64         `json:"result_lines_ingested"`
	ResultLinesSkipped   int64         `json:"result_lines_skipped"`
	DriftDetected        int64         `json:"drift_detected"`
	DriftRepaired        int64         `json:"drift_repaired"`
	ErrorCount           int64         `json:"error_count"`
}

var (
	metrics     *Metrics
	metricsOnce sync.Once
)

// GetMetrics возвращает экземпляр метрик
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			ErrorTypes: make(map[string]int64),
		}
	})
	return metrics
}

// RecordRequest записывает метрики запроса
func (m *Metrics) RecordRequest(duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests++
	m.RequestLatency += duration
	m.AverageLatency = m.RequestLatency / time.Duration(m.TotalRequests)
	m.LastRequestTime = time.Now()

	if err != nil {
		m.FailedRequests++
	}
}

// RecordTransactionPosted записывает применение транзакции
func (m *Metrics) RecordTransactionPosted() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TransactionsPosted++
	m.LastLedgerOperation = time.Now()
}

// RecordTransactionReversed записывает отмену транзакции
func (m *Metrics) RecordTransactionReversed() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TransactionsReversed++
	m.LastLedgerOperation = time.Now()
}

// RecordNoteApproved записывает подтверждение ноты
func (m *Metrics) RecordNoteApproved() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.NotesApproved++
	m.LastLedgerOperation = time.Now()
}

// RecordNoteRejected записывает отклонение ноты
func (m *Metrics) RecordNoteRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.NotesRejected++
	m.LastLedgerOperation = time.Now()
}

// RecordResultIngested записывает загрузку результата
func (m *Metrics) RecordResultIngested(lines, skipped int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ResultLinesIngested += int64(lines)
	m.ResultLinesSkipped += int64(skipped)
	m.LastLedgerOperation = time.Now()
}

// RecordDrift записывает результат сверки балансов
func (m *Metrics) RecordDrift(count int, repaired bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DriftDetected += int64(count)
	if repaired {
		m.DriftRepaired += int64(count)
	}
}

// RecordError записывает ошибку
func (m *Metrics) RecordError(errorType string, critical bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ErrorCount++
	m.LastErrorTime = time.Now()
	m.ErrorTypes[errorType]++
	if critical {
		m.CriticalErrors++
	}
}

// Snapshot возвращает срез текущих значений метрик
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return MetricsSnapshot{
		TotalRequests:        m.TotalRequests,
		FailedRequests:       m.FailedRequests,
		AverageLatency:       m.AverageLatency,
		TransactionsPosted:   m.TransactionsPosted,
		TransactionsReversed: m.TransactionsReversed,
		NotesApproved:        m.NotesApproved,
		NotesRejected:        m.NotesRejected,
		ResultLinesIngested:  m.ResultLinesIngested,
		ResultLinesSkipped:   m.ResultLinesSkipped,
		DriftDetected:        m.DriftDetected,
		DriftRepaired:        m.DriftRepaired,
		ErrorCount:           m.ErrorCount,
	}
}
