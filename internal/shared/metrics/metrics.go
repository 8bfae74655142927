package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	uploadsAcceptedTotal  atomic.Uint64
	uploadsFailedTotal    atomic.Uint64
	extractionStarted     atomic.Uint64
	extractionCompleted   atomic.Uint64
	extractionFailed      atomic.Uint64
	dealNotesCreatedTotal atomic.Uint64
	tasksRejectedTotal    atomic.Uint64
	tasksDeadLettered     atomic.Uint64
	queueMessagesReceived atomic.Uint64
	queueMessagesDropped  atomic.Uint64

	extractionDuration = newHistogram([]float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 120000})
)

// IncUploadsAccepted counts uploads that reached object storage and the metadata store.
func IncUploadsAccepted() { uploadsAcceptedTotal.Add(1) }

// IncUploadsFailed counts uploads rejected or failed on the request path.
func IncUploadsFailed() { uploadsFailedTotal.Add(1) }

// IncExtractionStarted increments the started counter.
func IncExtractionStarted() { extractionStarted.Add(1) }

// IncExtractionCompleted increments the completed counter.
func IncExtractionCompleted() { extractionCompleted.Add(1) }

// IncExtractionFailed increments the failed counter.
func IncExtractionFailed() { extractionFailed.Add(1) }

// IncDealNotesCreated counts notes synthesized from extracted text.
func IncDealNotesCreated() { dealNotesCreatedTotal.Add(1) }

// IncTasksRejected counts tasks the scheduler refused.
func IncTasksRejected() { tasksRejectedTotal.Add(1) }

// IncTasksDeadLettered counts failed tasks handed to a failure sink.
func IncTasksDeadLettered() { tasksDeadLettered.Add(1) }

// IncQueueMessagesReceived counts messages pulled from the task queue.
func IncQueueMessagesReceived() { queueMessagesReceived.Add(1) }

// IncQueueMessagesDropped counts malformed queue messages deleted without processing.
func IncQueueMessagesDropped() { queueMessagesDropped.Add(1) }

// ObserveExtractionDurationMs records an extraction duration in milliseconds.
func ObserveExtractionDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	extractionDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "uploads_accepted_total", "Uploads stored and recorded", uploadsAcceptedTotal.Load())
	writeCounter(&buf, "uploads_failed_total", "Uploads rejected or failed", uploadsFailedTotal.Load())
	writeCounter(&buf, "extraction_started_total", "Extraction tasks started", extractionStarted.Load())
	writeCounter(&buf, "extraction_completed_total", "Extraction tasks completed", extractionCompleted.Load())
	writeCounter(&buf, "extraction_failed_total", "Extraction tasks failed", extractionFailed.Load())
	writeCounter(&buf, "deal_notes_created_total", "Deal notes synthesized from documents", dealNotesCreatedTotal.Load())
	writeCounter(&buf, "tasks_rejected_total", "Tasks refused by the scheduler", tasksRejectedTotal.Load())
	writeCounter(&buf, "tasks_dead_lettered_total", "Failed tasks handed to the failure sink", tasksDeadLettered.Load())
	writeCounter(&buf, "queue_messages_received_total", "Messages received from the task queue", queueMessagesReceived.Load())
	writeCounter(&buf, "queue_messages_dropped_total", "Malformed queue messages deleted", queueMessagesDropped.Load())
	writeHistogram(&buf, "extraction_duration_ms", "Extraction duration in milliseconds", extractionDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
