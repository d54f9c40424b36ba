package display

import (
	"sync"
	"time"
)

// entry is either an outcome to apply or a flush marker.
type entry struct {
	outcome *Outcome
	flushed chan struct{}
}

// Queue serializes writes to a Target. Outcomes from concurrent submissions
// are applied by a single consumer in arrival order, so the last arrival wins.
type Queue struct {
	target Target
	queue  chan entry
	done   chan struct{}
	closed chan struct{}

	// closeMutex keeps Show from sending on a closed channel.
	closeMutex sync.RWMutex
	isClosed   bool

	mutex        sync.Mutex
	pending      int
	applied      int
	needsLog     bool
	lastLogTime  time.Time
	logRateLimit time.Duration
}

// NewQueue starts a Queue in front of target. size is the channel buffer.
func NewQueue(target Target, size int) *Queue {
	if size <= 0 {
		size = 64
	}
	q := &Queue{
		target:       target,
		queue:        make(chan entry, size),
		done:         make(chan struct{}),
		closed:       make(chan struct{}),
		logRateLimit: 1 * time.Second,
	}
	go q.process()
	go q.monitor()
	return q
}

// Show enqueues an outcome. Outcomes shown after Close are dropped.
func (q *Queue) Show(outcome Outcome) {
	q.closeMutex.RLock()
	defer q.closeMutex.RUnlock()
	if q.isClosed {
		log.Warnf("Display queue closed, dropping outcome: %s", outcome.Text)
		return
	}
	q.incrementPending()
	q.queue <- entry{outcome: &outcome}
}

// Flush blocks until every outcome enqueued before the call has been applied.
func (q *Queue) Flush() {
	q.closeMutex.RLock()
	if q.isClosed {
		q.closeMutex.RUnlock()
		<-q.done
		return
	}
	flushed := make(chan struct{})
	q.queue <- entry{flushed: flushed}
	q.closeMutex.RUnlock()
	<-flushed
}

// Close applies the outcomes still queued and stops the consumer.
func (q *Queue) Close() {
	q.closeMutex.Lock()
	if q.isClosed {
		q.closeMutex.Unlock()
		<-q.done
		return
	}
	q.isClosed = true
	close(q.queue)
	q.closeMutex.Unlock()

	<-q.done
	close(q.closed)
}

// Applied returns how many outcomes have reached the target.
func (q *Queue) Applied() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return q.applied
}

// process is the only goroutine that writes to the target.
func (q *Queue) process() {
	defer close(q.done)
	for e := range q.queue {
		if e.flushed != nil {
			close(e.flushed)
			continue
		}
		q.target.Show(*e.outcome)
		q.markApplied()
	}
}

// monitor logs the pending write count when it changes.
func (q *Queue) monitor() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-q.closed:
			return
		case <-ticker.C:
			q.logMetrics()
		}
	}
}

func (q *Queue) incrementPending() {
	q.mutex.Lock()
	q.pending++
	q.needsLog = true
	q.mutex.Unlock()
}

func (q *Queue) markApplied() {
	q.mutex.Lock()
	if q.pending > 0 {
		q.pending--
	}
	q.applied++
	q.needsLog = true
	q.mutex.Unlock()
}

// logMetrics logs the pending and applied counts if rate limits allow.
func (q *Queue) logMetrics() {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if !q.needsLog {
		return
	}
	now := time.Now()
	if now.Sub(q.lastLogTime) >= q.logRateLimit {
		log.Debugf("Display queue | Pending: %d | Applied: %d", q.pending, q.applied)
		q.lastLogTime = now
		q.needsLog = false
	}
}
