// Package queue implements the order placement backlog and its autoscaling
// worker pool.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/fairyhunter13/pizzeria-storefront/internal/config"
	"github.com/fairyhunter13/pizzeria-storefront/internal/model"
	"github.com/fairyhunter13/pizzeria-storefront/internal/obs"
	"github.com/fairyhunter13/pizzeria-storefront/internal/orders"
	"github.com/fairyhunter13/pizzeria-storefront/internal/store"
)

// Manager coordinates workers placing queued orders and scaling.
type Manager struct {
	cfg    config.Config
	q      *Queue
	st     store.Store
	placer orders.Placer
	seq    Sequencer
	now    func() time.Time
	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	workerCancels []context.CancelFunc
}

// NewManager constructs a Manager placing jobs from q with placer and
// recording outcomes in st.
func NewManager(cfg config.Config, q *Queue, st store.Store, placer orders.Placer) *Manager {
	return &Manager{cfg: cfg, q: q, st: st, placer: placer, now: time.Now}
}

// Start begins processing and autoscaling in the background.
func (m *Manager) Start(parent context.Context) {
	m.ctx, m.cancel = context.WithCancel(parent)
	m.q.Start(m.ctx, m.cfg.QueueHighWatermark)
	m.addWorkers(m.cfg.InitialWorkerCount)
	go m.scaler()
}

// Stop cancels background routines and stops workers. Placements still in
// flight observe a cancelled context.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.mu.Lock()
	for _, c := range m.workerCancels {
		c()
	}
	m.workerCancels = nil
	m.mu.Unlock()
}

// scaler adjusts worker count based on backlog and configuration.
func (m *Manager) scaler() {
	t := time.NewTicker(m.cfg.ScaleInterval)
	defer t.Stop()
	idleTicks := 0
	for {
		select {
		case <-m.ctx.Done():
			return
		case <-t.C:
			backlog := m.q.BacklogSize()
			wc := m.WorkerCount()
			if backlog > wc*m.cfg.ScaleUpBacklogPerWorker && wc < m.cfg.WorkerMax {
				m.addWorkers(1)
				idleTicks = 0
				continue
			}
			if backlog == 0 {
				idleTicks++
				if idleTicks >= m.cfg.ScaleDownIdleTicks && wc > m.cfg.WorkerMin {
					m.removeWorkers(1)
					idleTicks = 0
				}
			} else {
				idleTicks = 0
			}
		}
	}
}

// addWorkers spawns n workers.
func (m *Manager) addWorkers(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < n; i++ {
		wctx, cancel := context.WithCancel(m.ctx)
		m.workerCancels = append(m.workerCancels, cancel)
		go m.worker(wctx)
	}
	obs.Logger.Info("workers scaled", "worker_count", len(m.workerCancels))
}

// removeWorkers stops up to n workers. A worker finishes its current job
// before exiting.
func (m *Manager) removeWorkers(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > len(m.workerCancels) {
		n = len(m.workerCancels)
	}
	for i := 0; i < n; i++ {
		c := m.workerCancels[len(m.workerCancels)-1]
		m.workerCancels = m.workerCancels[:len(m.workerCancels)-1]
		c()
	}
	obs.Logger.Info("workers scaled", "worker_count", len(m.workerCancels))
}

// worker takes jobs until ctx is done.
func (m *Manager) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-m.q.Out():
			m.process(j)
			m.q.MarkProcessed()
		}
	}
}

// process places one order under the manager context, so scaling a worker
// down never aborts a placement but Stop does.
func (m *Manager) process(j Job) {
	o := j.Order
	start := m.now()
	err := m.placer.Place(m.ctx, o)
	obs.Metrics.PlacementSec.Observe(m.now().Sub(start).Seconds())

	o.Version++
	o.UpdatedAt = m.now().UTC()
	if err != nil {
		o.Status = model.OrderFailed
		o.Failure = err.Error()
		obs.Metrics.OrdersPlaced.WithLabelValues("failed").Inc()
		obs.Logger.Error("order placement failed", "order_id", o.ID, "order_number", o.Number, "error", err)
	} else {
		o.Status = model.OrderPlaced
		obs.Metrics.OrdersPlaced.WithLabelValues("placed").Inc()
		obs.Logger.Info("order placed", "order_id", o.ID, "order_number", o.Number, "total", o.Total.StringFixed(2))
	}
	if perr := m.st.PutOrder(o); perr != nil {
		obs.Logger.Error("order store write failed", "order_id", o.ID, "error", perr)
	}
	if j.Done != nil {
		j.Done(o, err)
	}
}

// Enqueue proxies to the underlying queue.
func (m *Manager) Enqueue(j Job) bool { return m.q.Enqueue(j) }

// BacklogSize returns pending items in the queue.
func (m *Manager) BacklogSize() int { return m.q.BacklogSize() }

// QueueDepth returns backlog plus buffered output items.
func (m *Manager) QueueDepth() int { return m.q.QueueDepth() }

// WorkerCount returns the current number of workers.
func (m *Manager) WorkerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workerCancels)
}

// NextSequence returns the next order number.
func (m *Manager) NextSequence() uint64 { return m.seq.Next() }

// IsShuttingDown reports whether new enqueues are rejected.
func (m *Manager) IsShuttingDown() bool { return m.q.IsShuttingDown() }

// CloseIntake disallows future enqueues.
func (m *Manager) CloseIntake() { m.q.CloseIntake() }

// QueueMetrics exposes the underlying queue metrics.
func (m *Manager) QueueMetrics() (enq, proc uint64, backlog, depth int) {
	return m.q.Metrics()
}

// DrainUntil blocks until every enqueued job was processed or ctx is done.
func (m *Manager) DrainUntil(ctx context.Context) bool {
	for {
		enq, proc, backlog, depth := m.q.Metrics()
		if backlog == 0 && depth == 0 && enq == proc {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(50 * time.Millisecond):
		}
	}
}
