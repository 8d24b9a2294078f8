package progress

import "sync"

// DefaultBuffer is the per-observer channel capacity used by NewHub.
const DefaultBuffer = 64

// Hub is the broadcast channel for progress reports. One Hub is created at
// process start and handed to the orchestrator; there is no ambient global
// instance. Late subscribers receive only future emissions.
type Hub struct {
	mu         sync.Mutex
	buffer     int
	nextID     int
	subs       map[int]chan Report
	globalSubs map[int]chan Report
	active     map[string]float64
	closed     bool
}

// NewHub creates a hub with the given per-observer buffer capacity.
// A non-positive buffer falls back to DefaultBuffer.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		buffer:     buffer,
		subs:       make(map[int]chan Report),
		globalSubs: make(map[int]chan Report),
		active:     make(map[string]float64),
	}
}

// Subscribe registers an observer for per-operation reports. The returned
// cancel func unsubscribes and closes the channel; it is safe to call more
// than once.
func (h *Hub) Subscribe() (<-chan Report, func()) {
	return h.subscribe(h.subs)
}

// SubscribeGlobal registers an observer for the derived aggregate signal.
// The aggregate report carries the mean percentage of all active
// determinate operations, or an indeterminate report when none are.
func (h *Hub) SubscribeGlobal() (<-chan Report, func()) {
	return h.subscribe(h.globalSubs)
}

func (h *Hub) subscribe(set map[int]chan Report) (<-chan Report, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Report, h.buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	set[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if c, ok := set[id]; ok {
				delete(set, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// Publish broadcasts a report to all observers and refreshes the global
// aggregate. Emission never blocks: reports to a full observer buffer are
// dropped for that observer only.
func (h *Hub) Publish(r Report) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}

	if r.OperationID != "" {
		if r.Indeterminate || r.Percentage < 0 {
			h.active[r.OperationID] = IndeterminatePercent
		} else {
			h.active[r.OperationID] = r.Percentage
		}
	}

	for _, ch := range h.subs {
		select {
		case ch <- r:
		default: // observer buffer full, drop
		}
	}

	global := h.aggregateLocked()
	for _, ch := range h.globalSubs {
		select {
		case ch <- global:
		default:
		}
	}
}

// EndOperation removes an operation from the aggregate once it finishes,
// succeeded or not.
func (h *Hub) EndOperation(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.active, id)
}

// aggregateLocked derives the single global percentage. Callers hold h.mu.
func (h *Hub) aggregateLocked() Report {
	var sum float64
	var n int
	for _, pct := range h.active {
		if pct >= 0 {
			sum += pct
			n++
		}
	}
	if n == 0 {
		return Report{Percentage: IndeterminatePercent, Indeterminate: true, Kind: KindGeneric}
	}
	return Report{Percentage: sum / float64(n), Kind: KindGeneric}
}

// Close tears the hub down at process exit, closing all observer channels.
// Publish after Close is a no-op.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
	for id, ch := range h.globalSubs {
		delete(h.globalSubs, id)
		close(ch)
	}
}

// Reporter is a convenience handle bound to one operation. A nil Reporter
// discards all reports, so callers can pass one unconditionally.
type Reporter struct {
	hub  *Hub
	op   string
	kind Kind
}

// Reporter returns a handle that publishes on behalf of the given operation.
func (h *Hub) Reporter(operationID string, kind Kind) *Reporter {
	return &Reporter{hub: h, op: operationID, kind: kind}
}

// Send publishes a determinate report.
func (r *Reporter) Send(percentage float64, message string) {
	if r == nil || r.hub == nil {
		return
	}
	r.hub.Publish(Report{OperationID: r.op, Percentage: percentage, Message: message, Kind: r.kind})
}

// Indeterminate publishes a report with no completion fraction.
func (r *Reporter) Indeterminate(message string) {
	if r == nil || r.hub == nil {
		return
	}
	r.hub.Publish(Report{
		OperationID:   r.op,
		Percentage:    IndeterminatePercent,
		Indeterminate: true,
		Message:       message,
		Kind:          r.kind,
	})
}

// Fail publishes a failed report.
func (r *Reporter) Fail(message string) {
	if r == nil || r.hub == nil {
		return
	}
	r.hub.Publish(Report{
		OperationID:   r.op,
		Percentage:    IndeterminatePercent,
		Indeterminate: true,
		Message:       message,
		Kind:          r.kind,
		Failed:        true,
	})
}

// Done publishes the terminal 100% report and drops the operation from the
// global aggregate.
func (r *Reporter) Done(message string) {
	if r == nil || r.hub == nil {
		return
	}
	r.hub.Publish(Report{OperationID: r.op, Percentage: 100, Message: message, Kind: r.kind})
	r.hub.EndOperation(r.op)
}

// End drops the operation from the global aggregate without a final report.
func (r *Reporter) End() {
	if r == nil || r.hub == nil {
		return
	}
	r.hub.EndOperation(r.op)
}
