// sim/simulator.go
package sim

import (
	"fmt"
	"math"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/flowsim/flowsim/sim/congestion"
	"github.com/flowsim/flowsim/sim/trace"
)

// FlowSimulator is the core object that holds simulated time, per-flow state,
// and the event loop. It is single-threaded: one event is processed to
// completion before the next is pulled, and nothing else may mutate its state
// during Run. It is not safe for concurrent use.
type FlowSimulator struct {
	// Clock is the monotonic simulated clock: the latest event time seen.
	// Dispatch order may run backwards under LLQ; Clock does not.
	Clock float64

	cfg       Config
	scheduler Scheduler
	limiter   *TokenBucket

	// shared is the single controller under ScopeShared; nil under ScopePerFlow.
	shared      congestion.Controller
	controllers map[FlowID]congestion.Controller

	queues  map[FlowID]*FlowQueue
	metrics map[FlowID]*FlowMetrics
	trace   *trace.SimulationTrace

	// injected holds every packet handed to InjectArrival.
	injected map[*Packet]struct{}

	events  int
	stopped atomic.Bool
	cut     bool // an event was discarded by the horizon
}

// NewFlowSimulator validates cfg and builds the scheduler, rate limiter and
// congestion controller(s).
func NewFlowSimulator(cfg Config) (*FlowSimulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulator config: %w", err)
	}
	scheduler, err := NewScheduler(cfg.Discipline)
	if err != nil {
		return nil, err
	}

	s := &FlowSimulator{
		cfg:         cfg,
		scheduler:   scheduler,
		controllers: make(map[FlowID]congestion.Controller),
		queues:      make(map[FlowID]*FlowQueue),
		metrics:     make(map[FlowID]*FlowMetrics),
		injected:    make(map[*Packet]struct{}),
	}

	var clock Clock
	switch strings.ToLower(cfg.RateLimiter.Clock) {
	case ClockWall:
		clock = NewWallClock()
	default:
		clock = ClockFunc(func() float64 { return s.Clock })
	}
	s.limiter, err = NewTokenBucket(cfg.RateLimiter.Rate, cfg.RateLimiter.Capacity, clock)
	if err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	if strings.ToLower(cfg.CongestionScope) == ScopeShared {
		s.shared, err = congestion.New(cfg.Congestion)
		if err != nil {
			return nil, fmt.Errorf("congestion controller: %w", err)
		}
	}

	level, _ := trace.ParseLevel(string(cfg.Trace))
	if level == trace.LevelDecisions {
		s.trace = trace.NewSimulationTrace(level)
	}

	logrus.Infof("Flow simulator: discipline=%s quantum=%d maxQueue=%d limiter=%.2f/s cap=%.2f (%s clock) congestion=%s scope=%s",
		scheduler.Discipline(), cfg.Quantum, cfg.MaxQueueSize, cfg.RateLimiter.Rate, cfg.RateLimiter.Capacity,
		cfg.RateLimiter.Clock, cfg.Congestion.Variant, cfg.CongestionScope)
	return s, nil
}

// Schedule pushes a raw event into the timeline.
func (s *FlowSimulator) Schedule(ev *Event) {
	s.scheduler.Schedule(ev)
}

// InjectArrival schedules the arrival of p at p.ArrivalTime. A packet can be
// injected only once.
func (s *FlowSimulator) InjectArrival(p *Packet) error {
	if p == nil {
		return fmt.Errorf("InjectArrival: packet must not be nil")
	}
	if math.IsNaN(p.ArrivalTime) || math.IsInf(p.ArrivalTime, 0) {
		return fmt.Errorf("packet %d: arrival time must be finite, got %v", p.ID, p.ArrivalTime)
	}
	if !(p.ProcessingTime > 0) || math.IsInf(p.ProcessingTime, 0) {
		return fmt.Errorf("packet %d: processing time must be positive and finite, got %v", p.ID, p.ProcessingTime)
	}
	if p.Priority != High && p.Priority != Low {
		return fmt.Errorf("packet %d: unknown priority %d", p.ID, p.Priority)
	}
	if _, dup := s.injected[p]; dup {
		return fmt.Errorf("packet %d of flow %s already injected", p.ID, p.Flow)
	}
	s.injected[p] = struct{}{}
	s.scheduler.Schedule(NewArrivalEvent(p))
	return nil
}

// Stop asks Run to return before pulling the next event. It may be called
// from another goroutine while Run is in progress.
func (s *FlowSimulator) Stop() {
	s.stopped.Store(true)
}

// Pending returns the number of events still on the timeline.
func (s *FlowSimulator) Pending() int {
	return s.scheduler.Len()
}

// Limiter exposes the rate limiter for inspection.
func (s *FlowSimulator) Limiter() *TokenBucket {
	return s.limiter
}

// Controller returns the congestion controller governing flow.
func (s *FlowSimulator) Controller(flow FlowID) congestion.Controller {
	if s.shared != nil {
		return s.shared
	}
	cc, ok := s.controllers[flow]
	if !ok {
		// Config was validated in NewFlowSimulator, so this cannot fail.
		cc, _ = congestion.New(s.cfg.Congestion)
		s.controllers[flow] = cc
	}
	return cc
}

func (s *FlowSimulator) queue(flow FlowID) *FlowQueue {
	q, ok := s.queues[flow]
	if !ok {
		q = NewFlowQueue(s.cfg.MaxQueueSize)
		s.queues[flow] = q
	}
	return q
}

func (s *FlowSimulator) flowMetrics(flow FlowID) *FlowMetrics {
	m, ok := s.metrics[flow]
	if !ok {
		m = newFlowMetrics(flow)
		s.metrics[flow] = m
	}
	return m
}

// Run drains the timeline and returns the collected metrics.
func (s *FlowSimulator) Run() *Result {
	for !s.stopped.Load() {
		// get the next event to be simulated
		ev := s.scheduler.Next()
		if ev == nil {
			break
		}
		if s.cfg.Horizon > 0 && ev.Time > s.cfg.Horizon {
			// discard rather than stop: LLQ may still hold earlier low-priority events
			s.cut = true
			continue
		}
		// advance the monotonic clock
		s.Clock = math.Max(s.Clock, ev.Time)
		s.events++
		logrus.Infof("[t=%10.4f] Executing %s", ev.Time, ev)

		cc := s.Controller(ev.Flow)
		cc.Advance(s.Clock)

		switch ev.Kind {
		case ArrivalKind:
			s.handleArrival(ev, cc)
		case DepartureKind:
			s.handleDeparture(ev, cc)
		default:
			logrus.Warnf("Ignoring event of unknown kind %d", ev.Kind)
		}
	}
	logrus.Infof("[t=%10.4f] Simulation ended after %d events", s.Clock, s.events)
	return s.result()
}

// handleArrival applies the three admission gates in order: rate limiter,
// congestion window, queue capacity. Any rejection drops the packet and
// raises a congestion signal.
func (s *FlowSimulator) handleArrival(ev *Event, cc congestion.Controller) {
	p := ev.Packet
	if p == nil {
		logrus.Warnf("Arrival without packet for flow %s at %.4f, ignoring", ev.Flow, ev.Time)
		return
	}
	m := s.flowMetrics(ev.Flow)
	m.Arrivals++
	q := s.queue(ev.Flow)

	window := cc.CurrentWindow()
	inFlight := q.Len()
	reason := ""
	switch {
	case !s.limiter.TryConsume(1):
		reason = ReasonRateLimited
	case float64(inFlight) >= math.Floor(window):
		reason = ReasonWindowExhausted
	case q.Full():
		reason = ReasonQueueFull
	}

	if s.trace.Enabled() {
		s.trace.RecordAdmission(trace.AdmissionRecord{
			Flow:     string(ev.Flow),
			PacketID: uint64(p.ID),
			Time:     ev.Time,
			Admitted: reason == "",
			Reason:   reason,
			Window:   window,
			InFlight: inFlight,
		})
	}

	if reason != "" {
		m.recordDrop(reason)
		cc.OnCongestionSignal()
		logrus.Debugf("Dropped %s: %s (window %.2f, in flight %d)", p, reason, window, inFlight)
		return
	}
	q.Enqueue(p)
	s.scheduler.Schedule(NewDepartureEvent(ev.Time+p.ProcessingTime, p))
}

// handleDeparture removes the packet from its flow queue and records latency.
// A departure whose packet is no longer queued is stale and changes nothing.
func (s *FlowSimulator) handleDeparture(ev *Event, cc congestion.Controller) {
	q, ok := s.queues[ev.Flow]
	if !ok || ev.Packet == nil || !q.Remove(ev.Packet) {
		logrus.Debugf("Stale departure %s ignored", ev)
		return
	}
	latency := ev.Time - ev.Packet.ArrivalTime
	s.flowMetrics(ev.Flow).recordDeparture(ev.Time, latency)
	if obs, ok := cc.(congestion.RTTObserver); ok {
		obs.ObserveRTT(latency)
	}
}

func (s *FlowSimulator) result() *Result {
	for flow, m := range s.metrics {
		m.Queued = s.queue(flow).Len()
	}
	return &Result{
		Flows:           s.metrics,
		EndClock:        s.Clock,
		EventsProcessed: s.events,
		Stopped:         s.stopped.Load() || s.cut,
		Trace:           s.trace,
	}
}
