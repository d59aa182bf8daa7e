package ollama

import (
	"context"
	"sync"
	"time"

	"github.com/yllada/ai-wrapper/common"
)

// HealthState is the reachability of the Ollama endpoint.
type HealthState int

const (
	HealthUnknown HealthState = iota
	HealthHealthy
	HealthDegraded
	HealthUnhealthy
)

// String returns a human-readable representation of the health state.
func (h HealthState) String() string {
	switch h {
	case HealthHealthy:
		return "Healthy"
	case HealthDegraded:
		return "Degraded"
	case HealthUnhealthy:
		return "Unhealthy"
	default:
		return "Unknown"
	}
}

// HealthConfig controls the endpoint probe.
type HealthConfig struct {
	// CheckInterval is how often the endpoint is probed.
	CheckInterval time.Duration
	// FailureThreshold is how many consecutive failures mark it unhealthy.
	FailureThreshold int
	// ProbeTimeout bounds a single probe.
	ProbeTimeout time.Duration
}

// DefaultHealthConfig returns the probe settings used by the local panel.
func DefaultHealthConfig() HealthConfig {
	return HealthConfig{
		CheckInterval:    30 * time.Second,
		FailureThreshold: 3,
		ProbeTimeout:     5 * time.Second,
	}
}

// Pinger probes an endpoint. *Client implements it.
type Pinger interface {
	Ping(ctx context.Context) (time.Duration, error)
}

// Health is a snapshot of the endpoint's state.
type Health struct {
	State            HealthState
	LastCheck        time.Time
	LastSuccess      time.Time
	ConsecutiveFails int
	Latency          time.Duration
}

// HealthChecker probes the endpoint periodically and reports state changes.
type HealthChecker struct {
	mu       sync.RWMutex
	config   HealthConfig
	pinger   Pinger
	running  bool
	stopChan chan struct{}
	health   Health
	onChange func(oldState, newState HealthState)
	log      common.Logger
}

// NewHealthChecker creates a checker for p.
func NewHealthChecker(p Pinger, config HealthConfig) *HealthChecker {
	defaults := DefaultHealthConfig()
	if config.CheckInterval <= 0 {
		config.CheckInterval = defaults.CheckInterval
	}
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = defaults.FailureThreshold
	}
	if config.ProbeTimeout <= 0 {
		config.ProbeTimeout = defaults.ProbeTimeout
	}
	return &HealthChecker{
		config: config,
		pinger: p,
		log:    common.GetLogger().Named("ollama"),
	}
}

// SetOnChange sets a callback for state changes. It runs on the checker's
// goroutine.
func (hc *HealthChecker) SetOnChange(callback func(oldState, newState HealthState)) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.onChange = callback
}

// Start probes once immediately and then every CheckInterval until Stop or
// ctx is done.
func (hc *HealthChecker) Start(ctx context.Context) {
	hc.mu.Lock()
	if hc.running {
		hc.mu.Unlock()
		return
	}
	hc.running = true
	hc.stopChan = make(chan struct{})
	stop := hc.stopChan
	interval := hc.config.CheckInterval
	hc.mu.Unlock()

	hc.log.Debug("health checker started (interval: %v)", interval)
	go hc.runLoop(ctx, stop, interval)
}

// Stop ends the probe loop.
func (hc *HealthChecker) Stop() {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	if !hc.running {
		return
	}
	hc.running = false
	close(hc.stopChan)
}

// IsRunning returns whether the probe loop is active.
func (hc *HealthChecker) IsRunning() bool {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.running
}

// Health returns a copy of the latest state.
func (hc *HealthChecker) Health() Health {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.health
}

func (hc *HealthChecker) runLoop(ctx context.Context, stop <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	hc.Check(ctx)
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			hc.Stop()
			return
		case <-ticker.C:
			hc.Check(ctx)
		}
	}
}

// Check runs one probe and returns the resulting state.
func (hc *HealthChecker) Check(ctx context.Context) HealthState {
	hc.mu.RLock()
	timeout := hc.config.ProbeTimeout
	hc.mu.RUnlock()

	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	latency, err := hc.pinger.Ping(probeCtx)
	cancel()

	hc.mu.Lock()
	health := &hc.health
	health.LastCheck = time.Now()
	oldState := health.State

	if err != nil {
		health.ConsecutiveFails++
		health.Latency = 0
		hc.log.Debug("probe failed (%d/%d): %v", health.ConsecutiveFails, hc.config.FailureThreshold, err)
		if health.ConsecutiveFails >= hc.config.FailureThreshold {
			health.State = HealthUnhealthy
		} else {
			health.State = HealthDegraded
		}
	} else {
		health.ConsecutiveFails = 0
		health.LastSuccess = health.LastCheck
		health.Latency = latency
		health.State = HealthHealthy
	}
	newState := health.State
	callback := hc.onChange
	hc.mu.Unlock()

	if oldState != newState {
		hc.log.Info("endpoint health %s -> %s", oldState, newState)
		if callback != nil {
			callback(oldState, newState)
		}
	}
	return newState
}
