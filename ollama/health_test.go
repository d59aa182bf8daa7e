package ollama

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type fakePinger struct {
	mu  sync.Mutex
	err error
}

func (p *fakePinger) Ping(ctx context.Context) (time.Duration, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return 0, p.err
	}
	return time.Millisecond, nil
}

func (p *fakePinger) setErr(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

func TestHealthState_String(t *testing.T) {
	tests := []struct {
		state    HealthState
		expected string
	}{
		{HealthHealthy, "Healthy"},
		{HealthDegraded, "Degraded"},
		{HealthUnhealthy, "Unhealthy"},
		{HealthUnknown, "Unknown"},
		{HealthState(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.state.String(); got != tt.expected {
				t.Errorf("HealthState.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDefaultHealthConfig(t *testing.T) {
	config := DefaultHealthConfig()

	if config.CheckInterval != 30*time.Second {
		t.Errorf("CheckInterval = %v, want 30s", config.CheckInterval)
	}
	if config.FailureThreshold != 3 {
		t.Errorf("FailureThreshold = %v, want 3", config.FailureThreshold)
	}
	if config.ProbeTimeout != 5*time.Second {
		t.Errorf("ProbeTimeout = %v, want 5s", config.ProbeTimeout)
	}
}

func TestNewHealthChecker_FillsDefaults(t *testing.T) {
	hc := NewHealthChecker(&fakePinger{}, HealthConfig{})
	if hc.config != DefaultHealthConfig() {
		t.Errorf("config = %+v, want defaults", hc.config)
	}
}

func TestHealthChecker_Check(t *testing.T) {
	pinger := &fakePinger{}
	hc := NewHealthChecker(pinger, HealthConfig{FailureThreshold: 2})

	var changes []HealthState
	hc.SetOnChange(func(_, newState HealthState) {
		changes = append(changes, newState)
	})

	ctx := context.Background()
	if got := hc.Check(ctx); got != HealthHealthy {
		t.Fatalf("first check = %v, want Healthy", got)
	}

	pinger.setErr(errors.New("connection refused"))
	if got := hc.Check(ctx); got != HealthDegraded {
		t.Errorf("after one failure = %v, want Degraded", got)
	}
	if got := hc.Check(ctx); got != HealthUnhealthy {
		t.Errorf("after two failures = %v, want Unhealthy", got)
	}
	if got := hc.Health().ConsecutiveFails; got != 2 {
		t.Errorf("ConsecutiveFails = %d, want 2", got)
	}
	// No transition, no callback.
	hc.Check(ctx)

	pinger.setErr(nil)
	hc.Check(ctx)

	health := hc.Health()
	if health.ConsecutiveFails != 0 {
		t.Errorf("ConsecutiveFails = %d, want 0", health.ConsecutiveFails)
	}
	if health.LastSuccess.IsZero() {
		t.Error("LastSuccess should be set")
	}

	want := []HealthState{HealthHealthy, HealthDegraded, HealthUnhealthy, HealthHealthy}
	if len(changes) != len(want) {
		t.Fatalf("changes = %v, want %v", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("changes[%d] = %v, want %v", i, changes[i], want[i])
		}
	}
}

func TestHealthChecker_StartStop(t *testing.T) {
	hc := NewHealthChecker(&fakePinger{}, HealthConfig{CheckInterval: 10 * time.Millisecond})

	done := make(chan struct{})
	var once sync.Once
	hc.SetOnChange(func(_, newState HealthState) {
		if newState == HealthHealthy {
			once.Do(func() { close(done) })
		}
	})

	if hc.IsRunning() {
		t.Error("should not be running initially")
	}

	hc.Start(context.Background())
	if !hc.IsRunning() {
		t.Error("should be running after Start()")
	}
	// Second start is a no-op.
	hc.Start(context.Background())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("no probe ran")
	}

	hc.Stop()
	if hc.IsRunning() {
		t.Error("should not be running after Stop()")
	}
	// Double stop is safe.
	hc.Stop()
}

func TestHealthChecker_StopsWithContext(t *testing.T) {
	hc := NewHealthChecker(&fakePinger{}, HealthConfig{CheckInterval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	hc.Start(ctx)
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for hc.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("checker still running after cancel")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestClient_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte("Ollama is running"))
	}))
	defer server.Close()

	c := NewClient(Options{Endpoint: server.URL, Token: "secret"})
	if _, err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
}

func TestClient_PingUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	c := NewClient(Options{Endpoint: server.URL})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := c.Ping(ctx); err == nil {
		t.Error("Ping() should fail for a closed server")
	}
}
