// Package tests provides integration tests for TeleMesh.
//
// This integration test runs the full agent pipeline in-process and
// verifies:
//   - Remote write delivery on the reporting interval
//   - Admin API listing and unregistration
//   - Prometheus scrape exposition
//   - Graceful pipeline shutdown
package tests

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/telemesh-go/internal/agent/adminserver"
	"github.com/yndnr/telemesh-go/internal/agent/procstats"
	"github.com/yndnr/telemesh-go/pkg/export"
	"github.com/yndnr/telemesh-go/pkg/metric"
	"github.com/yndnr/telemesh-go/pkg/writer/remote"
)

// writeCapture records remote write requests.
type writeCapture struct {
	mu       sync.Mutex
	requests int
	headers  http.Header
}

func (c *writeCapture) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	io.Copy(io.Discard, r.Body)
	c.mu.Lock()
	c.requests++
	if c.headers == nil {
		c.headers = r.Header.Clone()
	}
	c.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (c *writeCapture) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requests
}

func (c *writeCapture) header(key string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.headers.Get(key)
}

// TestPipeline_Integration runs the full agent pipeline against an
// in-process remote write endpoint and admin server.
func TestPipeline_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	// Remote write sink
	capture := &writeCapture{}
	remoteSrv := httptest.NewServer(capture)
	defer remoteSrv.Close()

	// Registry with process metrics plus one application counter
	registry := metric.NewRegistry(metric.WithLogger(log))
	if err := procstats.Register(registry, log); err != nil {
		t.Fatalf("failed to register process metrics: %v", err)
	}

	requests, err := metric.NewCounter(registry, "/http/requests", "Count of HTTP requests", "requests",
		metric.MustLabel("route", "Request route"))
	if err != nil {
		t.Fatalf("failed to create counter: %v", err)
	}
	if err := requests.Increment("api"); err != nil {
		t.Fatalf("failed to increment counter: %v", err)
	}

	// Reporter shipping to the sink on a short interval
	writer, err := remote.New(remote.Config{
		Endpoint:    remoteSrv.URL,
		ConstLabels: map[string]string{"instance": "integration-test"},
		Logger:      log,
	})
	if err != nil {
		t.Fatalf("failed to create remote writer: %v", err)
	}

	reporter, err := export.NewReporter(export.Config{
		Registry: registry,
		Writer:   writer,
		Interval: 200 * time.Millisecond,
		Logger:   log,
	})
	if err != nil {
		t.Fatalf("failed to create reporter: %v", err)
	}
	if err := reporter.Start(); err != nil {
		t.Fatalf("failed to start reporter: %v", err)
	}

	// Admin surface over the same registry
	adminSrv := httptest.NewServer(adminserver.NewHandler(adminserver.HandlerConfig{
		Registry: registry,
		Logger:   log,
	}))
	defer adminSrv.Close()

	t.Log("Waiting for first reporting interval...")
	deadline := time.Now().Add(10 * time.Second)
	for capture.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}

	t.Run("VerifyRemoteWriteDelivery", func(t *testing.T) {
		if capture.count() == 0 {
			t.Fatal("no remote write request arrived within deadline")
		}
		if got := capture.header("Content-Encoding"); got != "snappy" {
			t.Errorf("Content-Encoding = %q, want snappy", got)
		}
		if got := capture.header("Content-Type"); got != "application/x-protobuf" {
			t.Errorf("Content-Type = %q, want application/x-protobuf", got)
		}
	})

	t.Run("VerifyAdminListing", func(t *testing.T) {
		resp, err := http.Get(adminSrv.URL + "/v1/metrics")
		if err != nil {
			t.Fatalf("list request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("list status = %d, want 200", resp.StatusCode)
		}

		var body struct {
			Metrics []struct {
				Name string `json:"name"`
			} `json:"metrics"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode listing: %v", err)
		}

		names := make(map[string]bool, len(body.Metrics))
		for _, m := range body.Metrics {
			names[m.Name] = true
		}
		for _, want := range []string{"/http/requests", "/process/goroutines", "/metrics/push_intervals"} {
			if !names[want] {
				t.Errorf("listing missing %s", want)
			}
		}
	})

	t.Run("VerifyPrometheusScrape", func(t *testing.T) {
		resp, err := http.Get(adminSrv.URL + "/metrics")
		if err != nil {
			t.Fatalf("scrape request failed: %v", err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("failed to read exposition: %v", err)
		}
		exposition := string(raw)

		if !strings.Contains(exposition, "telemesh_http_requests") {
			t.Error("exposition missing telemesh_http_requests")
		}
		if !strings.Contains(exposition, "telemesh_process_goroutines") {
			t.Error("exposition missing telemesh_process_goroutines")
		}
	})

	t.Run("VerifyUnregister", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodDelete, adminSrv.URL+"/v1/metrics/http/requests", nil)
		if err != nil {
			t.Fatalf("failed to build delete request: %v", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("delete request failed: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("delete status = %d, want 204", resp.StatusCode)
		}
		if _, ok := registry.Get("/http/requests"); ok {
			t.Error("metric still registered after delete")
		}
	})

	// Graceful shutdown
	t.Log("Stopping reporter...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := reporter.Stop(ctx); err != nil {
		t.Errorf("reporter shutdown error: %v", err)
	}

	t.Log("Integration test completed successfully")
}
