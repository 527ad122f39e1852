package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mager/melodiary/config"
	"github.com/mager/melodiary/logger"
)

func TestHealthHandler(t *testing.T) {
	all := config.Services{
		OpenAI:    config.Configured,
		Spotify:   config.Configured,
		Firestore: config.Configured,
		Storage:   config.Configured,
		Database:  config.Configured,
	}
	partial := all
	partial.Spotify = config.PlaceholderDetected
	noLLM := all
	noLLM.OpenAI = config.Unconfigured

	tests := []struct {
		name        string
		services    config.Services
		wantOverall string
		wantTest    bool
	}{
		{name: "all configured", services: all, wantOverall: FullyConfigured},
		{name: "placeholder spotify", services: partial, wantOverall: PartiallyConfigured},
		{name: "no openai", services: noLLM, wantOverall: TestMode, wantTest: true},
		{name: "nothing", services: config.Services{}, wantOverall: TestMode, wantTest: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, _ := logger.NewTestLogger()
			handler := NewHealthHandler(log, tt.services)

			req, err := http.NewRequest(http.MethodGet, "/health", nil)
			if err != nil {
				t.Fatal(err)
			}

			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if status := rr.Code; status != http.StatusOK {
				t.Errorf("handler returned wrong status code: got %v want %v",
					status, http.StatusOK)
			}

			// Check the response body
			var resp Response
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Errorf("failed to unmarshal response: %v", err)
			}

			if resp.Status != "ok" {
				t.Errorf("handler returned wrong status: got %v want %v",
					resp.Status, "ok")
			}
			if resp.OverallStatus != tt.wantOverall {
				t.Errorf("overall status: got %v want %v", resp.OverallStatus, tt.wantOverall)
			}
			if resp.TestMode != tt.wantTest {
				t.Errorf("test mode: got %v want %v", resp.TestMode, tt.wantTest)
			}
			if len(resp.Services) != 5 {
				t.Errorf("expected 5 services, got %d", len(resp.Services))
			}
		})
	}
}

func TestHealthHandlerServiceStatus(t *testing.T) {
	log, _ := logger.NewTestLogger()
	handler := NewHealthHandler(log, config.Services{OpenAI: config.Configured, Spotify: config.PlaceholderDetected})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp Response
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	want := map[string]ServiceStatus{
		"openai":   {Configured: true, Status: "configured"},
		"spotify":  {Configured: false, Status: "placeholder"},
		"database": {Configured: false, Status: "not_configured"},
	}
	for name, w := range want {
		if got := resp.Services[name]; got != w {
			t.Errorf("%s: got %+v want %+v", name, got, w)
		}
	}
}
