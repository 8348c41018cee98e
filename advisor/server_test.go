package advisor_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/indicoin-xyz/go-indicoin/advisor"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv, err := advisor.NewServer(advisor.WithHistory(flatHistory(60)))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts
}

func postPredict(t *testing.T, ts *httptest.Server, req advisor.Request) *http.Response {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(ts.URL+"/predict", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	return resp
}

func TestPredictEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := postPredict(t, ts, advisor.Request{
		Balance: 100000, FirstTime: true, RiskProfile: "moderate",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out advisor.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.BTCUSD != 45000 || out.USDINR != 83 {
		t.Errorf("rates = %v / %v", out.BTCUSD, out.USDINR)
	}
	if out.RiskProfile != "moderate" {
		t.Errorf("profile = %q", out.RiskProfile)
	}
	if out.HardLimit <= 0 || out.HardLimit > 100000 {
		t.Errorf("hard limit out of range: %v", out.HardLimit)
	}
}

func TestPredictRejectsBadRequests(t *testing.T) {
	ts := newTestServer(t)

	t.Run("UnknownProfile", func(t *testing.T) {
		resp := postPredict(t, ts, advisor.Request{Balance: 1000, RiskProfile: "reckless"})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("NonPositiveBalance", func(t *testing.T) {
		resp := postPredict(t, ts, advisor.Request{Balance: -5, RiskProfile: "moderate"})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("InvalidBody", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/predict", "application/json", bytes.NewBufferString("not json"))
		if err != nil {
			t.Fatalf("post failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("WrongMethod", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/predict")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", resp.StatusCode)
		}
	})
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["status"] != "ok" {
		t.Errorf("status field = %q", out["status"])
	}
}
