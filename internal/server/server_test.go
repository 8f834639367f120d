package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/enorganic/requirements/pkg/deps"
	"github.com/enorganic/requirements/pkg/errors"
	"github.com/enorganic/requirements/pkg/pipeline"
)

func testServer(t *testing.T) http.Handler {
	t.Helper()
	reg := deps.NewMemoryRegistry(
		deps.NewDistribution("app", "1.0", "requests", "click"),
		deps.NewDistribution("Requests", "2.31.0", "urllib3", "idna"),
		deps.NewDistribution("click", "8.1.7"),
		deps.NewDistribution("urllib3", "2.2.0"),
		deps.NewDistribution("idna", "3.6"),
		deps.NewDistribution("broken", "0.1", "ghost"),
	)
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return New(pipeline.NewRunner(reg, nil, nil, logger), logger).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	rr := do(t, testServer(t), http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rr.Body.String())
	}
	if _, err := uuid.Parse(rr.Header().Get(HeaderRequestID)); err != nil {
		t.Errorf("%s = %q, want a UUID", HeaderRequestID, rr.Header().Get(HeaderRequestID))
	}
}

func TestRequestID_ClientSupplied(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rr := httptest.NewRecorder()
	testServer(t).ServeHTTP(rr, req)

	if got := rr.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Errorf("%s = %q, want %q", HeaderRequestID, got, "abc-123")
	}
}

func TestFreeze(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantNames []string
		wantLines []string
	}{
		{
			name:      "dependency order",
			body:      `{"requirements": ["app"]}`,
			wantNames: []string{"click", "idna", "urllib3", "requests", "app"},
			wantLines: []string{"click==8.1.7", "idna==3.6", "urllib3==2.2.0", "requests==2.31.0", "app==1.0"},
		},
		{
			name:      "exclude and no-version",
			body:      `{"requirements": ["app"], "exclude": ["app"], "no_version": ["url*"]}`,
			wantNames: []string{"click", "idna", "urllib3", "requests"},
			wantLines: []string{"click==8.1.7", "idna==3.6", "urllib3", "requests==2.31.0"},
		},
		{
			name:      "alphabetical reversed",
			body:      `{"requirements": ["requests"], "order": "alphabetical", "reverse": true}`,
			wantNames: []string{"urllib3", "requests", "idna"},
			wantLines: []string{"urllib3==2.2.0", "requests==2.31.0", "idna==3.6"},
		},
		{
			name:      "depth zero",
			body:      `{"requirements": ["app"], "depth": 0}`,
			wantNames: []string{"click", "requests", "app"},
			wantLines: []string{"click==8.1.7", "requests==2.31.0", "app==1.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, testServer(t), http.MethodPost, "/v1/freeze", tt.body)
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
			}
			var got struct {
				Requirements []string `json:"requirements"`
				Names        []string `json:"names"`
			}
			if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !slices.Equal(got.Names, tt.wantNames) {
				t.Errorf("names = %v, want %v", got.Names, tt.wantNames)
			}
			if !slices.Equal(got.Requirements, tt.wantLines) {
				t.Errorf("requirements = %v, want %v", got.Requirements, tt.wantLines)
			}
		})
	}
}

func TestFreeze_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   errors.Code
	}{
		{"bad json", `{"requirements": [`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", `{"requirements": ["app"], "refresh": true}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"empty", `{"requirements": []}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad order", `{"requirements": ["app"], "order": "sideways"}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"malformed", `{"requirements": ["not a (valid) spec"]}`, http.StatusBadRequest, errors.ErrCodeMalformedSpecifier},
		{"path refused", `{"requirements": ["./requirements.txt"]}`, http.StatusBadRequest, errors.ErrCodeInvalidPath},
		{"missing root", `{"requirements": ["nope"]}`, http.StatusNotFound, errors.ErrCodeUnresolvedDependency},
		{"missing dependency", `{"requirements": ["broken"]}`, http.StatusNotFound, errors.ErrCodeUnresolvedDependency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, testServer(t), http.MethodPost, "/v1/freeze", tt.body)
			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
			var body errorBody
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
			if body.Message == "" {
				t.Error("message is empty")
			}
		})
	}
}

func TestFreeze_MissingDependencyPath(t *testing.T) {
	rr := do(t, testServer(t), http.MethodPost, "/v1/freeze", `{"requirements": ["broken"]}`)
	var body errorBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(body.Message, `"ghost" (required by broken)`) {
		t.Errorf("message = %q, want the requiring path", body.Message)
	}
}

func TestDistribution(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantName   string
	}{
		{"canonical", "/v1/distributions/requests", http.StatusOK, "requests"},
		{"display name", "/v1/distributions/Requests", http.StatusOK, "requests"},
		{"missing", "/v1/distributions/ghost", http.StatusNotFound, ""},
		{"invalid", "/v1/distributions/-bad-", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, testServer(t), http.MethodGet, tt.path, "")
			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if tt.wantName == "" {
				return
			}
			var dist deps.Distribution
			if err := json.Unmarshal(rr.Body.Bytes(), &dist); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if dist.Name != tt.wantName || dist.Version != "2.31.0" {
				t.Errorf("got %s %s, want %s 2.31.0", dist.Name, dist.Version, tt.wantName)
			}
			if dist.Display != "Requests" {
				t.Errorf("display = %q, want %q", dist.Display, "Requests")
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeMalformedSpecifier, http.StatusBadRequest},
		{errors.ErrCodeInvalidInput, http.StatusBadRequest},
		{errors.ErrCodeUnresolvedDependency, http.StatusNotFound},
		{errors.ErrCodeNotFound, http.StatusNotFound},
		{errors.ErrCodeInstallFailed, http.StatusInternalServerError},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.code); got != tt.want {
			t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
