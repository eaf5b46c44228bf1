package testkit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario is one diagnostics request described in a JSON file:
//
//	testdata/
//	  counts.json       {"name": "...", "requestUrl": "/catalog/counts", "expectedCode": 200,
//	                     "responseFileName": "counts_res.json"}
//	  counts_res.json   {"categories": 0, "products": 0}
//
// Files ending in _res.json are response bodies, not scenarios.
type Scenario struct {
	Name             string            `json:"name"`
	RequestMethod    string            `json:"requestMethod"`
	RequestURL       string            `json:"requestUrl"`
	Headers          map[string]string `json:"headers"`
	ExpectedCode     int               `json:"expectedCode"`
	ExpectedHeaders  map[string]string `json:"expectedHeaders"`
	ResponseFileName string            `json:"responseFileName"`

	dir string
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", abs, err)
	}
	s.dir = filepath.Dir(abs)
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if s.RequestMethod == "" {
		s.RequestMethod = http.MethodGet
	}
	return nil
}

// ResponseBodyPath resolves ResponseFileName against the scenario's
// directory. Empty when no body is expected.
func (s *Scenario) ResponseBodyPath() string {
	if s.ResponseFileName == "" || filepath.IsAbs(s.ResponseFileName) {
		return s.ResponseFileName
	}
	return filepath.Join(s.dir, s.ResponseFileName)
}

// RunDir runs every scenario in dir against handler, one subtest each.
func RunDir(t *testing.T, handler http.Handler, dir string) {
	t.Helper()

	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	require.NoError(t, err)
	n := 0
	for _, path := range paths {
		if strings.HasSuffix(path, "_res.json") {
			continue
		}
		s, err := LoadScenario(path)
		if err != nil {
			t.Errorf("%v", err)
			continue
		}
		n++
		t.Run(s.Name, func(t *testing.T) { runScenario(t, handler, s) })
	}
	require.NotZero(t, n, "testkit: no scenario files found in %q", dir)
}

func runScenario(t *testing.T, handler http.Handler, s *Scenario) {
	t.Helper()

	req := httptest.NewRequest(strings.ToUpper(s.RequestMethod), s.RequestURL, nil)
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, s.ExpectedCode, rec.Code, "[%s] status code", s.Name)
	for k, v := range s.ExpectedHeaders {
		assert.Equal(t, v, rec.Header().Get(k), "[%s] header %s", s.Name, k)
	}

	if p := s.ResponseBodyPath(); p != "" {
		expected, err := os.ReadFile(p)
		require.NoError(t, err, "[%s] read response file", s.Name)
		AssertJSONBody(t, s.Name, expected, rec.Body.Bytes())
	}
}

// AssertJSONBody compares two JSON documents ignoring key order and
// whitespace.
func AssertJSONBody(t *testing.T, name string, expected, actual []byte) {
	t.Helper()

	var exp, act interface{}
	require.NoError(t, json.Unmarshal(expected, &exp), "[%s] expected body is not valid JSON", name)
	if !assert.NoError(t, json.Unmarshal(actual, &act), "[%s] body is not valid JSON\nbody: %s", name, actual) {
		return
	}
	assert.Equal(t, exp, act, "[%s] response body mismatch", name)
}
