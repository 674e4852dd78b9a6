// Package apitest runs HTTP API scenarios against a handler and asserts their JSON results.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/m4gshm/gollections/map_"
	"github.com/m4gshm/gollections/slice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m4gshm/crudr/controller"
)

const (
	DateTimeLayout = "2006-01-02 15:04:05"
	ArtifactsDir   = "testdata"
)

var assertDateTimeExpr = regexp.MustCompile(`\\assertDateTime\(\)`)

type T interface {
	require.TestingT
	Helper()
	Cleanup(func())
}

type Option func(*Scenario)

func WithArtifactsDir(dir string) Option {
	return func(s *Scenario) { s.artifactsDir = dir }
}

func WithHeader(key, value string) Option {
	return func(s *Scenario) { s.header.Set(key, value) }
}

// Scenario is the per test API client, the server is closed on test cleanup.
type Scenario struct {
	t            T
	server       *httptest.Server
	entity       string
	artifactsDir string
	header       http.Header
}

func New(t T, handler http.Handler, entity string, opts ...Option) *Scenario {
	t.Helper()
	s := &Scenario{t: t, entity: entity, artifactsDir: ArtifactsDir, header: http.Header{}}
	for _, o := range opts {
		o(s)
	}
	s.server = httptest.NewServer(handler)
	t.Cleanup(s.server.Close)
	return s
}

func (s *Scenario) URL(path string) string {
	return s.server.URL + path
}

// Output is a received response.
type Output struct {
	Status int
	Header http.Header
	Body   []byte
}

// Data decodes the JSON body.
func (o *Output) Data() (any, error) {
	var data any
	if len(bytes.TrimSpace(o.Body)) == 0 {
		return nil, nil
	}
	err := json.Unmarshal(o.Body, &data)
	return data, err
}

// Do sends the request; body is sent as is when it is []byte or string, otherwise encoded to JSON.
func (s *Scenario) Do(method, path string, body any) *Output {
	s.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		encoded, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequest(method, s.URL(path), reader)
	require.NoError(s.t, err)
	for k, v := range s.header {
		req.Header[k] = v
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.server.Client().Do(req)
	require.NoError(s.t, err)
	defer func() { _ = resp.Body.Close() }()
	content, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return &Output{Status: resp.StatusCode, Header: resp.Header, Body: content}
}

// Artifact reads testdata/<Entity>/<name>.json.
func (s *Scenario) Artifact(name string) []byte {
	s.t.Helper()
	content, err := os.ReadFile(filepath.Join(s.artifactsDir, s.entity, name+".json"))
	require.NoError(s.t, err)
	return content
}

// ExpectedResult decodes a JSON object artifact.
func (s *Scenario) ExpectedResult(name string) map[string]any {
	s.t.Helper()
	var expected map[string]any
	require.NoError(s.t, json.Unmarshal(s.Artifact(name), &expected))
	return expected
}

// AssertAPIProblem checks the status and the prefixed error messages in any order.
func (s *Scenario) AssertAPIProblem(out *Output, status int, messages ...string) {
	s.t.Helper()
	assert.Equal(s.t, status, out.Status)
	var problem struct {
		Errors []string `json:"errors"`
	}
	require.NoError(s.t, json.Unmarshal(out.Body, &problem))
	require.NotNil(s.t, problem.Errors, "response must have errors")
	expected := slice.Convert(messages, func(m string) string { return controller.ProblemPrefix + m })
	assert.ElementsMatch(s.t, expected, problem.Errors)
}

// AssertEntityResult compares the entity fields only, or the fields with values.
func (s *Scenario) AssertEntityResult(out *Output, status int, expected map[string]any, onlyFields bool) {
	s.t.Helper()
	assert.Equal(s.t, status, out.Status)
	actual := s.object(out)
	if onlyFields {
		s.AssertFields(map_.Keys(expected), actual)
		return
	}
	s.AssertAssessable(expected, actual)
}

// AssertEntityListResult checks the list size and the fields of every element.
func (s *Scenario) AssertEntityListResult(out *Output, status int, count int, fields []string) {
	s.t.Helper()
	assert.Equal(s.t, status, out.Status)
	var list []map[string]any
	require.NoError(s.t, json.Unmarshal(out.Body, &list))
	require.Len(s.t, list, count, "expected list size %d, get %d", count, len(list))
	for _, e := range list {
		s.AssertFields(fields, e)
	}
}

// AssertFields checks that the entity has exactly these fields.
func (s *Scenario) AssertFields(fields []string, entity map[string]any) {
	s.t.Helper()
	require.NotNil(s.t, entity, "the entity should not be null")
	assert.ElementsMatch(s.t, fields, map_.Keys(entity), "entity fields mismatch")
}

// AssertAssessable checks the placeholder values like \assertDateTime() and then compares the rest.
func (s *Scenario) AssertAssessable(expected, actual map[string]any) {
	s.t.Helper()
	assert.Equal(s.t, assess(s.t, "", expected, actual), actual)
}

// assess returns a copy of expected with placeholders replaced by the checked actual values.
func assess(t T, path string, expected, actual map[string]any) map[string]any {
	t.Helper()
	result := make(map[string]any, len(expected))
	for key, value := range expected {
		result[key] = value
		actualValue, ok := actual[key]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case string:
			if assertDateTimeExpr.MatchString(v) {
				AssertDateTime(t, path+key, actualValue)
				result[key] = actualValue
			}
		case map[string]any:
			if nested, ok := actualValue.(map[string]any); ok {
				result[key] = assess(t, path+key+".", v, nested)
			}
		}
	}
	return result
}

func AssertDateTime(t T, key string, value any) {
	t.Helper()
	s, _ := value.(string)
	parsed, err := time.Parse(DateTimeLayout, s)
	assert.True(t, err == nil && parsed.Format(DateTimeLayout) == s,
		"invalid date format for %s field: expected format %s, get value %v", key, DateTimeLayout, value)
}

func (s *Scenario) object(out *Output) map[string]any {
	s.t.Helper()
	var obj map[string]any
	require.NoError(s.t, json.Unmarshal(out.Body, &obj))
	return obj
}
