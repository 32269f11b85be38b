package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// ApiMock stands in for a third-party HTTP API. It records every request
// and answers with canned responses.
type ApiMock struct {
	mu        sync.Mutex
	server    *httptest.Server
	requests  map[string][]RecordedRequest
	responses map[string]map[int]cannedResponse
	defaults  map[string]cannedResponse
}

// RecordedRequest is one request received by the mock.
type RecordedRequest struct {
	Headers map[string]string
	Queries map[string]string
	Body    map[string]any
}

type cannedResponse struct {
	status int
	body   map[string]any
}

func NewApiServer() *ApiMock {
	return &ApiMock{
		requests:  map[string][]RecordedRequest{},
		responses: map[string]map[int]cannedResponse{},
		defaults:  map[string]cannedResponse{},
	}
}

func (a *ApiMock) Start() {
	a.server = httptest.NewServer(http.HandlerFunc(a.handle))
}

func (a *ApiMock) Close() {
	if a.server != nil {
		a.server.Close()
	}
}

func (a *ApiMock) GetUrl() string {
	if a.server == nil {
		return ""
	}
	return a.server.URL
}

func (a *ApiMock) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var payload map[string]any
	_ = json.Unmarshal(body, &payload)
	if payload == nil {
		payload = map[string]any{}
	}

	recorded := RecordedRequest{
		Headers: map[string]string{},
		Queries: map[string]string{},
		Body:    payload,
	}
	for key, value := range r.Header {
		recorded.Headers[key] = value[0]
	}
	for key, value := range r.URL.Query() {
		recorded.Queries[key] = value[0]
	}

	a.mu.Lock()
	key := r.Method + r.URL.Path
	index := len(a.requests[key])
	a.requests[key] = append(a.requests[key], recorded)
	response := a.responseFor(r.Method, r.URL.Path, index)
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(response.status)
	encoded, _ := json.Marshal(response.body)
	_, _ = w.Write(encoded)
}

// SetResponse sets the reply to the index-th call of method and path. An
// index of -1 sets the reply for every call without a specific one. Path
// segments may be "*".
func (a *ApiMock) SetResponse(index int, method, path string, status int, response map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := method + path
	if index == -1 {
		a.defaults[key] = cannedResponse{status: status, body: response}
		return
	}
	if a.responses[key] == nil {
		a.responses[key] = map[int]cannedResponse{}
	}
	a.responses[key][index] = cannedResponse{status: status, body: response}
}

// Requests returns the requests received for method and path, in order.
func (a *ApiMock) Requests(method, path string) []RecordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()

	recorded := a.requests[method+path]
	out := make([]RecordedRequest, len(recorded))
	copy(out, recorded)
	return out
}

func (a *ApiMock) GetRequestBody(method, path string, index int) map[string]any {
	requests := a.Requests(method, path)
	if index < 0 || index >= len(requests) {
		return nil
	}
	return requests[index].Body
}

func (a *ApiMock) GetRequestHeaders(method, path string, index int) map[string]string {
	requests := a.Requests(method, path)
	if index < 0 || index >= len(requests) {
		return nil
	}
	return requests[index].Headers
}

// Clear forgets every recorded request and canned response.
func (a *ApiMock) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.requests = map[string][]RecordedRequest{}
	a.responses = map[string]map[int]cannedResponse{}
	a.defaults = map[string]cannedResponse{}
}

// responseFor must be called with mu held.
func (a *ApiMock) responseFor(method, path string, index int) cannedResponse {
	if byIndex, ok := a.responses[method+path]; ok {
		if response, ok := byIndex[index]; ok {
			return response
		}
	}

	for key, response := range a.defaults {
		if strings.HasPrefix(key, method) && matchPath(strings.TrimPrefix(key, method), path) {
			return response
		}
	}

	// WriteHeader(0) panics.
	return cannedResponse{status: http.StatusOK, body: map[string]any{}}
}

func matchPath(pattern string, path string) bool {
	if pattern == path {
		return true
	}

	patternParts := strings.Split(pattern, "/")
	pathParts := strings.Split(path, "/")
	if len(patternParts) != len(pathParts) {
		return false
	}

	for i := range patternParts {
		if patternParts[i] != "*" && patternParts[i] != pathParts[i] {
			return false
		}
	}

	return true
}
