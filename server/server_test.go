package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/harendratomar/SQLify/pipeline"
	"github.com/harendratomar/SQLify/security"
)

type stubCompleter struct {
	completion string
	err        error
	calls      int
}

func (s *stubCompleter) Complete(ctx context.Context, p string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.completion, nil
}

func newTestServer(completion string) (*Server, *stubCompleter) {
	completer := &stubCompleter{completion: completion}
	p := pipeline.New(completer, security.NewLog(), nil)
	return New(p, nil), completer
}

const generateBody = `{
	"question": "which country is ranked first?",
	"tableName": "data",
	"schema": [{"name":"Country","type":"TEXT"},{"name":"Rank","type":"NUMBER"}],
	"sampleData": [{"Country":"Nepal","Rank":5},{"Country":"India","Rank":1}]
}`

func TestGenerateSQLEndpoint(t *testing.T) {
	srv, _ := newTestServer("SELECT `Country` FROM data WHERE `Rank` = '1'")

	req := httptest.NewRequest(http.MethodPost, "/generate-sql", strings.NewReader(generateBody))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		SQL      string `json:"sql"`
		Metadata struct {
			SecurityChecked  bool `json:"securityChecked"`
			GrammarValidated bool `json:"grammarValidated"`
			RAGUsed          bool `json:"ragUsed"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.SQL == "" {
		t.Error("expected non-empty sql")
	}
	if !resp.Metadata.SecurityChecked || !resp.Metadata.GrammarValidated {
		t.Errorf("metadata = %+v", resp.Metadata)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestGenerateSQLRejectsThreats(t *testing.T) {
	srv, completer := newTestServer("SELECT * FROM data")

	body := `{"question": "'; DROP TABLE users; --", "tableName": "data", "schema": [], "sampleData": []}`
	req := httptest.NewRequest(http.MethodPost, "/generate-sql", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}

	var resp struct {
		Error   string   `json:"error"`
		Threats []string `json:"threats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Threats) == 0 {
		t.Error("expected threats in response")
	}
	// Early exit: the LLM is never reached.
	if completer.calls != 0 {
		t.Errorf("LLM called %d times for a rejected question", completer.calls)
	}
}

func TestGenerateSQLGrammarFailure(t *testing.T) {
	srv, _ := newTestServer("I have no idea")

	req := httptest.NewRequest(http.MethodPost, "/generate-sql", strings.NewReader(generateBody))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "details") {
		t.Errorf("expected grammar details in body: %s", rec.Body.String())
	}
}

func TestQueryEndpoint(t *testing.T) {
	srv, _ := newTestServer("SELECT `Country`,`Rank` FROM data WHERE `Country` = 'Nepal'")

	body := `{
		"question": "show nepal",
		"tableName": "data",
		"schema": [{"name":"Country","type":"TEXT"},{"name":"Rank","type":"NUMBER"}],
		"rows": [{"Country":"Nepal","Rank":5},{"Country":"India","Rank":1}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		SQL  string                   `json:"sql"`
		Rows []map[string]interface{} `json:"rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Rows) != 1 || resp.Rows[0]["Country"] != "Nepal" {
		t.Errorf("rows = %v", resp.Rows)
	}
}

func TestQueryRejectsInconsistentRows(t *testing.T) {
	srv, _ := newTestServer("SELECT * FROM data")

	body := `{
		"question": "show all",
		"tableName": "data",
		"schema": [{"name":"Country","type":"TEXT"},{"name":"Rank","type":"NUMBER"}],
		"rows": [{"Country":"Nepal"}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer("")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
}

func TestInvalidBodyReturns400(t *testing.T) {
	srv, _ := newTestServer("")

	req := httptest.NewRequest(http.MethodPost, "/generate-sql", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
