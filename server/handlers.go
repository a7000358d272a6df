package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harendratomar/SQLify/dataset"
	"github.com/harendratomar/SQLify/pipeline"
	"github.com/harendratomar/SQLify/prompt"
	"github.com/harendratomar/SQLify/query"
	"github.com/harendratomar/SQLify/rag"
	"github.com/harendratomar/SQLify/security"
)

type generateRequest struct {
	Question    string                 `json:"question"`
	Schema      dataset.Schema         `json:"schema"`
	SampleData  []dataset.Row          `json:"sampleData"`
	TableName   string                 `json:"tableName"`
	VectorStore []rag.VectorStoreEntry `json:"vectorStore,omitempty"`
}

type generateMetadata struct {
	SecurityChecked  bool `json:"securityChecked"`
	GrammarValidated bool `json:"grammarValidated"`
	RAGUsed          bool `json:"ragUsed"`
}

type generateResponse struct {
	SQL      string           `json:"sql"`
	Metadata generateMetadata `json:"metadata"`
}

type errorResponse struct {
	Error   string            `json:"error"`
	Threats []security.Threat `json:"threats,omitempty"`
	Details json.RawMessage   `json:"details,omitempty"`
}

type queryRequest struct {
	Question  string         `json:"question"`
	TableName string         `json:"tableName"`
	Schema    dataset.Schema `json:"schema"`
	Rows      []dataset.Row  `json:"rows"`
}

type queryResponse struct {
	SQL  string        `json:"sql"`
	Rows []dataset.Row `json:"rows"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleGenerateSQL(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	// Non-authoritative early exit. The pipeline repeats this scan at the
	// trust boundary; both sites use the same pattern table.
	if threats := security.Scan(req.Question); len(threats) > 0 {
		writeError(w, http.StatusForbidden, errorResponse{
			Error:   "question rejected by security scan",
			Threats: threats,
		})
		return
	}

	result, err := s.pipeline.GenerateSQL(r.Context(), pipeline.GenerateRequest{
		Question:    req.Question,
		TableName:   req.TableName,
		Schema:      req.Schema,
		SampleRows:  req.SampleData,
		VectorStore: req.VectorStore,
	})
	if err != nil {
		s.writePipelineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		SQL: result.SQL,
		Metadata: generateMetadata{
			SecurityChecked:  true,
			GrammarValidated: true,
			RAGUsed:          result.RAGUsed,
		},
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	name := req.TableName
	if name == "" {
		name = "data"
	}
	ds, err := dataset.New(name, req.Schema, req.Rows)
	if err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result, err := s.pipeline.Run(r.Context(), ds, req.Question)
	if err != nil {
		s.writePipelineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{SQL: result.SQL, Rows: result.Rows})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Message: "sqlify is running",
	})
}

// writePipelineError maps the pipeline error taxonomy onto HTTP responses.
func (s *Server) writePipelineError(w http.ResponseWriter, err error) {
	var secErr *pipeline.SecurityError
	if errors.As(err, &secErr) {
		writeError(w, http.StatusForbidden, errorResponse{
			Error:   "question rejected by security scan",
			Threats: secErr.Threats,
		})
		return
	}

	var valErr *pipeline.ValidationError
	if errors.As(err, &valErr) {
		details, _ := json.Marshal(valErr.Errors)
		writeError(w, http.StatusBadRequest, errorResponse{
			Error:   "generated query failed validation",
			Details: details,
		})
		return
	}

	var extErr *prompt.ExternalServiceError
	if errors.As(err, &extErr) {
		details, _ := json.Marshal(extErr.Error())
		writeError(w, http.StatusBadGateway, errorResponse{
			Error:   "llm service unavailable",
			Details: details,
		})
		return
	}

	var execErr *query.ExecutionError
	if errors.As(err, &execErr) {
		details, _ := json.Marshal(execErr.Message)
		writeError(w, http.StatusBadRequest, errorResponse{
			Error:   "query execution failed",
			Details: details,
		})
		return
	}

	s.logger.Error("unhandled pipeline error", "error", err)
	writeError(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, body errorResponse) {
	writeJSON(w, status, body)
}
