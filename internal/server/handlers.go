package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/seqtable/internal/config"
	apperrors "github.com/agbru/seqtable/internal/errors"
	"github.com/agbru/seqtable/internal/sequence"
	"github.com/agbru/seqtable/internal/service"
)

const (
	// MarkdownContentType is the content type of /table responses.
	MarkdownContentType = "text/markdown; charset=utf-8"
	// StatusClientClosedRequest is reported when the client went away before
	// the table was built. It has no net/http constant.
	StatusClientClosedRequest = 499
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SequencesResponse is the JSON body of /sequences.
type SequencesResponse struct {
	Sequences []string `json:"sequences"`
}

// TableParseError is returned by parseTableParams for invalid queries.
type TableParseError struct {
	Message    string
	StatusCode int
}

func (e TableParseError) Error() string { return e.Message }

// handleHealth responds to health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	response := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	}

	s.writeJSONResponse(w, http.StatusOK, response)
}

// handleSequences lists the sequences the server can tabulate.
func (s *Server) handleSequences(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	s.writeJSONResponse(w, http.StatusOK, SequencesResponse{Sequences: s.service.Sequences()})
}

// handleTable renders the requested tables as markdown, byte for byte the
// same as the command line output.
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	seq, n, err := parseTableParams(r)
	if err != nil {
		var parseErr TableParseError
		if errors.As(err, &parseErr) {
			s.writeErrorResponse(w, parseErr.StatusCode, parseErr.Message)
		} else {
			s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	body, err := s.service.Render(ctx, seq, n)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrMaxValueExceeded):
		s.writeErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("Value of 'n' exceeds maximum allowed (%d).", s.cfg.MaxN))
		return
	case errors.Is(err, sequence.ErrUnknownSequence):
		s.writeErrorResponse(w, http.StatusNotFound, err.Error())
		return
	case apperrors.IsContextError(err):
		s.writeContextError(w, err)
		return
	default:
		s.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", MarkdownContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		s.logger.Printf("Error writing table response: %v", err)
	}
}

// writeContextError reports an interrupted build: 504 when the request
// timeout expired, 499 when the client canceled.
func (s *Server) writeContextError(w http.ResponseWriter, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		s.writeErrorResponse(w, http.StatusGatewayTimeout, err.Error())
		return
	}
	s.writeJSONResponse(w, StatusClientClosedRequest, ErrorResponse{
		Error:   "Client Closed Request",
		Message: err.Error(),
	})
}

// parseTableParams extracts the sequence selection and the count from the
// query. The selection defaults to the Fibonacci sequence.
func parseTableParams(r *http.Request) (seq string, n int, err error) {
	q := r.URL.Query()
	nStr := q.Get("n")
	if nStr == "" {
		return "", 0, TableParseError{
			Message:    "Missing 'n' parameter",
			StatusCode: http.StatusBadRequest,
		}
	}

	n, convErr := strconv.Atoi(nStr)
	if convErr != nil || n < 0 {
		return "", 0, TableParseError{
			Message:    "Invalid 'n' parameter: must be a non-negative integer",
			StatusCode: http.StatusBadRequest,
		}
	}

	seq = strings.ToLower(strings.TrimSpace(q.Get("seq")))
	if seq == "" {
		seq = config.DefaultSequence
	}
	return seq, n, nil
}

// writeJSONResponse writes data as JSON with the given status code.
func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("Error encoding JSON response: %v", err)
	}
}

// writeErrorResponse writes a standardized JSON error.
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	errResp := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	s.writeJSONResponse(w, statusCode, errResp)
}
