package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/nodekeeper/internal/common"
)

// TimeNow is overridable in tests.
var TimeNow = time.Now

// Response is the envelope every API route answers with.
type Response struct {
	Status    int             `json:"status"`
	Data      json.RawMessage `json:"data,omitempty"`
	Message   string          `json:"message"`
	Error     string          `json:"error,omitempty"`
	Details   string          `json:"details,omitempty"`
	Timestamp string          `json:"timestamp"`
}

// Error tags.
const (
	TagBadRequest          = "bad_request"
	TagNotFound            = "not_found"
	TagMethodNotAllowed    = "method_not_allowed"
	TagInvalidInput        = "invalid_input"
	TagDatabase            = "database_error"
	TagRPCConnection       = "rpc_connection_error"
	TagRPC                 = "rpc_error"
	TagRPCParse            = "rpc_parse_error"
	TagRPCNoResult         = "rpc_no_result"
	TagInternalServerError = "internal_server_error"
)

// Failure is the HTTP rendering of an error.
type Failure struct {
	Status  int
	Tag     string
	Message string
	Details string
}

// MapError renders err. Every common.Kind has exactly one mapping; errors
// without a kind are internal.
func MapError(err error) Failure {
	var ce *common.Error
	if !errors.As(err, &ce) {
		return Failure{
			Status:  http.StatusInternalServerError,
			Tag:     TagInternalServerError,
			Message: fmt.Sprintf("Internal server error: %v", err),
		}
	}

	switch ce.Kind {
	case common.KindNotFound:
		return Failure{Status: http.StatusNotFound, Tag: TagNotFound, Message: ce.Message}
	case common.KindInvalidInput:
		return Failure{Status: http.StatusInternalServerError, Tag: TagInvalidInput, Message: "Invalid input: " + ce.Message}
	case common.KindDatabase:
		return Failure{Status: http.StatusInternalServerError, Tag: TagDatabase, Message: "Database error: " + cause(ce)}
	case common.KindRemoteConnection:
		return Failure{Status: http.StatusBadGateway, Tag: TagRPCConnection, Message: "Failed to connect to Bitcoin node: " + cause(ce)}
	case common.KindRemoteProtocol:
		return Failure{
			Status:  http.StatusBadGateway,
			Tag:     TagRPC,
			Message: fmt.Sprintf("Bitcoin RPC error (code %d): %s", ce.Code, ce.Message),
			Details: fmt.Sprintf("RPC error code: %d, message: %s", ce.Code, ce.Message),
		}
	case common.KindRemoteParse:
		return Failure{Status: http.StatusBadGateway, Tag: TagRPCParse, Message: "Failed to parse Bitcoin RPC response: " + ce.Error()}
	case common.KindRemoteEmptyResult:
		return Failure{Status: http.StatusBadGateway, Tag: TagRPCNoResult, Message: "Bitcoin RPC returned no result"}
	case common.KindInternal:
		return Failure{Status: http.StatusInternalServerError, Tag: TagInternalServerError, Message: "Internal server error: " + ce.Error()}
	}
	return Failure{Status: http.StatusInternalServerError, Tag: TagInternalServerError, Message: "Internal server error: " + ce.Error()}
}

func cause(ce *common.Error) string {
	if ce.Err != nil {
		return ce.Err.Error()
	}
	return ce.Message
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(v)
}

func timestamp() string {
	return TimeNow().UTC().Format(time.RFC3339)
}

// writeSuccess answers 200 with data, which may be nil.
func writeSuccess(w http.ResponseWriter, data any, message string) {
	raw, err := json.Marshal(data)
	if err != nil {
		writeFailure(w, Failure{
			Status:  http.StatusInternalServerError,
			Tag:     TagInternalServerError,
			Message: fmt.Sprintf("Internal server error: encode response: %v", err),
		})
		return
	}
	writeJSON(w, http.StatusOK, Response{
		Status:    http.StatusOK,
		Data:      raw,
		Message:   message,
		Timestamp: timestamp(),
	})
}

func writeFailure(w http.ResponseWriter, f Failure) {
	writeJSON(w, f.Status, Response{
		Status:    f.Status,
		Message:   f.Message,
		Error:     f.Tag,
		Details:   f.Details,
		Timestamp: timestamp(),
	})
}
