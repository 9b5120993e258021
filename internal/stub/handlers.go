package stub

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/s22625/tkoview/internal/model"
	"github.com/s22625/tkoview/internal/results"
	"github.com/s22625/tkoview/internal/rpc"
)

// rpcRequest mirrors the client's call envelope. The id is echoed back
// verbatim.
type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

type rpcResponse struct {
	ID     json.RawMessage `json:"id"`
	Result any             `json:"result"`
	Error  *rpc.CallError  `json:"error"`
}

// rpcHandler dispatches on the method field. The detail endpoint and the
// log fetcher speak the same envelope, so both routes land here.
func (s *Server) rpcHandler(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	switch req.Method {
	case "get_detailed_test_views":
		s.detailedTestViews(w, req)
	case "fetch":
		s.fetchLog(w, req)
	default:
		s.logger.Debug().Str("method", req.Method).Msg("unknown RPC method")
		s.writeError(w, req.ID, "ValidationError", "unknown method: "+req.Method)
	}
}

func (s *Server) detailedTestViews(w http.ResponseWriter, req rpcRequest) {
	var params struct {
		TestIdx int `json:"test_idx"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.writeError(w, req.ID, "ValidationError", "bad params: "+err.Error())
		return
	}

	matches := s.store.FindTests(params.TestIdx)
	if matches == nil {
		matches = []model.TestRecord{}
	}
	s.logger.Debug().Int("test_idx", params.TestIdx).Int("matches", len(matches)).Msg("detail request")
	s.writeResult(w, req.ID, matches)
}

func (s *Server) fetchLog(w http.ResponseWriter, req rpcRequest) {
	var params struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.writeError(w, req.ID, "ValidationError", "bad params: "+err.Error())
		return
	}

	if !strings.HasPrefix(params.Path, s.cfg.ResultsPath) {
		s.writeError(w, req.ID, "FetchError", "path outside results tree: "+params.Path)
		return
	}
	relPath := strings.TrimPrefix(params.Path, s.cfg.ResultsPath)

	content, err := s.store.ReadLog(relPath)
	if err != nil {
		if errors.Is(err, results.ErrLogNotFound) {
			s.writeError(w, req.ID, "FetchError", "log file not found: "+relPath)
			return
		}
		s.writeError(w, req.ID, "FetchError", err.Error())
		return
	}
	s.logger.Debug().Str("path", relPath).Int("bytes", len(content)).Msg("log request")
	s.writeResult(w, req.ID, content)
}

// retrieveLogsHandler mimics the bulk log browser: it bounces the job
// parameter to the raw results tree, where the file server takes over.
func (s *Server) retrieveLogsHandler(w http.ResponseWriter, r *http.Request) {
	job := r.URL.Query().Get("job")
	if !strings.HasPrefix(job, s.cfg.ResultsPath) {
		http.Error(w, "job must point into "+s.cfg.ResultsPath, http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, job, http.StatusFound)
}

func (s *Server) writeResult(w http.ResponseWriter, id json.RawMessage, result any) {
	s.writeJSON(w, rpcResponse{ID: id, Result: result})
}

func (s *Server) writeError(w http.ResponseWriter, id json.RawMessage, name, message string) {
	s.writeJSON(w, rpcResponse{ID: id, Error: &rpc.CallError{Name: name, Message: message}})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("encode JSON response")
	}
}
