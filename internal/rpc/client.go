package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/s22625/tkoview/internal/config"
	"github.com/s22625/tkoview/internal/model"
)

// ErrTestNotFound reports that a detail request did not match exactly one test.
var ErrTestNotFound = errors.New("test not found")

// CallError is an error the results server reported for a single RPC call.
type CallError struct {
	Name      string `json:"name"`
	Message   string `json:"message"`
	Traceback string `json:"traceback,omitempty"`
}

func (e *CallError) Error() string {
	if e.Name != "" && e.Message != "" {
		return e.Name + ": " + e.Message
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Name
}

type rpcRequest struct {
	ID     int64  `json:"id"`
	Method string `json:"method"`
	Params any    `json:"params"`
}

type rpcResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *CallError      `json:"error"`
}

// Client talks to a TKO results server
type Client struct {
	server           string
	rpcPath          string
	logFetchPath     string
	resultsPath      string
	retrieveLogsPath string
	httpClient       *http.Client
	logger           zerolog.Logger

	nextID atomic.Int64
}

// New creates a client for the results server described by cfg
func New(cfg *config.Config, logger zerolog.Logger) *Client {
	return &Client{
		server:           strings.TrimRight(cfg.Server, "/"),
		rpcPath:          cfg.RPCPath,
		logFetchPath:     cfg.LogFetchPath,
		resultsPath:      cfg.ResultsPath,
		retrieveLogsPath: cfg.RetrieveLogsPath,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// call posts one RPC request to path and decodes its result into out.
func (c *Client) call(ctx context.Context, path, method string, params, out any) error {
	reqBody := rpcRequest{
		ID:     c.nextID.Add(1),
		Method: method,
		Params: params,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshaling %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.server+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("creating %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug().Str("method", method).Str("path", path).Msg("RPC call")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s returned status %d: %s", method, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("decoding %s response: %w", method, err)
	}

	if rpcResp.Error != nil {
		c.logger.Debug().Str("method", method).Str("error", rpcResp.Error.Error()).Msg("RPC error")
		return rpcResp.Error
	}

	if out != nil {
		if err := json.Unmarshal(rpcResp.Result, out); err != nil {
			return fmt.Errorf("decoding %s result: %w", method, err)
		}
	}

	return nil
}

// DetailedTestView fetches the detail row for one test. The server answers
// with an array; exactly one non-null element is a success, anything else is
// ErrTestNotFound.
func (c *Client) DetailedTestView(ctx context.Context, testIdx int) (*model.TestRecord, error) {
	var views []*model.TestRecord
	params := map[string]any{"test_idx": testIdx}
	if err := c.call(ctx, c.rpcPath, "get_detailed_test_views", params, &views); err != nil {
		return nil, err
	}
	if len(views) != 1 || views[0] == nil {
		return nil, ErrTestNotFound
	}
	return views[0], nil
}

// FetchLog retrieves one log file from the job's results directory. The
// fetch endpoint routes on the path parameter and ignores the method name.
func (c *Client) FetchLog(ctx context.Context, jobTag, logPath string) (string, error) {
	var content string
	params := map[string]any{"path": c.LogURL(jobTag, logPath)}
	if err := c.call(ctx, c.logFetchPath, "fetch", params, &content); err != nil {
		return "", err
	}
	return content, nil
}

// LogURL returns the server path of one log file inside a job's results.
func (c *Client) LogURL(jobTag, logPath string) string {
	return c.resultsPath + jobTag + "/" + logPath
}

// RetrieveLogsURL returns the address of the bulk logs page for a job.
func (c *Client) RetrieveLogsURL(jobTag string) string {
	return c.server + c.retrieveLogsPath + "?job=" + url.QueryEscape(c.resultsPath+jobTag)
}
