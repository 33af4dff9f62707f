package dir

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/vietddude/dfsclient/internal/core/domain"
	"github.com/vietddude/dfsclient/internal/infra/rpc"
	"github.com/vietddude/dfsclient/internal/metrics"
)

// Directory service methods.
const (
	methodAddressMappingsGet = "address_mappings.get"
	methodServicesGetByName  = "services.get_by_name"
)

// HTTPClient talks JSON-RPC 2.0 over HTTP to the directory service. Each
// query runs through the retry engine, so transient transport errors against
// the directory are retried with the same policy as any other remote call.
type HTTPClient struct {
	endpoint   string
	httpClient *http.Client
	engine     *rpc.Engine
	retry      rpc.RetryOptions
	logger     *slog.Logger
}

// NewHTTPClient creates a directory client for the given endpoint.
func NewHTTPClient(endpoint string, timeout time.Duration, engine *rpc.Engine, retry rpc.RetryOptions, logger *slog.Logger) *HTTPClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		engine: engine,
		retry:  retry,
		logger: logger,
	}
}

// Wire representations. TTLs travel as whole seconds; role entries as an
// ordered array so first-match-wins stays well defined.
type wireMapping struct {
	UUID       string `json:"uuid"`
	Protocol   string `json:"protocol"`
	Address    string `json:"address"`
	Port       int    `json:"port"`
	TTLSeconds int64  `json:"ttl_s"`
}

type wireRole struct {
	Role  string `json:"role"`
	Value string `json:"value"`
}

type wireService struct {
	UUID string     `json:"uuid"`
	Data []wireRole `json:"data"`
}

type wireErrorData struct {
	ErrorType  string `json:"error_type"`
	PosixErrno int    `json:"posix_errno"`
	RedirectTo string `json:"redirect_to"`
}

type wireError struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    *wireErrorData `json:"data"`
}

// jsonResponse is the rpc.Response carrying one decoded JSON-RPC reply.
type jsonResponse struct {
	payload json.RawMessage
	err     *rpc.ErrorResponse
}

func (r *jsonResponse) HasFailed() bool           { return r.err != nil }
func (r *jsonResponse) Error() *rpc.ErrorResponse { return r.err }
func (r *jsonResponse) Release()                  { r.payload = nil }

func failed(err *rpc.ErrorResponse) *jsonResponse {
	return &jsonResponse{err: err}
}

func transportFailed(format string, args ...any) *jsonResponse {
	return failed(&rpc.ErrorResponse{Type: rpc.ErrorTypeIO, Message: fmt.Sprintf(format, args...)})
}

// GetAddressMappings returns all address mappings for a service UUID.
func (c *HTTPClient) GetAddressMappings(ctx context.Context, uuid string) ([]domain.AddressMapping, error) {
	var wire []wireMapping
	if err := c.call(ctx, methodAddressMappingsGet, []any{uuid}, &wire); err != nil {
		return nil, err
	}

	mappings := make([]domain.AddressMapping, 0, len(wire))
	for _, m := range wire {
		mappings = append(mappings, domain.AddressMapping{
			UUID:     m.UUID,
			Protocol: m.Protocol,
			Address:  m.Address,
			Port:     m.Port,
			TTL:      time.Duration(m.TTLSeconds) * time.Second,
		})
	}
	return mappings, nil
}

// GetServicesByName returns all services registered under a name.
func (c *HTTPClient) GetServicesByName(ctx context.Context, name string) ([]domain.ServiceRecord, error) {
	var wire []wireService
	if err := c.call(ctx, methodServicesGetByName, []any{name}, &wire); err != nil {
		return nil, err
	}

	services := make([]domain.ServiceRecord, 0, len(wire))
	for _, s := range wire {
		record := domain.ServiceRecord{UUID: s.UUID}
		for _, e := range s.Data {
			record.Data = append(record.Data, domain.RoleEntry{Role: e.Role, Value: e.Value})
		}
		services = append(services, record)
	}
	return services, nil
}

// call executes one directory query through the retry engine and decodes the
// result into out.
func (c *HTTPClient) call(ctx context.Context, method string, params any, out any) error {
	metrics.DirectoryQueriesTotal.WithLabelValues(method).Inc()

	resp, err := c.engine.Execute(ctx, func() rpc.Response {
		return c.post(ctx, method, params)
	}, c.retry)
	if err != nil {
		return err
	}
	defer resp.Release()

	payload := resp.(*jsonResponse).payload
	if out != nil && payload != nil {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("parse %s result: %w", method, err)
		}
	}
	return nil
}

// post issues a single JSON-RPC attempt. All transport-level problems are
// reported as IO-type error responses so the engine can retry them; typed
// server errors carry their wire classification through.
func (c *HTTPClient) post(ctx context.Context, method string, params any) rpc.Response {
	reqBody := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
		"id":      1,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return transportFailed("marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return transportFailed("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return transportFailed("directory call: %v", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return transportFailed("read response: %v", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return transportFailed("http %d: %s", httpResp.StatusCode, string(body))
	}

	var rpcResp struct {
		Result json.RawMessage `json:"result"`
		Error  *wireError      `json:"error"`
	}
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return transportFailed("parse response: %v", err)
	}

	if rpcResp.Error != nil {
		errResp := &rpc.ErrorResponse{
			Type:    rpc.ErrorTypeUnknown,
			Message: rpcResp.Error.Message,
		}
		if data := rpcResp.Error.Data; data != nil {
			errResp.Type = rpc.ParseErrorType(data.ErrorType)
			errResp.PosixErrno = data.PosixErrno
			errResp.RedirectTo = data.RedirectTo
		}
		return failed(errResp)
	}

	return &jsonResponse{payload: rpcResp.Result}
}
