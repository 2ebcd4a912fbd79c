package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"consideration_go/internal/domain"
)

var (
	// ErrRPC wraps every failure reported by or while talking to the node.
	ErrRPC = errors.New("rpc error")
	// ErrRPCClosed is returned for calls on a closed or dropped connection.
	ErrRPCClosed = fmt.Errorf("%w: connection closed", ErrRPC)
)

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

// RPCOptions tunes an RPCClient.
type RPCOptions struct {
	Timeout          time.Duration // per call; zero means only ctx applies
	Throttle         *Throttle
	HandshakeTimeout time.Duration
	UserAgent        string // defaults to consideration/<protocol version>
}

// RPCClient speaks JSON-RPC 2.0 to a node over one websocket connection.
// Calls may be issued concurrently; responses are matched by request id.
type RPCClient struct {
	url     string
	conn    *websocket.Conn
	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan rpcResponse
	closed  bool

	timeout  time.Duration
	throttle *Throttle

	done      chan struct{}
	closeOnce sync.Once
}

// DialRPC connects to url and starts the read loop.
func DialRPC(ctx context.Context, url string, opts RPCOptions) (*RPCClient, error) {
	if opts.HandshakeTimeout == 0 {
		opts.HandshakeTimeout = 10 * time.Second
	}
	dialer := websocket.Dialer{HandshakeTimeout: opts.HandshakeTimeout}
	header := make(http.Header)
	if opts.UserAgent == "" {
		opts.UserAgent = AppName + "/" + domain.ProtocolVersion
	}
	header.Set("User-Agent", opts.UserAgent)

	conn, _, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %w", ErrRPC, url, err)
	}

	c := &RPCClient{
		url:      url,
		conn:     conn,
		pending:  make(map[string]chan rpcResponse),
		timeout:  opts.Timeout,
		throttle: opts.Throttle,
		done:     make(chan struct{}),
	}
	go c.readLoop()

	slog.Info("RPC connected", slog.String("url", url))
	return c, nil
}

// Call invokes method and decodes the result into result (may be nil).
func (c *RPCClient) Call(ctx context.Context, result any, method string, params ...any) error {
	if err := c.throttle.Wait(ctx); err != nil {
		return err
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if params == nil {
		params = []any{}
	}

	req := rpcRequest{JSONRPC: "2.0", ID: uuid.NewString(), Method: method, Params: params}
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	ch := make(chan rpcResponse, 1)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrRPCClosed
	}
	c.pending[req.ID] = ch
	c.mu.Unlock()

	c.writeMu.Lock()
	err = c.conn.WriteMessage(websocket.TextMessage, data)
	c.writeMu.Unlock()
	if err != nil {
		c.forget(req.ID)
		return fmt.Errorf("%w: write %s: %w", ErrRPC, method, err)
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return ErrRPCClosed
		}
		if resp.Error != nil {
			return fmt.Errorf("%w: %s: %s (code %d)", ErrRPC, method, resp.Error.Message, resp.Error.Code)
		}
		if result == nil {
			return nil
		}
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("%w: decode %s result: %w", ErrRPC, method, err)
		}
		return nil
	case <-ctx.Done():
		c.forget(req.ID)
		return fmt.Errorf("%w: %s: %w", ErrRPC, method, ctx.Err())
	}
}

// ChainID returns the node's current chain id (eth_chainId).
func (c *RPCClient) ChainID(ctx context.Context) (*big.Int, error) {
	var id hexutil.Big
	if err := c.Call(ctx, &id, "eth_chainId"); err != nil {
		return nil, err
	}
	return (*big.Int)(&id), nil
}

// CallContract runs a read-only eth_call against the latest block.
func (c *RPCClient) CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	msg := map[string]any{
		"to":   to,
		"data": hexutil.Bytes(data),
	}
	var out hexutil.Bytes
	if err := c.Call(ctx, &out, "eth_call", msg, "latest"); err != nil {
		return nil, err
	}
	return out, nil
}

// Close shuts the connection and fails any call still waiting.
func (c *RPCClient) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.shutdown(nil)
		c.writeMu.Lock()
		_ = c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()
		err = c.conn.Close()
		<-c.done
	})
	return err
}

func (c *RPCClient) readLoop() {
	defer close(c.done)
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			c.shutdown(err)
			return
		}

		var resp rpcResponse
		if err := json.Unmarshal(msg, &resp); err != nil {
			slog.Warn("RPC dropped undecodable message", slog.String("url", c.url), slog.Any("error", err))
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		delete(c.pending, resp.ID)
		c.mu.Unlock()
		if !ok {
			slog.Debug("RPC response for unknown id", slog.String("id", resp.ID))
			continue
		}
		ch <- resp
	}
}

// shutdown marks the client closed and releases waiting calls. A nil cause
// means a local Close.
func (c *RPCClient) shutdown(cause error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	if cause != nil && !websocket.IsCloseError(cause, websocket.CloseNormalClosure) {
		slog.Warn("RPC connection lost", slog.String("url", c.url), slog.Any("error", cause))
	}
}

func (c *RPCClient) forget(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}
