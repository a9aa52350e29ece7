// Package entropy provides the random sources that drive every stochastic
// decision in a settlement run: role assignment, event selection and event
// magnitude.
//
// The default source draws from crypto/rand. When a random.org API key is
// configured, a pooled random.org client is used instead and falls back to
// crypto/rand whenever the API is unavailable.
package entropy

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// DefaultEndpoint is the random.org JSON-RPC endpoint.
const DefaultEndpoint = "https://api.random.org/json-rpc/4/invoke"

const (
	refillBatch = 100 // values requested per refill
	lowWater    = 10  // refill when the pool drops below this
)

// Source is the random handle threaded through every stochastic call site.
// *math/rand/v2.Rand satisfies it.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// Client provides true random numbers from random.org with a local pool.
// A nil *Client is a valid Source backed by crypto/rand.
type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client
	limiter  *rateLimiter

	mu   sync.Mutex
	pool []float64
}

// NewClient creates a random.org client. Returns nil if apiKey is empty.
func NewClient(apiKey string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		apiKey:   apiKey,
		endpoint: DefaultEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
		limiter:  newRateLimiter(DefaultRefillRate, DefaultRefillWindow),
	}
}

// WithEndpoint points the client at a different JSON-RPC endpoint.
func (c *Client) WithEndpoint(url string) *Client {
	if c != nil {
		c.endpoint = url
	}
	return c
}

// Ambient returns the unseeded default source.
func Ambient() Source {
	return (*Client)(nil)
}

// Float64 returns a random float64 in [0, 1). Uses the pool, refilling from
// random.org when low. Falls back to crypto/rand on API failure or while
// refills are throttled.
func (c *Client) Float64() float64 {
	if c == nil {
		return cryptoRandFloat()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pool) < lowWater {
		if c.limiter.Allow() {
			c.refill()
		} else if len(c.pool) == 0 {
			slog.Debug("random.org refill throttled", "retry_after", c.limiter.RetryAfter())
		}
	}

	if len(c.pool) == 0 {
		return cryptoRandFloat()
	}

	val := c.pool[0]
	c.pool = c.pool[1:]
	return val
}

// IntN returns a random int in [0, n).
func (c *Client) IntN(n int) int {
	if n <= 0 {
		panic("entropy: invalid argument to IntN")
	}
	i := int(c.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Enabled returns true if the client has a valid API key.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      int       `json:"id"`
}

type rpcParams struct {
	APIKey        string `json:"apiKey"`
	N             int    `json:"n"`
	DecimalPlaces int    `json:"decimalPlaces"`
}

type rpcResponse struct {
	Result struct {
		Random struct {
			Data []float64 `json:"data"`
		} `json:"random"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// refill tops up the pool. Failures are logged and leave the pool as is.
func (c *Client) refill() {
	values, err := c.fetch(refillBatch)
	if err != nil {
		slog.Debug("random.org refill failed", "endpoint", c.endpoint, "error", err)
		return
	}

	// random.org rounds to six decimals and may return exactly 1.0.
	for _, v := range values {
		if v >= 0 && v < 1 {
			c.pool = append(c.pool, v)
		}
	}
	slog.Debug("random.org pool refilled", "count", len(c.pool))
}

func (c *Client) fetch(n int) ([]float64, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  "generateDecimalFractions",
		Params:  rpcParams{APIKey: c.apiKey, N: n, DecimalPlaces: 6},
		ID:      1,
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Post(c.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var out rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("api error %d: %s", out.Error.Code, out.Error.Message)
	}
	return out.Result.Random.Data, nil
}

// cryptoRandFloat generates a random float64 using crypto/rand as fallback.
func cryptoRandFloat() float64 {
	var buf [8]byte
	_, err := rand.Read(buf[:])
	if err != nil {
		return 0.5
	}
	// Use only 53 bits for a uniform float64 in [0, 1).
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}
