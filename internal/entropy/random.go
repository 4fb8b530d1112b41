// Package entropy provides the randomness sources used by board generation,
// the deck shuffle, stealing, and the AI controller.
// Every consumer takes a Source so tests can pin a seed.
package entropy

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"io"
	"log/slog"
	mrand "math/rand"
	"net/http"
	"sync"
	"time"
)

// Source is the minimal random interface the engine needs.
// *math/rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// NewSeeded returns a deterministic source. A zero seed picks one from crypto/rand.
func NewSeeded(seed int64) *mrand.Rand {
	if seed == 0 {
		seed = int64(binary.LittleEndian.Uint64(cryptoBytes()) >> 1)
	}
	return mrand.New(mrand.NewSource(seed))
}

// Crypto is a Source backed by crypto/rand. Safe for concurrent use.
type Crypto struct{}

func (Crypto) Float64() float64 { return cryptoRandFloat() }

func (c Crypto) Intn(n int) int { return intn(c, n) }

func (c Crypto) Shuffle(n int, swap func(i, j int)) { shuffle(c, n, swap) }

// Client draws numbers from random.org with a local pool.
// Falls back to crypto/rand when the API is unavailable.
type Client struct {
	apiKey string
	client *http.Client
	url    string

	mu   sync.Mutex
	pool []float64
}

// NewClient creates a random.org client. Returns nil if apiKey is empty.
func NewClient(apiKey string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		apiKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
		url:    "https://api.random.org/json-rpc/4/invoke",
	}
}

// Enabled returns true if the client has a valid API key.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Float64 returns a random float64 in [0, 1). Uses the pool, refilling from
// random.org when low.
func (c *Client) Float64() float64 {
	if !c.Enabled() {
		return cryptoRandFloat()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pool) < 10 {
		c.refill()
	}

	if len(c.pool) == 0 {
		return cryptoRandFloat()
	}

	val := c.pool[0]
	c.pool = c.pool[1:]
	return val
}

func (c *Client) Intn(n int) int { return intn(c, n) }

func (c *Client) Shuffle(n int, swap func(i, j int)) { shuffle(c, n, swap) }

func (c *Client) refill() {
	req := map[string]any{
		"jsonrpc": "2.0",
		"method":  "generateDecimalFractions",
		"params": map[string]any{
			"apiKey":        c.apiKey,
			"n":             100,
			"decimalPlaces": 6,
		},
		"id": 1,
	}

	body, err := json.Marshal(req)
	if err != nil {
		slog.Debug("random.org marshal failed", "error", err)
		return
	}

	resp, err := c.client.Post(c.url, "application/json", bytes.NewReader(body))
	if err != nil {
		slog.Debug("random.org fetch failed", "error", err)
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Debug("random.org read failed", "error", err)
		return
	}

	var result struct {
		Result struct {
			Random struct {
				Data []float64 `json:"data"`
			} `json:"random"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(respBody, &result); err != nil {
		slog.Debug("random.org parse failed", "error", err)
		return
	}

	if result.Error != nil {
		slog.Debug("random.org API error", "error", result.Error.Message)
		return
	}

	c.pool = append(c.pool, result.Result.Random.Data...)
	slog.Debug("random.org pool refilled", "count", len(result.Result.Random.Data))
}

// intn maps a [0,1) float onto [0,n). Clamps the rare 1.0 from a rounded pool value.
func intn(s interface{ Float64() float64 }, n int) int {
	if n <= 0 {
		panic("entropy: invalid argument to Intn")
	}
	v := int(s.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// shuffle is a Fisher-Yates pass driven by intn.
func shuffle(s interface{ Float64() float64 }, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := intn(s, i+1)
		swap(i, j)
	}
}

func cryptoBytes() []byte {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		binary.LittleEndian.PutUint64(buf, uint64(time.Now().UnixNano()))
	}
	return buf
}

// cryptoRandFloat generates a random float64 using crypto/rand.
func cryptoRandFloat() float64 {
	// Use only 53 bits for a uniform float64 in [0, 1).
	n := binary.LittleEndian.Uint64(cryptoBytes()) >> 11
	return float64(n) / float64(1<<53)
}
