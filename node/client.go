// Package node reads data from a Substrate node through its
// WebSocket JSON-RPC endpoint.
package node

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/rpc"
	log "github.com/sirupsen/logrus"
)

var (
	ErrClosed      = errors.New("node connection closed")
	ErrNoBlockHash = errors.New("node returned no block hash")
)

const methodGetBlockHash = "chain_getBlockHash"

type Client struct {
	log       *log.Logger
	url       string
	rpc       *rpc.Client
	closeOnce sync.Once
	closed    chan struct{}
}

// NormalizeURL turns a bare host into a secure WebSocket url,
// urls that already carry a scheme are returned unchanged.
func NormalizeURL(url string) string {
	url = strings.TrimSpace(url)
	if strings.Contains(url, "://") {
		return url
	}
	return "wss://" + url
}

// Dial opens a new connection to the node at the provided url.
func Dial(ctx context.Context, url string, l *log.Logger) (*Client, error) {
	url = NormalizeURL(url)
	l.WithField("Url", url).Trace("Connecting to node")

	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	l.WithField("Url", url).Debug("Connected to node")
	return &Client{
		log:    l,
		url:    url,
		rpc:    c,
		closed: make(chan struct{}),
	}, nil
}

// URL returns the url the client is connected to.
func (c *Client) URL() string {
	return c.url
}

// BlockHash returns the hash of the node's current best block.
// When the context is done before the node answers, the
// connection is closed.
func (c *Client) BlockHash(ctx context.Context) (string, error) {
	select {
	case <-c.closed:
		return "", fmt.Errorf("%s: %w", methodGetBlockHash, ErrClosed)
	default:
	}
	c.log.WithFields(log.Fields{
		"Url":    c.url,
		"Method": methodGetBlockHash,
	}).Trace("Sending node request")

	var hash string
	if err := c.rpc.CallContext(ctx, &hash, methodGetBlockHash); err != nil {
		return "", c.callError(ctx, err)
	}
	if len(hash) == 0 {
		return "", ErrNoBlockHash
	}
	return hash, nil
}

// Close closes the connection to the node, it may be called
// more than once.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.rpc.Close()
		c.log.WithField("Url", c.url).Debug("Closed node connection")
	})
	return nil
}

func (c *Client) callError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		// NOTE: the node may still answer the abandoned request
		c.Close()
		return fmt.Errorf("%s: %w", methodGetBlockHash, ctx.Err())
	}
	if errors.Is(err, rpc.ErrClientQuit) {
		return fmt.Errorf("%s: %w", methodGetBlockHash, ErrClosed)
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return fmt.Errorf("%s: node error %d: %w", methodGetBlockHash, rpcErr.ErrorCode(), err)
	}
	return fmt.Errorf("%s: %w", methodGetBlockHash, err)
}
