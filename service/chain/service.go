package chain

import (
	"context"
	"errors"
	"fmt"
	"substrate-discord-bot/model"
	"time"

	log "github.com/sirupsen/logrus"
)

const DefaultTimeout = 15 * time.Second

var ErrEmptyHash = errors.New("node returned an empty block hash")

// BlockHashReader is a single open connection to a node.
type BlockHashReader interface {
	BlockHash(ctx context.Context) (string, error)
	Close() error
}

// Dialer opens a new connection to the node at the provided url.
type Dialer func(ctx context.Context, url string) (BlockHashReader, error)

type ChainService struct {
	log     *log.Logger
	dial    Dialer
	url     string
	timeout time.Duration
}

// NewChainService constructs an object that fetches data from the
// node at the provided url, opening a new connection for every request.
func NewChainService(l *log.Logger, dial Dialer, url string, timeout time.Duration) *ChainService {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	l.WithField("Url", url).Debug("Created a new chain service")
	return &ChainService{
		log:     l,
		dial:    dial,
		url:     url,
		timeout: timeout,
	}
}

// URL returns the url of the node the service connects to.
func (service *ChainService) URL() string {
	return service.url
}

// FetchBlockHash connects to the node, reads the current block
// hash and closes the connection. The whole exchange is bounded
// by the service's timeout. The connection is closed whether the
// read succeeded or not.
func (service *ChainService) FetchBlockHash(ctx context.Context) (result model.BlockHashResult) {
	ctx, cancel := context.WithTimeout(ctx, service.timeout)
	defer cancel()

	t := time.Now()
	defer func() {
		fields := log.Fields{
			"Url":      service.url,
			"Duration": time.Since(t),
		}
		if result.Err != nil {
			service.log.WithFields(fields).Debugf("Fetching block hash failed: %v", result.Err)
		} else {
			service.log.WithFields(fields).Trace("Fetched block hash")
		}
	}()

	conn, err := service.dial(ctx, service.url)
	if err != nil {
		return model.BlockHashResult{Err: fmt.Errorf("connect: %w", err)}
	}
	defer func() {
		if err := conn.Close(); err != nil {
			service.log.WithField("Url", service.url).Debugf(
				"Error when closing node connection: %v", err,
			)
		}
	}()

	hash, err := conn.BlockHash(ctx)
	if err != nil {
		return model.BlockHashResult{Err: fmt.Errorf("read block hash: %w", err)}
	}
	if len(hash) == 0 {
		return model.BlockHashResult{Err: ErrEmptyHash}
	}
	return model.BlockHashResult{Hash: hash}
}
