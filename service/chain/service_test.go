package chain_test

import (
	"context"
	"errors"
	"io"
	"substrate-discord-bot/service/chain"
	"sync/atomic"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

type fakeConn struct {
	hash   string
	err    error
	block  bool
	closes *int32
}

func (c *fakeConn) BlockHash(ctx context.Context) (string, error) {
	if c.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return c.hash, c.err
}

func (c *fakeConn) Close() error {
	atomic.AddInt32(c.closes, 1)
	return nil
}

type ChainServiceTestSuite struct {
	suite.Suite
	log    *log.Logger
	closes int32
	dials  int32
}

// SetupSuite creates a quiet logger.
func (s *ChainServiceTestSuite) SetupSuite() {
	s.log = log.New()
	s.log.Out = io.Discard
}

// SetupTest resets the dial and close counters.
func (s *ChainServiceTestSuite) SetupTest() {
	atomic.StoreInt32(&s.closes, 0)
	atomic.StoreInt32(&s.dials, 0)
}

func (s *ChainServiceTestSuite) dialer(conn *fakeConn, err error) chain.Dialer {
	return func(ctx context.Context, url string) (chain.BlockHashReader, error) {
		atomic.AddInt32(&s.dials, 1)
		s.Equal("example.org", url)
		if err != nil {
			return nil, err
		}
		conn.closes = &s.closes
		return conn, nil
	}
}

// TestUnitFetchBlockHash fetches a hash and checks the
// connection was closed afterwards.
func (s *ChainServiceTestSuite) TestUnitFetchBlockHash() {
	service := chain.NewChainService(
		s.log, s.dialer(&fakeConn{hash: "0xABC"}, nil), "example.org", time.Second,
	)
	result := service.FetchBlockHash(context.Background())
	s.True(result.OK())
	s.Equal("0xABC", result.Hash)
	s.EqualValues(1, atomic.LoadInt32(&s.dials))
	s.EqualValues(1, atomic.LoadInt32(&s.closes))
}

// TestUnitFetchBlockHashConnectFails checks a dial failure
// is returned as the result's error.
func (s *ChainServiceTestSuite) TestUnitFetchBlockHashConnectFails() {
	cause := errors.New("connection refused")
	service := chain.NewChainService(
		s.log, s.dialer(nil, cause), "example.org", time.Second,
	)
	result := service.FetchBlockHash(context.Background())
	s.False(result.OK())
	s.ErrorIs(result.Err, cause)
	s.Contains(result.Err.Error(), "connect")
	s.EqualValues(0, atomic.LoadInt32(&s.closes))
}

// TestUnitFetchBlockHashReadFails checks the connection is
// closed when the read fails.
func (s *ChainServiceTestSuite) TestUnitFetchBlockHashReadFails() {
	cause := errors.New("rpc error")
	service := chain.NewChainService(
		s.log, s.dialer(&fakeConn{err: cause}, nil), "example.org", time.Second,
	)
	result := service.FetchBlockHash(context.Background())
	s.False(result.OK())
	s.ErrorIs(result.Err, cause)
	s.Contains(result.Err.Error(), "read block hash")
	s.EqualValues(1, atomic.LoadInt32(&s.closes))
}

// TestUnitFetchBlockHashEmpty checks an empty hash is
// reported as a failure.
func (s *ChainServiceTestSuite) TestUnitFetchBlockHashEmpty() {
	service := chain.NewChainService(
		s.log, s.dialer(&fakeConn{}, nil), "example.org", time.Second,
	)
	result := service.FetchBlockHash(context.Background())
	s.False(result.OK())
	s.ErrorIs(result.Err, chain.ErrEmptyHash)
	s.EqualValues(1, atomic.LoadInt32(&s.closes))
}

// TestUnitFetchBlockHashTimeout lets the read hang and checks
// the service gives up after its timeout.
func (s *ChainServiceTestSuite) TestUnitFetchBlockHashTimeout() {
	service := chain.NewChainService(
		s.log, s.dialer(&fakeConn{block: true}, nil), "example.org", 50*time.Millisecond,
	)
	start := time.Now()
	result := service.FetchBlockHash(context.Background())
	s.False(result.OK())
	s.ErrorIs(result.Err, context.DeadlineExceeded)
	s.Less(time.Since(start), 5*time.Second)
	s.EqualValues(1, atomic.LoadInt32(&s.closes))
}

// TestUnitDefaultTimeout checks a non positive timeout
// falls back to the default one.
func (s *ChainServiceTestSuite) TestUnitDefaultTimeout() {
	service := chain.NewChainService(
		s.log, s.dialer(&fakeConn{hash: "0x01"}, nil), "example.org", 0,
	)
	s.Equal("example.org", service.URL())
	s.True(service.FetchBlockHash(context.Background()).OK())
}

// TestChainServiceTestSuite runs all tests under
// the ChainServiceTestSuite
func TestChainServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ChainServiceTestSuite))
}
