package cache

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// ValkeyProvider memoizes narrative responses in a Valkey/Redis-compatible
// server. Connections are short-lived: one dial per operation keeps the
// provider stateless and safe for concurrent use.
type ValkeyProvider struct {
	cfg ValkeyConfig
}

// ValkeyConfig holds connection parameters for the cache server.
type ValkeyConfig struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewValkeyProvider creates a Provider and pings the target to fail fast on
// bad connectivity or credentials.
func NewValkeyProvider(cfg ValkeyConfig) (*ValkeyProvider, error) {
	if cfg.Addr == "" {
		return nil, errors.New("valkey addr is required")
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 2 * time.Second
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 500 * time.Millisecond
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 500 * time.Millisecond
	}

	p := &ValkeyProvider{cfg: cfg}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := p.ping(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Get fetches bytes by key, returning ErrCacheMiss when the key is absent.
func (p *ValkeyProvider) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := p.exec(ctx, func(c *respConn) error {
		if err := c.command("GET", key); err != nil {
			return err
		}
		data, isNil, err := c.readBulk()
		if err != nil {
			return err
		}
		if isNil {
			return ErrCacheMiss
		}
		payload = data
		return nil
	})
	return payload, err
}

// Set stores bytes with the provided TTL (no expiry when ttl <= 0).
func (p *ValkeyProvider) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return p.exec(ctx, func(c *respConn) error {
		args := []string{key, string(value)}
		if ttl > 0 {
			args = append(args, "PX", strconv.FormatInt(ttl.Milliseconds(), 10))
		}
		if err := c.command("SET", args...); err != nil {
			return err
		}
		return c.expectOK()
	})
}

// Close is a no-op; the provider holds no persistent connection.
func (p *ValkeyProvider) Close() error { return nil }

func (p *ValkeyProvider) ping(ctx context.Context) error {
	return p.exec(ctx, func(c *respConn) error {
		if err := c.command("PING"); err != nil {
			return err
		}
		line, err := c.readLine()
		if err != nil {
			return err
		}
		if !strings.HasPrefix(line, "+PONG") {
			return fmt.Errorf("unexpected PING response %q", line)
		}
		return nil
	})
}

func (p *ValkeyProvider) exec(ctx context.Context, fn func(*respConn) error) error {
	dialer := net.Dialer{Timeout: p.cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.cfg.Addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	c := &respConn{
		conn:         conn,
		reader:       bufio.NewReader(conn),
		writer:       bufio.NewWriter(conn),
		readTimeout:  p.cfg.ReadTimeout,
		writeTimeout: p.cfg.WriteTimeout,
	}
	if err := c.bootstrap(p.cfg); err != nil {
		return err
	}
	return fn(c)
}

// respConn speaks the minimal RESP subset the provider needs.
type respConn struct {
	conn         net.Conn
	reader       *bufio.Reader
	writer       *bufio.Writer
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func (c *respConn) bootstrap(cfg ValkeyConfig) error {
	if cfg.Password != "" {
		if err := c.command("AUTH", cfg.Password); err != nil {
			return err
		}
		if err := c.expectOK(); err != nil {
			return fmt.Errorf("auth failed: %w", err)
		}
	}
	if cfg.DB > 0 {
		if err := c.command("SELECT", strconv.Itoa(cfg.DB)); err != nil {
			return err
		}
		if err := c.expectOK(); err != nil {
			return fmt.Errorf("select failed: %w", err)
		}
	}
	return nil
}

func (c *respConn) command(name string, args ...string) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return err
	}
	fmt.Fprintf(c.writer, "*%d\r\n", len(args)+1)
	fmt.Fprintf(c.writer, "$%d\r\n%s\r\n", len(name), name)
	for _, arg := range args {
		fmt.Fprintf(c.writer, "$%d\r\n%s\r\n", len(arg), arg)
	}
	return c.writer.Flush()
}

func (c *respConn) expectOK() error {
	line, err := c.readLine()
	if err != nil {
		return err
	}
	if !strings.HasPrefix(line, "+") || !strings.EqualFold(strings.TrimPrefix(line, "+"), "OK") {
		return fmt.Errorf("unexpected response %q", line)
	}
	return nil
}

// readBulk consumes a bulk-string reply; isNil reports the RESP nil bulk.
func (c *respConn) readBulk() ([]byte, bool, error) {
	line, err := c.readLine()
	if err != nil {
		return nil, false, err
	}
	if !strings.HasPrefix(line, "$") {
		return nil, false, fmt.Errorf("unexpected RESP prefix %q", line)
	}
	size, err := strconv.Atoi(strings.TrimPrefix(line, "$"))
	if err != nil {
		return nil, false, err
	}
	if size < 0 {
		return nil, true, nil
	}
	buf := make([]byte, size+2) // payload plus trailing CRLF
	if _, err := io.ReadFull(c.reader, buf); err != nil {
		return nil, false, err
	}
	return buf[:size], false, nil
}

func (c *respConn) readLine() (string, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
		return "", err
	}
	line, err := c.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
	if strings.HasPrefix(line, "-") {
		return "", errors.New(strings.TrimPrefix(line, "-"))
	}
	return line, nil
}
