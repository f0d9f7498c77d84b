package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Client sends named requests to a Server over a single TCP connection.
// Calls are serialized; a Client is safe for concurrent use.
type Client struct {
	conn  net.Conn
	mu    sync.Mutex
	buf   []byte
	token string
}

// Dial connects to a server at addr.
func Dial(ctx context.Context, addr string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("rpc: dial %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

// WithToken sets a bearer token attached to every outgoing packet.
func (c *Client) WithToken(token string) *Client {
	c.token = token
	return c
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Call sends data under pattern and decodes the reply's response into out
// (which may be nil). Remote failures are returned as *RemoteError.
func (c *Client) Call(ctx context.Context, pattern string, data interface{}, out interface{}) error {
	raw, err := c.CallRaw(ctx, pattern, data)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("rpc: decode response: %w", err)
	}
	return nil
}

// CallRaw is Call without decoding the response.
func (c *Client) CallRaw(ctx context.Context, pattern string, data interface{}) (json.RawMessage, error) {
	pkt, err := c.newPacket(pattern, data)
	if err != nil {
		return nil, err
	}
	pkt.ID = uuid.NewString()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.write(ctx, pkt); err != nil {
		return nil, err
	}
	for {
		reply, err := c.read(ctx)
		if err != nil {
			return nil, err
		}
		if reply.ID != pkt.ID {
			continue
		}
		if len(reply.Err) > 0 && string(reply.Err) != "null" {
			return nil, decodeRemoteError(reply.Err)
		}
		return reply.Response, nil
	}
}

// Emit sends an event: a packet without id, for which no reply is written.
func (c *Client) Emit(ctx context.Context, pattern string, data interface{}) error {
	pkt, err := c.newPacket(pattern, data)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.write(ctx, pkt)
}

func (c *Client) newPacket(pattern string, data interface{}) (*Packet, error) {
	patternRaw, _ := json.Marshal(pattern)
	dataRaw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("rpc: encode payload: %w", err)
	}
	return &Packet{Pattern: patternRaw, Data: dataRaw, Token: c.token}, nil
}

func (c *Client) write(ctx context.Context, pkt *Packet) error {
	framed, err := EncodePacket(pkt)
	if err != nil {
		return err
	}
	c.conn.SetWriteDeadline(deadline(ctx, writeTimeout))
	if _, err := c.conn.Write(framed); err != nil {
		return fmt.Errorf("rpc: write: %w", err)
	}
	return nil
}

func (c *Client) read(ctx context.Context) (*Packet, error) {
	readBuf := make([]byte, 4096)
	for {
		body, rest, found, err := UnframeMessage(c.buf)
		if err != nil {
			return nil, err
		}
		if found {
			c.buf = rest
			return DecodePacket(body)
		}

		c.conn.SetReadDeadline(deadline(ctx, readTimeout))
		n, err := c.conn.Read(readBuf)
		if n > 0 {
			c.buf = append(c.buf, readBuf[:n]...)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("rpc: read: %w", err)
		}
	}
}

func deadline(ctx context.Context, fallback time.Duration) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}
	return time.Now().Add(fallback)
}
