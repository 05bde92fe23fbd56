// Package publish streams decoded records to NATS subscribers.
package publish

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"cifparse/internal/registry"
)

// Config holds NATS connection settings.
type Config struct {
	URL           string // e.g. nats://localhost:4222
	SubjectPrefix string // defaults to "cifp"
	Name          string // client name shown on the server
}

// Publisher sends decoded records to a NATS server, one subject per
// record type: <prefix>.<type>, e.g. cifp.vhf_navaid.
type Publisher struct {
	nc     *nats.Conn
	prefix string
	sent   int
}

// Connect establishes a connection to the NATS server.
func Connect(cfg Config) (*Publisher, error) {
	if cfg.URL == "" {
		cfg.URL = nats.DefaultURL
	}
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = "cifp"
	}
	if cfg.Name == "" {
		cfg.Name = "cifparse"
	}

	nc, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.Timeout(10*time.Second),
		nats.MaxReconnects(5),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	return &Publisher{nc: nc, prefix: cfg.SubjectPrefix}, nil
}

// Publish sends one decoded record as JSON.
func (p *Publisher) Publish(res registry.Result) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	subject := p.prefix + "." + res.Type()
	if err := p.nc.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	p.sent++
	return nil
}

// Sent returns the number of records published so far.
func (p *Publisher) Sent() int {
	return p.sent
}

// Close flushes pending messages and closes the connection.
func (p *Publisher) Close() error {
	if err := p.nc.Flush(); err != nil {
		p.nc.Close()
		return fmt.Errorf("flush nats: %w", err)
	}
	p.nc.Close()
	return nil
}
