// Package events publishes board change notifications.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
)

const subjectPrefix = "boards"

// Subject returns the subject an event is published on:
// boards.<board_id>.<event type>.
func Subject(evt domain.BoardEvent) string {
	return fmt.Sprintf("%s.%s.%s", subjectPrefix, evt.BoardID, evt.Type)
}

// Connect dials the NATS server with reconnects enabled.
func Connect(url string, log zerolog.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("boardd"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return nc, nil
}

// NATSPublisher implements ports.EventPublisher on core NATS. Delivery is
// at most once.
type NATSPublisher struct {
	nc *nats.Conn
}

func NewNATSPublisher(nc *nats.Conn) *NATSPublisher {
	return &NATSPublisher{nc: nc}
}

func (p *NATSPublisher) Publish(ctx context.Context, evt domain.BoardEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("publish %s: %w", evt.Type, err)
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.nc.Publish(Subject(evt), data); err != nil {
		return fmt.Errorf("publish %s: %w", evt.Type, err)
	}
	return nil
}

// Ping reports whether the connection is usable; the readiness check uses it.
func (p *NATSPublisher) Ping(_ context.Context) error {
	if status := p.nc.Status(); status != nats.CONNECTED {
		return fmt.Errorf("nats status %s", status)
	}
	return nil
}

// NopPublisher drops events. It is used when no NATS server is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.BoardEvent) error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []domain.BoardEvent
}

func (r *Recorder) Publish(_ context.Context, evt domain.BoardEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []domain.BoardEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.BoardEvent(nil), r.events...)
}
