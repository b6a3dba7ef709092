package ingestion

import (
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"PayEngine/internal/tx"
)

// Subscriber consumes transaction records from a NATS subject and
// sends them to recordChan in arrival order. The channel is consumed
// by exactly one goroutine owning the engine, which preserves the
// strictly sequential apply contract.
type Subscriber struct {
	conn       *nats.Conn
	recordChan chan<- tx.Record
	log        zerolog.Logger
}

func NewSubscriber(conn *nats.Conn, recordChan chan<- tx.Record, log zerolog.Logger) *Subscriber {
	return &Subscriber{
		conn:       conn,
		recordChan: recordChan,
		log:        log,
	}
}

// Subscribe starts consuming subject. Malformed messages are logged
// and dropped; they never reach the engine. Shutdown is handled at the
// connection level: draining the nats.Conn quiesces this subscription
// before the record channel is closed.
func (s *Subscriber) Subscribe(subject string) error {
	_, err := s.conn.Subscribe(subject, func(msg *nats.Msg) {
		rec, err := ParseRecord(msg.Data)
		if err != nil {
			s.log.Warn().Err(err).Str("subject", msg.Subject).Msg("dropping malformed record")
			return
		}
		s.recordChan <- rec
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}

	s.log.Info().Str("subject", subject).Msg("subscribed")
	return nil
}
