// Package queue also contains the background consumer that listens to the
// booking.cancelled and seat.swapped queues and writes structured lines to
// logs/booking.log.
package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// StartBookingLogConsumer connects to RabbitMQ, declares both event queues
// (durable) and starts consuming.  Each message is appended to
// logs/booking.log in a single-line, human-friendly format.  The function
// runs a reconnect loop with backoff and keeps running across broker
// restarts; processing errors are logged and the offending message is
// rejected without requeueing so the server continues operating.
func StartBookingLogConsumer() {
	url := brokerURL()

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			logrus.WithError(err).Warnf("booking-consumer: failed to dial broker; retrying in %s", backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			logrus.WithError(err).Warn("booking-consumer: consume loop ended; reconnecting")
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logrus.WithError(err).Warn("booking-consumer: set QoS failed")
	}

	for _, name := range []string{BookingCancelledQueue, SeatSwappedQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
	}

	cancels, err := ch.Consume(BookingCancelledQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume %s: %w", BookingCancelledQueue, err)
	}
	swaps, err := ch.Consume(SeatSwappedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume %s: %w", SeatSwappedQueue, err)
	}

	for {
		select {
		case d, ok := <-cancels:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			handle(d, handleCancelled)
		case d, ok := <-swaps:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			handle(d, handleSwapped)
		}
	}
}

func handle(d amqp.Delivery, fn func([]byte) error) {
	if err := fn(d.Body); err != nil {
		logrus.WithError(err).Warn("booking-consumer: handle message failed")
		_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
		return
	}
	_ = d.Ack(false)
}

func handleCancelled(body []byte) error {
	var ev BookingCancelledEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return appendLog(formatCancelledLine(ev))
}

func handleSwapped(body []byte) error {
	var ev SeatSwappedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return appendLog(formatSwappedLine(ev))
}

func formatCancelledLine(ev BookingCancelledEvent) string {
	switch ev.Scope {
	case ScopeClosure:
		return fmt.Sprintf("[%s] Bookings cancelled | scope=closure | date=%s | cinema=%q | cancelled=%d | seats_released=%t\n",
			ev.OccurredAt, ev.Date, ev.CinemaName, ev.Cancelled, ev.SeatsReleased)
	case ScopeSingle:
		return fmt.Sprintf("[%s] Booking cancelled | booking_id=%d | cancelled=%d | seats_released=%t\n",
			ev.OccurredAt, ev.BookingID, ev.Cancelled, ev.SeatsReleased)
	default:
		return fmt.Sprintf("[%s] Bookings cancelled | scope=%s | cancelled=%d | seats_released=%t\n",
			ev.OccurredAt, ev.Scope, ev.Cancelled, ev.SeatsReleased)
	}
}

func formatSwappedLine(ev SeatSwappedEvent) string {
	return fmt.Sprintf("[%s] Seat swapped | booking_id=%d | from_seat=%d | to_seat=%d | price=%d cents\n",
		ev.OccurredAt, ev.BookingID, ev.FromSeatID, ev.ToSeatID, ev.PriceCents)
}

func appendLog(line string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "booking.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
