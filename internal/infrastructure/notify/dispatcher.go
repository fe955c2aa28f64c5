package notify

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/trekha/identity-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
	sendTimeout    = 10 * time.Second
)

const (
	kindEmail = "email"
	kindSMS   = "sms"
)

type message struct {
	kind    string
	to      string
	subject string
	body    string
}

// Dispatcher delivers verification and reset notifications asynchronously
// through a fixed set of workers, sharded by recipient so messages to the
// same address keep their order. Delivery failures are logged and never
// propagate to the request that queued the message.
type Dispatcher struct {
	workers []chan message
	email   ports.EmailSender
	sms     ports.SMSSender
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, email ports.EmailSender, sms ports.SMSSender, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan message, numWorkers),
		email:   email,
		sms:     sms,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan message, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// DispatchEmail queues an email for delivery. Non-blocking up to
// channelBuffer capacity.
func (d *Dispatcher) DispatchEmail(to, subject, body string) {
	d.workers[d.shardIndex(to)] <- message{kind: kindEmail, to: to, subject: subject, body: body}
}

// DispatchSMS queues an SMS for delivery.
func (d *Dispatcher) DispatchSMS(to, body string) {
	d.workers[d.shardIndex(to)] <- message{kind: kindSMS, to: to, body: body}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			sendCtx, cancel := context.WithTimeout(context.Background(), sendTimeout)
			err := d.send(sendCtx, msg)
			cancel()
			if err != nil {
				d.log.Error().Err(err).
					Str("kind", msg.kind).
					Str("to", msg.to).
					Int("worker_id", id).
					Msg("notification delivery failed")
			}
		}
	}
}

func (d *Dispatcher) send(ctx context.Context, msg message) error {
	if msg.kind == kindSMS {
		return d.sms.SendSMS(ctx, msg.to, msg.body)
	}
	return d.email.SendEmail(ctx, msg.to, msg.subject, msg.body)
}
