package events

import (
	"context"

	"spotsense/internal/domain"

	"go.uber.org/zap"
)

// Subscriber reacts to a booking event. Subscribers run after the booking's
// own write has been committed.
type Subscriber interface {
	Name() string
	Handle(ctx context.Context, ev domain.Event) error
}

// Dispatcher fans booking events out to subscribers. Subscriber failures
// are logged and swallowed: the booking write is authoritative and is never
// rolled back because a derived update failed.
type Dispatcher struct {
	log  *zap.Logger
	subs []Subscriber
}

func NewDispatcher(log *zap.Logger, subs ...Subscriber) *Dispatcher {
	return &Dispatcher{log: log, subs: subs}
}

func (d *Dispatcher) Subscribe(s Subscriber) {
	d.subs = append(d.subs, s)
}

func (d *Dispatcher) Dispatch(ctx context.Context, evs ...domain.Event) {
	for _, ev := range evs {
		for _, s := range d.subs {
			if err := s.Handle(ctx, ev); err != nil {
				d.log.Warn("event subscriber failed",
					zap.String("subscriber", s.Name()),
					zap.String("event", string(ev.Type)),
					zap.String("booking_number", ev.Booking.BookingNumber),
					zap.Error(err),
				)
			}
		}
	}
}
