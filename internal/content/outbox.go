package content

import "context"

// outbox decouples the manager loop from the notification consumer: publish
// never waits on the consumer, and delivery order is publish order.
type outbox struct {
	in  chan Notification
	out chan Notification
}

func newOutbox() *outbox {
	return &outbox{
		in:  make(chan Notification),
		out: make(chan Notification),
	}
}

func (o *outbox) publish(ctx context.Context, n Notification) {
	select {
	case o.in <- n:
	case <-ctx.Done():
	}
}

// run pumps notifications until ctx is done or in is closed and drained,
// then closes out.
func (o *outbox) run(ctx context.Context) {
	defer close(o.out)

	var pending []Notification
	in := o.in
	for in != nil || len(pending) > 0 {
		var out chan Notification
		var next Notification
		if len(pending) > 0 {
			out = o.out
			next = pending[0]
		}

		select {
		case <-ctx.Done():
			return
		case n, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			pending = append(pending, n)
		case out <- next:
			pending[0] = Notification{}
			pending = pending[1:]
		}
	}
}
