package notifiers

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Fanout dispatches notifications to all configured notifiers.
type Fanout struct {
	notifiers []Notifier
}

// NewFanout builds a dispatcher over ns, skipping nil entries.
func NewFanout(ns []Notifier) *Fanout {
	cp := make([]Notifier, 0, len(ns))
	for _, n := range ns {
		if n == nil {
			continue
		}
		cp = append(cp, n)
	}
	return &Fanout{notifiers: cp}
}

// Notify forwards n to every notifier and returns how many succeeded.
// Failures are joined into the returned error; one failing sink does not
// stop delivery to the rest.
func (f *Fanout) Notify(ctx context.Context, n Notification) (int, error) {
	if f == nil || len(f.notifiers) == 0 {
		return 0, nil
	}

	var errs []error
	delivered := 0
	for _, nt := range f.notifiers {
		if err := nt.Notify(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("%s notifier[%s]: %w", nt.Type(), nt.ID(), err))
			continue
		}
		delivered++
	}
	return delivered, errors.Join(errs...)
}

// Size returns the number of active notifiers.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.notifiers)
}

// Close releases notifiers that hold connections.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, nt := range f.notifiers {
		if c, ok := nt.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s notifier[%s]: %w", nt.Type(), nt.ID(), err))
			}
		}
	}
	return errors.Join(errs...)
}
