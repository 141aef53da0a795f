package harness

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/brimigs/anchor-litesvm/pkg/anchor"
)

var ErrEventNotFound = errors.New("ErrEventNotFound")

// ParseEvents decodes every emitted event of the named type from the
// result's log stream, in log order. Program-data lines whose
// discriminator belongs to a different event type are skipped; a matching
// line that fails to decode is an error.
func ParseEvents[T any](r *Result, name string) ([]T, error) {
	disc := anchor.EventDiscriminator(name)

	var events []T
	for _, payload := range r.scan.EventPayloads() {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("event %q: base64: %w", name, err)
		}
		if len(decoded) < anchor.DiscriminatorLen {
			continue
		}
		if !bytes.Equal(decoded[:anchor.DiscriminatorLen], disc[:]) {
			continue
		}

		var event T
		if err := anchor.DecodeArgs(decoded[anchor.DiscriminatorLen:], &event); err != nil {
			return nil, fmt.Errorf("event %q: %w", name, err)
		}
		events = append(events, event)
	}

	return events, nil
}

// ParseEvent decodes the first emitted event of the named type.
func ParseEvent[T any](r *Result, name string) (T, error) {
	var zero T
	events, err := ParseEvents[T](r, name)
	if err != nil {
		return zero, err
	}
	if len(events) == 0 {
		return zero, fmt.Errorf("%w: %s", ErrEventNotFound, name)
	}
	return events[0], nil
}

// HasEvent reports whether at least one event with the named type's
// discriminator appears in the logs.
func (r *Result) HasEvent(name string) bool {
	disc := anchor.EventDiscriminator(name)
	for _, payload := range r.scan.EventPayloads() {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil || len(decoded) < anchor.DiscriminatorLen {
			continue
		}
		if bytes.Equal(decoded[:anchor.DiscriminatorLen], disc[:]) {
			return true
		}
	}
	return false
}
