// Package notify defines the deliver-code capability. The core addresses
// voters only by their contact reference (the irreversible contact hash); the
// delivery collaborator owns the mapping from reference to a real address.
package notify

import (
	"context"
	"log/slog"
)

// CodeDeliverer delivers a one-time passcode to a voter's contact reference.
type CodeDeliverer interface {
	DeliverCode(ctx context.Context, contactRef, code string) error
}

// ConsoleDeliverer logs the code instead of sending it. Development default.
// The code itself is logged at debug level only.
type ConsoleDeliverer struct {
	logger *slog.Logger
}

func NewConsoleDeliverer(logger *slog.Logger) *ConsoleDeliverer {
	return &ConsoleDeliverer{logger: logger}
}

func (d *ConsoleDeliverer) DeliverCode(ctx context.Context, contactRef, code string) error {
	d.logger.InfoContext(ctx, "passcode delivery (console)", "contact_ref", contactRef)
	d.logger.DebugContext(ctx, "passcode", "code", code)
	return nil
}
