// Package provider abstracts the external messaging vendors.
package provider

import "context"

type Provider interface {
	Name() string
	// Send delivers message to recipient. The raw vendor response is returned
	// whenever one was received, including alongside an error.
	Send(ctx context.Context, recipient, message string) (string, error)
	TestConnection(ctx context.Context) error
}
