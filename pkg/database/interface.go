package database

import "context"

// Pinger is a datastore the health endpoint can ping.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}
