package health

import "context"

// DBPinger checks index store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}
