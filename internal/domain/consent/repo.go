package consent

import "context"

type Repository interface {
	// GetByIdentifier returns the most recent pdp row for a national ID.
	GetByIdentifier(ctx context.Context, cedula string) (*ConsentRecord, error)
	// Create inserts a new row. An existing (cedula, tipo_envio) pair is a Conflict.
	Create(ctx context.Context, c *ConsentChange) (*Ack, error)
	// Update changes the status of an existing pair. A missing pair is NotFound.
	Update(ctx context.Context, c *ConsentChange) (*Ack, error)
}
