package ports

import "context"

// SessionRevoker invalida los tokens ya emitidos a un usuario (p. ej. al desactivarlo).
type SessionRevoker interface {
	Revoke(ctx context.Context, userID string) error
	Restore(ctx context.Context, userID string) error
	IsRevoked(ctx context.Context, userID string) (bool, error)
}

// NoopSessionRevoker se usa cuando no hay almacén de sesiones configurado.
type NoopSessionRevoker struct{}

func (NoopSessionRevoker) Revoke(context.Context, string) error            { return nil }
func (NoopSessionRevoker) Restore(context.Context, string) error           { return nil }
func (NoopSessionRevoker) IsRevoked(context.Context, string) (bool, error) { return false, nil }
