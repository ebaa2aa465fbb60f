package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

const connKey contextKey = "db_conn"

// WithConn returns a context carrying a dedicated connection. Repositories
// prefer it over the shared pool, which lets a caller scope several queries
// to one session.
func WithConn(ctx context.Context, conn *pgxpool.Conn) context.Context {
	return context.WithValue(ctx, connKey, conn)
}

// ConnFromContext retrieves the request-scoped database connection, or nil
// when none was attached.
func ConnFromContext(ctx context.Context) *pgxpool.Conn {
	conn, _ := ctx.Value(connKey).(*pgxpool.Conn)
	return conn
}

// SessionScoper pins a multi-statement operation to a single pooled
// connection via WithConn.
type SessionScoper struct {
	pool *pgxpool.Pool
}

func NewSessionScoper(pool *pgxpool.Pool) *SessionScoper {
	return &SessionScoper{pool: pool}
}

// Scope acquires a connection and returns a context that routes subsequent
// queries through it. The release func must be called when the operation
// finishes.
func (s *SessionScoper) Scope(ctx context.Context) (context.Context, func(), error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return ctx, nil, err
	}
	return WithConn(ctx, conn), conn.Release, nil
}
