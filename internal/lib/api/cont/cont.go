package cont

import (
	"context"

	"BandDesk/entity"
)

type contextKey string

const sessionKey contextKey = "session"

// PutSession stores the resolved session on the request context.
func PutSession(ctx context.Context, session *entity.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// GetSession returns the session stored on the context, or nil.
func GetSession(ctx context.Context) *entity.Session {
	session, ok := ctx.Value(sessionKey).(*entity.Session)
	if !ok {
		return nil
	}
	return session
}
