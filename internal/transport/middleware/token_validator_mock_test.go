package middleware

import (
	"context"

	"github.com/google/uuid"
)

// validatorMock implements tokenValidator with a pluggable func.
type validatorMock struct {
	ValidateTokenFunc func(ctx context.Context, token string) (uuid.UUID, error)
	calls             []string
}

func (m *validatorMock) ValidateToken(ctx context.Context, token string) (uuid.UUID, error) {
	m.calls = append(m.calls, token)
	if m.ValidateTokenFunc == nil {
		return uuid.Nil, nil
	}
	return m.ValidateTokenFunc(ctx, token)
}
