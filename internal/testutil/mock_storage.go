//go:build !production

package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockLeaderboard 排行榜 mock
type MockLeaderboard struct {
	mock.Mock
}

func (m *MockLeaderboard) RecordMatchResult(ctx context.Context, playerID, playerName string, won, exploded bool) error {
	args := m.Called(ctx, playerID, playerName, won, exploded)
	return args.Error(0)
}
