package updater

import (
	"context"

	"simhockey/youtube-updater/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockVideoFetcher is a mock implementation of VideoFetcher
type MockVideoFetcher struct {
	mock.Mock
}

func (m *MockVideoFetcher) GetVideoInfo(ctx context.Context, league string) (*models.VideoInfo, error) {
	args := m.Called(ctx, league)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VideoInfo), args.Error(1)
}

// MockLeagueStore is a mock implementation of LeagueStore
type MockLeagueStore struct {
	mock.Mock
}

func (m *MockLeagueStore) UpdateLeague(ctx context.Context, league string, info models.VideoInfo) (int64, error) {
	args := m.Called(ctx, league, info)
	return args.Get(0).(int64), args.Error(1)
}
