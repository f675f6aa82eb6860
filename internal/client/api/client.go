package api

import (
	"context"

	"github.com/ecosync/ecosync/internal/client/models"
)

// Client is the set of backend calls the client makes.
type Client interface {
	Ping(ctx context.Context) error

	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, in models.UserCreate) (*models.User, error)

	ListUserItems(ctx context.Context, userID int64) ([]models.Item, error)
	UploadItemPhoto(ctx context.Context, userID int64, photo models.Photo) (*models.PhotoUploadResult, error)

	CreateBarterIntent(ctx context.Context, userID int64, in models.BarterIntentCreate) (*models.BarterIntentResult, error)

	ListLostFound(ctx context.Context, filter models.LostFoundFilter) ([]models.LostFoundReport, error)
	UploadLostFoundPhoto(ctx context.Context, photo models.Photo) (string, error)
	CreateLostFound(ctx context.Context, userID int64, in models.LostFoundCreate) (*models.LostFoundReport, error)

	ListMatches(ctx context.Context, userID int64) ([]models.Match, error)
	AcceptMatch(ctx context.Context, matchID, userID int64) (*models.AcceptResult, error)

	Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)
}
