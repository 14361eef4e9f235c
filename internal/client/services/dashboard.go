package services

import (
	"context"

	"github.com/dmitrijs2005/vitapick/internal/client/models"
	"golang.org/x/sync/errgroup"
)

// Dashboard is what the home screen shows for a signed-in user.
type Dashboard struct {
	User          *models.User
	Notifications *models.NotificationSettings
	Liked         []models.Supplement
}

type DashboardAPI interface {
	Me(ctx context.Context) (*models.User, error)
	NotificationSettings(ctx context.Context) (*models.NotificationSettings, error)
	LikedSupplements(ctx context.Context) ([]models.Supplement, error)
}

type DashboardService struct {
	api DashboardAPI
}

func NewDashboardService(api DashboardAPI) *DashboardService {
	return &DashboardService{api: api}
}

// Load fetches the three dashboard resources in parallel. The first error
// cancels the other fetches and is returned.
func (s *DashboardService) Load(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		u, err := s.api.Me(ctx)
		d.User = u
		return err
	})
	g.Go(func() error {
		n, err := s.api.NotificationSettings(ctx)
		d.Notifications = n
		return err
	})
	g.Go(func() error {
		l, err := s.api.LikedSupplements(ctx)
		d.Liked = l
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
