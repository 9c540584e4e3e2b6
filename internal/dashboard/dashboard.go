package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/tenantry/internal/application"
	"github.com/MrJamesThe3rd/tenantry/internal/message"
	"github.com/MrJamesThe3rd/tenantry/internal/property"
	"github.com/MrJamesThe3rd/tenantry/internal/tenant"
	"github.com/MrJamesThe3rd/tenantry/internal/workorder"
)

const statsKey = "dashboard:stats"

//go:generate mockgen -source=dashboard.go -destination=dashboard_mock.go -package=dashboard
type Properties interface {
	List(ctx context.Context) ([]*property.Property, error)
}

type Tenants interface {
	List(ctx context.Context, filter tenant.ListFilter) ([]*tenant.Tenant, error)
}

type Ledger interface {
	MonthlyRevenue(ctx context.Context, at time.Time) (int64, error)
}

type WorkOrders interface {
	Counts(ctx context.Context) (workorder.Counts, error)
}

type Applications interface {
	Stats(ctx context.Context) (application.Stats, error)
}

type Messages interface {
	UnreadCount(ctx context.Context, filter message.ListFilter) (int, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Stats is the manager's at-a-glance view of the portfolio. Money is in cents.
type Stats struct {
	Properties         int               `json:"properties"`
	Units              int               `json:"units"`
	OccupiedUnits      int               `json:"occupiedUnits"`
	VacantUnits        int               `json:"vacantUnits"`
	OccupancyRate      float64           `json:"occupancyRate"`
	Tenants            int               `json:"tenants"`
	OverduePayments    int               `json:"overduePayments"`
	OutstandingBalance int64             `json:"outstandingBalance"`
	MonthlyRevenue     int64             `json:"monthlyRevenue"`
	PendingWorkOrders  int               `json:"pendingWorkOrders"`
	UrgentWorkOrders   int               `json:"urgentWorkOrders"`
	UnreadMessages     int               `json:"unreadMessages"`
	Applications       application.Stats `json:"applications"`
	GeneratedAt        time.Time         `json:"generatedAt"`
}

type Sources struct {
	Properties   Properties
	Tenants      Tenants
	Ledger       Ledger
	WorkOrders   WorkOrders
	Applications Applications
	Messages     Messages
}

type Service struct {
	src   Sources
	cache Cache
	ttl   time.Duration
	now   func() time.Time
}

func NewService(src Sources, cache Cache, ttl time.Duration) *Service {
	return &Service{src: src, cache: cache, ttl: ttl, now: time.Now}
}

// Stats returns cached stats when available and gathers fresh ones otherwise.
// Cache failures are logged and never fail the request.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	if s.cache != nil {
		var cached Stats

		found, err := s.cache.Get(ctx, statsKey, &cached)
		if err != nil {
			slog.Warn("failed to read cached dashboard stats", "error", err)
		}

		if found {
			return &cached, nil
		}
	}

	stats, err := s.gather(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, statsKey, stats, s.ttl); err != nil {
			slog.Warn("failed to cache dashboard stats", "error", err)
		}
	}

	return stats, nil
}

// Invalidate drops cached stats after a write that changes them.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Delete(ctx, statsKey); err != nil {
		slog.Warn("failed to invalidate dashboard stats", "error", err)
	}
}

func (s *Service) gather(ctx context.Context) (*Stats, error) {
	now := s.now()
	stats := &Stats{GeneratedAt: now}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		props, err := s.src.Properties.List(ctx)
		if err != nil {
			return fmt.Errorf("listing properties: %w", err)
		}

		stats.Properties = len(props)

		for _, p := range props {
			stats.Units += p.Units
			stats.OccupiedUnits += min(p.Occupied, p.Units)
			stats.VacantUnits += p.Vacant()
		}

		if stats.Units > 0 {
			stats.OccupancyRate = float64(stats.OccupiedUnits) / float64(stats.Units) * 100
		}

		return nil
	})

	g.Go(func() error {
		tenants, err := s.src.Tenants.List(ctx, tenant.ListFilter{})
		if err != nil {
			return fmt.Errorf("listing tenants: %w", err)
		}

		for _, t := range tenants {
			if t.Status == tenant.StatusInactive {
				continue
			}

			stats.Tenants++
			stats.OutstandingBalance += t.Balance

			if t.Status == tenant.StatusOverdue {
				stats.OverduePayments++
			}
		}

		return nil
	})

	g.Go(func() error {
		revenue, err := s.src.Ledger.MonthlyRevenue(ctx, now)
		if err != nil {
			return fmt.Errorf("calculating monthly revenue: %w", err)
		}

		stats.MonthlyRevenue = revenue

		return nil
	})

	g.Go(func() error {
		counts, err := s.src.WorkOrders.Counts(ctx)
		if err != nil {
			return fmt.Errorf("counting work orders: %w", err)
		}

		stats.PendingWorkOrders = counts.Pending
		stats.UrgentWorkOrders = counts.Urgent

		return nil
	})

	g.Go(func() error {
		apps, err := s.src.Applications.Stats(ctx)
		if err != nil {
			return fmt.Errorf("counting applications: %w", err)
		}

		stats.Applications = apps

		return nil
	})

	if s.src.Messages != nil {
		g.Go(func() error {
			sender := message.SenderTenant

			n, err := s.src.Messages.UnreadCount(ctx, message.ListFilter{Sender: &sender})
			if err != nil {
				return fmt.Errorf("counting unread messages: %w", err)
			}

			stats.UnreadMessages = n

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return stats, nil
}
