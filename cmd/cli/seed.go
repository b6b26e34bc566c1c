package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"slot-reservation-engine/cmd/bootstrap"
	"slot-reservation-engine/cmd/bootstrap/components"
	"slot-reservation-engine/internal/domain/coupon"
	"slot-reservation-engine/internal/domain/resource"
	"slot-reservation-engine/internal/infra/cache"
	"slot-reservation-engine/internal/infra/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

type seedFile struct {
	Resources []seedResource `json:"resources"`
	Coupons   []seedCoupon   `json:"coupons"`
}

type seedZone struct {
	Code            string `json:"code"`
	Capacity        int    `json:"capacity"`
	HourlyRateCents int64  `json:"hourlyRateCents"`
}

type seedWindow struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

type seedResource struct {
	ID       uuid.UUID               `json:"id"`
	Kind     string                  `json:"kind"`
	OwnerID  uuid.UUID               `json:"ownerId"`
	Name     string                  `json:"name"`
	Timezone string                  `json:"timezone"`
	Zones    []seedZone              `json:"zones"`
	Schedule map[string][]seedWindow `json:"schedule"`
	Lat      *float64                `json:"lat,omitempty"`
	Lng      *float64                `json:"lng,omitempty"`
}

type seedCoupon struct {
	Code      string     `json:"code"`
	Rate      string     `json:"rate"`
	Active    bool       `json:"active"`
	ValidFrom *time.Time `json:"validFrom,omitempty"`
	ValidTo   *time.Time `json:"validTo,omitempty"`
}

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert resources and coupons from a JSON file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			var sf seedFile
			if err := json.Unmarshal(raw, &sf); err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}

			var (
				resources *repository.ResourceRepository
				coupons   *repository.CouponRepository
				catalog   *cache.ResourceCatalog
			)
			app := fx.New(
				bootstrap.ConfigModule,
				bootstrap.LoggerModule,
				bootstrap.DBModule,
				bootstrap.CacheModule,
				components.PersistenceModule,
				components.CatalogModule,
				fx.Populate(&resources, &coupons, &catalog),
				fx.NopLogger,
			)
			if err := app.Start(cmd.Context()); err != nil {
				return err
			}
			defer func() {
				if err := app.Stop(context.Background()); err != nil {
					slog.Warn("failed to stop application", "error", err)
				}
			}()

			return seed(cmd.Context(), sf, resources, coupons, catalog)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "seed.json", "path to the seed file")
	return cmd
}

func seed(ctx context.Context, sf seedFile, resources *repository.ResourceRepository, coupons *repository.CouponRepository, catalog *cache.ResourceCatalog) error {
	for _, sr := range sf.Resources {
		res, err := sr.toDomain()
		if err != nil {
			return fmt.Errorf("resource %q: %w", sr.Name, err)
		}
		if err := resources.Upsert(ctx, res); err != nil {
			return err
		}
		if err := catalog.Invalidate(ctx, res.ID()); err != nil {
			slog.WarnContext(ctx, "failed to invalidate cached resource", "resource_id", res.ID().String(), "error", err.Error())
		}
		slog.InfoContext(ctx, "seeded resource", "resource_id", res.ID().String(), "name", res.Name())
	}

	for _, sc := range sf.Coupons {
		rate, err := decimal.NewFromString(sc.Rate)
		if err != nil {
			return fmt.Errorf("coupon %q: %w", sc.Code, err)
		}
		c, err := coupon.NewCoupon(uuid.New(), sc.Code, rate, sc.Active, sc.ValidFrom, sc.ValidTo)
		if err != nil {
			return fmt.Errorf("coupon %q: %w", sc.Code, err)
		}
		if err := coupons.Upsert(ctx, c); err != nil {
			return err
		}
		slog.InfoContext(ctx, "seeded coupon", "code", c.Code().String())
	}
	return nil
}

func (sr seedResource) toDomain() (*resource.BookableResource, error) {
	zones := make([]resource.Zone, 0, len(sr.Zones))
	for _, z := range sr.Zones {
		zone, err := resource.NewZone(z.Code, z.Capacity, z.HourlyRateCents)
		if err != nil {
			return nil, err
		}
		zones = append(zones, zone)
	}

	days := make(map[time.Weekday][]resource.Window, len(sr.Schedule))
	for day, windows := range sr.Schedule {
		wd, ok := weekdays[strings.ToLower(day)]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", day)
		}
		for _, w := range windows {
			open, err := minuteOfDay(w.Open)
			if err != nil {
				return nil, err
			}
			closing, err := minuteOfDay(w.Close)
			if err != nil {
				return nil, err
			}
			win, err := resource.NewWindow(open, closing)
			if err != nil {
				return nil, err
			}
			days[wd] = append(days[wd], win)
		}
	}

	tz := time.UTC
	if sr.Timezone != "" {
		loc, err := time.LoadLocation(sr.Timezone)
		if err != nil {
			return nil, err
		}
		tz = loc
	}

	var loc *resource.Location
	if sr.Lat != nil && sr.Lng != nil {
		l, err := resource.NewLocation(*sr.Lat, *sr.Lng)
		if err != nil {
			return nil, err
		}
		loc = &l
	}

	return resource.NewBookableResource(resource.Params{
		ID:       sr.ID,
		Kind:     resource.Kind(strings.ToUpper(sr.Kind)),
		OwnerID:  sr.OwnerID,
		Name:     sr.Name,
		Zones:    zones,
		Schedule: resource.NewWeeklySchedule(days),
		Timezone: tz,
		Location: loc,
	})
}

// minuteOfDay parses "HH:MM"; "24:00" marks end of day.
func minuteOfDay(s string) (int, error) {
	if s == "24:00" {
		return 24 * 60, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}
