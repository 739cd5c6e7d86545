package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CourtBooking/internal/config"
	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/infra/cache"
	"github.com/m04kA/SMC-CourtBooking/internal/infra/lock"
	bookingRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/booking"
	courtRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/court"
	historyRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/history"
	createBookingUC "github.com/m04kA/SMC-CourtBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-CourtBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBooking/pkg/logger"
	"github.com/m04kA/SMC-CourtBooking/pkg/txmanager"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

var courtTypes = []struct {
	name string
	rate int64
}{
	{"Indoor", 600000},
	{"Outdoor", 400000},
	{"Premium", 900000},
}

func main() {
	configPath := flag.String("config", "config.toml", "path to config.toml")
	courtsPerType := flag.Int("courts", 2, "courts per court type")
	bookingsCount := flag.Int("bookings", 50, "booking attempts")
	days := flag.Int("days", 7, "spread bookings over this many days starting today")
	seed := flag.Int64("seed", 0, "random seed, 0 means time based")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New("", cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	faker := gofakeit.New(uint64(*seed))
	log.Info("seed starting (seed=%d)", *seed)

	hours, err := cfg.Business.Hours()
	if err != nil {
		log.Fatal("Invalid business hours: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

	wrappedDB := dbmetrics.Wrap(db, nil)
	courts := courtRepo.NewRepository(wrappedDB)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	slugs, err := seedCourts(ctx, courts, *courtsPerType)
	if err != nil {
		log.Fatal("seed courts: %v", err)
	}
	log.Info("courts seeded: %d", len(slugs))

	// Бронирования создаются тем же use case, что и через API, поэтому пересечения отсекаются
	createBooking := createBookingUC.NewUseCase(
		courts,
		bookingRepo.NewRepository(wrappedDB),
		historyRepo.NewRepository(wrappedDB),
		txmanager.NewTransactionManager(wrappedDB),
		lock.NoopLocker{},
		cache.Noop{},
		hours,
		logger.NewDiscard(),
	)

	created, conflicts := 0, 0
	for i := 0; i < *bookingsCount; i++ {
		req := randomRequest(faker, hours.StartHour, hours.EndHour, slugs, *days, hours.Location)
		_, err := createBooking.Execute(ctx, req)
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrConflict):
			conflicts++
		default:
			log.Fatal("create booking: %v", err)
		}
	}

	log.Info("seed complete: %d bookings created, %d skipped as overlapping", created, conflicts)
}

func seedCourts(ctx context.Context, repo *courtRepo.Repository, perType int) ([]string, error) {
	slugs := make([]string, 0, len(courtTypes)*perType)
	n := 0
	for _, ct := range courtTypes {
		courtType, err := repo.UpsertType(ctx, ct.name, decimal.NewFromInt(ct.rate))
		if err != nil {
			return nil, err
		}
		for i := 0; i < perType; i++ {
			n++
			slug := fmt.Sprintf("court-%d", n)
			if _, err := repo.Upsert(ctx, slug, fmt.Sprintf("%s court %d", ct.name, n), courtType.ID); err != nil {
				return nil, err
			}
			slugs = append(slugs, slug)
		}
	}
	return slugs, nil
}

func randomRequest(faker *gofakeit.Faker, startHour, endHour int, slugs []string, days int, loc *time.Location) *createBookingUC.Request {
	start := faker.IntRange(startHour, endHour-1)
	end := faker.IntRange(start+1, min(start+3, endHour))
	startTime, _ := types.NewTimeStringFromHour(start)
	endTime, _ := types.NewTimeStringFromHour(end)

	date := time.Now().In(loc).AddDate(0, 0, faker.IntRange(0, max(days-1, 0)))
	name := fmt.Sprintf("%s %s", faker.FirstName(), faker.RandomString([]string{"singles", "doubles", "training", "league match"}))

	role := domain.RoleUser
	if faker.Float32Range(0, 1) < 0.2 {
		role = domain.RoleAdmin
	}

	return &createBookingUC.Request{
		CourtSlug: slugs[faker.IntRange(0, len(slugs)-1)],
		Date:      date.Format(domain.DateFormat),
		StartTime: startTime,
		EndTime:   endTime,
		Name:      &name,
		UserID:    int64(faker.IntRange(1, 100)),
		Role:      role,
	}
}
