// Command seed populates the tours table with a deterministic demo catalogue
// so the wishlist endpoints have something to point at in development.
//
// Run: go run ./cmd/seed -count 200
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/travelgo/travel-booking/internal/config"
	"github.com/travelgo/travel-booking/internal/domain"
	"github.com/travelgo/travel-booking/migrations"
	"github.com/travelgo/travel-booking/pkg/database"
	"github.com/travelgo/travel-booking/pkg/logger"
)

const batchSize = 100

// tourNamespace keys the name-based UUIDs so re-runs produce the same IDs.
var tourNamespace = uuid.MustParse("6f1d2c3b-8a9e-4b7c-9d0e-1f2a3b4c5d6e")

// ---------------------------------------------------------------------------
// Catalogue definitions
// ---------------------------------------------------------------------------

type destinationDef struct {
	City     string
	Country  string
	Currency string
}

var destinations = []destinationDef{
	{"Lisbon", "Portugal", "EUR"},
	{"Kyoto", "Japan", "JPY"},
	{"Cusco", "Peru", "USD"},
	{"Reykjavik", "Iceland", "EUR"},
	{"Marrakesh", "Morocco", "EUR"},
	{"Cape Town", "South Africa", "USD"},
	{"Queenstown", "New Zealand", "USD"},
	{"Istanbul", "Turkey", "EUR"},
	{"Hanoi", "Vietnam", "USD"},
	{"Banff", "Canada", "USD"},
}

var categories = []struct {
	Name   string
	Themes []string
}{
	{"adventure", []string{"Glacier Trek", "Canyon Expedition", "Volcano Hike", "Rafting Escape"}},
	{"cultural", []string{"Old Town Walk", "Temple Circuit", "Heritage Trail", "Market Discovery"}},
	{"culinary", []string{"Street Food Crawl", "Wine Country Tour", "Cooking Masterclass", "Tea Route"}},
	{"nature", []string{"Wildlife Safari", "Coastal Explorer", "National Park Loop", "Northern Lights Chase"}},
	{"relaxation", []string{"Spa Retreat", "Island Hopper", "Lakeside Escape", "Hot Springs Getaway"}},
}

var difficulties = []string{"easy", "moderate", "challenging"}

var descriptionTemplates = []string{
	"A %d-day journey through %s with a local guide, small groups and hand-picked stays.",
	"Spend %d days discovering %s at a relaxed pace, with most meals included.",
	"%d days in %s built around early starts, quiet trails and evenings in town.",
}

// ---------------------------------------------------------------------------
// Generation
// ---------------------------------------------------------------------------

func tourID(index int) string {
	return uuid.NewSHA1(tourNamespace, []byte(fmt.Sprintf("tour:%d", index))).String()
}

func generateTours(rng *rand.Rand, count int, now time.Time) []domain.Tour {
	tours := make([]domain.Tour, 0, count)

	for i := 0; i < count; i++ {
		dest := destinations[i%len(destinations)]
		cat := categories[(i/len(destinations))%len(categories)]
		theme := cat.Themes[rng.Intn(len(cat.Themes))]
		days := 1 + rng.Intn(14)

		// Price: 49.00 - 2,999.00 in minor units, rounded to whole units.
		price := int64(4900+rng.Intn(295000)) / 100 * 100

		createdAt := now.Add(-time.Duration(rng.Intn(90*24)) * time.Hour)

		tours = append(tours, domain.Tour{
			ID:           tourID(i),
			Title:        fmt.Sprintf("%s %s", dest.City, theme),
			Description:  fmt.Sprintf(descriptionTemplates[rng.Intn(len(descriptionTemplates))], days, dest.City+", "+dest.Country),
			Destination:  dest.City + ", " + dest.Country,
			Category:     cat.Name,
			Difficulty:   difficulties[rng.Intn(len(difficulties))],
			DurationDays: days,
			MaxGroupSize: 6 + rng.Intn(20),
			Price:        price,
			Currency:     dest.Currency,
			ImageURL:     fmt.Sprintf("https://images.travel.local/tours/%d.jpg", i),
			Rating:       float64(30+rng.Intn(21)) / 10,
			ReviewCount:  rng.Intn(500),
			IsActive:     true,
			CreatedAt:    createdAt,
			UpdatedAt:    createdAt,
		})
	}

	return tours
}

// insertToursSQL builds a multi-row INSERT for n tours.
func insertToursSQL(n int) string {
	const cols = 16

	var sb strings.Builder
	sb.WriteString(`INSERT INTO tours (id, title, description, destination, category, difficulty,
	duration_days, max_group_size, price, currency, image_url, rating, review_count, is_active,
	created_at, updated_at) VALUES `)

	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for c := 1; c <= cols; c++ {
			if c > 1 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", i*cols+c)
		}
		sb.WriteByte(')')
	}

	sb.WriteString(" ON CONFLICT (id) DO NOTHING")
	return sb.String()
}

func tourArgs(batch []domain.Tour) []any {
	args := make([]any, 0, len(batch)*16)
	for _, t := range batch {
		args = append(args,
			t.ID, t.Title, t.Description, t.Destination, t.Category, t.Difficulty,
			t.DurationDays, t.MaxGroupSize, t.Price, t.Currency, t.ImageURL, t.Rating,
			t.ReviewCount, t.IsActive, t.CreatedAt, t.UpdatedAt,
		)
	}
	return args
}

func seed(ctx context.Context, db database.DBTX, tours []domain.Tour, log *slog.Logger) (int64, error) {
	var inserted int64
	for start := 0; start < len(tours); start += batchSize {
		end := min(start+batchSize, len(tours))
		batch := tours[start:end]

		ct, err := db.Exec(ctx, insertToursSQL(len(batch)), tourArgs(batch)...)
		if err != nil {
			return inserted, fmt.Errorf("insert tours batch %d-%d: %w", start, end, err)
		}
		inserted += ct.RowsAffected()
		log.InfoContext(ctx, "tours batch written",
			slog.Int("through", end),
			slog.Int("total", len(tours)),
		)
	}
	return inserted, nil
}

// ---------------------------------------------------------------------------
// Main
// ---------------------------------------------------------------------------

func main() {
	count := flag.Int("count", 200, "number of demo tours to generate")
	flag.Parse()

	if err := run(*count); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run owns every resource the seed opens so deferred cleanup always runs
// before main decides the exit code.
func run(count int) error {
	if count <= 0 {
		return fmt.Errorf("count must be positive, got %d", count)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New("travel-booking-seed", cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pgCfg := cfg.PostgresConfig()
	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Fixed seed so every run generates the same catalogue.
	tours := generateTours(rand.New(rand.NewSource(42)), count, time.Now().UTC())

	inserted, err := seed(ctx, pool, tours, log)
	if err != nil {
		return fmt.Errorf("seed tours: %w", err)
	}

	log.Info("seed complete",
		slog.Int("generated", len(tours)),
		slog.Int64("inserted", inserted),
	)
	return nil
}
