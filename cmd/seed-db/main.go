package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/bloomcart/discount-engine/internal/domain/settings"
	"github.com/bloomcart/discount-engine/internal/storage/postgres"
)

type giftProductJSON struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"img_url"`
}

func main() {
	var (
		databaseURL  string
		giftsFile    string
		apiKey       string
		apiKeyPepper string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&giftsFile, "gifts-file", "db/seed/gift_products.json", "path to gift products JSON file")
	flag.StringVar(&apiKey, "api-key", "", "API key to seed (or DISCOUNT_SEED_API_KEY env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or DISCOUNT_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKey == "" {
		apiKey = os.Getenv("DISCOUNT_SEED_API_KEY")
	}
	if apiKey == "" {
		slog.Error("API key is required: set --api-key or DISCOUNT_SEED_API_KEY")
		os.Exit(1)
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("DISCOUNT_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, giftsFile, apiKey, apiKeyPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, giftsFile, apiKey, pepper string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedGiftProducts(ctx, pool, giftsFile); err != nil {
		return errors.Wrap(err, "seed gift products")
	}

	if err := seedAPIKey(ctx, pool, apiKey, pepper); err != nil {
		return errors.Wrap(err, "seed api key")
	}

	return nil
}

func seedGiftProducts(ctx context.Context, pool *pgxpool.Pool, giftsFile string) error {
	slog.Info("reading gift products file", slog.String("path", giftsFile))

	data, err := os.ReadFile(giftsFile)
	if err != nil {
		return errors.Wrap(err, "read gift products file")
	}

	var products []giftProductJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse gift products JSON")
	}

	slog.Info("upserting gift products", slog.Int("count", len(products)))

	repo := postgres.NewGiftProductRepository(pool)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, p := range products {
		g.Go(func() error {
			if err := repo.Upsert(gctx, &settings.GiftProduct{
				VariantID: p.ID,
				Title:     p.Title,
				ImageURL:  p.ImageURL,
			}); err != nil {
				return errors.Wrapf(err, "upsert gift product %s", p.ID)
			}
			slog.Info("upserted gift product", slog.String("id", p.ID), slog.String("title", p.Title))
			return nil
		})
	}
	return g.Wait()
}

const upsertAPIKeySQL = `INSERT INTO api_keys (id, key_hash, name, scopes, active)
	VALUES ($1, $2, $3, $4, TRUE)
	ON CONFLICT (key_hash) DO UPDATE SET name = $3, scopes = $4, active = TRUE`

func seedAPIKey(ctx context.Context, pool *pgxpool.Pool, apiKey, pepper string) error {
	slog.Info("seeding admin API key")

	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(apiKey))
	keyHash := hex.EncodeToString(mac.Sum(nil))

	if _, err := pool.Exec(ctx, upsertAPIKeySQL,
		uuid.New().String(), keyHash, "Admin settings key", []string{"manage_discounts"},
	); err != nil {
		return errors.Wrap(err, "upsert admin API key")
	}

	slog.Info("upserted API key", slog.String("name", "Admin settings key"))
	return nil
}
