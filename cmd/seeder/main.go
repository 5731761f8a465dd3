// Command seeder fills an empty database with the default posts and, on
// request, generated demo posts.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/ewhacare/accessdesk/config"
	"github.com/ewhacare/accessdesk/models"
	"github.com/ewhacare/accessdesk/repo"
	"github.com/ewhacare/accessdesk/service"
	"github.com/ewhacare/accessdesk/utils"
)

func main() {
	fake := flag.Int("fake", 0, "also insert this many generated posts")
	seed := flag.Int64("seed", 0, "random seed for generated posts (0 picks one)")
	flag.Parse()

	cfg := config.Load()
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer utils.SyncLogger()

	db := config.InitDatabase(&models.Post{}, &models.Attachment{}, &models.FeaturedSlots{})
	store := repo.NewStore(db)
	ctx := context.Background()

	if err := store.EnsureFeaturedRow(ctx); err != nil {
		utils.Sugar.Fatalf("featured slots init failed: %v", err)
	}

	posts := service.NewPostService(store, service.WriteGuard{})
	n, err := posts.SeedDefaults(ctx)
	if err != nil {
		utils.Sugar.Fatalf("seeding default posts failed: %v", err)
	}
	utils.Sugar.Infow("default posts", "inserted", n)

	if *fake <= 0 {
		return
	}
	faker := gofakeit.New(*seed)
	generated := fakePosts(faker, *fake, time.Now())
	err = store.Transaction(ctx, func(tx repo.Store) error {
		for i := range generated {
			if _, err := tx.CreatePost(ctx, &generated[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.Sugar.Fatalf("inserting generated posts failed: %v", err)
	}
	utils.Sugar.Infow("generated posts", "inserted", len(generated))
}
