package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ewhacare/accessdesk/config"
	"github.com/ewhacare/accessdesk/models"
	"github.com/ewhacare/accessdesk/repo"
	"github.com/ewhacare/accessdesk/routes"
	"github.com/ewhacare/accessdesk/service"
	"github.com/ewhacare/accessdesk/utils"
)

func main() {
	hashPassword := flag.String("hash-password", "", "print the bcrypt hash of the given admin password and exit")
	flag.Parse()
	if *hashPassword != "" {
		hash, err := utils.HashPassword(*hashPassword)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer utils.SyncLogger()
	defer utils.CloseRedis()

	db := config.InitDatabase(&models.Post{}, &models.Attachment{}, &models.FeaturedSlots{})
	store := repo.NewStore(db)

	ctx := context.Background()
	if err := store.EnsureFeaturedRow(ctx); err != nil {
		utils.Sugar.Fatalf("featured slots init failed: %v", err)
	}

	files := service.NewUploadStore(cfg.PublicDir, utils.ImageOptions{
		MaxWidth:  cfg.ImageMaxWidth,
		Quality:   cfg.ImageQuality,
		MaxPixels: cfg.ImageMaxPixels(),
	})
	posts := service.NewPostService(store, service.WriteGuard{
		MaxTotalBytes: cfg.UploadMaxTotalBytes(),
		MaxBodyImages: cfg.MaxBodyImages,
		SizeOf:        files.SizeOf,
	})
	if n, err := posts.SeedDefaults(ctx); err != nil {
		utils.Sugar.Fatalf("seeding default posts failed: %v", err)
	} else if n > 0 {
		utils.Sugar.Infow("seeded default posts", "count", n)
	}

	r, err := routes.SetupRouter(cfg, routes.Services{
		Posts:    posts,
		Featured: service.NewFeaturedService(store),
		Files:    files,
	})
	if err != nil {
		utils.Sugar.Fatalf("router setup failed: %v", err)
	}

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
