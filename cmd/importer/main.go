// Command importer loads a JSON-era data directory (posts.json and
// featured.json) into the configured database.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"

	"github.com/ewhacare/accessdesk/config"
	"github.com/ewhacare/accessdesk/models"
	"github.com/ewhacare/accessdesk/repo"
	"github.com/ewhacare/accessdesk/service"
	"github.com/ewhacare/accessdesk/utils"
)

func main() {
	dataDir := flag.String("data", "data", "directory holding posts.json and featured.json")
	replace := flag.Bool("replace", false, "delete existing posts and attachments first")
	extract := flag.Bool("extract", false, "write inline base64 attachments to files under the upload directory")
	flag.Parse()

	cfg := config.Load()
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer utils.SyncLogger()

	posts, err := readPosts(filepath.Join(*dataDir, "posts.json"))
	if err != nil {
		utils.Sugar.Fatalf("read posts: %v", err)
	}
	slots, err := readFeatured(filepath.Join(*dataDir, "featured.json"))
	if err != nil {
		utils.Sugar.Fatalf("read featured: %v", err)
	}

	db := config.InitDatabase(&models.Post{}, &models.Attachment{}, &models.FeaturedSlots{})
	store := repo.NewStore(db)

	var extractor service.Extractor
	if *extract {
		files := service.NewUploadStore(cfg.PublicDir, utils.ImageOptions{
			MaxWidth:  cfg.ImageMaxWidth,
			Quality:   cfg.ImageQuality,
			MaxPixels: cfg.ImageMaxPixels(),
		})
		extractor = service.UploadExtractor(files)
	}

	report, err := service.NewImporter(store, extractor).Import(context.Background(), posts, slots, *replace)
	for _, reason := range report.Skipped {
		utils.Sugar.Warnw("post skipped", "reason", reason)
	}
	if err != nil {
		utils.Sugar.Fatalf("import failed: %v", err)
	}
	utils.Sugar.Infow("import finished",
		"posts", report.Posts,
		"attachments", report.Attachments,
		"skipped", len(report.Skipped),
		"replace", *replace,
		"extract", *extract,
	)
}

func readPosts(path string) ([]service.LegacyPost, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			utils.Sugar.Warnw("posts file missing, importing no posts", "path", path)
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return service.DecodeLegacyPosts(f)
}

// readFeatured returns nil when the file is absent so the featured row is
// left as it is.
func readFeatured(path string) (*models.FeaturedSlots, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	slots, err := service.DecodeLegacyFeatured(f)
	if err != nil {
		return nil, err
	}
	return &slots, nil
}
