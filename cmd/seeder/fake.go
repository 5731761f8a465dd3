package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/ewhacare/accessdesk/models"
)

// fakePosts generates n demo posts published within the year before now.
// IDs are left for the store to assign.
func fakePosts(faker *gofakeit.Faker, n int, now time.Time) []models.Post {
	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		published := faker.DateRange(now.AddDate(-1, 0, 0), now)
		var body strings.Builder
		paragraphs := faker.Number(1, 4)
		for p := 0; p < paragraphs; p++ {
			fmt.Fprintf(&body, "<p>%s</p>", faker.Paragraph(1, faker.Number(2, 5), 12, " "))
		}
		posts = append(posts, models.Post{
			Title:       strings.TrimSuffix(faker.Sentence(faker.Number(3, 8)), "."),
			Content:     body.String(),
			Category:    faker.RandomString(models.Categories),
			Status:      faker.Number(1, 10) > 2,
			ViewCount:   int64(faker.Number(0, 500)),
			PublishedAt: published,
			CreatedAt:   published,
			UpdatedAt:   published,
		})
	}
	return posts
}
