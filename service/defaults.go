package service

import (
	"context"
	"time"

	"github.com/ewhacare/accessdesk/models"
	"github.com/ewhacare/accessdesk/repo"
)

func seedTime(s string) time.Time {
	t, _ := time.ParseInLocation(models.TimeLayout, s, time.Local)
	return t
}

// DefaultPosts are the posts a fresh installation starts with.
func DefaultPosts() []models.Post {
	return []models.Post{
		{
			ID:          1704067200000,
			Title:       "2024년 신년 건강검진 프로그램 안내",
			Content:     "새해를 맞이하여 이대목동병원에서는 특별 건강검진 프로그램을 운영합니다. 국가건강검진 항목은 물론, 추가 선택검사를 통해 보다 정확한 건강상태를 확인하실 수 있습니다. 예약 문의: 02-2650-5114",
			Category:    models.CategoryNotice,
			Status:      true,
			ViewCount:   342,
			PublishedAt: seedTime("2024-01-01T09:00:00"),
			CreatedAt:   seedTime("2024-01-01T09:00:00"),
			UpdatedAt:   seedTime("2024-01-01T09:00:00"),
		},
		{
			ID:          1704153600000,
			Title:       "암센터 개원 10주년 기념 건강강좌 개최",
			Content:     "이대목동병원 암센터 개원 10주년을 기념하여 시민 건강강좌를 개최합니다. 일시: 2024년 2월 15일(목) 오후 2시, 장소: 본관 6층 대강당. 주제: 암 예방과 조기진단의 중요성. 참가비 무료, 선착순 100명.",
			Category:    models.CategoryEvent,
			Status:      true,
			ViewCount:   218,
			PublishedAt: seedTime("2024-01-02T14:00:00"),
			CreatedAt:   seedTime("2024-01-02T14:00:00"),
			UpdatedAt:   seedTime("2024-01-02T14:00:00"),
		},
		{
			ID:          1704240000000,
			Title:       "이대목동병원, 의료서비스 혁신상 수상",
			Content:     "이대목동병원이 보건복지부가 주최한 2023 의료서비스 혁신 경진대회에서 최우수상을 수상했습니다. 환자 중심의 스마트 의료 시스템 구축과 AI 기반 진단 보조 시스템 도입이 높은 평가를 받았습니다.",
			Category:    models.CategoryNews,
			Status:      true,
			ViewCount:   527,
			PublishedAt: seedTime("2024-01-03T10:30:00"),
			CreatedAt:   seedTime("2024-01-03T10:30:00"),
			UpdatedAt:   seedTime("2024-01-03T10:30:00"),
		},
	}
}

// SeedDefaults inserts DefaultPosts when the posts table is empty and
// reports how many were written.
func (s *PostService) SeedDefaults(ctx context.Context) (int, error) {
	n, err := s.store.CountPosts(ctx)
	if err != nil || n > 0 {
		return 0, err
	}
	posts := DefaultPosts()
	err = s.store.Transaction(ctx, func(tx repo.Store) error {
		for i := range posts {
			if _, err := tx.CreatePost(ctx, &posts[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(posts), nil
}
