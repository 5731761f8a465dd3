package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ewhacare/accessdesk/models"
	"github.com/ewhacare/accessdesk/repo"
	"github.com/ewhacare/accessdesk/utils"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ListQuery is a post list request. Admin lists include hidden posts and may
// filter on Status.
type ListQuery struct {
	Admin    bool
	Category string
	Status   string
	Search   string
	Page     int
	PageSize int
}

// ListResult is one page of posts. Page is zero when the list is unpaged.
type ListResult struct {
	Posts    []models.PostView `json:"posts"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// GetOptions controls Get.
type GetOptions struct {
	IncrementView bool
	IncludeHidden bool
}

// SaveResult reports the stored post and whether it was newly created.
type SaveResult struct {
	Post    models.PostView `json:"post"`
	Created bool            `json:"created"`
}

// PostService implements post reads and the admin write flow on top of a
// repo.Store.
type PostService struct {
	store repo.Store
	guard WriteGuard
	now   func() time.Time
}

// NewPostService wires a PostService.
func NewPostService(store repo.Store, guard WriteGuard) *PostService {
	return &PostService{store: store, guard: guard, now: time.Now}
}

// List returns posts newest first, filtered per q.
func (s *PostService) List(ctx context.Context, q ListQuery) (ListResult, error) {
	f := repo.PostFilter{VisibleOnly: !q.Admin, Search: q.Search}
	if q.Category != "" {
		cat, ok := models.NormalizeCategory(q.Category)
		if !ok {
			return ListResult{}, invalidf("unknown category %q", q.Category)
		}
		f.Category = cat
	}
	if q.Admin && q.Status != "" {
		st, ok := ParseStatusFilter(q.Status)
		if !ok {
			return ListResult{}, invalidf("unknown status %q", q.Status)
		}
		f.Status = &st
	}

	res := ListResult{}
	if q.Page > 0 {
		size := q.PageSize
		if size <= 0 {
			size = DefaultPageSize
		}
		if size > MaxPageSize {
			size = MaxPageSize
		}
		f.Offset = (q.Page - 1) * size
		f.Limit = size
		res.Page, res.PageSize = q.Page, size
	}

	posts, total, err := s.store.ListPosts(ctx, f)
	if err != nil {
		return ListResult{}, err
	}
	views, err := s.views(ctx, posts)
	if err != nil {
		return ListResult{}, err
	}
	res.Posts, res.Total = views, total
	return res, nil
}

func (s *PostService) views(ctx context.Context, posts []models.Post) ([]models.PostView, error) {
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	atts, err := s.store.ListAttachmentsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.PostView, len(posts))
	for i, p := range posts {
		out[i] = models.ToView(p, atts[p.ID])
	}
	return out, nil
}

// Get returns one post with its attachments. Hidden posts read as missing
// unless opts.IncludeHidden. With IncrementView the count is bumped and the
// returned view reflects it.
func (s *PostService) Get(ctx context.Context, id int64, opts GetOptions) (models.PostView, error) {
	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		return models.PostView{}, err
	}
	if !post.Status && !opts.IncludeHidden {
		return models.PostView{}, ErrNotFound
	}
	if opts.IncrementView {
		if err := s.store.IncrementViewCount(ctx, id); err != nil {
			return models.PostView{}, err
		}
		post.ViewCount++
	}
	atts, err := s.store.ListAttachments(ctx, id)
	if err != nil {
		return models.PostView{}, err
	}
	return models.ToView(*post, atts), nil
}

// Save updates the post named by in.ID when it exists, otherwise creates a
// new one (keeping in.ID when supplied).
func (s *PostService) Save(ctx context.Context, in PostInput) (SaveResult, error) {
	if in.ID != nil && *in.ID > 0 {
		existing, err := s.store.GetPost(ctx, *in.ID)
		switch {
		case err == nil:
			view, err := s.update(ctx, existing, in)
			return SaveResult{Post: view}, err
		case !errors.Is(err, repo.ErrNotFound):
			return SaveResult{}, err
		}
	}
	view, err := s.create(ctx, in)
	return SaveResult{Post: view, Created: err == nil}, err
}

func (s *PostService) create(ctx context.Context, in PostInput) (models.PostView, error) {
	post, err := in.newPost(s.now())
	if err != nil {
		return models.PostView{}, err
	}
	if in.ID != nil && *in.ID > 0 {
		post.ID = *in.ID
	}
	atts, err := s.resolveAttachments(in.Attachments.Items, nil)
	if err != nil {
		return models.PostView{}, err
	}
	if err := s.guard.Check(WriteSet{Thumbnail: post.ThumbnailImage, Content: post.Content, Attachments: atts}); err != nil {
		return models.PostView{}, err
	}

	var id int64
	err = s.store.Transaction(ctx, func(tx repo.Store) error {
		var err error
		if id, err = tx.CreatePost(ctx, &post); err != nil {
			return err
		}
		if len(atts) == 0 {
			return nil
		}
		return tx.ReplaceAttachments(ctx, id, atts)
	})
	if err != nil {
		return models.PostView{}, err
	}
	return s.Get(ctx, id, GetOptions{IncludeHidden: true})
}

func (s *PostService) update(ctx context.Context, existing *models.Post, in PostInput) (models.PostView, error) {
	patch, err := in.patch()
	if err != nil {
		return models.PostView{}, err
	}
	current, err := s.store.ListAttachments(ctx, existing.ID)
	if err != nil {
		return models.PostView{}, err
	}
	next := current
	if in.Attachments.Set {
		if next, err = s.resolveAttachments(in.Attachments.Items, current); err != nil {
			return models.PostView{}, err
		}
	}

	ws := WriteSet{Thumbnail: existing.ThumbnailImage, Content: existing.Content, Attachments: next}
	if patch.ThumbnailImage != nil {
		ws.Thumbnail = *patch.ThumbnailImage
	}
	if patch.Content != nil {
		ws.Content = *patch.Content
	}
	if err := s.guard.Check(ws); err != nil {
		return models.PostView{}, err
	}

	err = s.store.Transaction(ctx, func(tx repo.Store) error {
		if err := tx.UpdatePost(ctx, existing.ID, patch); err != nil {
			return err
		}
		if !in.Attachments.Set {
			return nil
		}
		return tx.ReplaceAttachments(ctx, existing.ID, next)
	})
	if err != nil {
		return models.PostView{}, err
	}
	return s.Get(ctx, existing.ID, GetOptions{IncludeHidden: true})
}

// resolveAttachments validates editor input. Entries pointing at a legacy
// inline attachment of the post keep its stored payload.
func (s *PostService) resolveAttachments(items []AttachmentInput, current []models.Attachment) ([]models.Attachment, error) {
	legacy := make(map[string]models.Attachment)
	for _, a := range current {
		if a.IsLegacy && a.Path == "" {
			legacy[models.AttachmentDownloadPath(a.ID)] = a
		}
	}

	out := make([]models.Attachment, 0, len(items))
	for _, it := range items {
		path := strings.TrimSpace(it.Path)
		name := utils.SanitizeText(it.Name)

		if old, ok := legacy[path]; ok {
			if name != "" {
				old.Name = name
			}
			out = append(out, old)
			continue
		}
		if _, err := utils.ResolveUploadPath("", path); err != nil {
			return nil, invalidf("attachment path %q is not an uploaded file", it.Path)
		}
		if name == "" {
			name = path[strings.LastIndexByte(path, '/')+1:]
		}
		size := it.Size
		if s.guard.SizeOf != nil {
			if n, ok := s.guard.SizeOf(path); ok {
				size = n
			}
		}
		if size < 0 {
			return nil, invalidf("attachment size must not be negative")
		}
		out = append(out, models.Attachment{Name: name, Path: path, Size: size})
	}
	return out, nil
}

// ToggleStatus flips a post's visibility.
func (s *PostService) ToggleStatus(ctx context.Context, id int64) (models.PostView, error) {
	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		return models.PostView{}, err
	}
	next := !post.Status
	if err := s.store.UpdatePost(ctx, id, repo.PostPatch{Status: &next}); err != nil {
		return models.PostView{}, err
	}
	return s.Get(ctx, id, GetOptions{IncludeHidden: true})
}

// Delete removes a post with its attachments and featured references.
func (s *PostService) Delete(ctx context.Context, id int64) error {
	return s.store.DeletePost(ctx, id)
}

// Attachment returns an attachment row. Attachments of hidden posts read as
// missing unless includeHidden.
func (s *PostService) Attachment(ctx context.Context, id uint, includeHidden bool) (models.Attachment, error) {
	att, err := s.store.GetAttachment(ctx, id)
	if err != nil {
		return models.Attachment{}, err
	}
	if !includeHidden {
		post, err := s.store.GetPost(ctx, att.PostID)
		if err != nil {
			return models.Attachment{}, err
		}
		if !post.Status {
			return models.Attachment{}, ErrNotFound
		}
	}
	return *att, nil
}
