package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ewhacare/accessdesk/models"
	"github.com/ewhacare/accessdesk/repo"
	"github.com/ewhacare/accessdesk/utils"
)

// LegacyAttachment is an attachment in a JSON-era export. Data holds a base64
// data URL when the file was stored inline.
type LegacyAttachment struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
	Data string `json:"data"`
}

// LegacyPost is one entry of a JSON-era posts.json. Older entries carry a
// single Attachment, newer ones an Attachments list; some carry both.
type LegacyPost struct {
	ID             int64              `json:"id"`
	Title          string             `json:"title"`
	Content        string             `json:"content"`
	ThumbnailImage string             `json:"thumbnailImage"`
	Category       string             `json:"category"`
	Status         bool               `json:"status"`
	ViewCount      int64              `json:"viewCount"`
	PublishedAt    string             `json:"publishedAt"`
	CreatedAt      string             `json:"createdAt"`
	UpdatedAt      string             `json:"updatedAt"`
	Attachment     *LegacyAttachment  `json:"attachment"`
	Attachments    []LegacyAttachment `json:"attachments"`
}

// DecodeLegacyPosts reads a posts.json array.
func DecodeLegacyPosts(r io.Reader) ([]LegacyPost, error) {
	var posts []LegacyPost
	if err := json.NewDecoder(r).Decode(&posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}

// DecodeLegacyFeatured reads a featured.json object. Zero, false, empty and
// unparsable slot values become empty slots.
func DecodeLegacyFeatured(r io.Reader) (models.FeaturedSlots, error) {
	var raw struct {
		Slot1 json.RawMessage `json:"slot1Id"`
		Slot2 json.RawMessage `json:"slot2Id"`
		Slot3 json.RawMessage `json:"slot3Id"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return models.FeaturedSlots{}, fmt.Errorf("decode featured: %w", err)
	}
	return models.FeaturedSlots{
		Slot1ID: legacySlot(raw.Slot1),
		Slot2ID: legacySlot(raw.Slot2),
		Slot3ID: legacySlot(raw.Slot3),
	}, nil
}

func legacySlot(raw json.RawMessage) *int64 {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

func legacyTime(s string, fallback time.Time) time.Time {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	t, err := ParsePublishedAt(s)
	if err != nil {
		return fallback
	}
	return t
}

// Extractor writes inline attachment payloads to disk and can take them back
// when the import that produced them fails.
type Extractor interface {
	Extract(name string, data []byte) (UploadedFile, error)
	Remove(webPath string) error
}

type uploadExtractor struct{ store *UploadStore }

// UploadExtractor stores extracted payloads through an UploadStore.
func UploadExtractor(store *UploadStore) Extractor {
	return uploadExtractor{store: store}
}

func (u uploadExtractor) Extract(name string, data []byte) (UploadedFile, error) {
	return u.store.Save(name, bytes.NewReader(data), int64(len(data)), false)
}

func (u uploadExtractor) Remove(webPath string) error {
	return u.store.Remove(webPath)
}

// extractLog records every file written during one import.
type extractLog struct {
	Extractor
	paths []string
}

func (l *extractLog) Extract(name string, data []byte) (UploadedFile, error) {
	f, err := l.Extractor.Extract(name, data)
	if err == nil {
		l.paths = append(l.paths, f.Path)
	}
	return f, err
}

// discardFrom removes the files extracted since mark.
func (l *extractLog) discardFrom(mark int) error {
	var errs []error
	for _, p := range l.paths[mark:] {
		if err := l.Extractor.Remove(p); err != nil && !errors.Is(err, ErrNotFound) {
			errs = append(errs, fmt.Errorf("remove %s: %w", p, err))
		}
	}
	l.paths = l.paths[:mark]
	return errors.Join(errs...)
}

// Record converts p for import. Attachments are de-duplicated by name, the
// list taking precedence over the single field. With extract set, inline
// payloads without a path are written to files; otherwise they are kept as
// legacy rows served by the attachment route.
func (p LegacyPost) Record(extract Extractor) (repo.ImportRecord, error) {
	cat, ok := models.NormalizeCategory(strings.TrimSpace(p.Category))
	if !ok {
		return repo.ImportRecord{}, invalidf("post %d: unknown category %q", p.ID, p.Category)
	}
	title := utils.SanitizeText(p.Title)
	if title == "" {
		return repo.ImportRecord{}, invalidf("post %d: empty title", p.ID)
	}
	published := legacyTime(p.PublishedAt, time.Now())
	created := legacyTime(p.CreatedAt, published)

	rec := repo.ImportRecord{Post: models.Post{
		ID:             p.ID,
		Title:          title,
		Content:        utils.SanitizeContent(p.Content),
		ThumbnailImage: strings.TrimSpace(p.ThumbnailImage),
		Category:       cat,
		Status:         p.Status,
		ViewCount:      p.ViewCount,
		PublishedAt:    published,
		CreatedAt:      created,
		UpdatedAt:      legacyTime(p.UpdatedAt, created),
	}}

	all := append([]LegacyAttachment{}, p.Attachments...)
	if p.Attachment != nil {
		all = append(all, *p.Attachment)
	}
	seen := make(map[string]bool, len(all))
	for _, la := range all {
		if la.Name == "" || seen[la.Name] {
			continue
		}
		seen[la.Name] = true
		att, err := legacyAttachment(p.ID, la, extract)
		if err != nil {
			return repo.ImportRecord{}, err
		}
		rec.Attachments = append(rec.Attachments, att)
	}
	return rec, nil
}

func legacyAttachment(postID int64, la LegacyAttachment, extract Extractor) (models.Attachment, error) {
	att := models.Attachment{PostID: postID, Name: la.Name, Path: la.Path, Size: la.Size}
	if la.Data == "" || la.Path != "" {
		return att, nil
	}
	if extract == nil {
		att.IsLegacy = true
		att.LegacyData = la.Data
		return att, nil
	}
	data, _, err := models.DecodeDataURL(la.Data)
	if err != nil {
		return models.Attachment{}, invalidf("post %d: attachment %q: %v", postID, la.Name, err)
	}
	f, err := extract.Extract(la.Name, data)
	if err != nil {
		return models.Attachment{}, fmt.Errorf("post %d: extract %q: %w", postID, la.Name, err)
	}
	att.Path, att.Size = f.Path, f.Size
	return att, nil
}

// ImportReport summarizes an import, including posts skipped as invalid.
type ImportReport struct {
	repo.ImportResult
	Skipped []string
}

// Importer loads JSON-era exports into the store.
type Importer struct {
	store   repo.Store
	extract Extractor
}

// NewImporter returns an Importer. A nil extract keeps inline attachments as
// legacy rows.
func NewImporter(store repo.Store, extract Extractor) *Importer {
	return &Importer{store: store, extract: extract}
}

// Import converts posts and writes them with slots in one transaction.
// Invalid posts are skipped and reported; a nil slots leaves the featured row
// alone unless replace is set. Slots naming posts that will not exist after
// the import are emptied. Files extracted for skipped posts, or for an import
// that fails, are removed again.
func (im *Importer) Import(ctx context.Context, posts []LegacyPost, slots *models.FeaturedSlots, replace bool) (ImportReport, error) {
	var report ImportReport
	var extract Extractor
	var written *extractLog
	if im.extract != nil {
		written = &extractLog{Extractor: im.extract}
		extract = written
	}
	fail := func(err error) (ImportReport, error) {
		if written != nil {
			if cerr := written.discardFrom(0); cerr != nil {
				err = errors.Join(err, cerr)
			}
		}
		return report, err
	}

	records := make([]repo.ImportRecord, 0, len(posts))
	ids := make(map[int64]bool, len(posts))
	for _, p := range posts {
		mark := 0
		if written != nil {
			mark = len(written.paths)
		}
		rec, err := p.Record(extract)
		if err != nil {
			if written != nil {
				if cerr := written.discardFrom(mark); cerr != nil {
					return fail(cerr)
				}
			}
			report.Skipped = append(report.Skipped, err.Error())
			continue
		}
		records = append(records, rec)
		ids[rec.Post.ID] = true
	}

	if slots != nil {
		if err := im.dropDanglingSlots(ctx, slots, ids, replace); err != nil {
			return fail(err)
		}
		if slots.HasDuplicates() {
			return fail(ErrDuplicateSlot)
		}
	}

	res, err := im.store.ImportPosts(ctx, records, slots, repo.ImportOptions{Replace: replace})
	if err != nil {
		return fail(err)
	}
	report.ImportResult = res
	return report, nil
}

// dropDanglingSlots empties slots whose post is neither imported nor, when
// existing posts are kept, already stored.
func (im *Importer) dropDanglingSlots(ctx context.Context, slots *models.FeaturedSlots, imported map[int64]bool, replace bool) error {
	refs := []**int64{&slots.Slot1ID, &slots.Slot2ID, &slots.Slot3ID}
	known := make(map[int64]bool, len(imported))
	for id := range imported {
		known[id] = true
	}

	if !replace {
		var lookup []int64
		for _, ref := range refs {
			if *ref != nil && !known[**ref] {
				lookup = append(lookup, **ref)
			}
		}
		if len(lookup) > 0 {
			found, err := im.store.ExistingPostIDs(ctx, lookup)
			if err != nil {
				return fmt.Errorf("check featured posts: %w", err)
			}
			for _, id := range found {
				known[id] = true
			}
		}
	}

	for _, ref := range refs {
		if *ref != nil && !known[**ref] {
			*ref = nil
		}
	}
	return nil
}
