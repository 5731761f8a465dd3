package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ewhacare/accessdesk/config"
	"github.com/ewhacare/accessdesk/middleware"
	"github.com/ewhacare/accessdesk/models"
	"github.com/ewhacare/accessdesk/service"
	"github.com/ewhacare/accessdesk/utils"
	"github.com/ewhacare/accessdesk/web"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) List(ctx context.Context, q service.ListQuery) (service.ListResult, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(service.ListResult), args.Error(1)
}

func (m *MockPostService) Get(ctx context.Context, id int64, opts service.GetOptions) (models.PostView, error) {
	args := m.Called(ctx, id, opts)
	return args.Get(0).(models.PostView), args.Error(1)
}

func (m *MockPostService) Save(ctx context.Context, in service.PostInput) (service.SaveResult, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(service.SaveResult), args.Error(1)
}

func (m *MockPostService) ToggleStatus(ctx context.Context, id int64) (models.PostView, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.PostView), args.Error(1)
}

func (m *MockPostService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPostService) Attachment(ctx context.Context, id uint, includeHidden bool) (models.Attachment, error) {
	args := m.Called(ctx, id, includeHidden)
	return args.Get(0).(models.Attachment), args.Error(1)
}

type MockFeaturedService struct {
	mock.Mock
}

func (m *MockFeaturedService) Get(ctx context.Context) (models.FeaturedSlots, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.FeaturedSlots), args.Error(1)
}

func (m *MockFeaturedService) Set(ctx context.Context, slots models.FeaturedSlots) (models.FeaturedSlots, error) {
	args := m.Called(ctx, slots)
	return args.Get(0).(models.FeaturedSlots), args.Error(1)
}

func (m *MockFeaturedService) Posts(ctx context.Context) ([]models.PostView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PostView), args.Error(1)
}

// MockFileStore drains the reader so multipart parsing can advance.
type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Save(original string, r io.Reader, limit int64, compress bool) (service.UploadedFile, error) {
	_, _ = io.Copy(io.Discard, r)
	args := m.Called(original, limit, compress)
	return args.Get(0).(service.UploadedFile), args.Error(1)
}

func (m *MockFileStore) Remove(webPath string) error {
	return m.Called(webPath).Error(0)
}

const testPassword = "s3cret-pass"

var testPasswordHash string

func testConfig(t *testing.T) config.AppConfig {
	t.Helper()
	if testPasswordHash == "" {
		h, err := utils.HashPassword(testPassword)
		require.NoError(t, err)
		testPasswordHash = h
	}
	cfg := config.AppConfig{
		SiteName:          "장애인 의료접근성 지원",
		JWTSecret:         "controller-secret",
		JWTTTLHours:       1,
		AdminUsername:     "admin",
		AdminPasswordHash: testPasswordHash,
		UploadMaxTotalMB:  1,
		PublicDir:         t.TempDir(),
	}
	config.Set(cfg)
	return config.Get()
}

func adminToken(t *testing.T) string {
	t.Helper()
	tok, _, err := utils.GenerateAdminToken("admin", time.Hour)
	require.NoError(t, err)
	return tok
}

type fixture struct {
	cfg      config.AppConfig
	posts    *MockPostService
	featured *MockFeaturedService
	files    *MockFileStore
	router   *gin.Engine
}

// newFixture wires every controller onto a bare engine the way the
// production router does, minus logging and rate limiting.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		cfg:      testConfig(t),
		posts:    new(MockPostService),
		featured: new(MockFeaturedService),
		files:    new(MockFileStore),
	}

	r := gin.New()
	tmpl, err := web.Templates()
	require.NoError(t, err)
	r.SetHTMLTemplate(tmpl)

	auth := NewAuthController(f.cfg)
	postC := NewPostController(f.posts, 1<<20)
	featuredC := NewFeaturedController(f.featured)
	uploadC := NewUploadController(f.files, f.cfg.UploadMaxTotalBytes())
	attC := NewAttachmentController(f.posts, f.cfg.PublicDir)
	pages := NewPageController(f.posts, f.featured, f.cfg)
	adminPages := NewAdminPageController(auth, f.posts, f.featured, f.files, f.cfg)

	api := r.Group("/api", middleware.OptionalAuth())
	api.POST("/auth/login", auth.Login)
	api.POST("/auth/logout", middleware.AuthRequired(), auth.Logout)
	api.GET("/posts", postC.ListPosts)
	api.GET("/featured", featuredC.GetFeatured)
	api.GET("/attachments/:id", attC.Download)
	protected := api.Group("", middleware.AuthRequired())
	protected.POST("/posts", postC.SavePost)
	protected.PATCH("/posts/status", postC.ToggleStatus)
	protected.DELETE("/posts", postC.DeletePost)
	protected.POST("/featured", featuredC.SetFeatured)
	protected.POST("/upload", uploadC.Upload)
	protected.DELETE("/upload", uploadC.DeleteUpload)

	pg := r.Group("", middleware.OptionalAuth())
	pg.GET("/", pages.Home)
	pg.GET("/blog", pages.Blog)
	pg.GET("/blog/:id", pages.Post)
	pg.POST("/a11y", pages.SetA11y)
	pg.GET("/admin", adminPages.Index)
	pg.GET("/admin/login", adminPages.LoginPage)
	pg.POST("/admin/login", adminPages.Login)
	admin := r.Group("/admin", middleware.AdminPageRequired())
	admin.GET("/posts", adminPages.Posts)
	admin.POST("/posts/toggle", adminPages.Toggle)
	admin.POST("/posts/delete", adminPages.Delete)
	admin.GET("/posts/write", adminPages.Write)
	admin.POST("/posts/write", adminPages.Save)
	admin.GET("/featured", adminPages.Featured)
	admin.POST("/featured", adminPages.SaveFeatured)
	r.NoRoute(pages.NotFound)

	f.router = r
	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) asAdmin(t *testing.T, req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	return req
}

func (f *fixture) withCookie(t *testing.T, req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: middleware.AdminCookieName, Value: adminToken(t)})
	return req
}
