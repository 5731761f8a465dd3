package controllers

import (
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ewhacare/accessdesk/config"
	"github.com/ewhacare/accessdesk/middleware"
	"github.com/ewhacare/accessdesk/service"
	"github.com/ewhacare/accessdesk/utils"
	"github.com/ewhacare/accessdesk/web"
)

// Accessibility preference cookies.
const (
	CookieLowVision = "a11y_lv"
	CookieSign      = "a11y_sign"
	CookieFontScale = "a11y_font"

	a11yCookieMaxAge = 365 * 24 * 60 * 60
	latestPostCount  = 6
)

// A11yPrefs is the visitor's accessibility state. Low-vision mode pins the
// font scale at 100 and disables the size buttons.
type A11yPrefs struct {
	LowVision bool
	Sign      bool
	FontScale int
}

func readA11y(ctx *gin.Context) A11yPrefs {
	p := A11yPrefs{FontScale: 100}
	if v, _ := ctx.Cookie(CookieLowVision); v == "1" {
		p.LowVision = true
	}
	if v, _ := ctx.Cookie(CookieSign); v == "1" {
		p.Sign = true
	}
	if v, err := ctx.Cookie(CookieFontScale); err == nil && !p.LowVision {
		if n, err := strconv.Atoi(v); err == nil && validFontScale(n) {
			p.FontScale = n
		}
	}
	return p
}

func validFontScale(n int) bool {
	for _, s := range web.FontScales {
		if s == n {
			return true
		}
	}
	return false
}

// safeReturnPath accepts only same-site absolute paths.
func safeReturnPath(p, fallback string) string {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, `/\`) {
		return fallback
	}
	u, err := url.Parse(p)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return fallback
	}
	return p
}

// PageController renders the public site.
type PageController struct {
	posts    PostService
	featured FeaturedService
	site     SiteInfo
}

func NewPageController(posts PostService, featured FeaturedService, cfg config.AppConfig) *PageController {
	return &PageController{posts: posts, featured: featured, site: siteInfo(cfg)}
}

func basePage(ctx *gin.Context, site SiteInfo, title string) gin.H {
	return gin.H{
		"Title":      title,
		"Site":       site,
		"A11y":       readA11y(ctx),
		"FontScales": web.FontScales,
		"Path":       ctx.Request.URL.RequestURI(),
	}
}

func renderError(ctx *gin.Context, site SiteInfo, status int, msg string) {
	data := basePage(ctx, site, strconv.Itoa(status))
	data["Message"] = msg
	ctx.HTML(status, "error.html", data)
}

// pagerQuery returns the non-page query parameters, ready to be prefixed to
// "page=N".
func pagerQuery(params map[string]string) string {
	v := url.Values{}
	for k, val := range params {
		if val != "" {
			v.Set(k, val)
		}
	}
	if len(v) == 0 {
		return ""
	}
	return v.Encode() + "&"
}

func pageCount(total int64, size int) int {
	if size <= 0 {
		return 1
	}
	return int(math.Ceil(float64(total) / float64(size)))
}

// Home renders the landing page with the most recent visible posts.
func (p *PageController) Home(ctx *gin.Context) {
	res, err := p.posts.List(ctx.Request.Context(), service.ListQuery{Page: 1, PageSize: latestPostCount})
	if err != nil {
		utils.Sugar.Errorw("home posts failed", "error", err)
		res = service.ListResult{}
	}
	data := basePage(ctx, p.site, "")
	a11y := data["A11y"].(A11yPrefs)
	data["HeroSlides"] = web.HeroSlides
	data["Sign"] = web.SignVideos(a11y.Sign)
	data["Targets"] = web.Targets
	data["Services"] = web.Services
	data["Steps"] = web.Steps
	data["FAQ"] = web.FAQ
	data["Latest"] = res.Posts
	ctx.HTML(http.StatusOK, "home.html", data)
}

// Blog renders the paged news list. Featured posts head the first unfiltered
// page.
func (p *PageController) Blog(ctx *gin.Context) {
	page := queryInt(ctx, "page")
	if page < 1 {
		page = 1
	}
	category := strings.TrimSpace(ctx.Query("category"))
	search := strings.TrimSpace(ctx.Query("search"))

	res, err := p.posts.List(ctx.Request.Context(), service.ListQuery{
		Category: category,
		Search:   search,
		Page:     page,
		PageSize: service.DefaultPageSize,
	})
	if err != nil {
		if isInvalid(err) {
			renderError(ctx, p.site, http.StatusBadRequest, "잘못된 검색 조건입니다.")
			return
		}
		utils.Sugar.Errorw("blog list failed", "error", err)
		renderError(ctx, p.site, http.StatusInternalServerError, "일시적인 오류가 발생했습니다.")
		return
	}

	data := basePage(ctx, p.site, "소식")
	if page == 1 && category == "" && search == "" {
		featured, err := p.featured.Posts(ctx.Request.Context())
		if err != nil {
			utils.Sugar.Warnw("featured posts failed", "error", err)
		}
		data["Featured"] = featured
	}
	data["Result"] = res
	data["Category"] = category
	data["Search"] = search
	data["Pages"] = pageCount(res.Total, res.PageSize)
	data["Query"] = pagerQuery(map[string]string{"category": category, "search": search})
	ctx.HTML(http.StatusOK, "blog.html", data)
}

// Post renders one post and counts the view. Hidden posts are visible to the
// admin only, without counting.
func (p *PageController) Post(ctx *gin.Context) {
	id, ok := parsePostID(ctx.Param("id"))
	if !ok {
		renderError(ctx, p.site, http.StatusNotFound, "게시글을 찾을 수 없습니다.")
		return
	}
	admin := middleware.IsAdmin(ctx)
	view, err := p.posts.Get(ctx.Request.Context(), id, service.GetOptions{IncrementView: !admin, IncludeHidden: admin})
	if err != nil {
		if isNotFound(err) {
			renderError(ctx, p.site, http.StatusNotFound, "게시글을 찾을 수 없습니다.")
			return
		}
		utils.Sugar.Errorw("post page failed", "id", id, "error", err)
		renderError(ctx, p.site, http.StatusInternalServerError, "일시적인 오류가 발생했습니다.")
		return
	}
	if !admin {
		middleware.PostViewsTotal.Inc()
	}
	data := basePage(ctx, p.site, view.Title)
	data["Post"] = view
	ctx.HTML(http.StatusOK, "post.html", data)
}

// SetA11y stores accessibility preferences in cookies and returns to the
// submitting page.
func (p *PageController) SetA11y(ctx *gin.Context) {
	prefs := readA11y(ctx)
	switch ctx.PostForm("lowVision") {
	case "on":
		prefs.LowVision = true
		prefs.FontScale = 100
	case "off":
		prefs.LowVision = false
	}
	switch ctx.PostForm("sign") {
	case "on":
		prefs.Sign = true
	case "off":
		prefs.Sign = false
	}
	if n, err := strconv.Atoi(ctx.PostForm("font")); err == nil && validFontScale(n) && !prefs.LowVision {
		prefs.FontScale = n
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	secure := ctx.Request.TLS != nil
	ctx.SetCookie(CookieLowVision, boolCookie(prefs.LowVision), a11yCookieMaxAge, "/", "", secure, true)
	ctx.SetCookie(CookieSign, boolCookie(prefs.Sign), a11yCookieMaxAge, "/", "", secure, true)
	ctx.SetCookie(CookieFontScale, strconv.Itoa(prefs.FontScale), a11yCookieMaxAge, "/", "", secure, true)
	ctx.Redirect(http.StatusSeeOther, safeReturnPath(ctx.PostForm("return"), "/"))
}

func boolCookie(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// NotFound renders the HTML 404 page, or the JSON envelope under /api.
func (p *PageController) NotFound(ctx *gin.Context) {
	if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
		return
	}
	renderError(ctx, p.site, http.StatusNotFound, "페이지를 찾을 수 없습니다.")
}
