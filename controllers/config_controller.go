package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/ewhacare/accessdesk/config"
	"github.com/ewhacare/accessdesk/models"
	"github.com/ewhacare/accessdesk/utils"
)

// ConfigController serves environment-driven site information to clients.
type ConfigController struct {
	cfg config.AppConfig
}

func NewConfigController(cfg config.AppConfig) *ConfigController {
	return &ConfigController{cfg: cfg}
}

// SiteInfo is the public contact block rendered on the home page and footer.
type SiteInfo struct {
	Name       string   `json:"name"`
	Phone      string   `json:"phone"`
	Email      string   `json:"email"`
	Hours      string   `json:"hours"`
	Address    string   `json:"address"`
	KakaoURL   string   `json:"kakaoUrl"`
	Categories []string `json:"categories"`
}

func siteInfo(cfg config.AppConfig) SiteInfo {
	return SiteInfo{
		Name:       cfg.SiteName,
		Phone:      cfg.ContactPhone,
		Email:      cfg.ContactEmail,
		Hours:      cfg.ContactHours,
		Address:    cfg.ContactAddress,
		KakaoURL:   cfg.KakaoChatURL,
		Categories: models.Categories,
	}
}

// GetSite returns the site contact information.
func (c *ConfigController) GetSite(ctx *gin.Context) {
	utils.Success(ctx, siteInfo(c.cfg))
}
