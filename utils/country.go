package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"course-shop/config"

	"github.com/gin-gonic/gin"
)

const CountryCookieName = "country_code"

// geoHeaders are CDN/edge geolocation headers, checked in priority order.
var geoHeaders = []string{
	"CF-IPCountry",
	"X-Vercel-IP-Country",
	"X-Appengine-Country",
}

var geoClient = &http.Client{Timeout: 2 * time.Second}

// ResolveCountry derives a two-letter uppercase country code for the
// request. It never fails: when nothing resolves it returns the configured
// default. Order: explicit override header, CDN geo headers, country_code
// cookie, IP geolocation lookup.
func ResolveCountry(c *gin.Context) string {
	if code := normalizeCountry(c.GetHeader("X-Country-Override")); code != "" {
		return code
	}

	for _, h := range geoHeaders {
		if code := normalizeCountry(c.GetHeader(h)); code != "" {
			return code
		}
	}

	if cookie, err := c.Cookie(CountryCookieName); err == nil {
		if code := normalizeCountry(cookie); code != "" {
			return code
		}
	}

	if code := lookupCountryByIP(clientIP(c)); code != "" {
		return code
	}

	return config.AppConfig.DefaultCountry
}

// SetCountryCookie persists a resolved code so later requests skip the IP
// lookup. Short-lived on purpose: travelers and VPN users should re-resolve.
func SetCountryCookie(c *gin.Context, code string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CountryCookieName, code, int(config.AppConfig.CountryCookieTTL.Seconds()), "/", "", false, false)
}

func clientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		if ip := strings.TrimSpace(strings.Split(fwd, ",")[0]); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(c.GetHeader("X-Real-IP")); ip != "" {
		return ip
	}
	return "127.0.0.1"
}

// lookupCountryByIP queries the geolocation API. Failures of any kind
// return "" so the caller falls back to the default code.
func lookupCountryByIP(ip string) string {
	resp, err := geoClient.Get(fmt.Sprintf("%s/%s?fields=status,countryCode", config.AppConfig.GeoAPIURL, ip))
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var payload struct {
		Status      string `json:"status"`
		CountryCode string `json:"countryCode"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	if payload.Status != "success" {
		return ""
	}
	return normalizeCountry(payload.CountryCode)
}

func normalizeCountry(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 || code == "XX" {
		return ""
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ""
		}
	}
	return code
}
