package handler

import (
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap handles GET /sitemap.xml.  siteURL is the public origin of the
// front end, not of this API.
func (h *PublicHandler) Sitemap(siteURL string) echo.HandlerFunc {
	base := strings.TrimRight(siteURL, "/")
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		listings, err := h.Listings.AllAvailable(ctx)
		if err != nil {
			return respondError(c, h.Log, err)
		}
		posts, err := h.Blog.ListPublished(ctx)
		if err != nil {
			return respondError(c, h.Log, err)
		}

		set := urlSet{XMLNS: sitemapNS}
		set.URLs = append(set.URLs,
			sitemapURL{Loc: base + "/", ChangeFreq: "daily", Priority: "1.0"},
			sitemapURL{Loc: base + "/properties", ChangeFreq: "daily", Priority: "0.9"},
		)
		for _, l := range listings {
			set.URLs = append(set.URLs, sitemapURL{
				Loc:        base + "/properties/" + l.Slug,
				LastMod:    l.UpdatedAt.UTC().Format(time.RFC3339),
				ChangeFreq: "weekly",
				Priority:   "0.8",
			})
		}
		for _, p := range posts {
			set.URLs = append(set.URLs, sitemapURL{
				Loc:        base + "/blog/" + p.Slug,
				LastMod:    p.UpdatedAt.UTC().Format(time.RFC3339),
				ChangeFreq: "monthly",
				Priority:   "0.6",
			})
		}

		out, err := xml.MarshalIndent(set, "", "  ")
		if err != nil {
			return respondError(c, h.Log, err)
		}
		c.Response().Header().Set("Cache-Control", "public, max-age=86400")
		return c.Blob(http.StatusOK, echo.MIMEApplicationXMLCharsetUTF8, append([]byte(xml.Header), out...))
	}
}
