package handler

import (
	"encoding/xml"
	"fmt"
	"go-blog-app/internal/service"
	"net/http"
	"time"
)

// SeoHandler holds dependencies for SEO-related handlers.
type SeoHandler struct {
	blog service.BlogServicer
}

// NewSeoHandler creates a new SeoHandler.
func NewSeoHandler(blog service.BlogServicer) *SeoHandler {
	return &SeoHandler{blog: blog}
}

// robotsHandler serves a static robots.txt file.
func (h *SeoHandler) robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "User-agent: *")
	fmt.Fprintln(w, "Allow: /")
	fmt.Fprintln(w, "")
	// In a real app, you would get the domain from config.
	fmt.Fprintln(w, "Sitemap: http://localhost:8080/sitemap.xml")
}

const (
	sitemapDateFormat = "2006-01-02"
	postDateFormat    = "January 02, 2006"
	baseURL           = "http://localhost:8080/post/" // In a real app, get this from config
)

type sitemapURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapHandler generates and serves a dynamic sitemap.xml over all posts.
func (h *SeoHandler) sitemapHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blog.ListPosts(r.Context())
	if err != nil {
		http.Error(w, "Failed to retrieve posts for sitemap", http.StatusInternalServerError)
		return
	}

	sitemap := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, len(posts)),
	}

	for i, post := range posts {
		entry := sitemapURL{Loc: fmt.Sprintf("%s%d", baseURL, post.ID)}
		// Post dates are stored as display strings; skip lastmod when one
		// does not parse.
		if created, err := time.Parse(postDateFormat, post.Date); err == nil {
			entry.LastMod = created.Format(sitemapDateFormat)
		}
		sitemap.URLs[i] = entry
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml.Header))
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(sitemap); err != nil {
		http.Error(w, "Failed to generate sitemap XML", http.StatusInternalServerError)
		return
	}
}
