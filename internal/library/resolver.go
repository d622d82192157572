package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
	"github.com/google/uuid"
	"github.com/jaki95/video-factory/internal/domain"
)

// ImportedCategory is the category given to tracks resolved from a link.
const ImportedCategory = "Imported"

var (
	ErrNoAudio     = errors.New("no audio found at link")
	ErrInvalidLink = errors.New("invalid music link")
)

var audioExtensions = []string{".mp3", ".ogg", ".oga", ".wav", ".flac", ".m4a", ".aac", ".opus"}

// Resolver turns a pasted link (a direct audio file or a page such as a
// Musopen piece) into a track that can be layered.
type Resolver struct {
	timeout   time.Duration
	userAgent string
}

func NewResolver() *Resolver {
	return &Resolver{
		timeout:   20 * time.Second,
		userAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}

// Resolve returns a track for rawURL. Direct audio links are used as is;
// pages are fetched and searched for their first audio link.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (domain.MusicTrack, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.MusicTrack{}, fmt.Errorf("%w: %q", ErrInvalidLink, rawURL)
	}

	if isAudioURL(u) {
		return trackFor(u, ""), nil
	}

	if err := ctx.Err(); err != nil {
		return domain.MusicTrack{}, err
	}

	var (
		links    []string
		title    string
		visitErr error
	)

	c := colly.NewCollector(
		colly.UserAgent(r.userAgent),
		colly.Async(false),
	)
	c.SetRequestTimeout(r.timeout)

	c.OnRequest(func(req *colly.Request) {
		if ctx.Err() != nil {
			req.Abort()
		}
		req.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	})

	c.OnError(func(resp *colly.Response, err error) {
		slog.Warn("Failed to fetch music page", "url", resp.Request.URL.String(), "status", resp.StatusCode, "error", err)
		visitErr = err
	})

	c.OnHTML("html", func(e *colly.HTMLElement) {
		links = audioLinks(e.DOM, e.Request.URL)
		title = pageTitle(e.DOM)
	})

	if err := c.Visit(u.String()); err != nil && visitErr == nil {
		visitErr = err
	}
	if err := ctx.Err(); err != nil {
		return domain.MusicTrack{}, err
	}
	if visitErr != nil {
		return domain.MusicTrack{}, fmt.Errorf("failed to fetch %s: %w", u, visitErr)
	}
	if len(links) == 0 {
		return domain.MusicTrack{}, fmt.Errorf("%w: %s", ErrNoAudio, u)
	}

	audio, err := url.Parse(links[0])
	if err != nil {
		return domain.MusicTrack{}, fmt.Errorf("invalid audio link %q: %w", links[0], err)
	}
	slog.Info("Resolved music link", "page", u.String(), "audio", links[0], "candidates", len(links))
	return trackFor(audio, title), nil
}

func audioLinks(doc *goquery.Selection, base *url.URL) []string {
	var links []string
	seen := make(map[string]bool)
	add := func(ref string, requireAudioExt bool) {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			return
		}
		u, err := url.Parse(ref)
		if err != nil {
			return
		}
		if base != nil {
			u = base.ResolveReference(u)
		}
		if requireAudioExt && !isAudioURL(u) {
			return
		}
		if s := u.String(); !seen[s] {
			seen[s] = true
			links = append(links, s)
		}
	}

	doc.Find(`meta[property="og:audio"], meta[property="og:audio:url"], meta[property="og:audio:secure_url"]`).Each(func(_ int, s *goquery.Selection) {
		content, _ := s.Attr("content")
		add(content, false)
	})
	doc.Find("audio[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		add(src, false)
	})
	doc.Find("audio source[src], source[type^='audio']").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		add(src, false)
	})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		add(href, true)
	})
	return links
}

func pageTitle(doc *goquery.Selection) string {
	if t, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func isAudioURL(u *url.URL) bool {
	ext := strings.ToLower(path.Ext(u.Path))
	for _, a := range audioExtensions {
		if ext == a {
			return true
		}
	}
	return false
}

// trackFor builds an imported track. The duration is unknown until played.
func trackFor(u *url.URL, title string) domain.MusicTrack {
	if title == "" {
		base := path.Base(u.Path)
		title = strings.TrimSuffix(base, path.Ext(base))
		if unescaped, err := url.PathUnescape(title); err == nil {
			title = unescaped
		}
	}
	return domain.MusicTrack{
		ID:       "ext-" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(u.String())).String(),
		Title:    title,
		Artist:   u.Host,
		Category: ImportedCategory,
		URL:      u.String(),
	}
}
