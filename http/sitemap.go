package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/beevik/etree"
	"github.com/fwojciec/linkopp"
	"golang.org/x/sync/errgroup"
)

// DefaultSitemapConcurrency bounds parallel fetches of child sitemaps.
const DefaultSitemapConcurrency = 4

// Ensure SitemapService implements linkopp.SitemapService.
var _ linkopp.SitemapService = (*SitemapService)(nil)

// SitemapService lists the pages of a website from its sitemaps.
type SitemapService struct {
	client      *http.Client
	concurrency int
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client, concurrency: DefaultSitemapConcurrency}
}

// DiscoverURLs returns the page URLs listed in the sitemaps of baseURL,
// deduplicated, in sitemap order. Sitemaps are taken from robots.txt, or
// /sitemap.xml when robots.txt declares none. Returns an empty slice if the
// site has no sitemap.
//
// A non-root path in baseURL restricts the result to pages below it.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *linkopp.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, linkopp.Errorf(linkopp.EINVALID, "invalid site URL %q", baseURL)
	}

	prefix := strings.TrimSuffix(base.Path, "/")
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	sitemaps, err := s.locateSitemaps(ctx, root)
	if err != nil {
		return nil, err
	}

	w := &sitemapWalk{svc: s, seen: make(map[string]bool)}
	lists, err := w.fetchAll(ctx, sitemaps)
	if err != nil {
		return nil, err
	}

	pages := []string{}
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, page := range list {
			if seen[page] || !underPath(page, prefix) || !filter.Match(page) {
				continue
			}
			seen[page] = true
			pages = append(pages, page)
		}
	}
	return pages, nil
}

// underPath reports whether the path of rawURL lies at or below prefix.
// /docs matches /docs and /docs/intro but not /documentation.
func underPath(rawURL, prefix string) bool {
	if prefix == "" {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Path == prefix || strings.HasPrefix(u.Path, prefix+"/")
}

func (s *SitemapService) locateSitemaps(ctx context.Context, root *url.URL) ([]string, error) {
	robots := root.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	if sitemaps, err := s.robotsSitemaps(ctx, robots); err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fallback := root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()
	ok, err := s.exists(ctx, fallback)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if !ok {
		return nil, nil
	}
	return []string{fallback}, nil
}

// robotsSitemaps returns the Sitemap: directives of a robots.txt file.
func (s *SitemapService) robotsSitemaps(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.get(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	const directive = "sitemap:"

	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) < len(directive) || !strings.EqualFold(line[:len(directive)], directive) {
			continue
		}
		if loc := strings.TrimSpace(line[len(directive):]); loc != "" {
			sitemaps = append(sitemaps, loc)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}
	return sitemaps, nil
}

// sitemapWalk follows sitemap indexes, visiting each sitemap once.
type sitemapWalk struct {
	svc *SitemapService

	mu   sync.Mutex
	seen map[string]bool
}

// fetchAll resolves every sitemap concurrently. The result keeps the order
// of sitemaps.
func (w *sitemapWalk) fetchAll(ctx context.Context, sitemaps []string) ([][]string, error) {
	lists := make([][]string, len(sitemaps))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.svc.concurrency)
	for i, loc := range sitemaps {
		i, loc := i, loc
		g.Go(func() error {
			pages, err := w.fetch(gctx, loc)
			if err != nil {
				return err
			}
			lists[i] = pages
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lists, nil
}

func (w *sitemapWalk) visit(loc string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.seen[loc] {
		return false
	}
	w.seen[loc] = true
	return true
}

// fetch returns the pages of a urlset, or of every sitemap of an index.
func (w *sitemapWalk) fetch(ctx context.Context, loc string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !w.visit(loc) {
		return nil, nil
	}

	body, err := w.svc.get(ctx, loc)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, fmt.Errorf("parsing sitemap %s: %w", loc, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty sitemap %s", loc)
	}

	locs := childLocs(root)
	if root.Tag != "sitemapindex" {
		return locs, nil
	}

	// Nested indexes are walked sequentially to keep the fan-out bounded.
	var pages []string
	for _, child := range locs {
		childPages, err := w.fetch(ctx, child)
		if err != nil {
			return nil, err
		}
		pages = append(pages, childPages...)
	}
	return pages, nil
}

// childLocs returns the <loc> of every <url> or <sitemap> child of root.
func childLocs(root *etree.Element) []string {
	var locs []string
	for _, el := range root.ChildElements() {
		if el.Tag != "url" && el.Tag != "sitemap" {
			continue
		}
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			locs = append(locs, u)
		}
	}
	return locs
}

func (s *SitemapService) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, target)
	}
	return resp.Body, nil
}

func (s *SitemapService) exists(ctx context.Context, target string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}
