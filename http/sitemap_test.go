package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/fwojciec/linkopp"
	linkhttp "github.com/fwojciec/linkopp/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const urlsetTmpl = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">%s</urlset>`

// urlset renders a sitemap listing the given paths under {{BASE}}.
func urlset(paths ...string) string {
	var b strings.Builder
	for _, p := range paths {
		b.WriteString("\n  <url><loc>{{BASE}}" + p + "</loc></url>")
	}
	return strings.Replace(urlsetTmpl, "%s", b.String()+"\n", 1)
}

func TestSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	t.Run("reads sitemaps declared in robots.txt", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/robots.txt":       "User-agent: *\nDisallow: /private/\nSitemap: {{BASE}}/blog-sitemap.xml\n",
			"/blog-sitemap.xml": urlset("/seo/seo-growth-hacks", "/link-building/guide"),
		})

		urls, err := linkhttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/seo/seo-growth-hacks", srv.URL + "/link-building/guide"}, urls)
	})

	t.Run("falls back to sitemap.xml", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": urlset("/page1"),
		})

		urls, err := linkhttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/page1"}, urls)
	})

	t.Run("follows sitemap index in order", func(t *testing.T) {
		t.Parallel()

		index := `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>{{BASE}}/sitemap-seo.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/sitemap-tools.xml</loc></sitemap>
</sitemapindex>`

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml":       index,
			"/sitemap-seo.xml":   urlset("/seo/a", "/seo/b"),
			"/sitemap-tools.xml": urlset("/tools/c"),
		})

		urls, err := linkhttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/seo/a", srv.URL + "/seo/b", srv.URL + "/tools/c"}, urls)
	})

	t.Run("deduplicates pages across sitemaps", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/robots.txt":   "Sitemap: {{BASE}}/sitemap1.xml\nsitemap: {{BASE}}/sitemap2.xml\n",
			"/sitemap1.xml": urlset("/page1", "/shared"),
			"/sitemap2.xml": urlset("/shared", "/page2"),
		})

		urls, err := linkhttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/page1", srv.URL + "/shared", srv.URL + "/page2"}, urls)
	})

	t.Run("restricts to base path", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": urlset("/seo", "/seo/growth", "/seoul", "/tools/x"),
		})

		urls, err := linkhttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL+"/seo/", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/seo", srv.URL + "/seo/growth"}, urls)
	})

	t.Run("applies include and exclude filters", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": urlset("/blog/a", "/blog/draft-b", "/about"),
		})
		filter := &linkopp.URLFilter{
			Include: []*regexp.Regexp{regexp.MustCompile(`/blog/`)},
			Exclude: []*regexp.Regexp{regexp.MustCompile(`draft`)},
		}

		urls, err := linkhttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL, filter)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/blog/a"}, urls)
	})

	t.Run("returns empty slice without sitemap", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{})

		urls, err := linkhttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.NotNil(t, urls)
		assert.Empty(t, urls)
	})

	t.Run("rejects invalid site URL", func(t *testing.T) {
		t.Parallel()

		_, err := linkhttp.NewSitemapService(nil).DiscoverURLs(context.Background(), "not a url", nil)

		require.Error(t, err)
		assert.Equal(t, linkopp.EINVALID, linkopp.ErrorCode(err))
	})

	t.Run("fails on malformed sitemap", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": "this is not a sitemap",
		})

		_, err := linkhttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL, nil)

		assert.Error(t, err)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": urlset("/page1"),
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := linkhttp.NewSitemapService(srv.Client()).DiscoverURLs(ctx, srv.URL, nil)

		require.ErrorIs(t, err, context.Canceled)
	})
}

// newTestServer serves the given path->content mapping. Content may contain
// {{BASE}}, which is replaced with the server URL. The server is closed when
// the test ends.
func newTestServer(t *testing.T, content map[string]string) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := content[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		body = strings.ReplaceAll(body, "{{BASE}}", srv.URL)

		if r.URL.Path == "/robots.txt" {
			w.Header().Set("Content-Type", "text/plain")
		} else {
			w.Header().Set("Content-Type", "application/xml")
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv
}
