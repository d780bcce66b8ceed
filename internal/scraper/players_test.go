package scraper

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arabstream/arabstream/internal/models"
)

// encodeGovid builds a govid.live player URL the way the redirector does
func encodeGovid(target string) string {
	token := strings.NewReplacer("/", "_", "+", "-").Replace(base64.StdEncoding.EncodeToString([]byte(target)))
	return "https://govid.live/play/" + token + "/"
}

func TestResolvePlayerAjaxServers(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]string{
		"/movie-x/": `<html><body><ul class="WatchServersList">
<li data-id="11"><strong>سيرفر 1080p</strong></li>
<li data-id="12"><strong>Govid</strong></li>
<li data-id="13"></li>
<li><strong>no id</strong></li>
</ul></body></html>`,
	})
	var (
		mu      sync.Mutex
		servers []string
	)
	f.handle("/wp-admin/admin-ajax.php", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "get_player", r.URL.Query().Get("action"))
		assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		assert.Equal(t, f.url("/movie-x/"), r.Header.Get("Referer"))

		id := r.URL.Query().Get("server")
		mu.Lock()
		servers = append(servers, id)
		mu.Unlock()
		switch id {
		case "11":
			fmt.Fprint(w, `<iframe src="https://cdn.example/one-1080.mp4" frameborder="0"></iframe>`)
		case "12":
			fmt.Fprintf(w, `<iframe src="%s"></iframe>`, encodeGovid("https://cdn.example/two.m3u8"))
		default:
			fmt.Fprint(w, "")
		}
	})
	p := newTestProvider(f, MyCima())
	sink := NewCollector()

	rep, err := p.Resolve(context.Background(), "/movie-x/", false, sink)
	require.NoError(t, err)
	assert.Equal(t, Report{Candidates: 3, Emitted: 2, Failed: 1}, rep)

	mu.Lock()
	assert.ElementsMatch(t, []string{"11", "12", "13"}, servers)
	mu.Unlock()

	byURL := map[string]models.ExtractedLink{}
	for _, l := range sink.Links() {
		byURL[l.URL] = l
	}
	require.Len(t, byURL, 2)
	one := byURL["https://cdn.example/one-1080.mp4"]
	assert.Equal(t, "MyCima - سيرفر 1080p", one.Name)
	assert.Equal(t, models.Quality1080, one.Quality)
	assert.Equal(t, f.url("/movie-x/"), one.Referer)
	assert.Equal(t, models.LinkHLS, byURL["https://cdn.example/two.m3u8"].Kind)
}

func TestGovidPlayer(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://vidtube.example/e/abc", govidPlayer(encodeGovid("https://vidtube.example/e/abc")))
	assert.Equal(t, "https://cdn.example/x.mp4", govidPlayer("https://cdn.example/x.mp4"))
	assert.Equal(t, "https://govid.live/watch/1", govidPlayer("https://govid.live/watch/1"))
	assert.Equal(t, "https://govid.live/play/%%%/", govidPlayer("https://govid.live/play/%%%/"))
	notURL := "https://govid.live/play/" + base64.StdEncoding.EncodeToString([]byte("hello")) + "/"
	assert.Equal(t, notURL, govidPlayer(notURL))
}

func TestResolvePlayerAjaxIndexes(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]string{
		"/film-x/watching/": `<html><head><link rel="shortlink" href="{{base}}/?p=77"></head><body></body></html>`,
	})
	f.handle("/wp-content/themes/Cima Now New/core.php", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "switch", q.Get("action"))
		assert.Equal(t, "77", q.Get("id"))
		assert.Equal(t, f.url("/film-x/watching/"), r.Header.Get("Referer"))
		switch q.Get("index") {
		case "00":
			fmt.Fprint(w, `<iframe src="https://cdn.example/slot-720.mp4"></iframe>`)
		case "33":
			fmt.Fprint(w, `{"embed_url":"https://cdn.example/slot.m3u8"}`)
		default:
			fmt.Fprint(w, "0")
		}
	})
	site := CimaNow()
	site.PlayerAjax.Indexes = []string{"00", "33", "34"}
	p := newTestProvider(f, site)
	sink := NewCollector()

	rep, err := p.Resolve(context.Background(), "/film-x/", false, sink)
	require.NoError(t, err)
	assert.Equal(t, Report{Candidates: 3, Emitted: 2, Failed: 1}, rep)
	assert.Equal(t, 3, f.count("/wp-content/themes/Cima Now New/core.php"))

	names := map[string]string{}
	for _, l := range sink.Links() {
		names[l.URL] = l.Name
	}
	assert.Equal(t, "CimaNow - Server 1", names["https://cdn.example/slot-720.mp4"])
	assert.Equal(t, "CimaNow - Server 2", names["https://cdn.example/slot.m3u8"])
}

func TestPlayerAjaxNeedsPostID(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	p := newTestProvider(f, CimaNow())

	assert.Empty(t, p.ajaxCandidates(parseDoc(t, `<body class="single"></body>`), f.url("/x/")))

	got := p.ajaxCandidates(parseDoc(t, `<body class="single postid-91"></body>`), f.url("/x/"))
	require.Len(t, got, len(CimaNow().PlayerAjax.Indexes))
	assert.Contains(t, got[0].get, "index=00&id=91")
}

func TestEmbeddedURL(t *testing.T) {
	t.Parallel()

	tests := []struct{ raw, want string }{
		{"https://cdn.example/e/1", "https://cdn.example/e/1"},
		{`loadIframe(this, 'https://cdn.example/e/2')`, "https://cdn.example/e/2"},
		{`<iframe width="100%" src="https://cdn.example/e/3"></iframe>`, "https://cdn.example/e/3"},
		{`player("//cdn.example/e/4")`, "//cdn.example/e/4"},
		{"javascript:void(0)", ""},
		{"/relative/embed", "/relative/embed"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, embeddedURL(tt.raw), tt.raw)
	}
}

func TestResolveSubPages(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]string{
		"/film-x/": `<html><body>
<a href="{{base}}/play.php?vid=1">مشاهدة</a>
<a class="btnDowns" href="/downloads.php?vid=1">تحميل</a>
<a href="/play.php?vid=1#top">مشاهدة</a>
</body></html>`,
		"/play.php": `<html><body><ul class="list_servers">
<li data-embed="https://cdn.example/p-720.mp4">سيرفر</li>
<li data-embed="https://www.mediafire.com/file/x/f.mp4">MediaFire</li>
<li onclick="x"><a href="javascript:;">Nothing</a></li>
</ul><video><track src="/subs/ar.vtt" label="العربية"></video></body></html>`,
		"/downloads.php": `<html><body><ul class="downloadlist">
<li><a href="https://cdn.example/d-480.mp4">تحميل</a></li>
</ul></body></html>`,
	})

	capped := Shahid4u()
	capped.Servers.MaxSubPages = 1
	rep, err := newTestProvider(f, capped).Resolve(context.Background(), "/film-x/", false, NewCollector())
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Candidates)
	assert.Equal(t, 1, f.count("/play.php"))
	assert.Zero(t, f.count("/downloads.php"))

	sink := NewCollector()
	rep, err = newTestProvider(f, Shahid4u()).Resolve(context.Background(), "/film-x/", false, sink)
	require.NoError(t, err)
	assert.Equal(t, Report{Candidates: 2, Emitted: 2}, rep)
	assert.Equal(t, 2, f.count("/play.php"), "the duplicate link is fetched once")
	assert.Equal(t, 1, f.count("/downloads.php"))

	quality := map[string]models.Quality{}
	for _, l := range sink.Links() {
		quality[l.URL] = l.Quality
		assert.NotContains(t, l.URL, "mediafire")
	}
	assert.Equal(t, models.Quality720, quality["https://cdn.example/p-720.mp4"])
	assert.Equal(t, models.Quality480, quality["https://cdn.example/d-480.mp4"])
	assert.Equal(t, []models.Subtitle{{Language: "العربية", URL: f.url("/subs/ar.vtt")}}, sink.Subtitles())
}

func TestSubPageKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, subPageKey("https://x.example/play.php?vid=1"), subPageKey("https://x.example/play.php?vid=1#top"))
	assert.NotEqual(t, subPageKey("https://x.example/play.php?vid=1"), subPageKey("https://x.example/play.php?vid=2"))
}

func TestSkippedHosts(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	p := newTestProvider(f, Shahid4u())
	page := f.url("/film/")

	assert.Empty(t, p.serverURL(page, "https://www.mediafire.com/file/1"))
	assert.Empty(t, p.serverURL(page, "https://mega.nz/file/2"))
	assert.Equal(t, "https://cdn.example/3.mp4", p.serverURL(page, "https://cdn.example/3.mp4"))
}

func TestTukBase64Servers(t *testing.T) {
	t.Parallel()

	enc := base64.StdEncoding.EncodeToString([]byte("https://cdn.example/tuk.m3u8"))
	doc := parseDoc(t, `<ul class="watch--servers--list">
<li class="server--item" data-linkbase64="`+enc+`"><span>Tuk HD</span></li>
<li class="server--item" data-linkbase64="%%%">broken</li>
</ul>`)

	assert.Equal(t, []Candidate{{URL: "https://cdn.example/tuk.m3u8", Label: "Tuk HD"}}, base64Servers(HookInput{Doc: doc}))
	assert.Nil(t, base64Servers(HookInput{}))
}

func TestLoadDetailSelfEpisode(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]string{
		"/episode/dark-episode-5/": `<html><body><h1>مسلسل Dark الحلقة 5</h1></body></html>`,
		"/film/dune/":              `<html><body><h1>فيلم Dune</h1></body></html>`,
	})
	p := newTestProvider(f, CimaClub())

	d, err := p.LoadDetail(context.Background(), "/episode/dark-episode-5/")
	require.NoError(t, err)
	require.True(t, d.IsSeries())
	require.Len(t, d.Episodes, 1)
	ep := d.Episodes[0]
	assert.Equal(t, f.url("/episode/dark-episode-5/"), ep.URL)
	assert.Equal(t, "الحلقة 5", ep.Name)
	assert.Equal(t, 5, ep.Episode.OrElse(0))

	movie, err := p.LoadDetail(context.Background(), "/film/dune/")
	require.NoError(t, err)
	assert.Equal(t, models.KindMovie, movie.Kind)
	assert.Empty(t, movie.Episodes)
}
