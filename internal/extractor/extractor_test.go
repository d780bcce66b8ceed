package extractor

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arabstream/arabstream/internal/fetch"
	"github.com/arabstream/arabstream/internal/models"
)

func testClient(srv *httptest.Server) *fetch.Client {
	return fetch.New(fetch.Options{Name: "extractors", HTTPClient: srv.Client()})
}

func serve(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, body := range routes {
		mux.HandleFunc(path, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, body)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRegistryMatchingAndFallback(t *testing.T) {
	t.Parallel()

	client := fetch.New(fetch.Options{Name: "extractors"})
	r := NewDefaultRegistry(client)

	cases := map[string]string{
		"https://vidmoly.to/embed-abc.html":           "Vidmoly",
		"https://streamtape.com/e/xyz":                "StreamTape",
		"https://dood.ws/e/abc":                       "DoodStream",
		"https://d000d.com/e/abc":                     "DoodStream",
		"https://mixdrop.ag/e/abc":                    "MixDrop",
		"https://voe.sx/e/abc":                        "Voe",
		"https://filemoon.sx/e/abc":                   "FileMoon",
		"https://pixeldrain.com/u/abcd1234":           "PixelDrain",
		"https://www.fajer.live/v/abc":                "Fembed",
		"https://moshahda.net/embed-abc.html":         "Moshahda",
		"https://govad.xyz/embed-abc.html":            "Govad",
		"https://vidbom.com/embed-abc.html":           "Vidbom",
		"https://vidshar.org/embed-abc.html":          "Vidshar",
		"https://vidguard.to/e/abc":                   "VidGuard",
		"https://myviid.com/embed-abc.html":           "MyVid",
		"https://web1.faselhdx.bid/video_player?x=1":  "FaselHD",
		"https://www.linkbox.to/file/abc":             "LinkBox",
		"https://1fichier.com/?abc":                   "1Fichier",
		"https://w.aflamy.pro/watch/abc":              "Aflamy",
		"https://uptobox.com/abc":                     "Uptobox",
		"https://www.mediafire.com/file/abc/x.mp4":    "MediaFire",
		"https://krakenfiles.com/view/abc/file.html":  "KrakenFiles",
		"https://bayfiles.com/abc":                    "BayFiles",
		"https://www1.zippyshare.com/v/abc/file.html": "Zippyshare",
		"https://megaup.net/abc/x.mp4":                "MegaUp",
		"https://unknown-host.example/player?id=1234": "Generic",
	}
	for u, want := range cases {
		e := r.Get(u)
		require.NotNil(t, e, u)
		assert.Equal(t, want, e.Name(), u)
	}

	_, ok := r.Match("https://unknown-host.example/x")
	assert.False(t, ok)

	e, ok := r.GetByName("streamtape")
	require.True(t, ok)
	assert.Equal(t, "StreamTape", e.Name())
	assert.Len(t, r.All(), 27)
}

type stubExtractor struct {
	name  string
	match bool
}

func (s stubExtractor) Name() string { return s.name }
func (s stubExtractor) CanExtract(string) bool { return s.match }
func (s stubExtractor) Extract(context.Context, Request) ([]models.ExtractedLink, error) {
	return []models.ExtractedLink{{Source: s.name}}, nil
}

func TestRegistryFirstRegistrationWins(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	assert.Nil(t, r.Get("https://x.example"))

	links, err := r.Resolve(context.Background(), Request{URL: "https://x.example"})
	require.NoError(t, err)
	assert.Empty(t, links)

	r.Register(stubExtractor{name: "first", match: true})
	r.Register(stubExtractor{name: "second", match: true})
	links, err = r.Resolve(context.Background(), Request{URL: "https://x.example"})
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "first", links[0].Source)
}

func TestVidmolyExtract(t *testing.T) {
	t.Parallel()

	srv := serve(t, map[string]string{
		"/embed-abc.html": `<html><script>player.setup({sources: [{file:"https://cdn.example/hls/,abc,.urlset/master.m3u8"}]});</script></html>`,
	})

	links, err := NewVidmoly(testClient(srv)).Extract(context.Background(), Request{URL: srv.URL + "/embed-abc.html"})
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "https://cdn.example/hls/,abc,.urlset/master.m3u8", links[0].URL)
	assert.Equal(t, models.LinkHLS, links[0].Kind)
	assert.Equal(t, "Vidmoly", links[0].Source)
}

func TestStreamTapeExtract(t *testing.T) {
	t.Parallel()

	srv := serve(t, map[string]string{
		"/e/xyz": `<div id="robotlink" style="display:none">/streamtape.com/get_video?id=xyz&expires=1&ip=a&token=wrong</div>
<script>document.getElementById('robotlink').innerHTML = '//streamtape.com/get_video?id=xyz&expires=1&ip=a&token=' + ('xcdtok123').substring(1).substring(2);</script>`,
	})

	links, err := NewStreamTape(testClient(srv)).Extract(context.Background(), Request{URL: srv.URL + "/e/xyz"})
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "https://streamtape.com/get_video?id=xyz&expires=1&ip=a&token=tok123", links[0].URL)
	assert.Equal(t, models.LinkVideo, links[0].Kind)
}

func TestDoodStreamPassMD5(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/e/abc", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<script>$.get('/pass_md5/123-456/tok789', function(data){ dsplay(data) });</script>`)
	})
	mux.HandleFunc("/pass_md5/123-456/tok789", func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Referer"), "/e/abc")
		fmt.Fprint(w, srv.URL+"/cdn/file~")
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	e := NewDoodStream(testClient(srv))
	e.now = func() time.Time { return time.UnixMilli(1700000000000) }

	links, err := e.Extract(context.Background(), Request{URL: srv.URL + "/d/abc"})
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Regexp(t, `^`+srv.URL+`/cdn/file~[A-Za-z0-9]{10}\?token=tok789&expiry=1700000000000$`, links[0].URL)
	assert.Equal(t, srv.URL+"/", links[0].Referer)
	assert.Equal(t, srv.URL+"/", links[0].Headers["Referer"])

	casting, err := e.Extract(context.Background(), Request{URL: srv.URL + "/e/abc", Casting: true})
	require.NoError(t, err)
	assert.Empty(t, casting)
}

func TestMixDropPackedWurl(t *testing.T) {
	t.Parallel()

	srv := serve(t, map[string]string{"/e/abc": "<html>" + packedMixDrop + "</html>"})

	links, err := NewMixDrop(testClient(srv)).Extract(context.Background(), Request{URL: srv.URL + "/f/abc"})
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "https://cdn.example/video.mp4", links[0].URL)
}

func TestVoeFollowsRedirectAndDecodes(t *testing.T) {
	t.Parallel()

	encoded := base64.StdEncoding.EncodeToString([]byte("https://cdn.example/voe/master.m3u8"))
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/e/abc", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `<script>window.location.href = '%s/real/abc';</script>`, srv.URL)
	})
	mux.HandleFunc("/real/abc", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `<script>var sources = {'hls': '%s', 'mp4': 'https://cdn.example/voe/v.mp4'};</script>`, encoded)
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	links, err := NewVoe(testClient(srv)).Extract(context.Background(), Request{URL: srv.URL + "/e/abc"})
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "https://cdn.example/voe/master.m3u8", links[0].URL)
	assert.Equal(t, models.LinkHLS, links[0].Kind)
	assert.Equal(t, "https://cdn.example/voe/v.mp4", links[1].URL)
	assert.Equal(t, models.LinkVideo, links[1].Kind)
}

func TestFembedSources(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/source/good", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		fmt.Fprint(w, `{"success":true,"data":[{"file":"https://cdn.example/360.mp4","label":"360p","type":"mp4"},{"file":"https://cdn.example/720.mp4","label":"720p","type":"mp4"}]}`)
	})
	mux.HandleFunc("/api/source/gone", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"success":false,"data":"Video not found or has been removed"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	e := NewFembed(testClient(srv))
	links, err := e.Extract(context.Background(), Request{URL: srv.URL + "/v/good", Referer: "https://fajer.show/"})
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, models.Quality360, links[0].Quality)
	assert.Equal(t, models.Quality720, links[1].Quality)

	links, err = e.Extract(context.Background(), Request{URL: srv.URL + "/v/gone"})
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestStaticExtractors(t *testing.T) {
	t.Parallel()

	client := fetch.New(fetch.Options{Name: "extractors"})

	links, err := NewPixelDrain(client).Extract(context.Background(), Request{URL: "https://pixeldrain.com/u/AbC123xy"})
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "https://pixeldrain.com/api/file/AbC123xy", links[0].URL)

	links, err = NewMoshahda(client).Extract(context.Background(), Request{URL: "https://moshahda.net/embed-q1w2e3.html"})
	require.NoError(t, err)
	require.Len(t, links, 5)
	assert.Equal(t, "https://moshahda.net/q1w2e3.html?download_o", links[4].URL)
	assert.Equal(t, models.Quality1080, links[4].Quality)
}

func TestGenericMismatchIsSilent(t *testing.T) {
	t.Parallel()

	srv := serve(t, map[string]string{"/player": `<html><body>no video here</body></html>`})

	links, err := NewGeneric(testClient(srv)).Extract(context.Background(), Request{URL: srv.URL + "/player"})
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestExtractorFetchFailureIsReported(t *testing.T) {
	t.Parallel()

	srv := serve(t, map[string]string{})

	_, err := NewGeneric(testClient(srv)).Extract(context.Background(), Request{URL: srv.URL + "/missing"})
	assert.ErrorIs(t, err, fetch.ErrEmpty)
}
