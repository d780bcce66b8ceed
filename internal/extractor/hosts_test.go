package extractor

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arabstream/arabstream/internal/models"
)

func linkURLs(links []models.ExtractedLink) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.URL
	}
	return out
}

func TestFileHostDownloadButtons(t *testing.T) {
	t.Parallel()

	srv := serve(t, map[string]string{
		"/file/abc": `<html><body>
<a href="/about">About</a>
<a href="#top">Top</a>
<a id="downloadButton" href="https://download.example/f/abc/movie.mp4">Download (720p)</a>
<div class="btn" onclick="window.open('https://download.example/f/abc/movie.m3u8')">Stream</div>
<a class="download_link" href="javascript:void(0)">Wait</a>
</body></html>`,
	})

	links, err := NewFileHost("MediaFire", testClient(srv), "mediafire").Extract(context.Background(), Request{URL: srv.URL + "/file/abc"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"https://download.example/f/abc/movie.mp4",
		"https://download.example/f/abc/movie.m3u8",
	}, linkURLs(links))
	for _, l := range links {
		assert.Equal(t, "MediaFire", l.Source)
	}
}

func TestFileHostWithoutFileIsSilent(t *testing.T) {
	t.Parallel()

	srv := serve(t, map[string]string{"/file/gone": `<html><body><h1>File removed</h1><a href="/">Home</a></body></html>`})

	links, err := NewFileHost("KrakenFiles", testClient(srv), "krakenfiles").Extract(context.Background(), Request{URL: srv.URL + "/file/gone"})
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestVidGuardEncodedSource(t *testing.T) {
	t.Parallel()

	encoded := base64.StdEncoding.EncodeToString([]byte("https://cdn.example/vg/master.m3u8"))
	srv := serve(t, map[string]string{
		"/e/abc": `<script>var svg = {stream: "data:application/x-mpegurl;base64,` + encoded + `"};</script>`,
	})

	links, err := NewVidGuard(testClient(srv)).Extract(context.Background(), Request{URL: srv.URL + "/e/abc"})
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "https://cdn.example/vg/master.m3u8", links[0].URL)
	assert.Equal(t, models.LinkHLS, links[0].Kind)
}

func TestFaselHDJoinedPlaylist(t *testing.T) {
	t.Parallel()

	srv := serve(t, map[string]string{
		"/video_player": `<script>var hls = 'https://s1.scdns.io/stream/' + 'abc/1080p/' + "index.m3u8";</script>
<button class="hd_btn" data-url="https://s1.scdns.io/stream/abc/720p/index.m3u8">720p</button>`,
	})

	links, err := NewFaselHD(testClient(srv)).Extract(context.Background(), Request{URL: srv.URL + "/video_player?player_token=x"})
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "https://s1.scdns.io/stream/abc/1080p/index.m3u8", links[0].URL)
	assert.Equal(t, models.Quality1080, links[0].Quality)
	assert.Equal(t, models.LinkHLS, links[0].Kind)
	assert.Equal(t, models.Quality720, links[1].Quality)
}

func TestLinkBoxResolutions(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/file/detail", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc123", r.URL.Query().Get("itemId"))
		fmt.Fprint(w, `{"data":{"itemInfo":{"resolutionList":[
{"resolution":"720p","size":1073741824,"url":"https://cdn.example/lb/720.mp4"},
{"resolution":"480p","size":0,"url":""},
{"resolution":"360p","size":524288,"url":"https://cdn.example/lb/360.mp4"}]}}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	links, err := NewLinkBox(testClient(srv)).Extract(context.Background(), Request{URL: srv.URL + "/file/abc123"})
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "https://cdn.example/lb/720.mp4", links[0].URL)
	assert.Equal(t, models.Quality720, links[0].Quality)
	assert.Equal(t, "LinkBox 720p (1.0 GiB)", links[0].Name)
	assert.Equal(t, "LinkBox 360p (512 KiB)", links[1].Name)

	links, err = NewLinkBox(testClient(srv)).Extract(context.Background(), Request{URL: srv.URL + "/share/abc123"})
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestFichierSubmitsDownloadForm(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			assert.Equal(t, "tok", r.FormValue("adz"))
			assert.Equal(t, "download", r.FormValue("submit"))
			fmt.Fprint(w, `<a class="ok btn-general btn-orange" href="https://a-1.1fichier.com/c123/movie.mp4">Click here to download</a>`)
			return
		}
		fmt.Fprint(w, `<form method="post" action="/?abc"><input type="hidden" name="adz" value="tok"><input type="submit" value="Download"></form>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	links, err := NewFichier(testClient(srv)).Extract(context.Background(), Request{URL: srv.URL + "/?abc"})
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "https://a-1.1fichier.com/c123/movie.mp4", links[0].URL)
	assert.Equal(t, "1Fichier", links[0].Source)
}

func TestAflamyFollowsServersAndPlayers(t *testing.T) {
	t.Parallel()

	srv := serve(t, map[string]string{
		"/watch/abc": `<a class="aplr-link" href="/server/1">S1</a><a class="aplr-link" href="/server/2">S2</a><a class="aplr-link" href="/server/1">dup</a>`,
		"/server/1":  `<script>player({file: "https://cdn.example/af/720/video.mp4", tracks: [{file: "https://cdn.example/af/ar.vtt"}]});</script>`,
		"/server/2":  `<iframe src="/embed/x"></iframe><iframe src="https://ads.example/banner"></iframe>`,
		"/embed/x":   `<script>var cfg = {hls: "https://cdn.example/af/master.m3u8"};</script>`,
	})

	links, err := NewAflamy(testClient(srv)).Extract(context.Background(), Request{URL: srv.URL + "/watch/abc"})
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "https://cdn.example/af/master.m3u8", links[0].URL)
	assert.Equal(t, models.LinkHLS, links[0].Kind)
	assert.Equal(t, "https://cdn.example/af/720/video.mp4", links[1].URL)
	assert.Equal(t, models.Quality720, links[1].Quality)
}
