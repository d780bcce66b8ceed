package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arabstream/arabstream/internal/models"
)

func TestRunChainOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		page     string
		strategy string
		url      string
	}{
		{
			name:     "sources array wins over later strategies",
			page:     `<script>jwplayer().setup({sources: [{file:"https://cdn.example/hls/master.m3u8",label:"720p"}]}); var x = "https://cdn.example/other.mp4";</script>`,
			strategy: "sources-array",
			url:      "https://cdn.example/hls/master.m3u8",
		},
		{
			name:     "file key",
			page:     `<script>player.load({file: "https://cdn.example/movie.mp4", image: "p.jpg"})</script>`,
			strategy: "file-key",
			url:      "https://cdn.example/movie.mp4",
		},
		{
			name:     "hls object",
			page:     `<script>var cfg = {"hls2": "https://cdn.example/a/index.m3u8"};</script>`,
			strategy: "hls-object",
			url:      "https://cdn.example/a/index.m3u8",
		},
		{
			name:     "video tag",
			page:     `<video controls><source src="https://cdn.example/v/480.mp4" label="480p" type="video/mp4"></video>`,
			strategy: "video-tag",
			url:      "https://cdn.example/v/480.mp4",
		},
		{
			name:     "packed js",
			page:     packedMixDrop + `<script>eval(function(p,a,c,k,e,d){return p}('0:"1://2.3/4.5"',6,6,'file|https|cdn|example|video|mp4'.split('|'),0,{}))</script>`,
			strategy: "packed-js",
			url:      "https://cdn.example/video.mp4",
		},
		{
			name:     "bare m3u8",
			page:     `<script>load("https:\/\/cdn.example\/live\/stream.m3u8?t=1")</script>`,
			strategy: "m3u8-url",
			url:      "https://cdn.example/live/stream.m3u8?t=1",
		},
		{
			name:     "bare mp4",
			page:     `<a data-x='//cdn.example/x.mp4'>`,
			strategy: "mp4-url",
			url:      "//cdn.example/x.mp4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			strategy, found := RunChain(DefaultChain(), tt.page)
			require.NotEmpty(t, found)
			assert.Equal(t, tt.strategy, strategy)
			assert.Equal(t, tt.url, found[0].URL)
		})
	}
}

func TestRunChainNothingFound(t *testing.T) {
	t.Parallel()

	strategy, found := RunChain(DefaultChain(), `<html><body>file not found</body></html>`)
	assert.Empty(t, strategy)
	assert.Empty(t, found)
}

func TestSourcesArrayLabelsAndTypes(t *testing.T) {
	t.Parallel()

	page := `sources: [{file:"https://c.example/360.mp4",label:"360p"},{file:"https://c.example/m.m3u8",type:"hls"},{file:"https://c.example/360.mp4",label:"360p"}]`
	_, found := RunChain(DefaultChain(), page)
	require.Len(t, found, 2)
	assert.Equal(t, "360p", found[0].Label)
	assert.Equal(t, models.LinkHLS, found[1].Kind)
}

func TestToLinksResolvesAndGrades(t *testing.T) {
	t.Parallel()

	links := toLinks("Vidbom", "https://vidbom.example/embed-1.html", []Candidate{
		{URL: "//cdn.example/v_720.mp4"},
		{URL: "/hls/master.m3u8", Label: "1080p"},
	})
	require.Len(t, links, 2)

	assert.Equal(t, "https://cdn.example/v_720.mp4", links[0].URL)
	assert.Equal(t, models.Quality720, links[0].Quality)
	assert.Equal(t, models.LinkVideo, links[0].Kind)
	assert.Equal(t, "Vidbom 720p", links[0].Name)

	assert.Equal(t, "https://vidbom.example/hls/master.m3u8", links[1].URL)
	assert.Equal(t, models.LinkHLS, links[1].Kind)
	assert.Equal(t, models.Quality1080, links[1].Quality)
	assert.Equal(t, "https://vidbom.example/", links[1].Referer)
}

func TestFindEncodedURLs(t *testing.T) {
	t.Parallel()

	b64 := "aHR0cHM6Ly9jZG4uZXhhbXBsZS9hL2luZGV4Lm0zdTg=" // https://cdn.example/a/index.m3u8
	page := `var a = "data:text/plain;base64,` + b64 + `"; var b = "https%3A%2F%2Fcdn.example%2Fb.mp4&x=1"; var c = "base64,bm90IGEgdXJsIGF0IGFsbCEh";`

	found := findEncodedURLs(page)
	require.Len(t, found, 2)
	assert.Equal(t, "https://cdn.example/a/index.m3u8", found[0].URL)
	assert.Equal(t, "https://cdn.example/b.mp4", found[1].URL)
}

func TestHostStrategiesStayOutOfDefaultChain(t *testing.T) {
	t.Parallel()

	for _, s := range DefaultChain() {
		assert.NotContains(t, []string{"download-anchor", "encoded-url", "joined-m3u8"}, s.Name)
	}
	assert.Len(t, pick("download-anchor", "m3u8-url", "nope"), 2)
}
