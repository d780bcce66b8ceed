package extractor

import "github.com/arabstream/arabstream/internal/fetch"

// NewDefaultRegistry registers every bundled host extractor with the generic
// strategy chain as fallback.
func NewDefaultRegistry(client *fetch.Client) *Registry {
	r := NewRegistry()
	r.Register(NewVidmoly(client))
	r.Register(NewStreamTape(client))
	r.Register(NewDoodStream(client))
	r.Register(NewMixDrop(client))
	r.Register(NewVoe(client))
	r.Register(NewFileMoon(client))
	r.Register(NewPixelDrain(client))
	r.Register(NewFembed(client))
	r.Register(NewMoshahda(client))
	r.Register(NewGovad(client))
	r.Register(NewJWPlayer("Vidbom", client, "vidbom", "vidbam", "vadbam"))
	r.Register(NewJWPlayer("Vidshar", client, "vidshar", "viidshar"))
	r.Register(NewJWPlayer("VidHD", client, "vidhd"))
	r.Register(NewJWPlayer("GoStream", client, "gostream"))
	r.Register(NewJWPlayer("JWPlayer", client, "jwplayer"))
	r.Register(NewVidGuard(client))
	r.Register(NewMyVid(client))
	r.Register(NewFaselHD(client))
	r.Register(NewLinkBox(client))
	r.Register(NewFichier(client))
	r.Register(NewAflamy(client))
	r.Register(NewFileHost("Uptobox", client, "uptobox", "uptostream"))
	r.Register(NewFileHost("MediaFire", client, "mediafire"))
	r.Register(NewFileHost("KrakenFiles", client, "krakenfiles"))
	r.Register(NewFileHost("BayFiles", client, "bayfiles"))
	r.Register(NewFileHost("Zippyshare", client, "zippyshare"))
	r.Register(NewFileHost("MegaUp", client, "megaup"))
	r.SetFallback(NewGeneric(client))
	return r
}
