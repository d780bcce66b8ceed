package scraper

// BundledSites returns the built-in sites in the order they are registered
func BundledSites() []Site {
	return []Site{
		EgyDead(),
		CimaLeek(),
		TopCinema(),
		Fushaar(),
		ArabSeed(),
		Anime4up(),
		WitAnime(),
		Cima4U(),
		FajerShow(),
		MyCima(),
		FaselHD(),
		CimaNow(),
		EgyBest(),
		Shahid4u(),
		RistoAnime(),
		MovizLands(),
		CimaClub(),
		AnimeBlkom(),
		Tuk(),
		Cima4uActor(),
	}
}
