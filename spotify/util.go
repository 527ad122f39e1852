package spotify

import (
	spot "github.com/zmb3/spotify/v2"
)

// ArtistNames returns the artist names in credit order.
func ArtistNames(artists []spot.SimpleArtist) []string {
	names := make([]string, len(artists))
	for i, a := range artists {
		names[i] = a.Name
	}
	return names
}

// GetCover returns the 300x300 album image, or the first (largest) one when
// Spotify did not send that size.
func GetCover(a spot.SimpleAlbum) string {
	for _, img := range a.Images {
		if img.Height == 300 && img.Width == 300 {
			return img.URL
		}
	}
	if len(a.Images) > 0 {
		return a.Images[0].URL
	}
	return ""
}
