package playback

import (
	"strings"

	"github.com/cybre/neon-skyline/internal/scene"
)

// Preset builds the scene configuration of a song from its audio URL.
type Preset func(audioURL string) scene.Config

// Song is one catalogue entry.
type Song struct {
	Title  string
	URL    string
	Preset Preset
}

// Config returns the scene configuration of the song.
func (s Song) Config() scene.Config {
	p := s.Preset
	if p == nil {
		p = scene.Skyline
	}
	cfg := p(s.URL)
	cfg.Name = s.Title
	return cfg
}

// DefaultCatalogue lists the bundled tracks.
func DefaultCatalogue() []Song {
	titles := []string{
		"Up",
		"Dirty",
		"Sun Goes Down",
		"Bring it",
		"War",
		"Legend",
		"My Time",
		"No Restarts",
		"Can't Change",
		"Burton x8",
		"Turret",
		"Next Gear",
		"Evolution v3",
		"Nitrous",
	}
	songs := make([]Song, len(titles))
	for i, title := range titles {
		songs[i] = Song{Title: title, URL: songURL(title), Preset: PresetFor(title)}
	}
	return songs
}

// PresetFor picks the scene preset a title is played with.
func PresetFor(title string) Preset {
	switch title {
	case "Dirty":
		return scene.Lasers
	case "Evolution v3":
		return scene.Evolution
	case "Nitrous":
		return scene.Nitrous
	default:
		return scene.Skyline
	}
}

func songURL(title string) string {
	return "songs/" + strings.ToLower(strings.NewReplacer(" ", "-", "'", "").Replace(title)) + ".mp3"
}

// find returns the catalogue index of title, case-insensitively.
func find(songs []Song, title string) int {
	for i, s := range songs {
		if strings.EqualFold(s.Title, title) {
			return i
		}
	}
	return -1
}
