package domain

// VideoSiteYouTube is the only hosting site recognized for embedding.
const VideoSiteYouTube = "YouTube"

// CategoryOrder is the fixed tab priority order for grouped videos. The first
// category present is the default-selected tab.
var CategoryOrder = []string{
	"Trailer",
	"Clip",
	"Interview",
	"Featurette",
	"Behind the Scenes",
	"Bloopers",
	"Teaser",
}

var allowedCategories = map[string]struct{}{
	"Trailer":           {},
	"Teaser":            {},
	"Clip":              {},
	"Featurette":        {},
	"Behind the Scenes": {},
	"Bloopers":          {},
	"Interview":         {},
}

// Video is a single clip entry from the secondary provider. Ephemeral,
// grouped by category for tabbed display.
type Video struct {
	Site string `json:"site"`
	Type string `json:"type"`
	Key  string `json:"key"`
}

// AllowedCategory reports whether category is in the fixed seven-value
// allow-list.
func AllowedCategory(category string) bool {
	_, ok := allowedCategories[category]
	return ok
}

// GroupVideos buckets videos by category, keeping only YouTube-hosted entries
// whose category is allow-listed. Everything else from upstream is dropped.
func GroupVideos(videos []Video) map[string][]Video {
	groups := make(map[string][]Video)
	for _, v := range videos {
		if v.Site != VideoSiteYouTube || !AllowedCategory(v.Type) {
			continue
		}
		groups[v.Type] = append(groups[v.Type], v)
	}
	return groups
}

// OrderedCategories returns the categories present in groups, in tab priority
// order. An empty result means the whole video region stays hidden.
func OrderedCategories(groups map[string][]Video) []string {
	categories := make([]string, 0, len(groups))
	for _, c := range CategoryOrder {
		if len(groups[c]) > 0 {
			categories = append(categories, c)
		}
	}
	return categories
}
