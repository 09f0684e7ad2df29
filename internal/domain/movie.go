package domain

// MovieSummary is a single entry of a primary-provider search result.
// Ephemeral: produced by search, never persisted. Any field may hold the
// literal string "N/A" meaning absent.
type MovieSummary struct {
	IMDbID string `json:"imdbID"`
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

// MovieDetail is the full-plot lookup payload. Fetched fresh on every detail
// view; never cached. Callers must tolerate missing fields, including a
// Response of "False" when the identifier is unknown upstream.
type MovieDetail struct {
	MovieSummary
	Plot     string `json:"Plot"`
	Genre    string `json:"Genre"`
	Runtime  string `json:"Runtime"`
	Rated    string `json:"Rated"`
	Director string `json:"Director"`
	Country  string `json:"Country"`
	Response string `json:"Response"`
}

// ExternalRef is the secondary provider's identifier for a movie, obtained by
// translating the primary identifier.
type ExternalRef struct {
	ID int `json:"id"`
}
