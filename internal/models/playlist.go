package models

// Playlist captures a named list of movie titles.
//
// Field constraints (name of at least 3 characters, at least one movie) are
// checked when a request is decoded, not here: update payloads only carry the
// movies to add.
type Playlist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Movies []string `json:"movies"`
}

// PlaylistView is the public projection of a Playlist returned by read endpoints.
type PlaylistView struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Movies []string `json:"movies"`
}
