package models

// ToView copies a playlist into its transfer shape.
func ToView(p *Playlist) PlaylistView {
	if p == nil {
		return PlaylistView{Movies: []string{}}
	}
	movies := make([]string, len(p.Movies))
	copy(movies, p.Movies)
	return PlaylistView{
		ID:     p.ID,
		Name:   p.Name,
		Movies: movies,
	}
}

// ToViews maps every playlist, always returning a non-nil slice.
func ToViews(playlists []*Playlist) []PlaylistView {
	views := make([]PlaylistView, 0, len(playlists))
	for _, p := range playlists {
		views = append(views, ToView(p))
	}
	return views
}
