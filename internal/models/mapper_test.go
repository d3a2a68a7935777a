package models

import (
	"reflect"
	"testing"
)

func TestToViewCopiesFields(t *testing.T) {
	p := &Playlist{ID: "abc", Name: "Drama", Movies: []string{"Inception", "Heat"}}

	view := ToView(p)

	if view.ID != "abc" || view.Name != "Drama" {
		t.Fatalf("unexpected view: %#v", view)
	}
	if !reflect.DeepEqual(view.Movies, []string{"Inception", "Heat"}) {
		t.Fatalf("unexpected movies: %#v", view.Movies)
	}

	p.Movies[0] = "changed"
	if view.Movies[0] != "Inception" {
		t.Fatalf("view aliases the entity movies slice")
	}
}

func TestToViewNilMovies(t *testing.T) {
	view := ToView(&Playlist{ID: "abc", Name: "Drama"})
	if view.Movies == nil || len(view.Movies) != 0 {
		t.Fatalf("expected empty movies slice, got %#v", view.Movies)
	}

	empty := ToView(nil)
	if empty.Movies == nil {
		t.Fatalf("expected non-nil movies for nil playlist")
	}
}

func TestToViews(t *testing.T) {
	if views := ToViews(nil); views == nil || len(views) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", views)
	}

	views := ToViews([]*Playlist{
		{ID: "1", Name: "Drama", Movies: []string{"Inception"}},
		{ID: "2", Name: "Comedy", Movies: []string{"Airplane!"}},
	})
	if len(views) != 2 || views[0].ID != "1" || views[1].Name != "Comedy" {
		t.Fatalf("unexpected views: %#v", views)
	}
}
