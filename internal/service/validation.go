package service

import (
	"strings"
	"unicode/utf8"

	"reelbox/internal/models"
)

const (
	minNameLength   = 3
	minMoviesLength = 1
)

// Validation messages returned in the 400 body.
const (
	MsgNameTooShort   = "The field name must be a string or array type with a minimum length of '3'."
	MsgMoviesTooShort = "The field movies must be a string or array type with a minimum length of '1'."
	MsgIDRequired     = "The id field is required."
)

// FieldError describes a single failed field constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidatePlaylist checks a create payload. An empty result means valid.
func ValidatePlaylist(playlist *models.Playlist) []FieldError {
	if playlist == nil {
		return []FieldError{
			{Field: "name", Message: MsgNameTooShort},
			{Field: "movies", Message: MsgMoviesTooShort},
		}
	}

	var errs []FieldError
	if utf8.RuneCountInString(playlist.Name) < minNameLength {
		errs = append(errs, FieldError{Field: "name", Message: MsgNameTooShort})
	}
	if len(playlist.Movies) < minMoviesLength {
		errs = append(errs, FieldError{Field: "movies", Message: MsgMoviesTooShort})
	}
	return errs
}

// ValidateUpdate checks an update payload, which must also carry the id.
func ValidateUpdate(playlist *models.Playlist) []FieldError {
	var errs []FieldError
	if playlist == nil || strings.TrimSpace(playlist.ID) == "" {
		errs = append(errs, FieldError{Field: "id", Message: MsgIDRequired})
	}
	return append(errs, ValidatePlaylist(playlist)...)
}
