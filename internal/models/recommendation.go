package models

// ScoredMedia pairs a catalog item with its recommendation score.
// Slices of ScoredMedia are ordered most to least relevant.
type ScoredMedia struct {
	Media
	Score float64 `json:"-"`
}

// GenreProfile summarizes the genres a user has shown interest in,
// weighted by how often they appear across liked, watched and
// highly-rated media.
type GenreProfile map[string]float64
