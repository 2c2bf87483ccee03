package models

// Media represents one catalog item. Rating and running time are
// serialized as strings on the wire, matching the frontend contract.
type Media struct {
	Name        string `json:"name"`
	MediaType   string `json:"mediaType"`
	Year        int    `json:"year"`
	Link        string `json:"link"`
	Genres      string `json:"genres"`
	Rating      string `json:"rating"`
	RunningTime string `json:"running_time"`
	Summary     string `json:"summary"`
	Certificate string `json:"certificate"`
	ID          string `json:"id"`
}

// MediaPage is the paginated catalog response.
type MediaPage struct {
	Movies []Media `json:"movies"`
	Count  int     `json:"count"`
}

// SearchRequest is the request body for simple search.
type SearchRequest struct {
	SearchContents string `json:"searchContents"`
	Limit          *int   `json:"limit"`
	Offset         *int   `json:"offset"`
}

// AdvancedSearchRequest is the request body for filtered search.
// Nil filters leave the result unconstrained.
type AdvancedSearchRequest struct {
	Name      *string  `json:"name"`
	MediaType *string  `json:"mediaType"`
	Genre     *string  `json:"genre"`
	MinYear   *int     `json:"minYear"`
	MaxYear   *int     `json:"maxYear"`
	MinRate   *float64 `json:"minRate"`
	MaxRate   *float64 `json:"maxRate"`
	Limit     *int     `json:"limit"`
	Offset    *int     `json:"offset"`
}
