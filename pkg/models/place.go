package models

// PlaceCandidate is a geocoded suggestion from the place search. It is
// ephemeral: consumed once to populate a trip endpoint, never persisted.
type PlaceCandidate struct {
	ID        string  `json:"id"`
	PlaceName string  `json:"place_name"`
	Text      string  `json:"text,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ToPlace binds a candidate to a trip endpoint.
func (c PlaceCandidate) ToPlace() Place {
	lat, lng := c.Latitude, c.Longitude
	placeName := c.PlaceName
	id := c.ID
	return Place{
		Label:     &placeName,
		PlaceName: &placeName,
		Lat:       &lat,
		Lng:       &lng,
		PlaceID:   &id,
	}
}

// PlaceSearchResponse is the GET /api/places/search payload.
type PlaceSearchResponse struct {
	Features []PlaceCandidate `json:"features"`
}
