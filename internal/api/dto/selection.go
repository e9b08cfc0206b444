package dto

import "trip-planner-service/internal/domain"

type NoticeResponse struct {
	Message  string          `json:"message"`
	Severity domain.Severity `json:"severity"`
}

type PlaceResponse struct {
	ID   string            `json:"id"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Name string            `json:"name"`
	Tags map[string]string `json:"tags"`
}

type SelectionResponse struct {
	Places  []PlaceResponse  `json:"places"`
	Notices []NoticeResponse `json:"notices"`
}

type AddPlaceRequest struct {
	Lat  *float64          `json:"lat"`
	Lon  *float64          `json:"lon"`
	Name string            `json:"name"`
	Tags map[string]string `json:"tags"`
}

type AddPlaceResponse struct {
	Place   PlaceResponse    `json:"place"`
	Added   bool             `json:"added"`
	Places  []PlaceResponse  `json:"places"`
	Notices []NoticeResponse `json:"notices"`
}

type ReorderRequest struct {
	IDs []string `json:"ids"`
}

type StartingLocationRequest struct {
	Lat  *float64 `json:"lat"`
	Lon  *float64 `json:"lon"`
	Name string   `json:"name"`
}

// ReplacePlaceRequest swaps a stop for a resolved autocomplete suggestion.
type ReplacePlaceRequest struct {
	RefID   string `json:"ref_id"`
	Display string `json:"display"`
}
