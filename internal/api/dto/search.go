package dto

type SuggestionResponse struct {
	RefID   string `json:"ref_id"`
	Display string `json:"display"`
	Address string `json:"address,omitempty"`
}

type AutocompleteResponse struct {
	Text        string               `json:"text"`
	Suggestions []SuggestionResponse `json:"suggestions"`
}

type SelectSuggestionRequest struct {
	RefID   string `json:"ref_id"`
	Display string `json:"display"`
}

// SearchInput is a client frame on the search websocket.
type SearchInput struct {
	Text string `json:"text"`
}

// SearchFrame is a server frame on the search websocket. Type is
// "suggestions" or "error".
type SearchFrame struct {
	Type        string               `json:"type"`
	Text        string               `json:"text"`
	Suggestions []SuggestionResponse `json:"suggestions,omitempty"`
	Error       string               `json:"error,omitempty"`
}
