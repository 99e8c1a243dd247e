package handler

// AutocompleteResponse lists completions for a partially typed standards list.
type AutocompleteResponse struct {
	Suggestions []string `json:"suggestions"`
}
