package handler

import (
	"strconv"

	dErrors "tonetags/pkg/domain-errors"
)

// ExplainTextRequest explains tags typed directly by the user.
type ExplainTextRequest struct {
	Text      string `json:"text"`
	Ephemeral *bool  `json:"ephemeral,omitempty"`
}

// ExplainMessageRequest explains the content of an existing chat message.
type ExplainMessageRequest struct {
	Content   string `json:"content"`
	Ephemeral *bool  `json:"ephemeral,omitempty"`
}

// SetStandardsRequest carries a comma-separated list of standard ids.
type SetStandardsRequest struct {
	Standards *string `json:"standards"`
}

func (r *SetStandardsRequest) Validate() error {
	if r.Standards == nil {
		return dErrors.New(dErrors.CodeValidation, "standards is required")
	}
	return nil
}

func ephemeralOrDefault(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}

// queryBool parses an optional boolean query parameter.
func queryBool(raw string, fallback bool, name string) (bool, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, dErrors.New(dErrors.CodeInvalidInput, name+" must be a boolean")
	}
	return v, nil
}
