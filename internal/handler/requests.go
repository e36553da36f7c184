package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// validate checks the struct tags on request body types. It is safe for
// concurrent use and caches struct metadata, so a single instance serves
// all handlers.
var validate = validator.New()

// Request body types for endpoints whose input is not a domain object.
// Validation tags reject structurally bad input at the edge; business rules
// stay in the service layer.

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type selectYachtRequest struct {
	YachtID uuid.UUID `json:"yacht_id" validate:"required"`
}

type confirmRequest struct {
	Guests int `json:"guests" validate:"required,min=1"`
}

type setRateRequest struct {
	EurCzkRate float64 `json:"eur_czk_rate" validate:"required,gt=0"`
}

type enrichRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// decodeValid decodes the JSON body into dst and runs tag validation.
// On failure it writes a 422 and reports false.
func decodeValid(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(r, dst); err != nil {
		requestError(w, "invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			requestError(w, "invalid field "+errs[0].Field())
			return false
		}
		requestError(w, "invalid request body")
		return false
	}
	return true
}
