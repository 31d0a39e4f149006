package model

// UserProfile is the authenticated user's remote profile. Client State owns
// the session copy; nothing else mutates it directly.
type UserProfile struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Theme       string `json:"theme_preference,omitempty"`
	Language    string `json:"language_preference,omitempty"`
	ID          int    `json:"id"`
}

// ProfilePatch is a partial profile update. Nil fields are left untouched
// by the backend.
type ProfilePatch struct {
	DisplayName *string `json:"display_name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Theme       *string `json:"theme_preference,omitempty"`
	Language    *string `json:"language_preference,omitempty"`
	Password    *string `json:"password,omitempty"`
}

// BarcodeResult is the outcome of a barcode identification request.
type BarcodeResult struct {
	ProductName       string `json:"product_name,omitempty"`
	SuggestedCategory string `json:"suggested_category,omitempty"`
	SuggestedUnit     string `json:"suggested_unit,omitempty"`
	Barcode           string `json:"barcode,omitempty"`
	Error             string `json:"error,omitempty"`
	Success           bool   `json:"success"`
}
