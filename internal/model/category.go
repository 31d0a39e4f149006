package model

// Category groups items and carries the glyph shown on the grid.
type Category struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
	ID    int    `json:"id"`
}

// CategoryDraft is the payload for creating a category.
type CategoryDraft struct {
	Name  string `json:"name" validate:"required,min=1,max=60"`
	Icon  string `json:"icon" validate:"required"`
	Color string `json:"color" validate:"required,hexcolor"`
}
