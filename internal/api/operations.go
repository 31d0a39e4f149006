package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/larder-dev/larder/internal/model"
)

// ListItems fetches the full item list.
func (c *Client) ListItems(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := c.do(ctx, http.MethodGet, "/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListCategories fetches all categories.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ShoppingList fetches the server-computed shopping list.
func (c *Client) ShoppingList(ctx context.Context) ([]model.ShoppingListEntry, error) {
	var entries []model.ShoppingListEntry
	if err := c.do(ctx, http.MethodGet, "/shopping-list", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Prediction fetches the purchase forecast for one item.
func (c *Client) Prediction(ctx context.Context, itemID int) (*model.Prediction, error) {
	var p model.Prediction
	path := fmt.Sprintf("/items/%d/purchase-prediction", itemID)
	if err := c.do(ctx, http.MethodGet, path, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateItem creates an item and returns the server's record.
func (c *Client) CreateItem(ctx context.Context, draft model.ItemDraft) (*model.Item, error) {
	var item model.Item
	if err := c.do(ctx, http.MethodPost, "/items", draft, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem replaces an item's editable fields and returns the server's
// record.
func (c *Client) UpdateItem(ctx context.Context, id int, draft model.ItemDraft) (*model.Item, error) {
	var item model.Item
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/items/%d", id), draft, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// SetQuantity persists a quantity change only, the partial update the
// quantity-step path uses.
func (c *Client) SetQuantity(ctx context.Context, id int, quantity float64) (*model.Item, error) {
	var item model.Item
	patch := model.QuantityPatch{CurrentQuantity: quantity}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/items/%d", id), patch, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes an item.
func (c *Client) DeleteItem(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/items/%d", id), nil, nil)
}

// CreateCategory creates a category and returns the server's record.
func (c *Client) CreateCategory(ctx context.Context, draft model.CategoryDraft) (*model.Category, error) {
	var category model.Category
	if err := c.do(ctx, http.MethodPost, "/categories", draft, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile applies a partial profile update.
func (c *Client) UpdateProfile(ctx context.Context, patch model.ProfilePatch) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := c.do(ctx, http.MethodPut, "/users/me", patch, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// identifyRequest is the barcode identification payload.
type identifyRequest struct {
	ImageBase64 string `json:"image_base64"`
}

// IdentifyBarcode submits a captured frame for product identification.
func (c *Client) IdentifyBarcode(ctx context.Context, imageBase64 string) (*model.BarcodeResult, error) {
	var result model.BarcodeResult
	req := identifyRequest{ImageBase64: imageBase64}
	if err := c.do(ctx, http.MethodPost, "/barcode/identify", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
