package client

import (
	"io"
	"os"
	"path/filepath"
)

// Item is a listing as the UI shows it. Category is always a display name.
type Item struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	ImageName string `json:"image_name"`
}

// Snapshot is an ordered set of items in server response order
type Snapshot []Item

// Category is only used to resolve category ids while listing
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// itemRecord is an item as served by GET /items
type itemRecord struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	CategoryID int    `json:"category_id"`
	ImageName  string `json:"image_name"`
}

type itemsResponse struct {
	Items []itemRecord `json:"items"`
}

type categoriesResponse struct {
	Categories []Category `json:"categories"`
}

// SearchResponse represents the API response from the search endpoint
type SearchResponse struct {
	Items []Item `json:"items"`
}

// SearchQuery is a free-text keyword search
type SearchQuery struct {
	Name string
}

// Image is the file part of a new listing
type Image struct {
	Filename string
	Reader   io.Reader
}

// ImageFromPath opens path for upload. The caller closes the returned file.
func ImageFromPath(path string) (Image, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return Image{}, nil, err
	}
	return Image{Filename: filepath.Base(path), Reader: f}, f, nil
}

// CreateItemInput is the form submitted to POST /items
type CreateItemInput struct {
	Name     string
	Category string
	Image    Image
}

// ServerAck is the acknowledgment returned after creating an item
type ServerAck struct {
	Message string `json:"message"`
}

// RemoveResponse is the raw outcome of a delete. The body is not read.
type RemoveResponse struct {
	ID         int
	StatusCode int
	OK         bool
}

// Err returns a *DeleteError when the server did not confirm the delete
func (r *RemoveResponse) Err() error {
	if r.OK {
		return nil
	}
	return &DeleteError{ID: r.ID, StatusCode: r.StatusCode}
}
