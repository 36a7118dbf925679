package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hsbacot/mercat/client"
)

// itemJSON is the --json shape of an item, with its image URL resolved
type itemJSON struct {
	client.Item
	ImageURL string `json:"image_url"`
}

// printItems writes one line per item
func printItems(w io.Writer, items []client.Item, imageURL func(string) string) {
	for _, item := range items {
		category := item.Category
		if category == "" {
			category = "-"
		}
		fmt.Fprintf(w, "%4d  %-30s %-20s %s\n", item.ID, item.Name, category, imageURL(item.ImageName))
	}
}

// printItemsJSON writes items as an indented JSON array
func printItemsJSON(w io.Writer, items []client.Item, imageURL func(string) string) error {
	out := make([]itemJSON, len(items))
	for i, item := range items {
		out[i] = itemJSON{Item: item, ImageURL: imageURL(item.ImageName)}
	}
	return printJSON(w, out)
}

// printHeader prints a styled header
func printHeader(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("━", len([]rune(title))))
}

// printJSON marshals data to JSON and prints it
func printJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
