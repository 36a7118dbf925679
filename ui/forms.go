package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/hsbacot/mercat/client"
)

// ItemLabel is the one-line description used in selection menus
func ItemLabel(item client.Item) string {
	label := item.Name
	if item.Category != "" {
		label = fmt.Sprintf("%s - %s", item.Name, item.Category)
	}
	return fmt.Sprintf("#%d %s", item.ID, label)
}

// ItemOptions builds huh options keyed by item id
func ItemOptions(items []client.Item) []huh.Option[int] {
	options := make([]huh.Option[int], len(items))
	for i, item := range items {
		options[i] = huh.NewOption(ItemLabel(item), item.ID)
	}
	return options
}

// SelectItem presents an interactive selection menu for choosing an item
func SelectItem(title string, items []client.Item) (*client.Item, error) {
	if len(items) == 0 {
		return nil, errors.New("no items to select from")
	}

	var selected int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title(title).
				Options(ItemOptions(items)...).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].ID == selected {
			return &items[i], nil
		}
	}

	return nil, errors.New("selection not found")
}

// ItemFormValues backs the new listing form
type ItemFormValues struct {
	Name      string
	Category  string
	ImagePath string
}

// NewItemForm returns a form that fills v. Fields already set are kept as
// defaults. Nothing is validated here; the server decides.
func NewItemForm(v *ItemFormValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&v.Name),
			huh.NewInput().
				Title("Category").
				Value(&v.Category),
			huh.NewFilePicker().
				Title("Image").
				Value(&v.ImagePath),
		),
	)
}

// PromptItem runs NewItemForm in the terminal
func PromptItem(v *ItemFormValues) error {
	return NewItemForm(v).Run()
}

// ConfirmDelete asks before removing an item
func ConfirmDelete(item client.Item) (bool, error) {
	confirmed := false
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s?", ItemLabel(item))).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirmed),
		),
	).Run()
	return confirmed, err
}
