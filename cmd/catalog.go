package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/hsbacot/mercat/client"
	"github.com/hsbacot/mercat/tui"
	"github.com/hsbacot/mercat/ui"
	"github.com/spf13/cobra"
)

func newBrowseCmd(opts *globalOptions) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive catalog browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, opts, logFile)
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the browser runs")
	return cmd
}

func runBrowse(cmd *cobra.Command, opts *globalOptions, logFile string) error {
	// the terminal belongs to the TUI, so logs are dropped unless a file is given
	var logOut io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}

	a, err := newApp(opts, logOut)
	if err != nil {
		return err
	}

	model := tui.NewModel(tui.Options{
		Backend: a.client,
		Logger:  a.logger,
		Store:   a.controller.Store(),
		Context: cmd.Context(),
	})

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}
	if m, ok := final.(tui.Model); ok && m.Err() != nil {
		a.logger.Debug("Browser closed with error", "error", m.Err())
	}
	return nil
}

func newListCmd(opts *globalOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every item with its category name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if err := a.controller.Reload(cmd.Context(), nil); err != nil {
				return err
			}
			items := a.controller.Store().Rendered().Items

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printItemsJSON(out, items, a.client.ImageURL)
			}
			printHeader(out, fmt.Sprintf("Catalog (%d items)", len(items)))
			printItems(out, items, a.client.ImageURL)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}

func newSearchCmd(opts *globalOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search [keyword]",
		Short: "Search items by keyword",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			// an absent keyword is searched as the empty string
			keyword := ""
			if len(args) == 1 {
				keyword = args[0]
			}

			if err := a.controller.Search(cmd.Context(), keyword, nil); err != nil {
				return err
			}
			results := a.controller.Store().SearchResults()

			out := cmd.OutOrStdout()
			if jsonOutput {
				if results == nil {
					results = []client.Item{}
				}
				return printItemsJSON(out, results, a.client.ImageURL)
			}
			if len(results) == 0 {
				a.logger.Warn("No items found", "keyword", keyword)
				return nil
			}
			printHeader(out, fmt.Sprintf("Search %q (%d results)", keyword, len(results)))
			printItems(out, results, a.client.ImageURL)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}

func newAddCmd(opts *globalOptions) *cobra.Command {
	var (
		values      ui.ItemFormValues
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Submit a new listing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if needsPrompt(values, interactive) {
				if err := ui.PromptItem(&values); err != nil {
					return err
				}
			}

			input := client.CreateItemInput{Name: values.Name, Category: values.Category}
			var size int64
			if values.ImagePath != "" {
				img, f, err := client.ImageFromPath(values.ImagePath)
				if err != nil {
					return fmt.Errorf("failed to open image: %w", err)
				}
				defer f.Close()
				if info, err := f.Stat(); err == nil {
					size = info.Size()
				}
				input.Image = img
			}

			a.logger.Info("Uploading listing", "name", input.Name, "image", input.Image.Filename, "size", humanize.Bytes(uint64(size)))
			ack, err := a.client.CreateItem(cmd.Context(), input)
			if err != nil {
				a.logger.Error("POST error", "error", err)
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ack.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&values.Name, "name", "", "item name")
	cmd.Flags().StringVar(&values.Category, "category", "", "category name")
	cmd.Flags().StringVar(&values.ImagePath, "image", "", "path to the item image")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "always fill in the listing with a form")
	return cmd
}

// needsPrompt reports whether add has to ask for the listing: when asked to,
// or when any field was left off the command line
func needsPrompt(values ui.ItemFormValues, interactive bool) bool {
	return interactive || values.Name == "" || values.Category == "" || values.ImagePath == ""
}

func newDeleteCmd(opts *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete an item",
		Long:  "Delete an item by id. Without an id the catalog is loaded and an item is picked from a menu.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			var target client.Item
			if len(args) == 1 {
				id, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid item id %q: %w", args[0], err)
				}
				target = client.Item{ID: id, Name: "item " + args[0]}
			} else {
				if err := a.controller.Reload(cmd.Context(), nil); err != nil {
					return err
				}
				selected, err := ui.SelectItem("Choose an item to delete:", a.controller.Store().Items())
				if err != nil {
					return err
				}
				target = *selected
			}

			if !force {
				ok, err := ui.ConfirmDelete(target)
				if err != nil {
					return err
				}
				if !ok {
					a.logger.Info("Delete cancelled", "id", target.ID)
					return nil
				}
			}

			if err := a.controller.Delete(cmd.Context(), target.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted item #%d\n", target.ID)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompts")
	return cmd
}
