package catalog

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/hsbacot/mercat/client"
)

// Catalog is the backend surface the controller needs
type Catalog interface {
	ListCatalog(ctx context.Context) (client.Snapshot, error)
	SearchCatalog(ctx context.Context, keyword string) (client.Snapshot, error)
	RemoveItem(ctx context.Context, id int) (*client.RemoveResponse, error)
}

// Controller runs the reload, search and delete triggers against a Store.
// A failed trigger is logged and leaves the store exactly as it was.
//
// Each trigger is split into the network call and an Apply step, so an event
// loop can do the I/O elsewhere and commit the result on its own goroutine.
type Controller struct {
	catalog Catalog
	store   *Store
	logger  *log.Logger
}

// NewController wires a backend to a store. A nil logger uses log.Default().
func NewController(c Catalog, store *Store, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{catalog: c, store: store, logger: logger}
}

// Store returns the store this controller commits into
func (c *Controller) Store() *Store {
	return c.store
}

// Reload refetches the full catalog, replaces items and clears search
// results. onLoadCompleted runs only on success.
func (c *Controller) Reload(ctx context.Context, onLoadCompleted func()) error {
	if err := c.ApplyReload(c.catalog.ListCatalog(ctx)); err != nil {
		return err
	}
	if onLoadCompleted != nil {
		onLoadCompleted()
	}
	return nil
}

// ApplyReload commits the outcome of a catalog load
func (c *Controller) ApplyReload(snapshot client.Snapshot, err error) error {
	if err != nil {
		c.logger.Error("GET error", "op", "reload", "error", err)
		return err
	}
	c.logger.Debug("GET success", "op", "reload", "items", len(snapshot))
	c.store.ReplaceCatalog(snapshot)
	return nil
}

// Search runs a keyword search and replaces the search results. The keyword
// is sent as given, including when empty. onCompleted runs only on success.
func (c *Controller) Search(ctx context.Context, keyword string, onCompleted func()) error {
	snapshot, err := c.catalog.SearchCatalog(ctx, keyword)
	if err := c.ApplySearch(keyword, snapshot, err); err != nil {
		return err
	}
	if onCompleted != nil {
		onCompleted()
	}
	return nil
}

// ApplySearch commits the outcome of a search
func (c *Controller) ApplySearch(keyword string, snapshot client.Snapshot, err error) error {
	if err != nil {
		c.logger.Error("GET error", "op", "search", "keyword", keyword, "error", err)
		return err
	}
	c.logger.Debug("GET success", "op", "search", "keyword", keyword, "items", len(snapshot))
	c.store.SetSearchResults(client.SearchQuery{Name: keyword}, snapshot)
	return nil
}

// Delete asks the backend to remove an item and, once it confirms, drops the
// item from the full catalog. Search results are not touched.
func (c *Controller) Delete(ctx context.Context, id int) error {
	resp, err := c.catalog.RemoveItem(ctx, id)
	return c.ApplyDelete(id, resp, err)
}

// ApplyDelete commits the outcome of a delete. A non-ok response is logged
// and returned as a *client.DeleteError.
func (c *Controller) ApplyDelete(id int, resp *client.RemoveResponse, err error) error {
	if err == nil && resp == nil {
		err = errors.New("delete returned no response")
	}
	if err == nil {
		err = resp.Err()
	}
	if err != nil {
		c.logger.Error("DELETE error", "id", id, "error", err)
		return err
	}
	c.store.RemoveItem(id)
	c.logger.Debug("DELETE success", "id", id)
	return nil
}
