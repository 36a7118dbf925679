package catalog

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/hsbacot/mercat/client"
)

type fakeCatalog struct {
	list       client.Snapshot
	listErr    error
	search     map[string]client.Snapshot
	searchErr  error
	removeResp *client.RemoveResponse
	removeErr  error

	keywords []string
	removed  []int
}

func (f *fakeCatalog) ListCatalog(ctx context.Context) (client.Snapshot, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.list, nil
}

func (f *fakeCatalog) SearchCatalog(ctx context.Context, keyword string) (client.Snapshot, error) {
	f.keywords = append(f.keywords, keyword)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.search[keyword], nil
}

func (f *fakeCatalog) RemoveItem(ctx context.Context, id int) (*client.RemoveResponse, error) {
	f.removed = append(f.removed, id)
	if f.removeErr != nil {
		return nil, f.removeErr
	}
	if f.removeResp != nil {
		resp := *f.removeResp
		resp.ID = id
		return &resp, nil
	}
	return &client.RemoveResponse{ID: id, StatusCode: http.StatusOK, OK: true}, nil
}

func newTestController(f *fakeCatalog) *Controller {
	return NewController(f, NewStore(), log.New(io.Discard))
}

var (
	book = client.Item{ID: 1, Name: "Book", Category: "Fiction", ImageName: "a.jpg"}
	mug  = client.Item{ID: 2, Name: "Mug", Category: "Kitchen", ImageName: "b.jpg"}
	lamp = client.Item{ID: 3, Name: "Lamp", Category: "Interior", ImageName: "c.jpg"}
)

func equalItems(a, b []client.Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestReloadThenDelete(t *testing.T) {
	f := &fakeCatalog{list: client.Snapshot{book}}
	c := newTestController(f)

	completed := 0
	if err := c.Reload(context.Background(), func() { completed++ }); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if completed != 1 {
		t.Errorf("onLoadCompleted called %d times, want 1", completed)
	}
	if got := c.Store().Items(); !equalItems(got, []client.Item{book}) {
		t.Fatalf("Items() = %+v, want [%+v]", got, book)
	}

	c.Store().SetSearchResults(client.SearchQuery{Name: "book"}, []client.Item{book})

	if err := c.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got := c.Store().Items(); len(got) != 0 {
		t.Errorf("Items() after delete = %+v, want empty", got)
	}
	if got := c.Store().SearchResults(); !equalItems(got, []client.Item{book}) {
		t.Errorf("SearchResults() after delete = %+v, want untouched", got)
	}
}

func TestReloadClearsSearchResults(t *testing.T) {
	f := &fakeCatalog{list: client.Snapshot{book, mug}}
	c := newTestController(f)
	c.Store().SetSearchResults(client.SearchQuery{Name: "mug"}, []client.Item{mug})

	if err := c.Reload(context.Background(), nil); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if got := c.Store().SearchResults(); len(got) != 0 {
		t.Errorf("SearchResults() = %+v, want cleared", got)
	}
	view := c.Store().Rendered()
	if view.Source != SourceCatalog || !equalItems(view.Items, []client.Item{book, mug}) {
		t.Errorf("Rendered() = %+v, want full catalog", view)
	}
}

func TestReloadFailureLeavesStateUnchanged(t *testing.T) {
	f := &fakeCatalog{list: client.Snapshot{book}}
	c := newTestController(f)
	if err := c.Reload(context.Background(), nil); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	c.Store().SetSearchResults(client.SearchQuery{Name: "mug"}, []client.Item{mug})

	f.listErr = &client.FetchError{Op: "list items", StatusCode: http.StatusInternalServerError}
	completed := false
	err := c.Reload(context.Background(), func() { completed = true })

	var fe *client.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("Reload() error = %v, want *client.FetchError", err)
	}
	if completed {
		t.Error("onLoadCompleted ran after a failed reload")
	}
	if got := c.Store().Items(); !equalItems(got, []client.Item{book}) {
		t.Errorf("Items() = %+v, want unchanged", got)
	}
	if got := c.Store().SearchResults(); !equalItems(got, []client.Item{mug}) {
		t.Errorf("SearchResults() = %+v, want unchanged", got)
	}
}

func TestSearchHidesButKeepsCatalog(t *testing.T) {
	f := &fakeCatalog{
		list:   client.Snapshot{book, mug, lamp},
		search: map[string]client.Snapshot{"mug": {mug}},
	}
	c := newTestController(f)
	if err := c.Reload(context.Background(), nil); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	completed := false
	if err := c.Search(context.Background(), "mug", func() { completed = true }); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if !completed {
		t.Error("onCompleted not called after search")
	}

	view := c.Store().Rendered()
	if view.Source != SourceSearch || view.Deletable {
		t.Errorf("Rendered() source = %v deletable = %v, want search without delete", view.Source, view.Deletable)
	}
	if !equalItems(view.Items, []client.Item{mug}) {
		t.Errorf("Rendered().Items = %+v, want [%+v]", view.Items, mug)
	}
	if got := c.Store().Items(); len(got) != 3 {
		t.Errorf("Items() has %d entries, want hidden catalog of 3", len(got))
	}
	if got := c.Store().Query().Name; got != "mug" {
		t.Errorf("Query().Name = %q, want %q", got, "mug")
	}
}

func TestSearchEmptyKeywordIsSent(t *testing.T) {
	f := &fakeCatalog{search: map[string]client.Snapshot{"": {book}}}
	c := newTestController(f)

	if err := c.Search(context.Background(), "", nil); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(f.keywords) != 1 || f.keywords[0] != "" {
		t.Errorf("keywords sent = %q, want one empty keyword", f.keywords)
	}
	if got := c.Store().SearchResults(); !equalItems(got, []client.Item{book}) {
		t.Errorf("SearchResults() = %+v, want backend result", got)
	}
}

func TestSearchWithNoResultsShowsCatalog(t *testing.T) {
	f := &fakeCatalog{list: client.Snapshot{book}, search: map[string]client.Snapshot{}}
	c := newTestController(f)
	if err := c.Reload(context.Background(), nil); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if err := c.Search(context.Background(), "nothing", nil); err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	view := c.Store().Rendered()
	if view.Source != SourceCatalog || !view.Deletable {
		t.Errorf("Rendered() = %+v, want catalog with delete", view)
	}
}

func TestSearchFailureLeavesStateUnchanged(t *testing.T) {
	f := &fakeCatalog{}
	c := newTestController(f)
	c.Store().SetSearchResults(client.SearchQuery{Name: "book"}, []client.Item{book})

	f.searchErr = &client.FetchError{Op: "search items", StatusCode: http.StatusBadRequest}
	if err := c.Search(context.Background(), "mug", nil); err == nil {
		t.Fatal("Search() error = nil, want error")
	}
	if got := c.Store().SearchResults(); !equalItems(got, []client.Item{book}) {
		t.Errorf("SearchResults() = %+v, want unchanged", got)
	}
}

func TestDeletePreservesOrder(t *testing.T) {
	f := &fakeCatalog{list: client.Snapshot{book, mug, lamp}}
	c := newTestController(f)
	if err := c.Reload(context.Background(), nil); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	if err := c.Delete(context.Background(), mug.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got := c.Store().Items(); !equalItems(got, []client.Item{book, lamp}) {
		t.Errorf("Items() = %+v, want [book lamp]", got)
	}
}

func TestDeleteNotOK(t *testing.T) {
	f := &fakeCatalog{
		list:       client.Snapshot{book, mug},
		removeResp: &client.RemoveResponse{StatusCode: http.StatusNotFound, OK: false},
	}
	c := newTestController(f)
	if err := c.Reload(context.Background(), nil); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	err := c.Delete(context.Background(), book.ID)
	var de *client.DeleteError
	if !errors.As(err, &de) {
		t.Fatalf("Delete() error = %v, want *client.DeleteError", err)
	}
	if got := c.Store().Items(); !equalItems(got, []client.Item{book, mug}) {
		t.Errorf("Items() = %+v, want unchanged", got)
	}
}

func TestDeleteTransportError(t *testing.T) {
	f := &fakeCatalog{list: client.Snapshot{book}, removeErr: errors.New("connection refused")}
	c := newTestController(f)
	if err := c.Reload(context.Background(), nil); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	if err := c.Delete(context.Background(), book.ID); err == nil {
		t.Fatal("Delete() error = nil, want error")
	}
	if got := c.Store().Items(); !equalItems(got, []client.Item{book}) {
		t.Errorf("Items() = %+v, want unchanged", got)
	}
}

func TestDeleteWithoutResponse(t *testing.T) {
	c := newTestController(&fakeCatalog{})
	c.Store().ReplaceCatalog([]client.Item{book})

	if err := c.ApplyDelete(book.ID, nil, nil); err == nil {
		t.Fatal("ApplyDelete(nil, nil) error = nil, want error")
	}
	if got := c.Store().Items(); !equalItems(got, []client.Item{book}) {
		t.Errorf("Items() = %+v, want unchanged", got)
	}
}

func TestRenderedPrefersSearchResults(t *testing.T) {
	s := NewStore()
	s.ReplaceCatalog([]client.Item{book, mug, lamp})
	s.SetSearchResults(client.SearchQuery{Name: "lamp"}, []client.Item{lamp})

	view := s.Rendered()
	if !equalItems(view.Items, []client.Item{lamp}) {
		t.Errorf("Rendered().Items = %+v, want exactly search results", view.Items)
	}

	s.ReplaceCatalog([]client.Item{book, mug})
	view = s.Rendered()
	if !equalItems(view.Items, []client.Item{book, mug}) || !view.Deletable {
		t.Errorf("Rendered() after catalog reload = %+v, want deletable catalog", view)
	}
	if got := s.Query().Name; got != "" {
		t.Errorf("Query().Name after catalog reload = %q, want empty", got)
	}
}

func TestStoreCopiesInput(t *testing.T) {
	s := NewStore()
	items := []client.Item{book, mug}
	s.ReplaceCatalog(items)
	items[0] = lamp

	if got := s.Items()[0]; got != book {
		t.Errorf("Items()[0] = %+v, want %+v", got, book)
	}
}

func TestStoreSubscribe(t *testing.T) {
	s := NewStore()
	var views []View
	unsubscribe := s.Subscribe(func(v View) { views = append(views, v) })

	s.ReplaceCatalog([]client.Item{book, mug})
	s.RemoveItem(mug.ID)
	s.RemoveItem(99)
	s.SetSearchResults(client.SearchQuery{Name: "book"}, []client.Item{book})

	if len(views) != 3 {
		t.Fatalf("got %d notifications, want 3", len(views))
	}
	if views[1].Source != SourceCatalog || !equalItems(views[1].Items, []client.Item{book}) {
		t.Errorf("second notification = %+v, want catalog [book]", views[1])
	}
	if views[2].Source != SourceSearch {
		t.Errorf("third notification source = %v, want search", views[2].Source)
	}

	unsubscribe()
	s.ReplaceCatalog(nil)
	if len(views) != 3 {
		t.Errorf("got %d notifications after unsubscribe, want 3", len(views))
	}
}

func TestEffect(t *testing.T) {
	var e Effect[bool]
	runs := 0
	fn := func() { runs++ }

	if !e.Run(true, fn) {
		t.Error("first Run() did not fire")
	}
	if e.Run(true, fn) {
		t.Error("Run() fired with unchanged deps")
	}
	if !e.Run(false, fn) {
		t.Error("Run() did not fire after deps changed")
	}
	e.Reset()
	if !e.Run(false, fn) {
		t.Error("Run() did not fire after Reset()")
	}
	if runs != 3 {
		t.Errorf("fn ran %d times, want 3", runs)
	}
}
