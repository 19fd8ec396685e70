package entity

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/heartmarshall/backoffice/internal/adapter/gqlapi"
	"github.com/heartmarshall/backoffice/internal/cache"
	"github.com/heartmarshall/backoffice/internal/domain"
	"github.com/heartmarshall/backoffice/internal/workflow"
)

// Doer executes GraphQL documents.
type Doer interface {
	Do(ctx context.Context, doc *ast.QueryDocument, vars map[string]any, out any) error
}

// scoped lists the screens that need a parent id.
var scoped = map[string]string{
	NameWords:         "dictionary",
	NameChildEntities: "root entity",
	NameTasks:         "project",
	NameMembers:       "project",
}

// Names returns every screen name in a stable order.
func Names() []string {
	return []string{
		NameGoods, NameOrders, NameDictionaries, NameWords,
		NameRootEntities, NameChildEntities, NameProjects, NameTasks, NameMembers,
	}
}

// NeedsScope reports whether screen name must be opened with a parent id,
// and what that parent is.
func NeedsScope(name string) (string, bool) {
	parent, ok := scoped[name]
	return parent, ok
}

// Catalog builds screens over one client and one store. Screens are
// created once per name and scope; their queries join the registry so an
// upload can refresh them.
type Catalog struct {
	client   Doer
	store    cache.Store
	registry *workflow.Registry
	identity domain.Identity
	limit    int
	log      *slog.Logger

	orders *gqlapi.Orders

	mu      sync.Mutex
	screens map[string]*workflow.Screen
}

// NewCatalog creates a catalog. limit is the default list size; 0 leaves
// it to the server.
func NewCatalog(client Doer, store cache.Store, registry *workflow.Registry, identity domain.Identity, limit int, log *slog.Logger) *Catalog {
	return &Catalog{
		client:   client,
		store:    store,
		registry: registry,
		identity: identity,
		limit:    limit,
		log:      log,
		orders:   gqlapi.NewOrders(client),
		screens:  make(map[string]*workflow.Screen),
	}
}

// Registry returns the registry of active queries.
func (c *Catalog) Registry() *workflow.Registry { return c.registry }

// Screen returns the screen name, scoped to parentID where required.
func (c *Catalog) Screen(name, parentID string) (*workflow.Screen, error) {
	if parent, ok := scoped[name]; ok && parentID == "" {
		return nil, domain.NewValidationError("scope", fmt.Sprintf("%s needs a %s id", name, parent))
	}
	if _, ok := scoped[name]; !ok {
		parentID = ""
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screenLocked(name, parentID)
}

func (c *Catalog) screenLocked(name, parentID string) (*workflow.Screen, error) {
	key := name + "/" + parentID
	if s, ok := c.screens[key]; ok {
		return s, nil
	}

	desc, err := c.descriptor(name, parentID)
	if err != nil {
		return nil, err
	}
	if desc.Limit == 0 {
		desc.Limit = c.limit
	}
	s := workflow.NewScreen(desc, c.store, c.log)
	c.registry.Register(s.Query)
	c.screens[key] = s
	return s, nil
}

func (c *Catalog) descriptor(name, parentID string) (*workflow.Descriptor, error) {
	switch name {
	case NameGoods:
		return goodTypes(gqlapi.New(c.client, gqlapi.GoodType), c.AddToCart), nil
	case NameOrders:
		if c.identity.Username == "" {
			return nil, fmt.Errorf("orders need a signed-in customer: %w", domain.ErrUnauthorized)
		}
		return orders(gqlapi.New(c.client, gqlapi.Order), c.identity.Username, c.approve, c.removeDetail), nil
	case NameDictionaries:
		return dictionaries(gqlapi.New(c.client, gqlapi.Dictionary)), nil
	case NameWords:
		return words(gqlapi.New(c.client, gqlapi.Word), parentID), nil
	case NameRootEntities:
		return rootEntities(gqlapi.New(c.client, gqlapi.RootEntity)), nil
	case NameChildEntities:
		return childEntities(gqlapi.New(c.client, gqlapi.ChildEntity), parentID), nil
	case NameProjects:
		return projects(gqlapi.New(c.client, gqlapi.Project)), nil
	case NameTasks:
		return tasks(gqlapi.New(c.client, gqlapi.Task), parentID), nil
	case NameMembers:
		return members(gqlapi.New(c.client, gqlapi.Member), parentID), nil
	default:
		known := Names()
		sort.Strings(known)
		return nil, domain.NewValidationError("screen", fmt.Sprintf("unknown screen %q, want one of %v", name, known))
	}
}

// Orders returns the current customer's order screen.
func (c *Catalog) Orders() (*workflow.Screen, error) {
	return c.Screen(NameOrders, "")
}

// AddToCart adds the good rec to the customer's draft order and moves that
// order to the front of the cached order list.
func (c *Catalog) AddToCart(ctx context.Context, rec domain.Record) error {
	s, err := c.Orders()
	if err != nil {
		return err
	}
	return s.Mutator.Apply(ctx, "addOrderDetail", func(ctx context.Context) (workflow.Event, error) {
		return c.orders.AddDetail(ctx, c.identity.Username, rec.ID())
	})
}

func (c *Catalog) approve(ctx context.Context, order domain.Record) error {
	s, err := c.Orders()
	if err != nil {
		return err
	}
	return s.Mutator.Apply(ctx, "fixOrder", func(ctx context.Context) (workflow.Event, error) {
		return c.orders.Fix(ctx, order.ID())
	})
}

func (c *Catalog) removeDetail(ctx context.Context, order, detail domain.Record) error {
	s, err := c.Orders()
	if err != nil {
		return err
	}
	return s.Mutator.Apply(ctx, "deleteDetail", func(ctx context.Context) (workflow.Event, error) {
		return c.orders.DeleteDetail(ctx, order.ID(), detail.ID())
	})
}
