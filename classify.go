package inventory

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Tier is a level of the category matching policy.
type Tier int

const (
	// ByTypeID matches the item type id against the category type ids.
	ByTypeID Tier = iota
	// ByGroupID matches the item group id against the category group ids.
	ByGroupID
	// ByCategoryID matches the item category id against the category category ids.
	ByCategoryID
)

func (t Tier) String() string {
	switch t {
	case ByTypeID:
		return "type"
	case ByGroupID:
		return "group"
	case ByCategoryID:
		return "category"
	default:
		return "unknown"
	}
}

// tier is a single matching predicate.
// Predicates that need type information get a resolved item.
type tier struct {
	tier      Tier
	needsInfo bool
	match     func(c *Category, it *Item) bool
}

// tiers is the matching policy, in priority order.
var tiers = []tier{
	{ByTypeID, false, func(c *Category, it *Item) bool { return c.typeIDs.has(it.TypeID) }},
	{ByGroupID, true, func(c *Category, it *Item) bool { return c.groupIDs.has(it.Info.GroupID) }},
	{ByCategoryID, true, func(c *Category, it *Item) bool { return c.categoryIDs.has(it.Info.CategoryID) }},
}

// Match is the outcome of offering an item to a location.
// The zero value means no match.
type Match struct {
	Category *Category
	Tier     Tier
}

// Matched reports whether a category accepted the item.
func (m Match) Matched() bool { return m.Category != nil }

type idSet map[int64]struct{}

func (s idSet) has(id int64) bool {
	_, ok := s[id]
	return ok
}

func (s idSet) add(ids ...int64) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

// Category is a value category of a location: it defines which items it
// accepts, how they are priced, and accumulates them.
type Category struct {
	Name       string
	Market     string // name of the market used for pricing.
	Strategy   Strategy
	Multiplier float64

	typeIDs     idSet
	groupIDs    idSet
	categoryIDs idSet

	items map[int64]*Item // by type id
	order []int64         // type ids in insertion order
}

// NewCategory returns a new empty category.
func NewCategory(name, market string, strategy Strategy, multiplier float64) *Category {
	return &Category{
		Name:        name,
		Market:      market,
		Strategy:    strategy,
		Multiplier:  multiplier,
		typeIDs:     make(idSet),
		groupIDs:    make(idSet),
		categoryIDs: make(idSet),
		items:       make(map[int64]*Item),
	}
}

func (c *Category) AddTypeID(ids ...int64)     { c.typeIDs.add(ids...) }
func (c *Category) AddGroupID(ids ...int64)    { c.groupIDs.add(ids...) }
func (c *Category) AddCategoryID(ids ...int64) { c.categoryIDs.add(ids...) }

// Add accumulates an item in the category.
//
// If an item of the same type is already present, the quantity is added to
// it and the existing entry is kept.
func (c *Category) Add(it *Item) {
	if existing, ok := c.items[it.TypeID]; ok {
		existing.Quantity += it.Quantity
		if existing.Info == nil {
			existing.Info = it.Info
		}
		return
	}
	c.items[it.TypeID] = it
	c.order = append(c.order, it.TypeID)
}

// Item returns the merged item for a type id, or nil.
func (c *Category) Item(typeID int64) *Item { return c.items[typeID] }

// Items returns the merged items in insertion order.
func (c *Category) Items() []*Item {
	items := make([]*Item, 0, len(c.order))
	for _, id := range c.order {
		items = append(items, c.items[id])
	}
	return items
}

// Len returns the number of distinct types in the category.
func (c *Category) Len() int { return len(c.order) }

// Location is a place where items are stored, with its ordered categories.
type Location struct {
	Name       string
	ID         int64
	Flags      []string // enabled location flags
	Categories []*Category
}

// NewLocation returns a location without categories.
func NewLocation(name string, id int64, flags ...string) *Location {
	return &Location{Name: name, ID: id, Flags: flags}
}

// AddCategory appends a category. Categories are tried in the order they are added.
func (l *Location) AddCategory(c *Category) { l.Categories = append(l.Categories, c) }

// Category returns the first category with that name, or nil.
func (l *Location) Category(name string) *Category {
	for _, c := range l.Categories {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Accepts reports whether the item is stored at this location in an enabled flag.
func (l *Location) Accepts(it *Item) bool {
	return it.LocationID == l.ID && slices.Contains(l.Flags, it.LocationFlag)
}

// TryAdd adds the item to the first matching category of the location.
//
// Each tier is tried over all categories before the next one. The item is
// resolved through the catalog only when the type id tier failed.
func (l *Location) TryAdd(it *Item, catalog TypeCatalog) (Match, error) {
	if !l.Accepts(it) {
		return Match{}, nil
	}
	for _, t := range tiers {
		if t.needsInfo {
			if err := Resolve(it, catalog); err != nil {
				return Match{}, err
			}
		}
		for _, c := range l.Categories {
			if t.match(c, it) {
				c.Add(it)
				return Match{Category: c, Tier: t.tier}, nil
			}
		}
	}
	return Match{}, nil
}

// Stats counts what happened during a classification.
type Stats struct {
	Records    int
	Containers int
	Offices    int
	Classified int
	Dropped    int
}

// Classifier assigns items to the categories of a list of locations.
//
// A Classifier mutates the locations it is given and must not be used
// concurrently on the same locations.
type Classifier struct {
	catalog TypeCatalog
	logger  *zap.Logger
}

// NewClassifier returns a classifier resolving types through catalog.
// A nil logger discards logs.
func NewClassifier(catalog TypeCatalog, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{catalog: catalog, logger: logger}
}

// Insert flattens every item and adds it to the first location that accepts it.
// Items that no location accepts are dropped.
func (c *Classifier) Insert(items []*Item, containers, offices map[int64]*Item, locations []*Location) (Stats, error) {
	stats := Stats{Containers: len(containers), Offices: len(offices)}
	for _, it := range items {
		if err := Flatten(it, containers, offices); err != nil {
			return stats, err
		}
		m, err := c.place(it, locations)
		if err != nil {
			return stats, err
		}
		if !m.Matched() {
			stats.Dropped++
			c.logger.Debug("item dropped",
				zap.Int64("item_id", it.ItemID),
				zap.Int64("type_id", it.TypeID),
				zap.Int64("location_id", it.LocationID),
				zap.String("location_flag", it.LocationFlag))
			continue
		}
		stats.Classified++
	}
	return stats, nil
}

// place offers the item to each location in turn, and stops at the first match.
func (c *Classifier) place(it *Item, locations []*Location) (Match, error) {
	for _, l := range locations {
		m, err := l.TryAdd(it, c.catalog)
		if err != nil {
			return Match{}, fmt.Errorf("cannot classify in %q: %w", l.Name, err)
		}
		if m.Matched() {
			c.logger.Debug("item classified",
				zap.Int64("item_id", it.ItemID),
				zap.String("location", l.Name),
				zap.String("category", m.Category.Name),
				zap.Stringer("tier", m.Tier))
			return m, nil
		}
	}
	return Match{}, nil
}

// Classify partitions the records and inserts the items into the locations.
func (c *Classifier) Classify(records []Record, locations []*Location) (Stats, error) {
	items, containers, offices := Partition(records)
	stats, err := c.Insert(items, containers, offices, locations)
	stats.Records = len(records)
	if err != nil {
		return stats, err
	}
	c.logger.Info("classification done",
		zap.Int("records", stats.Records),
		zap.Int("containers", stats.Containers),
		zap.Int("offices", stats.Offices),
		zap.Int("classified", stats.Classified),
		zap.Int("dropped", stats.Dropped))
	return stats, nil
}
