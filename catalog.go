package inventory

import (
	"errors"
	"fmt"
)

// ErrUnknownType is returned by a TypeCatalog when a type id has no entry.
var ErrUnknownType = errors.New("unknown type id")

// TypeInfo holds the static description of an item type.
type TypeInfo struct {
	Name       string
	GroupID    int64
	CategoryID int64
}

// TypeCatalog gives access to the description of item types.
//
// Implementations are read only for the duration of a run and must return an
// error wrapping ErrUnknownType when the type id is not known.
type TypeCatalog interface {
	TypeInfo(typeID int64) (TypeInfo, error)
}

// Resolve fills the item's type information from the catalog.
// It is a no-op if the item is already resolved.
func Resolve(it *Item, catalog TypeCatalog) error {
	if it.Info != nil {
		return nil
	}
	info, err := catalog.TypeInfo(it.TypeID)
	if err != nil {
		return fmt.Errorf("cannot resolve item %d: %w", it.ItemID, err)
	}
	it.Info = &info
	return nil
}

// CatalogMap is an in-memory TypeCatalog.
type CatalogMap map[int64]TypeInfo

func (c CatalogMap) TypeInfo(typeID int64) (TypeInfo, error) {
	info, ok := c[typeID]
	if !ok {
		return TypeInfo{}, fmt.Errorf("type %d: %w", typeID, ErrUnknownType)
	}
	return info, nil
}
