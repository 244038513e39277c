package inventory

import "fmt"

// Record is a raw asset entry as delivered by the asset provider.
type Record struct {
	ItemID       int64  `json:"item_id"`
	LocationFlag string `json:"location_flag"`
	LocationID   int64  `json:"location_id"`
	Quantity     int64  `json:"quantity"`
	TypeID       int64  `json:"type_id"`
}

// Item is a Record going through the classification pipeline.
//
// LocationFlag and LocationID change while the item is flattened, Quantity
// changes when another item of the same type is merged into it. Info is nil
// until Resolve is called.
type Item struct {
	ItemID       int64
	LocationFlag string
	LocationID   int64
	Quantity     int64
	TypeID       int64

	Info *TypeInfo
}

// NewItem returns a new unresolved item for a record.
func NewItem(r Record) *Item {
	return &Item{
		ItemID:       r.ItemID,
		LocationFlag: r.LocationFlag,
		LocationID:   r.LocationID,
		Quantity:     r.Quantity,
		TypeID:       r.TypeID,
	}
}

// Name returns the display name of the item type, or a placeholder when the
// item has not been resolved yet.
func (it *Item) Name() string {
	if it.Info == nil {
		return fmt.Sprintf("type %d", it.TypeID)
	}
	return it.Info.Name
}

func (it *Item) String() string {
	return fmt.Sprintf("%d x %s @%d/%s", it.Quantity, it.Name(), it.LocationID, it.LocationFlag)
}
