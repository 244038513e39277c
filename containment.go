package inventory

import (
	"errors"
	"fmt"
	"slices"
)

// OfficeTypeID is the type id of a corporation office.
const OfficeTypeID int64 = 27

// ContainerTypeIDs lists the type ids of items that can hold other items.
var ContainerTypeIDs = []int64{
	17366, // Station Container
	17367, // Station Vault Container
	17368, // Station Warehouse Container
	3297,  // Small Standard Container
	3293,  // Medium Standard Container
	3296,  // Large Standard Container
	3467,  // Small Secure Container
	3466,  // Medium Secure Container
	3465,  // Large Secure Container
	11488, // Huge Secure Container
	11489, // Giant Secure Container
	33011, // Small Freight Container
	33009, // Medium Freight Container
	33007, // Large Freight Container
	33005, // Huge Freight Container
	24445, // Giant Freight Container
	33003, // Enormous Freight Container
	17363, // Small Audit Log Secure Container
	17364, // Medium Audit Log Secure Container
	17365, // Large Audit Log Secure Container
}

// ContainerFlags are the location flags of an item sitting inside a container.
var ContainerFlags = []string{"Unlocked", "Locked"}

// Hangars maps a corporation hangar division (1 to 7) to its location flag.
var Hangars = map[int]string{
	1: "CorpSAG1",
	2: "CorpSAG2",
	3: "CorpSAG3",
	4: "CorpSAG4",
	5: "CorpSAG5",
	6: "CorpSAG6",
	7: "CorpSAG7",
}

// ErrMissingContainer is returned when an item refers to a container absent from the records.
var ErrMissingContainer = errors.New("missing container")

// IsContainer reports whether the type id is a container type.
func IsContainer(typeID int64) bool { return slices.Contains(ContainerTypeIDs, typeID) }

// Partition splits records into plain items, containers and offices.
// Containers and offices are indexed by their item id.
func Partition(records []Record) (items []*Item, containers, offices map[int64]*Item) {
	containers = make(map[int64]*Item)
	offices = make(map[int64]*Item)
	for _, r := range records {
		it := NewItem(r)
		switch {
		case IsContainer(it.TypeID):
			containers[it.ItemID] = it
		case it.TypeID == OfficeTypeID:
			offices[it.ItemID] = it
		default:
			items = append(items, it)
		}
	}
	return items, containers, offices
}

// Flatten moves an item to the effective location of its container and office.
//
// An item inside a container takes the container's flag and location. Then,
// if the location is an office, the item takes the office's location. Each
// step is applied once.
func Flatten(it *Item, containers, offices map[int64]*Item) error {
	if slices.Contains(ContainerFlags, it.LocationFlag) {
		c, ok := containers[it.LocationID]
		if !ok {
			return fmt.Errorf("item %d is in container %d: %w", it.ItemID, it.LocationID, ErrMissingContainer)
		}
		it.LocationFlag = c.LocationFlag
		it.LocationID = c.LocationID
	}
	if o, ok := offices[it.LocationID]; ok {
		it.LocationID = o.LocationID
	}
	return nil
}
