// Package inventory organizes a corporation's raw asset records into a
// configured hierarchy of locations and value categories, and prices them from
// market order data.
//
// The core functionalities include:
//   - Containment Resolution: items stored inside containers and offices are
//     moved to the place where the container or office itself sits.
//   - Classification: every item is assigned to exactly one category of the
//     first matching location, trying explicit type ids first, then group ids,
//     then category ids. Quantities of the same type are merged.
//   - Valuation: unit prices are computed from the best buy and best sell
//     orders of a market, using the Buy, Sell or Split strategy of the
//     category, scaled by its multiplier.
//
// This package performs no I/O. Type information and market orders are
// reached through the TypeCatalog and OrderBook interfaces, implemented by the
// store package. The `invctl` command wires everything together.
package inventory
