package checkout

import "time"

// OrderNumberPrefix is prepended to every generated order number
const OrderNumberPrefix = "PN"

// GenerateOrderNumber derives an order number from the given instant:
// the fixed prefix followed by the UTC timestamp at second resolution,
// e.g. PN20260315104502.
//
// Two requests inside the same second produce the same number; the orders
// table intentionally carries no unique constraint on the column.
func GenerateOrderNumber(now time.Time) string {
	return OrderNumberPrefix + now.UTC().Format("20060102150405")
}
