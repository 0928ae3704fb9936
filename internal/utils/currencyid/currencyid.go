// Package currencyid maps ISO currency codes onto the target ledger's
// internal numeric identifiers.
package currencyid

// Unassigned is the sentinel id for codes outside the known mapping table.
// The ledger rejects it on assignment, which is the intended signal.
const Unassigned = -1

// internalIDs is the target ledger's currency table. It is an external-system
// mapping and stays an explicit enumeration; do not derive it.
var internalIDs = map[string]int{
	"CAD": 3,
	"EUR": 4,
	"GBP": 2,
	"IDR": 7,
	"INR": 8,
	"PHP": 9,
	"PLN": 5,
	"RUB": 6,
	"USD": 1,
}

// Resolve returns the ledger-internal id for a 3-letter currency code, or
// Unassigned for any code outside the table. There is no error path.
func Resolve(code string) int {
	if id, ok := internalIDs[code]; ok {
		return id
	}
	return Unassigned
}
