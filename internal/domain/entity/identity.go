package entity

import (
	"strconv"
	"strings"

	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
)

// shopifyCustomerGIDPrefix is the admin API global id prefix for customers
const shopifyCustomerGIDPrefix = "gid://shopify/Customer/"

// Identity is the caller identity attached to every billable request
type Identity struct {
	CustomerID uint64
	Email      string
}

// ParseCustomerID normalizes an external customer id to the ledger key.
// Accepts decimal integers (JSON numbers included) and Shopify customer GIDs.
func ParseCustomerID(raw string) (uint64, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return 0, errs.ErrNotAuthenticated
	}

	id = strings.TrimPrefix(id, shopifyCustomerGIDPrefix)
	id = strings.TrimPrefix(id, "+")

	// JSON numbers decoded as float64 are rendered with a trailing ".0" by some clients
	if whole, frac, found := strings.Cut(id, "."); found && strings.Trim(frac, "0") == "" {
		id = whole
	}

	value, err := strconv.ParseUint(id, 10, 64)
	if err != nil || value == 0 {
		return 0, errs.ErrInvalidIdentity
	}
	return value, nil
}

// NewIdentity builds an identity from raw request input
func NewIdentity(rawID, email string) (Identity, error) {
	id, err := ParseCustomerID(rawID)
	if err != nil {
		return Identity{}, err
	}
	return Identity{
		CustomerID: id,
		Email:      strings.TrimSpace(email),
	}, nil
}

// IsZero reports whether the identity was never resolved
func (i Identity) IsZero() bool {
	return i.CustomerID == 0
}
