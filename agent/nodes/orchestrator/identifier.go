package orchestratornode

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"github.com/tanpawarit/Chative-Music-Store-Support/agent/musicdb"
)

type IdentifierKind int

const (
	IdentifierNone IdentifierKind = iota
	IdentifierID
	IdentifierPhone
	IdentifierEmail
)

func (k IdentifierKind) String() string {
	switch k {
	case IdentifierID:
		return "id"
	case IdentifierPhone:
		return "phone"
	case IdentifierEmail:
		return "email"
	default:
		return "none"
	}
}

// CustomerLookup is the part of the music store used by verification.
type CustomerLookup interface {
	CustomerByID(ctx context.Context, id int) (*musicdb.Customer, error)
	CustomerByEmail(ctx context.Context, email string) (*musicdb.Customer, error)
	CustomerByPhone(ctx context.Context, phone string) (*musicdb.Customer, error)
	CustomersWithPhone(ctx context.Context) ([]musicdb.Customer, error)
}

func ClassifyIdentifier(identifier string) IdentifierKind {
	s := strings.TrimSpace(identifier)
	switch {
	case s == "":
		return IdentifierNone
	case isDigits(s):
		return IdentifierID
	case strings.HasPrefix(s, "+"):
		return IdentifierPhone
	case strings.Contains(s, "@"):
		return IdentifierEmail
	default:
		return IdentifierNone
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// NormalizePhone drops whitespace and parentheses.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '(' || r == ')' {
			return -1
		}
		return r
	}, phone)
}

// ResolveCustomer maps an extracted identifier to an existing customer id.
// It returns nil when the identifier is unusable or matches no customer.
func ResolveCustomer(ctx context.Context, lookup CustomerLookup, identifier string) (*int, error) {
	s := strings.TrimSpace(identifier)

	var (
		c   *musicdb.Customer
		err error
	)
	switch ClassifyIdentifier(s) {
	case IdentifierID:
		id, convErr := strconv.Atoi(s)
		if convErr != nil {
			return nil, nil
		}
		c, err = lookup.CustomerByID(ctx, id)
	case IdentifierPhone:
		c, err = lookup.CustomerByPhone(ctx, s)
		if err == nil && c == nil {
			c, err = scanPhones(ctx, lookup, s)
		}
	case IdentifierEmail:
		c, err = lookup.CustomerByEmail(ctx, s)
	default:
		return nil, nil
	}
	if err != nil || c == nil {
		return nil, err
	}
	id := c.CustomerID
	return &id, nil
}

func scanPhones(ctx context.Context, lookup CustomerLookup, phone string) (*musicdb.Customer, error) {
	want := NormalizePhone(phone)
	customers, err := lookup.CustomersWithPhone(ctx)
	if err != nil {
		return nil, err
	}
	for i := range customers {
		if NormalizePhone(customers[i].Phone) == want {
			return &customers[i], nil
		}
	}
	return nil, nil
}
