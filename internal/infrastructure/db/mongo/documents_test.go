package mongo

import (
	"testing"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/99minutos/account-service/internal/core/domain"
)

func marshal(t *testing.T, doc any) bson.Raw {
	t.Helper()
	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}

func TestAccountDocument_KeepsKindInGenericCollection(t *testing.T) {
	cases := []domain.Account{
		&domain.Admin{User: domain.User{ID: 1, Email: "a@adm.com", Role: domain.RoleAdmin}},
		&domain.Developer{User: domain.User{ID: 2, Email: "d@dev.com", Role: domain.RoleDeveloper}, Games: []domain.Game{}},
		domain.NewCustomer(domain.User{ID: 3, Email: "c@gmail.com"}),
		&domain.User{ID: 4, Email: "u@x.org", Role: domain.RoleUser},
	}

	for _, want := range cases {
		doc, err := encodeAccount(want, 1)
		if err != nil {
			t.Fatalf("encode %T: %v", want, err)
		}
		got, err := decodeAccount(marshal(t, doc))
		if err != nil {
			t.Fatalf("decode %T: %v", want, err)
		}
		if gotType, wantType := typeName(got), typeName(want); gotType != wantType {
			t.Fatalf("expected %s, got %s", wantType, gotType)
		}
		if got.EntityID() != want.EntityID() || got.Base().Email != want.Base().Email {
			t.Fatalf("identity mismatch: %+v vs %+v", got.Base(), want.Base())
		}
	}
}

func typeName(a domain.Account) string {
	switch a.(type) {
	case *domain.Admin:
		return "admin"
	case *domain.Developer:
		return "developer"
	case *domain.Customer:
		return "customer"
	default:
		return "user"
	}
}

func TestCustomerDocument_BalanceAndCart(t *testing.T) {
	c := domain.NewCustomer(domain.User{ID: 5, Username: "alice", Email: "alice@gmail.com", Password: "pw"})
	c.Balance = decimal.RequireFromString("12.50")
	c.GamesLibrary = append(c.GamesLibrary, domain.Game{ID: 1, Title: "Hades", Price: decimal.RequireFromString("24.99")})

	doc, err := encodeCustomer(c, 1)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := decodeCustomer(marshal(t, doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if !got.Balance.Equal(c.Balance) {
		t.Fatalf("balance: expected %s, got %s", c.Balance, got.Balance)
	}
	if len(got.GamesLibrary) != 1 || !got.GamesLibrary[0].Price.Equal(decimal.RequireFromString("24.99")) {
		t.Fatalf("unexpected library %+v", got.GamesLibrary)
	}
	if got.ShoppingCart == nil || got.ShoppingCart.ID != 5 || got.ShoppingCart.CustomerID != 5 {
		t.Fatalf("unexpected cart %+v", got.ShoppingCart)
	}
	if got.Password != "pw" {
		t.Fatalf("password not persisted")
	}
}

func TestCustomerDocument_WithoutCart(t *testing.T) {
	c := domain.NewCustomer(domain.User{ID: 6})
	c.ShoppingCart = nil

	doc, _ := encodeCustomer(c, 1)
	raw := marshal(t, doc)
	if _, err := raw.LookupErr("cart_id"); err == nil {
		t.Fatalf("expected cart_id to be omitted")
	}
	got, err := decodeCustomer(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ShoppingCart != nil {
		t.Fatalf("expected no cart, got %+v", got.ShoppingCart)
	}
}
