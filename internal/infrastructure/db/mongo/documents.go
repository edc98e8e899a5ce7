package mongo

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/99minutos/account-service/internal/core/domain"
)

type accountFields struct {
	ID        int    `bson:"_id"`
	Username  string `bson:"username"`
	Email     string `bson:"email"`
	Password  string `bson:"password"`
	Role      string `bson:"role"`
	CreatedAt int64  `bson:"created_at"`
}

type adminDoc struct {
	Account accountFields `bson:",inline"`
}

type developerDoc struct {
	Account accountFields `bson:",inline"`
	Games   []gameDoc     `bson:"games"`
}

type customerDoc struct {
	Account      accountFields        `bson:",inline"`
	Balance      primitive.Decimal128 `bson:"balance"`
	GamesLibrary []gameDoc            `bson:"games_library"`
	Reviews      []reviewDoc          `bson:"reviews"`
	CartID       *int                 `bson:"cart_id,omitempty"`
}

type cartDoc struct {
	ID         int   `bson:"_id"`
	CustomerID int   `bson:"customer_id"`
	CreatedAt  int64 `bson:"created_at"`
}

type gameDoc struct {
	ID    int                  `bson:"id"`
	Title string               `bson:"title"`
	Price primitive.Decimal128 `bson:"price"`
}

type reviewDoc struct {
	ID      int    `bson:"id"`
	GameID  int    `bson:"game_id"`
	Rating  int    `bson:"rating"`
	Comment string `bson:"comment,omitempty"`
}

func fieldsOf(u *domain.User, createdAt int64) accountFields {
	return accountFields{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.Password,
		Role:      string(u.Role),
		CreatedAt: createdAt,
	}
}

func (f accountFields) user() domain.User {
	return domain.User{
		ID:       f.ID,
		Username: f.Username,
		Email:    f.Email,
		Password: f.Password,
		Role:     domain.Role(f.Role),
	}
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode decimal %s: %w", d, err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("decode decimal %s: %w", v, err)
	}
	return d, nil
}

func encodeGames(games []domain.Game) ([]gameDoc, error) {
	out := make([]gameDoc, 0, len(games))
	for _, g := range games {
		price, err := toDecimal128(g.Price)
		if err != nil {
			return nil, err
		}
		out = append(out, gameDoc{ID: g.ID, Title: g.Title, Price: price})
	}
	return out, nil
}

func decodeGames(docs []gameDoc) ([]domain.Game, error) {
	out := make([]domain.Game, 0, len(docs))
	for _, d := range docs {
		price, err := fromDecimal128(d.Price)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Game{ID: d.ID, Title: d.Title, Price: price})
	}
	return out, nil
}

func encodeAdmin(a *domain.Admin, createdAt int64) (any, error) {
	return adminDoc{Account: fieldsOf(&a.User, createdAt)}, nil
}

func decodeAdmin(raw bson.Raw) (*domain.Admin, error) {
	var doc adminDoc
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode admin: %w", err)
	}
	return &domain.Admin{User: doc.Account.user()}, nil
}

func encodeDeveloper(d *domain.Developer, createdAt int64) (any, error) {
	games, err := encodeGames(d.Games)
	if err != nil {
		return nil, err
	}
	return developerDoc{Account: fieldsOf(&d.User, createdAt), Games: games}, nil
}

func decodeDeveloper(raw bson.Raw) (*domain.Developer, error) {
	var doc developerDoc
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode developer: %w", err)
	}
	games, err := decodeGames(doc.Games)
	if err != nil {
		return nil, err
	}
	return &domain.Developer{User: doc.Account.user(), Games: games}, nil
}

func encodeCustomer(c *domain.Customer, createdAt int64) (any, error) {
	balance, err := toDecimal128(c.Balance)
	if err != nil {
		return nil, err
	}
	library, err := encodeGames(c.GamesLibrary)
	if err != nil {
		return nil, err
	}
	reviews := make([]reviewDoc, 0, len(c.Reviews))
	for _, r := range c.Reviews {
		reviews = append(reviews, reviewDoc{ID: r.ID, GameID: r.GameID, Rating: r.Rating, Comment: r.Comment})
	}

	doc := customerDoc{
		Account:      fieldsOf(&c.User, createdAt),
		Balance:      balance,
		GamesLibrary: library,
		Reviews:      reviews,
	}
	if c.ShoppingCart != nil {
		id := c.ShoppingCart.ID
		doc.CartID = &id
	}
	return doc, nil
}

func decodeCustomer(raw bson.Raw) (*domain.Customer, error) {
	var doc customerDoc
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode customer: %w", err)
	}
	balance, err := fromDecimal128(doc.Balance)
	if err != nil {
		return nil, err
	}
	library, err := decodeGames(doc.GamesLibrary)
	if err != nil {
		return nil, err
	}
	reviews := make([]domain.Review, 0, len(doc.Reviews))
	for _, r := range doc.Reviews {
		reviews = append(reviews, domain.Review{ID: r.ID, GameID: r.GameID, Rating: r.Rating, Comment: r.Comment})
	}

	c := &domain.Customer{
		User:         doc.Account.user(),
		Balance:      balance,
		GamesLibrary: library,
		Reviews:      reviews,
	}
	if doc.CartID != nil {
		c.ShoppingCart = &domain.ShoppingCart{ID: *doc.CartID, CustomerID: c.ID}
	}
	return c, nil
}

func encodeCart(c *domain.ShoppingCart, createdAt int64) (any, error) {
	return cartDoc{ID: c.ID, CustomerID: c.CustomerID, CreatedAt: createdAt}, nil
}

func decodeCart(raw bson.Raw) (*domain.ShoppingCart, error) {
	var doc cartDoc
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode shopping cart: %w", err)
	}
	return &domain.ShoppingCart{ID: doc.ID, CustomerID: doc.CustomerID}, nil
}

// encodeAccount stores any account kind in the generic users collection.
func encodeAccount(a domain.Account, createdAt int64) (any, error) {
	switch v := a.(type) {
	case *domain.Admin:
		return encodeAdmin(v, createdAt)
	case *domain.Developer:
		return encodeDeveloper(v, createdAt)
	case *domain.Customer:
		return encodeCustomer(v, createdAt)
	default:
		return fieldsOf(a.Base(), createdAt), nil
	}
}

// decodeAccount picks the account kind from the stored role.
func decodeAccount(raw bson.Raw) (domain.Account, error) {
	role, _ := raw.Lookup("role").StringValueOK()
	switch domain.Role(role) {
	case domain.RoleAdmin:
		return decodeAdmin(raw)
	case domain.RoleDeveloper:
		return decodeDeveloper(raw)
	case domain.RoleCustomer:
		return decodeCustomer(raw)
	default:
		var f accountFields
		if err := bson.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		u := f.user()
		return &u, nil
	}
}
