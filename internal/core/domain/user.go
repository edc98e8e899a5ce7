package domain

import "github.com/shopspring/decimal"

// Role classifies an account. It is derived from the email domain at signup.
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleDeveloper Role = "Developer"
	RoleCustomer  Role = "Customer"
	// RoleUser is the default role for accounts without a dedicated kind.
	RoleUser Role = "User"
)

// Entity is anything a repository can key by id.
type Entity interface {
	EntityID() int
}

// Account is implemented by every account kind (User, Admin, Developer, Customer).
type Account interface {
	Entity
	Base() *User
}

// User models the identity fields shared by every account kind.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Role     Role   `json:"role"`
}

func (u *User) EntityID() int { return u.ID }

// Base returns the shared identity fields. Embedding kinds inherit it.
func (u *User) Base() *User { return u }

// Matches reports whether email and password both match exactly.
func (u *User) Matches(email, password string) bool {
	return u.Email == email && u.Password == password
}

type Admin struct {
	User
}

// Developer owns the games it has published.
type Developer struct {
	User
	Games []Game `json:"games"`
}

// Customer carries a wallet balance, a games library, reviews and a shopping cart.
type Customer struct {
	User
	Balance      decimal.Decimal `json:"balance"`
	GamesLibrary []Game          `json:"games_library"`
	Reviews      []Review        `json:"reviews"`
	ShoppingCart *ShoppingCart   `json:"shopping_cart,omitempty"`
}

// ClearOwned empties the reviews and games library in place.
func (c *Customer) ClearOwned() {
	c.Reviews = c.Reviews[:0]
	c.GamesLibrary = c.GamesLibrary[:0]
}

// ShoppingCart belongs to exactly one customer and shares its id.
type ShoppingCart struct {
	ID         int `json:"id"`
	CustomerID int `json:"customer_id"`
}

func (c *ShoppingCart) EntityID() int { return c.ID }

// Game is an item in a developer catalogue or a customer library.
type Game struct {
	ID    int             `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

// Review is a customer's rating of a game.
type Review struct {
	ID      int    `json:"id"`
	GameID  int    `json:"game_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// NewAccount builds an account of the given role with empty auxiliary collections.
// Customers come back with their shopping cart already linked.
func NewAccount(role Role, id int, username, email, password string) Account {
	base := User{ID: id, Username: username, Email: email, Password: password, Role: role}
	switch role {
	case RoleAdmin:
		return &Admin{User: base}
	case RoleDeveloper:
		return &Developer{User: base, Games: []Game{}}
	case RoleCustomer:
		return NewCustomer(base)
	default:
		return &base
	}
}

// NewCustomer returns a customer with a zero balance and a freshly linked cart.
func NewCustomer(base User) *Customer {
	base.Role = RoleCustomer
	c := &Customer{
		User:         base,
		Balance:      decimal.Zero,
		GamesLibrary: []Game{},
		Reviews:      []Review{},
	}
	c.ShoppingCart = &ShoppingCart{ID: c.ID, CustomerID: c.ID}
	return c
}
