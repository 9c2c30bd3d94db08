package main

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	cartModel "leafside-client/internal/domains/cart/model"
	catalogModel "leafside-client/internal/domains/catalog/model"
	identityModel "leafside-client/internal/domains/identity/model"
	orderModel "leafside-client/internal/domains/order/model"
)

var (
	errEmailTaken      = errors.New("email already registered")
	errBadCredentials  = errors.New("invalid email or password")
	errUnknownUser     = errors.New("unknown user")
	errUnknownBook     = errors.New("unknown book")
	errEmptyOrder      = errors.New("order has no items")
	errItemNotInCart   = errors.New("item not in cart")
	errBookUnavailable = errors.New("book is not available")
)

type userRecord struct {
	ID           string
	Email        string
	PasswordHash []byte
	FirstName    string
	LastName     string
	PhoneNumber  string
	CountryCode  string
	Gender       string
	Roles        []string
	CreatedAt    time.Time
}

type cartRecord struct {
	ID    string
	Items []cartModel.PayloadItem
}

// devState is the whole backend in memory. Everything resets on
// restart, which is the point of a fixture server.
type devState struct {
	mu           sync.RWMutex
	usersByEmail map[string]*userRecord
	usersByID    map[string]*userRecord
	books        map[string]catalogModel.Book
	bookOrder    []string
	carts        map[string]*cartRecord // keyed by user ID
	orders       map[string][]orderModel.Order
}

func newDevState() *devState {
	s := &devState{
		usersByEmail: make(map[string]*userRecord),
		usersByID:    make(map[string]*userRecord),
		books:        make(map[string]catalogModel.Book),
		carts:        make(map[string]*cartRecord),
		orders:       make(map[string][]orderModel.Order),
	}
	s.seedBooks()
	return s
}

func (s *devState) seedBooks() {
	seed := []struct {
		title, author, genre, description string
		price                             string
		available                         bool
	}{
		{"The Go Programming Language", "Alan A. A. Donovan", "Programming", "The authoritative resource for writing clear and idiomatic Go.", "34.90", true},
		{"A Wizard of Earthsea", "Ursula K. Le Guin", "Fantasy", "Ged's journey from reckless apprentice to wise mage.", "9.50", true},
		{"The Left Hand of Darkness", "Ursula K. Le Guin", "Science Fiction", "An envoy on a planet whose people have no fixed gender.", "11.20", true},
		{"Piranesi", "Susanna Clarke", "Fantasy", "A labyrinthine house, its tides, and the man who maps them.", "14.00", true},
		{"Out of Print Example", "Nobody", "Mystery", "Listed but no longer orderable.", "", false},
	}

	now := time.Now().UTC()
	for _, b := range seed {
		book := catalogModel.Book{
			ID:          uuid.NewString(),
			Title:       b.title,
			Author:      b.author,
			Genre:       b.genre,
			Description: b.description,
			Language:    "en",
			IsAvailable: b.available,
			CreatedAt:   &now,
		}
		if b.price != "" {
			price := decimal.RequireFromString(b.price)
			book.Price = &price
		}
		s.books[book.ID] = book
		s.bookOrder = append(s.bookOrder, book.ID)
	}
}

func (s *devState) register(req identityModel.RegisterRequest) (*userRecord, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[req.Email]; exists {
		return nil, errEmailTaken
	}

	user := &userRecord{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNumber:  req.PhoneNumber,
		CountryCode:  req.CountryCode,
		Gender:       req.Gender,
		Roles:        []string{"User"},
		CreatedAt:    time.Now().UTC(),
	}
	s.usersByEmail[user.Email] = user
	s.usersByID[user.ID] = user
	return user, nil
}

func (s *devState) authenticate(email, password string) (*userRecord, error) {
	s.mu.RLock()
	user, ok := s.usersByEmail[email]
	s.mu.RUnlock()
	if !ok {
		return nil, errBadCredentials
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, errBadCredentials
	}
	return user, nil
}

func (s *devState) profileFor(userID string) (*identityModel.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.usersByID[userID]
	if !ok {
		return nil, errUnknownUser
	}
	return profileOf(user), nil
}

func (s *devState) updateProfile(userID string, req identityModel.UpdateProfileRequest) (*identityModel.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.usersByID[userID]
	if !ok {
		return nil, errUnknownUser
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.CountryCode != "" {
		user.CountryCode = req.CountryCode
	}
	if req.Gender != "" {
		user.Gender = req.Gender
	}
	return profileOf(user), nil
}

func profileOf(user *userRecord) *identityModel.Profile {
	return &identityModel.Profile{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		PhoneNumber: user.PhoneNumber,
		CountryCode: user.CountryCode,
		Gender:      user.Gender,
		Roles:       append([]string{}, user.Roles...),
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
	}
}

func (s *devState) listBooks() []catalogModel.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]catalogModel.Book, 0, len(s.bookOrder))
	for _, id := range s.bookOrder {
		books = append(books, s.books[id])
	}
	return books
}

func (s *devState) getBook(id string) (catalogModel.Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	book, ok := s.books[id]
	return book, ok
}

// cartFor returns the user's cart payload, creating the cart on first
// touch.
func (s *devState) cartFor(userID string) cartModel.CartPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartPayloadLocked(userID)
}

// upsertItem sets the line for bookID to an absolute quantity, taking a
// price snapshot from the book's current price.
func (s *devState) upsertItem(userID, bookID string, quantity int) (cartModel.CartPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[bookID]
	if !ok {
		return cartModel.CartPayload{}, errUnknownBook
	}
	if !book.IsAvailable {
		return cartModel.CartPayload{}, errBookUnavailable
	}

	cart := s.cartLocked(userID)

	var snapshot *decimal.Decimal
	if book.Price != nil {
		price := *book.Price
		snapshot = &price
	}

	for i := range cart.Items {
		if cart.Items[i].BookID == bookID {
			cart.Items[i].Quantity = quantity
			cart.Items[i].PriceSnapshot = snapshot
			return s.cartPayloadLocked(userID), nil
		}
	}

	cart.Items = append(cart.Items, cartModel.PayloadItem{
		BookID:        bookID,
		Quantity:      quantity,
		PriceSnapshot: snapshot,
	})
	return s.cartPayloadLocked(userID), nil
}

func (s *devState) removeItem(userID, bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartLocked(userID)
	for i := range cart.Items {
		if cart.Items[i].BookID == bookID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return nil
		}
	}
	return errItemNotInCart
}

func (s *devState) clearCart(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartLocked(userID)
	cart.Items = nil
}

// createOrder prices the requested lines at the books' current prices,
// records the order and empties the user's cart.
func (s *devState) createOrder(userID string, req orderModel.CreateOrderRequest) (*orderModel.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(req.Items) == 0 {
		return nil, errEmptyOrder
	}

	now := time.Now().UTC()
	order := orderModel.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Status:          "pending",
		ShippingAddress: req.ShippingAddress,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		Notes:           req.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	total := decimal.Zero
	for _, item := range req.Items {
		book, ok := s.books[item.BookID]
		if !ok {
			return nil, errUnknownBook
		}

		unit := decimal.Zero
		if book.Price != nil {
			unit = *book.Price
		}
		lineTotal := unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(lineTotal)

		order.Items = append(order.Items, orderModel.OrderItem{
			ID:         uuid.NewString(),
			BookID:     item.BookID,
			BookTitle:  book.Title,
			Quantity:   item.Quantity,
			UnitPrice:  unit,
			TotalPrice: lineTotal,
		})
	}
	order.TotalAmount = total

	s.orders[userID] = append(s.orders[userID], order)
	s.cartLocked(userID).Items = nil
	return &order, nil
}

func (s *devState) listOrders(userID string) []orderModel.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]orderModel.Order{}, s.orders[userID]...)
}

func (s *devState) cartLocked(userID string) *cartRecord {
	cart, ok := s.carts[userID]
	if !ok {
		cart = &cartRecord{ID: uuid.NewString()}
		s.carts[userID] = cart
	}
	return cart
}

func (s *devState) cartPayloadLocked(userID string) cartModel.CartPayload {
	cart := s.cartLocked(userID)
	payload := cartModel.CartPayload{
		ID:    cart.ID,
		Items: make([]cartModel.PayloadItem, len(cart.Items)),
	}
	copy(payload.Items, cart.Items)
	return payload
}
