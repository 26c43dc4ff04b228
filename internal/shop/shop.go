package shop

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/pagequiz/internal/player"
)

var (
	// ErrAlreadyOwned is returned when buying an item the player has.
	ErrAlreadyOwned = errors.New("item already owned")

	// ErrInsufficientDiamonds is returned when the price exceeds the balance.
	ErrInsufficientDiamonds = errors.New("not enough diamonds")

	// ErrInvalidItem is returned by Validate.
	ErrInvalidItem = errors.New("invalid store item")
)

// ItemType groups store items by what they unlock.
type ItemType string

const (
	TypePage     ItemType = "page"
	TypeReciter  ItemType = "reciter"
	TypeCosmetic ItemType = "cosmetic"
)

// Item is a purchasable store entry. ID doubles as the inventory id, so page
// items are named page_<n> and reciter items reciter_<edition>.
type Item struct {
	ID          string   `json:"id" validate:"required,max=64"`
	Name        string   `json:"name" validate:"required,max=80"`
	Description string   `json:"description" validate:"max=280"`
	Price       int      `json:"price" validate:"min=0"`
	Type        ItemType `json:"type" validate:"required,oneof=page reciter cosmetic"`
	Value       string   `json:"value"`
	SortOrder   int      `json:"sort_order"`
}

var validate = validator.New()

// Validate checks field constraints and that page and reciter ids match
// their type.
func Validate(it Item) error {
	if err := validate.Struct(it); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}
	switch it.Type {
	case TypePage:
		rest, ok := strings.CutPrefix(it.ID, player.PageItemPrefix)
		n, err := strconv.Atoi(rest)
		if !ok || err != nil || n < 1 {
			return fmt.Errorf("%w: page item id must be %s<n>", ErrInvalidItem, player.PageItemPrefix)
		}
	case TypeReciter:
		if ed, ok := strings.CutPrefix(it.ID, player.ReciterItemPrefix); !ok || ed == "" {
			return fmt.Errorf("%w: reciter item id must be %s<edition>", ErrInvalidItem, player.ReciterItemPrefix)
		}
	}
	return nil
}

// Purchase deducts the price and adds the item to the inventory. The caller
// persists the player.
func Purchase(p *player.Snapshot, it Item) error {
	if p.Owns(it.ID) {
		return ErrAlreadyOwned
	}
	if p.Diamonds < it.Price {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientDiamonds, it.Price, p.Diamonds)
	}
	p.Diamonds -= it.Price
	p.AddItem(it.ID)
	return nil
}

// Listing is an item as shown to a player.
type Listing struct {
	Item
	Owned      bool
	Affordable bool
}

// Catalog is the ordered set of store items.
type Catalog struct {
	items []Item
}

// NewCatalog sorts items by SortOrder, then ID.
func NewCatalog(items []Item) *Catalog {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b Item) int {
		if a.SortOrder != b.SortOrder {
			return a.SortOrder - b.SortOrder
		}
		return strings.Compare(a.ID, b.ID)
	})
	return &Catalog{items: sorted}
}

// Items returns the sorted items.
func (c *Catalog) Items() []Item {
	return slices.Clone(c.items)
}

// Find returns the item with id.
func (c *Catalog) Find(id string) (Item, bool) {
	for _, it := range c.items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Visible lists every item with the player's ownership and balance applied.
func (c *Catalog) Visible(p *player.Snapshot) []Listing {
	out := make([]Listing, len(c.items))
	for i, it := range c.items {
		out[i] = Listing{
			Item:       it,
			Owned:      p.Owns(it.ID),
			Affordable: p.Diamonds >= it.Price,
		}
	}
	return out
}
