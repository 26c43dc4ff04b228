package shop

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pagequiz/internal/player"
	"github.com/abhisek/pagequiz/internal/screen"
	"github.com/abhisek/pagequiz/internal/shop"
	"github.com/abhisek/pagequiz/internal/ui/layout"
	"github.com/abhisek/pagequiz/internal/ui/theme"
)

type itemsLoadedMsg struct {
	Items []shop.Item
	Err   error
}

type purchasedMsg struct {
	Player *player.Snapshot
	Item   shop.Item
	Err    error
}

// ShopScreen lists store items and buys them with diamonds.
type ShopScreen struct {
	env      *screen.Env
	catalog  *shop.Catalog
	selected int
	busy     bool
	status   string
	failed   bool
	errMsg   string
}

var _ screen.Screen = (*ShopScreen)(nil)
var _ screen.KeyHintProvider = (*ShopScreen)(nil)

// New creates a ShopScreen for env.Player.
func New(env *screen.Env) *ShopScreen {
	return &ShopScreen{env: env}
}

func (s *ShopScreen) Init() tea.Cmd {
	items := s.env.Items
	return func() tea.Msg {
		list, err := items.ListItems(context.Background())
		return itemsLoadedMsg{Items: list, Err: err}
	}
}

func (s *ShopScreen) Title() string {
	return "Shop"
}

func (s *ShopScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Buy"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ShopScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case itemsLoadedMsg:
		if msg.Err != nil {
			s.env.Log.Error().Err(msg.Err).Msg("load store items")
			s.errMsg = "Could not load the shop."
			return s, nil
		}
		s.catalog = shop.NewCatalog(msg.Items)
		return s, nil

	case purchasedMsg:
		s.busy = false
		if msg.Err != nil {
			s.failed = true
			s.status = purchaseError(msg.Item, msg.Err)
			return s, nil
		}
		*s.env.Player = *msg.Player
		s.failed = false
		s.status = fmt.Sprintf("You bought %s.", msg.Item.Name)
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *ShopScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.catalog == nil || s.busy {
		return s, nil
	}
	items := s.catalog.Items()
	switch msg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(items)-1 {
			s.selected++
		}
	case "enter":
		if s.selected < len(items) {
			s.busy = true
			return s, s.buy(items[s.selected])
		}
	}
	return s, nil
}

// buy purchases on a copy of the player and persists it; the shared player
// changes only once the save succeeded.
func (s *ShopScreen) buy(it shop.Item) tea.Cmd {
	env := s.env
	p := env.Player.Clone()
	return func() tea.Msg {
		if err := shop.Purchase(p, it); err != nil {
			return purchasedMsg{Item: it, Err: err}
		}
		if err := env.Players.SavePlayer(context.Background(), p); err != nil {
			env.Log.Error().Err(err).Str("item", it.ID).Msg("save purchase")
			return purchasedMsg{Item: it, Err: err}
		}
		env.Log.Info().Str("player", p.ID).Str("item", it.ID).Int("price", it.Price).Msg("item purchased")
		return purchasedMsg{Player: p, Item: it}
	}
}

func purchaseError(it shop.Item, err error) string {
	switch {
	case errors.Is(err, shop.ErrAlreadyOwned):
		return fmt.Sprintf("You already own %s.", it.Name)
	case errors.Is(err, shop.ErrInsufficientDiamonds):
		return fmt.Sprintf("%s costs %d ◆. Keep playing to earn more.", it.Name, it.Price)
	}
	return "The purchase could not be saved. Please try again."
}

func (s *ShopScreen) View(width, height int) string {
	if s.errMsg != "" {
		return "\n\n" + layout.Centered(theme.Incorrect.Render(s.errMsg), width)
	}
	if s.catalog == nil {
		return "\n\n" + layout.Centered(theme.Hint.Render("Loading shop..."), width)
	}

	listings := s.catalog.Visible(s.env.Player)
	if len(listings) == 0 {
		return "\n\n" + layout.Centered(theme.Hint.Render("The shop is empty."), width)
	}

	var b strings.Builder
	b.WriteString(layout.Centered(theme.Verse.Render(fmt.Sprintf("Balance: %d ◆", s.env.Player.Diamonds)), width))
	b.WriteString("\n\n")

	var rows []string
	for i, l := range listings {
		state := fmt.Sprintf("%4d ◆", l.Item.Price)
		if l.Owned {
			state = "  owned"
		}
		line := fmt.Sprintf("%-32s %s", l.Item.Name, state)

		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}
		switch {
		case i == s.selected:
			rows = append(rows, theme.Selected.Render(prefix+line))
		case l.Owned || !l.Affordable:
			rows = append(rows, theme.Muted.Render(prefix+line))
		default:
			rows = append(rows, theme.Unselected.Render(prefix+line))
		}
	}
	b.WriteString(layout.Centered(strings.Join(rows, "\n"), width))
	b.WriteString("\n\n")

	if desc := listings[min(s.selected, len(listings)-1)].Item.Description; desc != "" {
		b.WriteString(layout.Centered(theme.Hint.Render(desc), width))
		b.WriteString("\n")
	}
	if s.status != "" {
		style := theme.Correct
		if s.failed {
			style = theme.Incorrect
		}
		b.WriteString("\n")
		b.WriteString(layout.Centered(style.Render(s.status), width))
	}
	return b.String()
}
