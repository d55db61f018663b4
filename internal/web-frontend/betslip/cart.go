package betslip

import (
	"github.com/shopspring/decimal"
)

// Cart é o bet slip de um sid. Items guarda a ordem de exibição.
type Cart struct {
	Items  []Item            `json:"items"`
	Stakes map[string]string `json:"stakes"`
	Open   bool              `json:"open"`
}

func NewCart() *Cart { return &Cart{Items: []Item{}, Stakes: map[string]string{}} }

func (c *Cart) index(id string) int {
	for i, it := range c.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) Find(id string) (Item, bool) {
	if i := c.index(id); i >= 0 {
		return c.Items[i], true
	}
	return Item{}, false
}

// Add é idempotente; um item novo vai para o fim e abre o painel
func (c *Cart) Add(it Item) bool {
	if c.index(it.ID) >= 0 {
		return false
	}
	c.Items = append(c.Items, it)
	c.Open = true
	return true
}

// Remove apaga o item e o stake juntos
func (c *Cart) Remove(id string) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	delete(c.Stakes, id)
	return true
}

func (c *Cart) ClearAll() {
	c.Items = []Item{}
	c.Stakes = map[string]string{}
}

func (c *Cart) SetStake(id, raw string) error {
	if c.index(id) < 0 {
		return ErrItemNotFound
	}
	if c.Stakes == nil {
		c.Stakes = map[string]string{}
	}
	c.Stakes[id] = raw
	return nil
}

func (c *Cart) Stake(id string) (decimal.Decimal, error) {
	return ParseStake(c.Stakes[id])
}

// ValidateAll é o portão tudo-ou-nada do envio em lote
func (c *Cart) ValidateAll() (map[string]decimal.Decimal, error) {
	if len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}
	out := make(map[string]decimal.Decimal, len(c.Items))
	for _, it := range c.Items {
		d, err := c.Stake(it.ID)
		if err != nil {
			return nil, ErrInvalidStakes
		}
		out[it.ID] = d
	}
	return out, nil
}

type Line struct {
	Item
	Stake        string `json:"stake"`
	PotentialWin string `json:"potentialWin"`
	Valid        bool   `json:"valid"`
}

// Summary é a visão de exibição: valores com 2 casas, calculados sobre os números sem arredondar
type Summary struct {
	Lines             []Line `json:"items"`
	Count             int    `json:"count"`
	Open              bool   `json:"open"`
	TotalStake        string `json:"totalStake"`
	TotalPotentialWin string `json:"totalPotentialWin"`
	CanSubmitAll      bool   `json:"canSubmitAll"`
}

func (c *Cart) Summary() Summary {
	s := Summary{Lines: make([]Line, 0, len(c.Items)), Count: len(c.Items), Open: c.Open, CanSubmitAll: len(c.Items) > 0}
	totalStake, totalWin := decimal.Zero, decimal.Zero
	for _, it := range c.Items {
		line := Line{Item: it, Stake: c.Stakes[it.ID], PotentialWin: FormatMoney(decimal.Zero)}
		if d, err := c.Stake(it.ID); err == nil {
			win := PotentialWin(d, it.Odds)
			line.Valid = true
			line.PotentialWin = FormatMoney(win)
			totalStake = totalStake.Add(d)
			totalWin = totalWin.Add(win)
		} else {
			s.CanSubmitAll = false
		}
		s.Lines = append(s.Lines, line)
	}
	s.TotalStake = FormatMoney(totalStake)
	s.TotalPotentialWin = FormatMoney(totalWin)
	return s
}
