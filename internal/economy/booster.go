package economy

import (
	"log/slog"

	"github.com/udisondev/matchday/internal/stat"
)

// Effect — прибавка к одному стату от бустера.
type Effect struct {
	Stat  stat.Stat `json:"stat"`
	Delta int       `json:"delta"`
}

// Booster — товар магазина, сразу поднимающий статы.
type Booster struct {
	Key     string   `json:"key"`
	Name    string   `json:"name"`
	Price   int      `json:"price"`
	Effects []Effect `json:"effects"`
}

// Boosters — каталог магазина.
var Boosters = []Booster{
	{
		Key:     "energetic",
		Name:    "Energetic",
		Price:   20,
		Effects: []Effect{{Stat: stat.Fatigue, Delta: 10}},
	},
	{
		Key:     "activity_booster",
		Name:    "Activity Booster",
		Price:   20,
		Effects: []Effect{{Stat: stat.Strength, Delta: 10}},
	},
	{
		Key:   "equipment",
		Name:  "Equipment",
		Price: 40,
		Effects: []Effect{
			{Stat: stat.TeamSpirit, Delta: 10},
			{Stat: stat.Popularity, Delta: 10},
		},
	},
}

// FindBooster ищет бустер по ключу.
func FindBooster(key string) (Booster, bool) {
	for _, b := range Boosters {
		if b.Key == key {
			return b, true
		}
	}
	return Booster{}, false
}

// BuyBooster оплачивает b и применяет его эффекты к store.
// Если денег не хватает, возвращает false и ничего не меняет.
func BuyBooster(b Booster, w *Wallet, store *stat.Store) bool {
	if !w.Debit(b.Price) {
		return false
	}
	for _, e := range b.Effects {
		store.Apply(e.Stat, e.Delta)
	}
	slog.Info("booster bought", "booster", b.Key, "price", b.Price)
	return true
}
