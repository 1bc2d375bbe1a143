package world

// Event is a random world event offered to the player between turns.
// Healing is an absolute amount; the shrine sets it to the player's
// maximum health, which heals to full.
type Event struct {
	Type    string
	Message string
	Coins   int
	Items   []string
	Healing int
}

// GenerateRandomEvent rolls for a world event and returns nil most of
// the time. The caller is expected to apply its own trigger chance on
// top; the 1-in-10 gate here is the world's own reluctance.
//
// The treasure amount is rolled before the event is chosen, so the rng
// stream advances identically whichever event comes up.
func (g *Grid) GenerateRandomEvent(playerMaxHealth int) *Event {
	if g.rng.Float64() > 0.1 {
		return nil
	}

	coins := 20 + g.rng.Intn(31)
	events := []Event{
		{
			Type:    "treasure_chest",
			Message: "You stumble upon a hidden treasure chest!",
			Coins:   coins,
			Items:   []string{"Rare Gem"},
		},
		{
			Type:    "wandering_merchant",
			Message: "A wandering merchant offers you a deal!",
			Items:   []string{"Health Potion", "Magic Bread"},
		},
		{
			Type:    "mysterious_shrine",
			Message: "You find a mysterious shrine that fully heals you!",
			Healing: playerMaxHealth,
		},
	}

	event := events[g.rng.Intn(len(events))]
	g.events = append(g.events, event)
	return &event
}
