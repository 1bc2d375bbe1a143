package game

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/avenkatesh/labyrinth/internal/combat"
	"github.com/avenkatesh/labyrinth/internal/entity"
	"github.com/avenkatesh/labyrinth/internal/telemetry"
)

// runCombat drives one interactive encounter to a terminal state and
// returns it. The engine owns the rules; this loop owns the prompts,
// the transcript, and the spans.
func (s *Session) runCombat(ctx context.Context, foe *entity.Monster) combat.State {
	tracer := telemetry.Tracer("combat")

	_, startSpan := tracer.Start(ctx, "combat.start")
	startSpan.SetAttributes(
		attribute.String("monster", foe.Name),
		attribute.Int("monster_hp", foe.HP),
		attribute.Int("player_hp", s.player.HP),
		attribute.Int("player_level", s.player.Level),
	)
	startSpan.End()

	engine := combat.NewEngine(s.player, foe, s.items, s.rng)
	s.printLines(engine.Opening())

	for engine.State() == combat.StateActive {
		s.println("\n" + strings.Repeat("-", 20))
		s.println("Choose your action:")
		s.println("1. Attack")
		s.println("2. Use Item")
		s.println("3. Try to Flee")

		choice, ok := s.prompt("Enter choice (1-3): ")
		if !ok {
			// Input ended mid-fight; fleeing is the least destructive default.
			choice = "3"
		}

		var round combat.Round
		switch choice {
		case "1":
			round = s.resolveAction(ctx, engine, foe, "attack", engine.Attack)
		case "2":
			round = s.itemAction(ctx, engine, foe)
		case "3":
			round = s.resolveAction(ctx, engine, foe, "flee", engine.Flee)
		default:
			s.println("Invalid choice! You lose your turn.")
			round = s.resolveAction(ctx, engine, foe, "forfeit", engine.Forfeit)
		}

		s.printLines(round.Events)
	}

	outcome := engine.State()

	_, endSpan := tracer.Start(ctx, "combat.end")
	endSpan.SetAttributes(
		attribute.String("outcome", outcome.String()),
		attribute.Int("rounds", engine.Rounds()),
		attribute.Int("player_hp_remaining", s.player.HP),
	)
	endSpan.End()

	return outcome
}

// itemAction handles the inventory branch of a combat turn. An empty
// inventory forfeits the turn; the item name keeps its typed case, so
// title-case names work here even though the command line lowercases.
func (s *Session) itemAction(ctx context.Context, engine *combat.Engine, foe *entity.Monster) combat.Round {
	if len(s.player.Inventory) == 0 {
		s.println("Your inventory is empty!")
		return s.resolveAction(ctx, engine, foe, "forfeit", engine.Forfeit)
	}

	s.println("Inventory: " + strings.Join(s.player.Inventory, ", "))
	item, _ := s.prompt("Enter item name: ")
	return s.resolveAction(ctx, engine, foe, "item", func() combat.Round {
		return engine.UseItem(item)
	})
}

// resolveAction runs one engine action under a combat.turn span.
func (s *Session) resolveAction(ctx context.Context, engine *combat.Engine, foe *entity.Monster, action string, run func() combat.Round) combat.Round {
	tracer := telemetry.Tracer("combat")
	_, span := tracer.Start(ctx, "combat.turn")
	defer span.End()

	round := run()

	span.SetAttributes(
		attribute.String("action", action),
		attribute.Int("round", engine.Rounds()),
		attribute.Int("player_hp", s.player.HP),
		attribute.Int("monster_hp", foe.HP),
		attribute.String("state", round.State.String()),
	)
	return round
}
