package combat

import (
	"github.com/tfaulds/emberdeck/internal/game/card"
	"github.com/tfaulds/emberdeck/internal/game/event"
	"github.com/tfaulds/emberdeck/internal/game/vocab"
)

// shufflePile shuffles pile in place with a Fisher-Yates walk over the
// injected source.
func (c *Combat) shufflePile(pile []*card.Instance) {
	for i := len(pile) - 1; i > 0; i-- {
		j := c.src.Intn(i + 1)
		pile[i], pile[j] = pile[j], pile[i]
	}
}

// liftInnateCards stable-moves innate cards to the top of the draw pile so
// the opening hand draws them first. The top of the pile is the slice end.
func (c *Combat) liftInnateCards() {
	var rest, innate []*card.Instance
	for _, in := range c.draw {
		if in.Template.Innate {
			innate = append(innate, in)
		} else {
			rest = append(rest, in)
		}
	}
	c.draw = append(rest, innate...)
}

// drawCards draws up to n cards into the hand, reshuffling the discard pile
// into the draw pile on exhaustion. Drawing stops silently when the hand is
// full or both piles are empty.
//
// Postcondition: len(hand) <= cfg.MaxHandSize.
func (c *Combat) drawCards(n int) []event.Event {
	var events []event.Event
	for i := 0; i < n; i++ {
		if len(c.hand) >= c.cfg.MaxHandSize {
			break
		}
		if len(c.draw) == 0 {
			if len(c.discard) == 0 {
				break
			}
			c.draw = c.discard
			c.discard = nil
			c.shufflePile(c.draw)
			events = append(events, event.Event{Trigger: vocab.TriggerShuffle})
		}
		top := c.draw[len(c.draw)-1]
		c.draw = c.draw[:len(c.draw)-1]
		c.hand = append(c.hand, top)
		events = append(events, event.Event{
			Trigger: vocab.TriggerCardDrawn, CardID: top.Template.ID,
		})
	}
	return events
}

// removeFromHand removes and returns the card at index i.
// Precondition: i is a valid hand index.
func (c *Combat) removeFromHand(i int) *card.Instance {
	in := c.hand[i]
	c.hand = append(c.hand[:i], c.hand[i+1:]...)
	return in
}

// discardFromHand moves the card at index i to the discard pile.
func (c *Combat) discardFromHand(i int) event.Event {
	in := c.removeFromHand(i)
	c.discard = append(c.discard, in)
	return event.Event{Trigger: vocab.TriggerCardDiscarded, CardID: in.Template.ID}
}

// exhaustFromHand moves the card at index i to the exhaust pile.
func (c *Combat) exhaustFromHand(i int) event.Event {
	in := c.removeFromHand(i)
	c.exhaust = append(c.exhaust, in)
	return event.Event{Trigger: vocab.TriggerCardExhausted, CardID: in.Template.ID}
}

// discardRandom discards up to n random cards from the hand.
func (c *Combat) discardRandom(n int) []event.Event {
	var events []event.Event
	for i := 0; i < n && len(c.hand) > 0; i++ {
		events = append(events, c.discardFromHand(c.src.Intn(len(c.hand))))
	}
	return events
}

// exhaustRandom exhausts up to n random cards from the hand.
func (c *Combat) exhaustRandom(n int) []event.Event {
	var events []event.Event
	for i := 0; i < n && len(c.hand) > 0; i++ {
		events = append(events, c.exhaustFromHand(c.src.Intn(len(c.hand))))
	}
	return events
}

// upgradeRandomInHand upgrades up to n random unupgraded hand cards.
func (c *Combat) upgradeRandomInHand(n int) {
	for i := 0; i < n; i++ {
		var candidates []int
		for j, in := range c.hand {
			if !in.Upgraded {
				candidates = append(candidates, j)
			}
		}
		if len(candidates) == 0 {
			return
		}
		c.hand[candidates[c.src.Intn(len(candidates))]].UpgradeCard()
	}
}

// gainEnergy adds to the player's energy pool.
func (c *Combat) gainEnergy(n int) { c.player.Energy += n }

// loseEnergy removes energy, floored at zero.
func (c *Combat) loseEnergy(n int) {
	c.player.Energy -= n
	if c.player.Energy < 0 {
		c.player.Energy = 0
	}
}
