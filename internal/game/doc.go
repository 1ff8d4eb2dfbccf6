// Package game drives simulated Texas Hold'em games between scripted
// players.
//
// The main types are Game, which seats players and plays a run of hands
// with a rotating button, and HandState, which manages a single hand
// including blinds, betting rounds, side pots and the showdown.
//
// # Basic Usage
//
//	g, err := game.NewGame(game.Config{SmallBlind: 2, BigBlind: 4, StartingChips: 100, Hands: 50},
//		randutil.Stream(seed, 0),
//		[]game.Seat{{Name: "alice", Decider: alice}, {Name: "bob", Decider: bob}})
//	if err != nil {
//		return err
//	}
//	results, err := g.Play()
//
// # Architecture
//
// HandState delegates responsibilities to specialized components:
//   - BettingRound: action validation, the raise cap and round completion
//   - PotManager: main and side pots built from each player's contribution
//   - poker.Deck: shuffled cards from an injected RNG
//   - poker.Evaluate: showdown ranking
//
// Chips that cannot be split evenly at showdown are carried into the next
// hand's main pot. Game checks after every hand that the chips in play plus
// the carry still equal what the table started with.
package game
