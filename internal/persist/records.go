// Package persist stores game state in CSV files under a save directory.
// Records are flat, typed views of the domain state; the session layer
// converts between them and live objects.
package persist

import (
	"github.com/avenkatesh/labyrinth/internal/entity"
)

// PlayerRecord is one row of player_data.csv.
type PlayerRecord struct {
	Name        string
	Health      int
	MaxHealth   int
	Coins       int
	Level       int
	Experience  float64
	AttackPower int
	X, Y        int
	Weapon      string
	Armor       string
	Accessory   string
	Inventory   []string
	Visited     []entity.Coord
}

// LocationRecord is one row of location_data.csv.
type LocationRecord struct {
	X, Y         int
	Name         string
	VisitedCount int
	HasCoins     bool
	CoinAmount   int
	HasMonster   bool
	MonsterType  string // empty when the kind is decided at encounter time
	IsSafe       bool
	Description  string
	Items        []string
	Discovered   bool
}

// WorldStats is the aggregate world snapshot written to world_data.csv.
// The file is informational: loads rebuild state from location rows and
// never read it back.
type WorldStats struct {
	TotalLocationsCreated  int
	TotalCoinsGenerated    int
	TotalMonstersSpawned   int
	TotalItemsPlaced       int
	LocationsDiscovered    int
	TotalLocations         int
	DiscoveryPercentage    float64
	CurrentMonsters        int
	CurrentCoins           int
	SpecialEventsTriggered int
}

// StatisticsRecord is one row of game_statistics.csv: a session's
// counters merged with the world snapshot taken at save time. Rows
// accumulate across sessions.
type StatisticsRecord struct {
	SessionID              string
	CommandsEntered        int
	BattlesWon             int
	BattlesLost            int
	ItemsUsed              int
	LocationsDiscovered    int
	TotalLocationsCreated  int
	TotalCoinsGenerated    int
	TotalMonstersSpawned   int
	TotalItemsPlaced       int
	TotalLocations         int
	DiscoveryPercentage    float64
	CurrentMonsters        int
	CurrentCoins           int
	SpecialEventsTriggered int
	TurnCount              int
	MonstersDefeated       int
	CoinsCollected         int
	LocationsVisited       int
	AverageCoinsPerTurn    float64
	SessionTimestamp       string // set by the store when the row is appended
}
