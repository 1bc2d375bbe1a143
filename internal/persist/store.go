package persist

// Save type names accepted by Store.Delete and reported by SaveFiles.
const (
	SaveTypePlayer     = "player"
	SaveTypeStatistics = "statistics"
	SaveTypeWorld      = "world"
	SaveTypeLocations  = "locations"
)

// Store defines the interface for game state persistence.
type Store interface {
	// SavePlayer overwrites the player save with a single record.
	SavePlayer(rec PlayerRecord) error

	// LoadPlayer reads the player save. A missing file surfaces as an
	// error wrapping fs.ErrNotExist.
	LoadPlayer() (*PlayerRecord, error)

	// SaveWorld overwrites the world snapshot and the full location
	// set in one shot.
	SaveWorld(stats WorldStats, locations []LocationRecord) error

	// LoadWorld reads every saved location. It returns either the
	// complete set or an error, never a partial read.
	LoadWorld() ([]LocationRecord, error)

	// AppendStatistics adds one session row to the statistics history,
	// stamping it with the current time.
	AppendStatistics(rec StatisticsRecord) error

	// LatestStatistics returns the most recently appended session row.
	LatestStatistics() (*StatisticsRecord, error)

	// SaveFiles lists the save file names that currently exist.
	SaveFiles() []string

	// Delete removes the save file for one save type.
	Delete(saveType string) error

	// DeleteAll removes every save file, and the save directory when
	// it is left empty.
	DeleteAll() error

	// Backup copies every existing save file to a timestamped name.
	Backup() error
}
