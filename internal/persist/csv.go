package persist

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/avenkatesh/labyrinth/internal/entity"
)

const (
	gameVersion = "1.0"
	backupStamp = "20060102_150405"
)

var saveFileNames = map[string]string{
	SaveTypePlayer:     "player_data.csv",
	SaveTypeStatistics: "game_statistics.csv",
	SaveTypeWorld:      "world_data.csv",
	SaveTypeLocations:  "location_data.csv",
}

// saveTypes fixes the order for directory-wide operations.
var saveTypes = []string{SaveTypePlayer, SaveTypeStatistics, SaveTypeWorld, SaveTypeLocations}

var playerColumns = []string{
	"name", "health", "max_health", "coins", "level", "experience",
	"attack_power", "position_x", "position_y", "equipment_weapon",
	"equipment_armor", "equipment_accessory", "inventory",
	"visited_locations", "save_timestamp", "game_version",
}

var locationColumns = []string{
	"x", "y", "name", "visited_count", "has_coins", "coin_amount",
	"has_monster", "monster_type", "is_safe", "description", "items",
	"discovered",
}

var worldColumns = []string{
	"total_locations_created", "total_coins_generated",
	"total_monsters_spawned", "total_items_placed",
	"locations_discovered", "total_locations", "discovery_percentage",
	"current_monsters", "current_coins", "special_events_triggered",
	"save_timestamp",
}

var statisticsColumns = []string{
	"session_id", "commands_entered", "battles_won", "battles_lost",
	"items_used", "locations_discovered", "total_locations_created",
	"total_coins_generated", "total_monsters_spawned",
	"total_items_placed", "total_locations", "discovery_percentage",
	"current_monsters", "current_coins", "special_events_triggered",
	"turn_count", "total_monsters_defeated", "total_coins_collected",
	"total_locations_visited", "average_coins_per_turn",
	"session_timestamp",
}

// CSVStore is the CSV-file implementation of Store.
type CSVStore struct {
	dir string
}

var _ Store = (*CSVStore)(nil)

// NewCSVStore returns a store rooted at dir, creating the directory if
// needed. When the directory cannot be created the store falls back to
// the current working directory.
func NewCSVStore(dir string) *CSVStore {
	if err := os.MkdirAll(dir, 0755); err != nil {
		dir = "."
	}
	return &CSVStore{dir: dir}
}

// Dir reports the directory the store writes into.
func (s *CSVStore) Dir() string {
	return s.dir
}

func (s *CSVStore) path(saveType string) string {
	return filepath.Join(s.dir, saveFileNames[saveType])
}

// SavePlayer overwrites the player save with a single record.
func (s *CSVStore) SavePlayer(rec PlayerRecord) error {
	row := []string{
		rec.Name,
		strconv.Itoa(rec.Health),
		strconv.Itoa(rec.MaxHealth),
		strconv.Itoa(rec.Coins),
		strconv.Itoa(rec.Level),
		formatFloat(rec.Experience),
		strconv.Itoa(rec.AttackPower),
		strconv.Itoa(rec.X),
		strconv.Itoa(rec.Y),
		rec.Weapon,
		rec.Armor,
		rec.Accessory,
		joinList(rec.Inventory),
		formatVisited(rec.Visited),
		time.Now().Format(time.RFC3339),
		gameVersion,
	}
	data, err := encodeCSV(playerColumns, [][]string{row})
	if err != nil {
		return fmt.Errorf("failed to encode player save: %w", err)
	}
	if err := os.WriteFile(s.path(SaveTypePlayer), data, 0644); err != nil {
		return fmt.Errorf("failed to write player save: %w", err)
	}
	return nil
}

// LoadPlayer reads the player save back into a record.
func (s *CSVStore) LoadPlayer() (*PlayerRecord, error) {
	header, rows, err := readCSV(s.path(SaveTypePlayer))
	if err != nil {
		return nil, fmt.Errorf("failed to read player save: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("player save is empty")
	}
	r := newRowReader(header, rows[0])
	rec := &PlayerRecord{
		Name:        r.str("name"),
		Health:      r.int("health"),
		MaxHealth:   r.int("max_health"),
		Coins:       r.int("coins"),
		Level:       r.int("level"),
		Experience:  r.float("experience"),
		AttackPower: r.int("attack_power"),
		X:           r.int("position_x"),
		Y:           r.int("position_y"),
		Weapon:      r.str("equipment_weapon"),
		Armor:       r.str("equipment_armor"),
		Accessory:   r.str("equipment_accessory"),
		Inventory:   splitList(r.str("inventory")),
	}
	visited, visitedErr := parseVisited(r.str("visited_locations"))
	if r.err != nil {
		return nil, fmt.Errorf("failed to parse player save: %w", r.err)
	}
	if visitedErr != nil {
		return nil, fmt.Errorf("failed to parse player save: %w", visitedErr)
	}
	rec.Visited = visited
	return rec, nil
}

// SaveWorld overwrites the world snapshot and the location rows.
func (s *CSVStore) SaveWorld(stats WorldStats, locations []LocationRecord) error {
	now := time.Now().Format(time.RFC3339)
	worldRow := []string{
		strconv.Itoa(stats.TotalLocationsCreated),
		strconv.Itoa(stats.TotalCoinsGenerated),
		strconv.Itoa(stats.TotalMonstersSpawned),
		strconv.Itoa(stats.TotalItemsPlaced),
		strconv.Itoa(stats.LocationsDiscovered),
		strconv.Itoa(stats.TotalLocations),
		formatFloat(stats.DiscoveryPercentage),
		strconv.Itoa(stats.CurrentMonsters),
		strconv.Itoa(stats.CurrentCoins),
		strconv.Itoa(stats.SpecialEventsTriggered),
		now,
	}
	data, err := encodeCSV(worldColumns, [][]string{worldRow})
	if err != nil {
		return fmt.Errorf("failed to encode world save: %w", err)
	}
	if err := os.WriteFile(s.path(SaveTypeWorld), data, 0644); err != nil {
		return fmt.Errorf("failed to write world save: %w", err)
	}

	rows := make([][]string, 0, len(locations))
	for _, loc := range locations {
		rows = append(rows, []string{
			strconv.Itoa(loc.X),
			strconv.Itoa(loc.Y),
			loc.Name,
			strconv.Itoa(loc.VisitedCount),
			strconv.FormatBool(loc.HasCoins),
			strconv.Itoa(loc.CoinAmount),
			strconv.FormatBool(loc.HasMonster),
			loc.MonsterType,
			strconv.FormatBool(loc.IsSafe),
			loc.Description,
			joinList(loc.Items),
			strconv.FormatBool(loc.Discovered),
		})
	}
	data, err = encodeCSV(locationColumns, rows)
	if err != nil {
		return fmt.Errorf("failed to encode location save: %w", err)
	}
	if err := os.WriteFile(s.path(SaveTypeLocations), data, 0644); err != nil {
		return fmt.Errorf("failed to write location save: %w", err)
	}
	return nil
}

// LoadWorld reads every saved location. The caller only swaps its state
// in when the whole set parses, so a corrupt file never leaves a world
// half restored.
func (s *CSVStore) LoadWorld() ([]LocationRecord, error) {
	header, rows, err := readCSV(s.path(SaveTypeLocations))
	if err != nil {
		return nil, fmt.Errorf("failed to read location save: %w", err)
	}
	records := make([]LocationRecord, 0, len(rows))
	for i, row := range rows {
		r := newRowReader(header, row)
		rec := LocationRecord{
			X:            r.int("x"),
			Y:            r.int("y"),
			Name:         r.str("name"),
			VisitedCount: r.int("visited_count"),
			HasCoins:     r.bool("has_coins"),
			CoinAmount:   r.int("coin_amount"),
			HasMonster:   r.bool("has_monster"),
			MonsterType:  r.str("monster_type"),
			IsSafe:       r.bool("is_safe"),
			Description:  r.str("description"),
			Items:        splitList(r.str("items")),
			Discovered:   r.bool("discovered"),
		}
		if r.err != nil {
			return nil, fmt.Errorf("failed to parse location row %d: %w", i+1, r.err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// AppendStatistics adds one session row, writing the header only when
// the file is new.
func (s *CSVStore) AppendStatistics(rec StatisticsRecord) error {
	rec.SessionTimestamp = time.Now().Format(time.RFC3339)
	path := s.path(SaveTypeStatistics)
	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open statistics save: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(statisticsColumns); err != nil {
			return fmt.Errorf("failed to write statistics header: %w", err)
		}
	}
	if err := w.Write(statisticsRow(rec)); err != nil {
		return fmt.Errorf("failed to write statistics row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush statistics save: %w", err)
	}
	return nil
}

// LatestStatistics returns the last appended session row.
func (s *CSVStore) LatestStatistics() (*StatisticsRecord, error) {
	header, rows, err := readCSV(s.path(SaveTypeStatistics))
	if err != nil {
		return nil, fmt.Errorf("failed to read statistics save: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("statistics save is empty")
	}
	r := newRowReader(header, rows[len(rows)-1])
	rec := &StatisticsRecord{
		SessionID:              r.str("session_id"),
		CommandsEntered:        r.int("commands_entered"),
		BattlesWon:             r.int("battles_won"),
		BattlesLost:            r.int("battles_lost"),
		ItemsUsed:              r.int("items_used"),
		LocationsDiscovered:    r.int("locations_discovered"),
		TotalLocationsCreated:  r.int("total_locations_created"),
		TotalCoinsGenerated:    r.int("total_coins_generated"),
		TotalMonstersSpawned:   r.int("total_monsters_spawned"),
		TotalItemsPlaced:       r.int("total_items_placed"),
		TotalLocations:         r.int("total_locations"),
		DiscoveryPercentage:    r.float("discovery_percentage"),
		CurrentMonsters:        r.int("current_monsters"),
		CurrentCoins:           r.int("current_coins"),
		SpecialEventsTriggered: r.int("special_events_triggered"),
		TurnCount:              r.int("turn_count"),
		MonstersDefeated:       r.int("total_monsters_defeated"),
		CoinsCollected:         r.int("total_coins_collected"),
		LocationsVisited:       r.int("total_locations_visited"),
		AverageCoinsPerTurn:    r.float("average_coins_per_turn"),
		SessionTimestamp:       r.str("session_timestamp"),
	}
	if r.err != nil {
		return nil, fmt.Errorf("failed to parse statistics save: %w", r.err)
	}
	return rec, nil
}

// SaveFiles lists the save file names that exist on disk.
func (s *CSVStore) SaveFiles() []string {
	var files []string
	for _, t := range saveTypes {
		if _, err := os.Stat(s.path(t)); err == nil {
			files = append(files, saveFileNames[t])
		}
	}
	return files
}

// Delete removes the save file for one save type.
func (s *CSVStore) Delete(saveType string) error {
	name, ok := saveFileNames[saveType]
	if !ok {
		return fmt.Errorf("unknown save type %q", saveType)
	}
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no %s save to delete: %w", saveType, err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete %s save: %w", saveType, err)
	}
	return nil
}

// DeleteAll removes every save file, then the directory when it is
// empty.
func (s *CSVStore) DeleteAll() error {
	for _, t := range saveTypes {
		path := s.path(t)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to delete %s save: %w", t, err)
		}
	}
	if s.dir != "." {
		os.Remove(s.dir) // only succeeds when empty
	}
	return nil
}

// Backup copies every existing save file to a timestamped sibling.
func (s *CSVStore) Backup() error {
	stamp := time.Now().Format(backupStamp)
	for _, t := range saveTypes {
		src := s.path(t)
		data, err := os.ReadFile(src)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to read %s save for backup: %w", t, err)
		}
		ext := filepath.Ext(src)
		base := strings.TrimSuffix(filepath.Base(src), ext)
		dst := filepath.Join(s.dir, fmt.Sprintf("%s_backup_%s%s", base, stamp, ext))
		if err := os.WriteFile(dst, data, 0644); err != nil {
			return fmt.Errorf("failed to back up %s save: %w", t, err)
		}
	}
	return nil
}

func statisticsRow(rec StatisticsRecord) []string {
	return []string{
		rec.SessionID,
		strconv.Itoa(rec.CommandsEntered),
		strconv.Itoa(rec.BattlesWon),
		strconv.Itoa(rec.BattlesLost),
		strconv.Itoa(rec.ItemsUsed),
		strconv.Itoa(rec.LocationsDiscovered),
		strconv.Itoa(rec.TotalLocationsCreated),
		strconv.Itoa(rec.TotalCoinsGenerated),
		strconv.Itoa(rec.TotalMonstersSpawned),
		strconv.Itoa(rec.TotalItemsPlaced),
		strconv.Itoa(rec.TotalLocations),
		formatFloat(rec.DiscoveryPercentage),
		strconv.Itoa(rec.CurrentMonsters),
		strconv.Itoa(rec.CurrentCoins),
		strconv.Itoa(rec.SpecialEventsTriggered),
		strconv.Itoa(rec.TurnCount),
		strconv.Itoa(rec.MonstersDefeated),
		strconv.Itoa(rec.CoinsCollected),
		strconv.Itoa(rec.LocationsVisited),
		formatFloat(rec.AverageCoinsPerTurn),
		rec.SessionTimestamp,
	}
}

// ==== CSV plumbing ====

func encodeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func readCSV(path string) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	return all[0], all[1:], nil
}

// rowReader pulls typed fields out of a CSV row by column name,
// keeping the first error it hits.
type rowReader struct {
	idx map[string]int
	row []string
	err error
}

func newRowReader(header, row []string) *rowReader {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	return &rowReader{idx: idx, row: row}
}

func (r *rowReader) str(name string) string {
	i, ok := r.idx[name]
	if !ok || i >= len(r.row) {
		if r.err == nil {
			r.err = fmt.Errorf("missing column %q", name)
		}
		return ""
	}
	return r.row[i]
}

func (r *rowReader) int(name string) int {
	v := r.str(name)
	if r.err != nil {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.err = fmt.Errorf("column %q: %w", name, err)
		return 0
	}
	return n
}

func (r *rowReader) float(name string) float64 {
	v := r.str(name)
	if r.err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.err = fmt.Errorf("column %q: %w", name, err)
		return 0
	}
	return f
}

func (r *rowReader) bool(name string) bool {
	return strings.EqualFold(r.str(name), "true")
}

// ==== field encoding ====

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func joinList(items []string) string {
	return strings.Join(items, "|")
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "|")
}

// formatVisited renders visited coordinates as "x,y|x,y", sorted so
// identical sets serialize identically.
func formatVisited(coords []entity.Coord) string {
	sorted := make([]entity.Coord, len(coords))
	copy(sorted, coords)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})
	parts := make([]string, len(sorted))
	for i, c := range sorted {
		parts[i] = fmt.Sprintf("%d,%d", c.X, c.Y)
	}
	return strings.Join(parts, "|")
}

func parseVisited(s string) ([]entity.Coord, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, "|")
	coords := make([]entity.Coord, 0, len(parts))
	for _, part := range parts {
		xs, ys, ok := strings.Cut(part, ",")
		if !ok {
			return nil, fmt.Errorf("malformed visited location %q", part)
		}
		x, err := strconv.Atoi(xs)
		if err != nil {
			return nil, fmt.Errorf("malformed visited location %q: %w", part, err)
		}
		y, err := strconv.Atoi(ys)
		if err != nil {
			return nil, fmt.Errorf("malformed visited location %q: %w", part, err)
		}
		coords = append(coords, entity.Coord{X: x, Y: y})
	}
	return coords, nil
}
