package gamedata

import (
	"encoding/json"
	"fmt"
)

// Load unmarshals one embedded JSON catalog file into T.
func Load[T any](filename string) (T, error) {
	var out T

	raw, err := dataFS.ReadFile(filename)
	if err != nil {
		return out, fmt.Errorf("reading embedded %s: %w", filename, err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("parsing %s: %w", filename, err)
	}
	return out, nil
}

// MustLoad is Load for catalogs the game cannot start without.
func MustLoad[T any](filename string) T {
	out, err := Load[T](filename)
	if err != nil {
		panic(err)
	}
	return out
}
