package regen

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

const stampSuffix = ".stamp.json"

// Stamp records what a cache entry was built from. It sits beside the cached
// descriptor because the project generator may rewrite the descriptor itself
// when it resaves.
type Stamp struct {
	Name           string    `json:"name"`
	ChannelConfigs string    `json:"channel_configs"`
	Fingerprint    string    `json:"fingerprint"`
	WrittenAt      time.Time `json:"written_at"`
}

// Fingerprint hashes an encoded customized descriptor.
func Fingerprint(encoded []byte) string {
	return strconv.FormatUint(xxhash.Sum64(encoded), 16)
}

// StampPath returns the stamp location for a cache file.
func StampPath(cachePath string) string {
	return cachePath + stampSuffix
}

// LoadStamp reads the stamp for cachePath.
// Returns nil, nil if the stamp does not exist.
func LoadStamp(cachePath string) (*Stamp, error) {
	data, err := os.ReadFile(StampPath(cachePath))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache stamp: %w", err)
	}

	var s Stamp
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing cache stamp: %w", err)
	}
	return &s, nil
}

// SaveStamp writes s next to cachePath.
func SaveStamp(cachePath string, s *Stamp) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cache stamp: %w", err)
	}
	if err := os.WriteFile(StampPath(cachePath), data, 0644); err != nil {
		return fmt.Errorf("writing cache stamp: %w", err)
	}
	return nil
}
