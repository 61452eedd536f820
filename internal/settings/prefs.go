package settings

import (
	"encoding/json"
	"fmt"
	"log"
)

// EnabledKey is the key the particle enabled flag is stored under.
const EnabledKey = "heartParticlesEnabled"

// LoadEnabled reads the persisted enabled flag.
//
// Any failure (nil store, read error, malformed value) is logged as a
// warning and yields true, the default. A missing key also yields true.
func LoadEnabled(s Store) bool {
	if s == nil {
		return true
	}

	raw, ok, err := s.Get(EnabledKey)
	if err != nil {
		log.Printf("[WARN] Could not load particle settings: %v", err)
		return true
	}
	if !ok {
		return true
	}

	var enabled bool
	if err := json.Unmarshal([]byte(raw), &enabled); err != nil {
		log.Printf("[WARN] Could not load particle settings: malformed value %q: %v", raw, err)
		return true
	}
	return enabled
}

// StoreEnabled writes the enabled flag, JSON encoded. A nil store is a
// no-op.
func StoreEnabled(s Store, enabled bool) error {
	if s == nil {
		return nil
	}

	b, err := json.Marshal(enabled)
	if err != nil {
		return fmt.Errorf("saving particle settings: %w", err)
	}
	if err := s.Set(EnabledKey, string(b)); err != nil {
		return fmt.Errorf("saving particle settings: %w", err)
	}
	return nil
}

// SaveEnabled persists the enabled flag. Failures are logged and swallowed.
func SaveEnabled(s Store, enabled bool) {
	if err := StoreEnabled(s, enabled); err != nil {
		log.Printf("[WARN] Could not save particle settings: %v", err)
	}
}
