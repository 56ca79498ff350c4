// Package config loads the demo client's profile: device identity,
// discovery timeout, and a server override address. It is consumed only
// by cmd/slimclient, never by the core — the core carries no persisted
// state (spec §6). Grounded on the teacher's internal/config/config.go
// (go-toml/v2 file load + a Validate pass with the same two-step shape),
// adapted from ghost/seed node profiles to a SlimProto client identity.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"github.com/slimproto-go/slimproto/capability"
)

// CapabilityOverride adds or replaces one capability entry on top of
// capability.Default(). Tag must match a predefined capability's
// rendered name (see capability.ParseTag); anything else is treated as
// a custom token, with Value appended after "=" if non-empty.
type CapabilityOverride struct {
	Tag   string `toml:"tag"`
	Value string `toml:"value"`
}

// Identity is the device identity a Helo handshake advertises.
type Identity struct {
	MAC          string               `toml:"mac"`
	UUID         string               `toml:"uuid"`
	Language     string               `toml:"language"`
	Capabilities []CapabilityOverride `toml:"capabilities"`
}

// Profile is the demo client's full configuration file shape.
type Profile struct {
	Identity         Identity `toml:"identity"`
	DiscoveryTimeout string   `toml:"discovery_timeout"`
	ServerOverride   string   `toml:"server_override"`
}

// Load reads and validates a Profile from a TOML file at path.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	var p Profile
	if err := toml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if err := Validate(p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate checks every field that Load's zero value cannot already
// guarantee is well-formed.
func Validate(p Profile) error {
	if p.Identity.UUID != "" {
		if _, err := uuid.Parse(p.Identity.UUID); err != nil {
			return fmt.Errorf("config: identity.uuid %q invalid: %w", p.Identity.UUID, err)
		}
	}
	if p.Identity.MAC != "" {
		hw, err := net.ParseMAC(p.Identity.MAC)
		if err != nil || len(hw) != 6 {
			return fmt.Errorf("config: identity.mac %q is not a 6-byte MAC address", p.Identity.MAC)
		}
	}
	if p.Identity.Language != "" && len(p.Identity.Language) != 2 {
		return fmt.Errorf("config: identity.language %q must be exactly 2 ASCII characters", p.Identity.Language)
	}
	if p.DiscoveryTimeout != "" {
		if _, err := time.ParseDuration(p.DiscoveryTimeout); err != nil {
			return fmt.Errorf("config: discovery_timeout %q invalid: %w", p.DiscoveryTimeout, err)
		}
	}
	if p.ServerOverride != "" {
		if _, _, err := net.SplitHostPort(p.ServerOverride); err != nil {
			return fmt.Errorf("config: server_override %q invalid: %w", p.ServerOverride, err)
		}
	}
	return nil
}

// DiscoveryTimeoutDuration parses DiscoveryTimeout, returning nil (no
// timeout, discover indefinitely) when the field is unset.
func (p Profile) DiscoveryTimeoutDuration() (*time.Duration, error) {
	if p.DiscoveryTimeout == "" {
		return nil, nil
	}
	d, err := time.ParseDuration(p.DiscoveryTimeout)
	if err != nil {
		return nil, fmt.Errorf("config: discovery_timeout %q invalid: %w", p.DiscoveryTimeout, err)
	}
	return &d, nil
}

// MACBytes parses Identity.MAC into Helo's fixed 6-byte form. Returns
// the zero value when unset, which session.Connect substitutes its own
// sentinel MAC for.
func (i Identity) MACBytes() ([6]byte, error) {
	var out [6]byte
	if i.MAC == "" {
		return out, nil
	}
	hw, err := net.ParseMAC(i.MAC)
	if err != nil || len(hw) != 6 {
		return out, fmt.Errorf("config: identity.mac %q is not a 6-byte MAC address", i.MAC)
	}
	copy(out[:], hw)
	return out, nil
}

// UUIDBytes parses Identity.UUID into Helo's fixed 16-byte form,
// minting a random v4 UUID when unset.
func (i Identity) UUIDBytes() ([16]byte, error) {
	var out [16]byte
	id := uuid.New()
	if i.UUID != "" {
		parsed, err := uuid.Parse(i.UUID)
		if err != nil {
			return out, fmt.Errorf("config: identity.uuid %q invalid: %w", i.UUID, err)
		}
		id = parsed
	}
	copy(out[:], id[:])
	return out, nil
}

// LanguageBytes parses Identity.Language into Helo's fixed 2-byte form,
// defaulting to "en" when unset.
func (i Identity) LanguageBytes() [2]byte {
	lang := i.Language
	if lang == "" {
		lang = "en"
	}
	var out [2]byte
	copy(out[:], lang)
	return out
}

// BuildCapabilities applies Identity.Capabilities on top of
// capability.Default(), in declaration order, per capability.Set's
// insertion-order-preserved-on-replace semantics.
func (i Identity) BuildCapabilities() *capability.Set {
	set := capability.Default()
	for _, override := range i.Capabilities {
		if tag, ok := capability.ParseTag(override.Tag); ok {
			set.Add(tag, override.Value)
			continue
		}
		token := override.Tag
		if override.Value != "" {
			token = token + "=" + override.Value
		}
		set.AddCustom(token)
	}
	return set
}
