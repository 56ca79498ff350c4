package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempProfile(t *testing.T, toml string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.toml")
	if err := os.WriteFile(path, []byte(toml), 0o644); err != nil {
		t.Fatalf("write temp profile: %v", err)
	}
	return path
}

func TestLoadValidProfile(t *testing.T) {
	path := writeTempProfile(t, `
discovery_timeout = "5s"
server_override = "192.168.1.50:3483"

[identity]
mac = "01:02:03:04:05:06"
uuid = "11111111-2222-3333-4444-555555555555"
language = "en"
`)
	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Identity.MAC != "01:02:03:04:05:06" {
		t.Fatalf("mac = %q", p.Identity.MAC)
	}
	if p.ServerOverride != "192.168.1.50:3483" {
		t.Fatalf("server_override = %q", p.ServerOverride)
	}
}

func TestLoadRejectsInvalidMAC(t *testing.T) {
	path := writeTempProfile(t, `
[identity]
mac = "not-a-mac"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid mac")
	}
}

func TestLoadRejectsInvalidUUID(t *testing.T) {
	path := writeTempProfile(t, `
[identity]
uuid = "not-a-uuid"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid uuid")
	}
}

func TestLoadRejectsInvalidDiscoveryTimeout(t *testing.T) {
	path := writeTempProfile(t, `discovery_timeout = "not-a-duration"`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid discovery_timeout")
	}
}

func TestLoadRejectsServerOverrideWithoutPort(t *testing.T) {
	path := writeTempProfile(t, `server_override = "192.168.1.50"`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for server_override missing port")
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDiscoveryTimeoutDurationUnsetReturnsNil(t *testing.T) {
	p := Profile{}
	d, err := p.DiscoveryTimeoutDuration()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != nil {
		t.Fatalf("duration = %v, want nil", d)
	}
}

func TestDiscoveryTimeoutDurationParsesSet(t *testing.T) {
	p := Profile{DiscoveryTimeout: "2500ms"}
	d, err := p.DiscoveryTimeoutDuration()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d == nil || d.Milliseconds() != 2500 {
		t.Fatalf("duration = %v, want 2500ms", d)
	}
}

func TestIdentityMACBytesUnsetReturnsZeroValue(t *testing.T) {
	mac, err := Identity{}.MACBytes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mac != [6]byte{} {
		t.Fatalf("mac = %v, want zero value", mac)
	}
}

func TestIdentityMACBytesParsesSet(t *testing.T) {
	mac, err := Identity{MAC: "aa:bb:cc:dd:ee:ff"}.MACBytes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [6]byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}
	if mac != want {
		t.Fatalf("mac = %v, want %v", mac, want)
	}
}

func TestIdentityUUIDBytesMintsRandomWhenUnset(t *testing.T) {
	a, err := Identity{}.UUIDBytes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Identity{}.UUIDBytes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Fatal("expected two distinct minted UUIDs")
	}
}

func TestIdentityLanguageBytesDefaultsToEn(t *testing.T) {
	got := Identity{}.LanguageBytes()
	if got != [2]byte{'e', 'n'} {
		t.Fatalf("language = %v, want 'en'", got)
	}
}

func TestIdentityBuildCapabilitiesAppliesOverride(t *testing.T) {
	identity := Identity{
		Capabilities: []CapabilityOverride{
			{Tag: "Model", Value: "override-model"},
		},
	}
	rendered, err := identity.BuildCapabilities().Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(rendered, "Model=override-model") {
		t.Fatalf("rendered = %q, want it to contain Model=override-model", rendered)
	}
}

func TestIdentityBuildCapabilitiesTreatsUnknownTagAsCustom(t *testing.T) {
	identity := Identity{
		Capabilities: []CapabilityOverride{
			{Tag: "CustomThing", Value: "1"},
		},
	}
	rendered, err := identity.BuildCapabilities().Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(rendered, "CustomThing=1") {
		t.Fatalf("rendered = %q, want it to contain CustomThing=1", rendered)
	}
}
