// Package capability implements the HELO capability string: an ordered,
// comma-separated list of tokens a SlimProto client advertises to the
// server, per spec §3/§4.4.
package capability

import (
	"fmt"
	"strings"

	"github.com/slimproto-go/slimproto/wire"
)

// Tag is one of the closed set of predefined capability tokens.
type Tag int

const (
	Wma Tag = iota
	Wmap
	Wmal
	Ogg
	Flc
	Pcm
	Aif
	Mp3
	Alc
	Aac
	MaxSampleRate
	Model
	ModelName
	Rhap
	AccuratePlayPoints
	SyncgroupID
	HasDigitalOut
	HasPreAmp
	HasDisableDAC
	Firmware
	Balance
	CanHTTPS
)

var tagName = map[Tag]string{
	Wma:                "wma",
	Wmap:               "wmap",
	Wmal:               "wmal",
	Ogg:                "ogg",
	Flc:                "flc",
	Pcm:                "pcm",
	Aif:                "aif",
	Mp3:                "mp3",
	Alc:                "alc",
	Aac:                "aac",
	MaxSampleRate:      "MaxSampleRate",
	Model:              "Model",
	ModelName:          "ModelName",
	Rhap:               "Rhap",
	AccuratePlayPoints: "AccuratePlayPoints",
	SyncgroupID:        "SyncgroupID",
	HasDigitalOut:      "HasDigitalOut",
	HasPreAmp:          "HasPreAmp",
	HasDisableDAC:      "HasDisableDac",
	Firmware:           "Firmware",
	Balance:            "Balance",
	CanHTTPS:           "CanHTTPS",
}

// ParseTag looks up a predefined Tag by its rendered name (case
// sensitive, matching tagName exactly). Used by config loading to turn
// a TOML capability override into a Tag before calling Add.
func ParseTag(name string) (Tag, bool) {
	for tag, n := range tagName {
		if n == name {
			return tag, true
		}
	}
	return 0, false
}

var tokenTags = map[Tag]bool{Wma: true, Wmap: true, Wmal: true, Ogg: true, Flc: true, Pcm: true, Aif: true, Mp3: true, Alc: true, Aac: true}
var valueTags = map[Tag]bool{MaxSampleRate: true, Model: true, ModelName: true, SyncgroupID: true, Firmware: true}
var flagTags = map[Tag]bool{AccuratePlayPoints: true, HasDigitalOut: true, HasPreAmp: true, HasDisableDAC: true, Balance: true, CanHTTPS: true}

type entry struct {
	predefined bool
	tag        Tag
	value      string
	custom     string
}

// Set is an ordered sequence of capability entries. The zero value is an
// empty set ready to use.
type Set struct {
	entries []entry
}

// NewSet returns an empty capability set.
func NewSet() *Set {
	return &Set{}
}

// Default returns the convenience set spec §4.4 names for a minimal
// client: Model=squeezelite, ModelName=SqueezeLite, AccuratePlayPoints=1,
// HasDigitalOut=1, HasPreAmp=1, HasDisableDac=1.
func Default() *Set {
	return NewSet().
		Add(Model, "squeezelite").
		Add(ModelName, "SqueezeLite").
		Add(AccuratePlayPoints, "").
		Add(HasDigitalOut, "").
		Add(HasPreAmp, "").
		Add(HasDisableDAC, "")
}

// Add inserts a predefined capability. If tag already appears, the
// existing entry is removed first and the new one appended, so the
// later call wins both in value and in position.
func (s *Set) Add(tag Tag, value string) *Set {
	for i, e := range s.entries {
		if e.predefined && e.tag == tag {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	s.entries = append(s.entries, entry{predefined: true, tag: tag, value: value})
	return s
}

// AddCustom appends a raw ASCII token. Custom entries are never
// deduplicated: adding the same token twice yields it twice.
func (s *Set) AddCustom(token string) *Set {
	s.entries = append(s.entries, entry{custom: token})
	return s
}

// Render produces the comma-separated capability string in insertion
// order. Returns wire.ErrInvalidArgument if a value-required predefined
// entry has no value, or a custom entry is the empty string.
func (s *Set) Render() (string, error) {
	parts := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		if !e.predefined {
			if e.custom == "" {
				return "", fmt.Errorf("%w: empty custom capability token", wire.ErrInvalidArgument)
			}
			parts = append(parts, e.custom)
			continue
		}
		rendered, err := renderPredefined(e.tag, e.value)
		if err != nil {
			return "", err
		}
		parts = append(parts, rendered)
	}
	return strings.Join(parts, ","), nil
}

func renderPredefined(tag Tag, value string) (string, error) {
	name, ok := tagName[tag]
	if !ok {
		return "", fmt.Errorf("%w: unknown capability tag %d", wire.ErrInvalidArgument, tag)
	}
	switch {
	case tokenTags[tag]:
		return name, nil
	case valueTags[tag]:
		if value == "" {
			return "", fmt.Errorf("%w: capability %s requires a value", wire.ErrInvalidArgument, name)
		}
		return name + "=" + value, nil
	case tag == Rhap:
		return "Rhap", nil
	case flagTags[tag]:
		return name + "=1", nil
	default:
		return "", fmt.Errorf("%w: unknown capability tag %d", wire.ErrInvalidArgument, tag)
	}
}
