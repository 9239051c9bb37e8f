package models

import "fmt"

// MatchKind is the competition type a league page belongs to.
type MatchKind int

const (
	KindUnknown MatchKind = iota
	KindLeague
	KindCup
	KindPlayoff
	KindFriendly
)

var kindNames = map[MatchKind]string{
	KindUnknown:  "unknown",
	KindLeague:   "league",
	KindCup:      "cup",
	KindPlayoff:  "playoff",
	KindFriendly: "friendly",
}

func (k MatchKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("MatchKind(%d)", int(k))
}

func (k MatchKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *MatchKind) UnmarshalText(b []byte) error {
	for kind, name := range kindNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("models: unknown match kind %q", string(b))
}

// Classification combines the competition kind with its division tier.
// Division 0 means the tier is not known; 1 is the top flight.
type Classification struct {
	Kind     MatchKind `json:"type"`
	Division int       `json:"division,omitempty"`
}

// IsLeague reports whether matches of this competition count as league play.
func (c Classification) IsLeague() bool {
	return c.Kind == KindLeague || c.Kind == KindUnknown
}
