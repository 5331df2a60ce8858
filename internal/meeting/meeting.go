package meeting

import "strings"

// Type classifies a meeting. Unknown types fall back to daily behaviour
// wherever a template or policy is selected by type.
type Type string

const (
	TypeDaily         Type = "daily"
	TypePlanning      Type = "planning"
	TypeRetrospective Type = "retrospective"
)

// Known reports whether t is one of the recognized meeting types.
func (t Type) Known() bool {
	switch t {
	case TypeDaily, TypePlanning, TypeRetrospective:
		return true
	}
	return false
}

// Metadata describes the meeting being transcribed. It is produced by the
// form collaborator and consumed read-only by the summary service.
type Metadata struct {
	Name         string   `json:"name"`
	Participants []string `json:"participants"`
	Type         Type     `json:"type"`
}

// Valid reports whether the metadata is structurally complete: a name of at
// least three characters, at least one non-blank participant, and a
// recognized meeting type.
func (m Metadata) Valid() bool {
	if len(strings.TrimSpace(m.Name)) < 3 {
		return false
	}
	if !m.Type.Known() {
		return false
	}
	for _, p := range m.Participants {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}

// Normalized returns a copy with the name trimmed and the participant list
// cleaned up via NormalizeParticipants.
func (m Metadata) Normalized() Metadata {
	return Metadata{
		Name:         strings.TrimSpace(m.Name),
		Participants: NormalizeParticipants(m.Participants),
		Type:         m.Type,
	}
}

// ParseParticipants splits a comma-separated participant string into a
// normalized list.
func ParseParticipants(raw string) []string {
	return NormalizeParticipants(strings.Split(raw, ","))
}

// NormalizeParticipants trims entries, drops blanks, and deduplicates
// case-insensitively while preserving order and the first-seen spelling.
func NormalizeParticipants(participants []string) []string {
	seen := make(map[string]bool, len(participants))
	out := make([]string, 0, len(participants))
	for _, p := range participants {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		key := strings.ToLower(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}
