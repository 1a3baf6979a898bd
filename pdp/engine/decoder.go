package engine

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/tidwall/jsonc"
)

// Flag is the tri-state value of one action inside a permission record.
type Flag int

const (
	Unset Flag = iota
	Allow
	Deny
)

func (f Flag) String() string {
	switch f {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	}
	return "unset"
}

// EncodedRecord is a permission record as delivered by a PermissionStore: a
// JSON object of action name to boolean. A nil record holds no entry for the
// resource at all.
type EncodedRecord []byte

// ActionFlags is a decoded permission record. Actions missing from the map
// are Unset, which is not the same as Deny.
type ActionFlags map[string]bool

// Get reports the flag configured for action.
func (f ActionFlags) Get(action string) Flag {
	allowed, ok := f[action]
	switch {
	case !ok:
		return Unset
	case allowed:
		return Allow
	default:
		return Deny
	}
}

// Decode parses raw into ActionFlags. Comments and trailing commas are
// accepted. Anything that does not decode to an object yields empty flags so
// the engine can still default to deny.
func Decode(raw EncodedRecord) ActionFlags {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ActionFlags{}
	}

	var values map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(raw), &values); err != nil {
		return ActionFlags{}
	}

	flags := make(ActionFlags, len(values))
	for action, value := range values {
		if allowed, ok := flagValue(value); ok {
			flags[action] = allowed
		}
	}
	return flags
}

func flagValue(value any) (allowed bool, set bool) {
	switch v := value.(type) {
	case nil:
		return false, false
	case bool:
		return v, true
	case float64:
		return v != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			return true, true
		}
		return false, true
	default:
		return false, true
	}
}
