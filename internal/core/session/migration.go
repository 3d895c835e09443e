package session

import (
	"encoding/json"
	"fmt"

	"github.com/0xd219b/cr-helper/internal/core/types"
)

// CurrentSchemaVersion is written into every new session file.
const CurrentSchemaVersion = "1.0"

// File is the on-disk envelope around a session. Unknown top-level
// fields written by newer tools survive a load/save round trip via
// Extra.
type File struct {
	SchemaVersion string
	Session       *Session
	Extra         map[string]json.RawMessage
}

// NewFile wraps a session in an envelope at the current schema version.
func NewFile(s *Session) *File {
	return &File{SchemaVersion: CurrentSchemaVersion, Session: s}
}

// Version parses the schema version, or reports false on a malformed
// string.
func (f *File) Version() (types.ProtocolVersion, bool) {
	v, err := types.ParseProtocolVersion(f.SchemaVersion)
	if err != nil {
		return types.ProtocolVersion{}, false
	}
	return v, true
}

// MarshalJSON flattens Extra alongside the known fields.
func (f *File) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(f.Extra)+2)
	for k, v := range f.Extra {
		out[k] = v
	}

	version, err := json.Marshal(f.SchemaVersion)
	if err != nil {
		return nil, err
	}
	out["schema_version"] = version

	sess, err := json.Marshal(f.Session)
	if err != nil {
		return nil, err
	}
	out["session"] = sess

	return json.Marshal(out)
}

// UnmarshalJSON pulls out the known fields and keeps everything else in
// Extra.
func (f *File) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	version, ok := raw["schema_version"]
	if !ok {
		return &types.ValidationError{Msg: "session file missing schema_version"}
	}
	if err := json.Unmarshal(version, &f.SchemaVersion); err != nil {
		return fmt.Errorf("schema_version: %w", err)
	}
	delete(raw, "schema_version")

	sess, ok := raw["session"]
	if !ok {
		return &types.ValidationError{Msg: "session file missing session"}
	}
	f.Session = &Session{}
	if err := json.Unmarshal(sess, f.Session); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	delete(raw, "session")

	if len(raw) > 0 {
		f.Extra = raw
	}
	return nil
}

// IncompatibleSchemaError reports a session file written under a schema
// this build cannot read.
type IncompatibleSchemaError struct {
	Found string
}

func (e *IncompatibleSchemaError) Error() string {
	return fmt.Sprintf("incompatible schema version: %s (expected %d.x)", e.Found, types.V1_0.Major)
}

// Migrate upgrades a session file to the current schema version. Files
// already current pass through unchanged; a different major version is
// fatal.
func Migrate(f *File) (*File, error) {
	version, ok := f.Version()
	if !ok {
		return nil, &types.ValidationError{Msg: fmt.Sprintf("invalid schema version: %q", f.SchemaVersion)}
	}

	if !version.Compatible(types.V1_0) {
		return nil, &IncompatibleSchemaError{Found: f.SchemaVersion}
	}

	// No intra-1.x migrations exist yet. When 1.1 lands, step upgrades
	// go here.
	return f, nil
}

// NeedsMigration reports whether a file was written under a different
// schema version than the current one.
func NeedsMigration(f *File) bool {
	return f.SchemaVersion != CurrentSchemaVersion
}
