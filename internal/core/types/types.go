// Package types defines the identity and versioning primitives shared by
// the diff, comment, and session models.
package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/0xd219b/cr-helper/pkg/randid"
)

// FileID identifies a file in a diff. Derived from the file path, so two
// parses of the same path produce the same id.
type FileID string

// NewFileID creates a FileID from a file path.
func NewFileID(path string) FileID {
	sum := sha256.Sum256([]byte(path))
	return FileID("f_" + hex.EncodeToString(sum[:])[:12])
}

func (id FileID) String() string { return string(id) }

// HunkID identifies a hunk within a file diff. Derived from the file id
// and the hunk's position, so it is NOT stable across reordering.
type HunkID string

// NewHunkID creates a HunkID for the hunk at the given index.
func NewHunkID(fileID FileID, index int) HunkID {
	return HunkID(fmt.Sprintf("%s:h%d", fileID, index))
}

func (id HunkID) String() string { return string(id) }

// LineID identifies a line in a diff. Derived from file path, line number,
// and content, so it survives diff regeneration: identical inputs always
// produce identical ids, which is what lets comments re-anchor after a
// session reload.
type LineID string

// NewLineID creates a LineID from the line's file path, content, and
// line number.
func NewLineID(path, content string, lineNum int) LineID {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%s", path, lineNum, content)))
	return LineID("l_" + hex.EncodeToString(sum[:])[:16])
}

func (id LineID) String() string { return string(id) }

// CommentID uniquely identifies a comment. Generated once at creation.
type CommentID string

// NewCommentID generates a random CommentID.
func NewCommentID() CommentID {
	return CommentID(uuid.NewString())
}

// ParseCommentID validates s as a UUID string.
func ParseCommentID(s string) (CommentID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("invalid comment id %q: %w", s, err)
	}
	return CommentID(s), nil
}

func (id CommentID) String() string { return string(id) }

// SessionID identifies a review session.
// Format: <14-digit UTC timestamp>-<8 random chars>, which makes ids
// lexically sortable by creation time and collision-resistant.
type SessionID string

const sessionIDMinLen = 23 // 14 digits + '-' + 8 suffix chars

// NewSessionID generates a SessionID for the current time.
func NewSessionID() SessionID {
	ts := time.Now().UTC().Format("20060102150405")
	return SessionID(ts + "-" + randid.Generate(8))
}

// ParseSessionID validates s and returns it as a SessionID.
func ParseSessionID(s string) (SessionID, error) {
	if !validSessionID(s) {
		return "", &ValidationError{Msg: fmt.Sprintf("invalid session id format: %s", s)}
	}
	return SessionID(s), nil
}

func validSessionID(s string) bool {
	if len(s) < sessionIDMinLen {
		return false
	}
	prefix, _, ok := strings.Cut(s, "-")
	if !ok {
		return false
	}
	if len(prefix) != 14 {
		return false
	}
	for _, c := range prefix {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (id SessionID) String() string { return string(id) }

// ProtocolVersion is a two-part version with a major/minor compatibility
// rule: two versions are compatible iff their major fields match.
type ProtocolVersion struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
}

// V1_0 is the current protocol version.
var V1_0 = ProtocolVersion{Major: 1, Minor: 0}

// Compatible reports whether v and other share a major version.
func (v ProtocolVersion) Compatible(other ProtocolVersion) bool {
	return v.Major == other.Major
}

func (v ProtocolVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// ParseProtocolVersion parses a "<major>.<minor>" string.
func ParseProtocolVersion(s string) (ProtocolVersion, error) {
	majorStr, minorStr, ok := strings.Cut(s, ".")
	if !ok {
		return ProtocolVersion{}, &ValidationError{Msg: fmt.Sprintf("invalid version format: %s", s)}
	}
	major, err := strconv.Atoi(majorStr)
	if err != nil {
		return ProtocolVersion{}, &ValidationError{Msg: fmt.Sprintf("invalid major version: %s", s)}
	}
	minor, err := strconv.Atoi(minorStr)
	if err != nil {
		return ProtocolVersion{}, &ValidationError{Msg: fmt.Sprintf("invalid minor version: %s", s)}
	}
	return ProtocolVersion{Major: major, Minor: minor}, nil
}
