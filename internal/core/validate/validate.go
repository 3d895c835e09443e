// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/0xd219b/cr-helper/internal/core/comment"
	"github.com/0xd219b/cr-helper/internal/core/types"
)

// SessionName validates a session name is non-empty after trimming whitespace.
func SessionName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// SessionID validates a session id has the timestamp-suffix form.
func SessionID(id string) error {
	if _, err := types.ParseSessionID(id); err != nil {
		return err
	}
	return nil
}

// Severity validates a severity name, accepting short forms.
func Severity(s string) error {
	if _, ok := comment.ParseSeverity(s); !ok {
		return fmt.Errorf("unknown severity %q (info, warning, critical)", s)
	}
	return nil
}

// Tag validates a comment tag is non-blank and has no whitespace.
func Tag(tag string) error {
	if strings.TrimSpace(tag) == "" {
		return fmt.Errorf("tag is required")
	}
	if strings.ContainsAny(tag, " \t") {
		return fmt.Errorf("tag %q cannot contain whitespace", tag)
	}
	return nil
}

// SessionNameField returns a criterio validator error for session names.
func SessionNameField(field, name string) error {
	return criterio.Run(field, name, SessionName)
}

// SessionIDField returns a criterio validator error for session ids.
func SessionIDField(field, id string) error {
	return criterio.Run(field, id, SessionID)
}

// SeverityField returns a criterio validator error for severities.
func SeverityField(field, s string) error {
	return criterio.Run(field, s, Severity)
}
