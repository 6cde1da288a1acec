package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	qualifierRegex = regexp.MustCompile(`^[A-Z0-9#$@]+$`)
	memberRegex    = regexp.MustCompile(`^[A-Z#$@][A-Z0-9#$@]*$`)
	ddNameRegex    = regexp.MustCompile(`^[A-Z#$@][A-Z0-9#$@]{0,7}$`)
)

// ValidateDataSetQualifiers checks a data set name (without member) for
// qualifier count, qualifier length and allowed characters. Lowercase input
// is accepted and checked as uppercase.
func ValidateDataSetQualifiers(name string) error {
	if name == "" {
		return fmt.Errorf("dataset name cannot be empty")
	}

	name = strings.ToUpper(name)
	parts := strings.Split(name, ".")
	if len(parts) > 22 {
		return fmt.Errorf("dataset name has too many qualifiers (max 22): %d", len(parts))
	}

	for _, part := range parts {
		if len(part) == 0 {
			return fmt.Errorf("dataset name %q contains an empty qualifier", name)
		}
		if len(part) > 8 {
			return fmt.Errorf("qualifier %q exceeds 8 characters", part)
		}
		if !qualifierRegex.MatchString(part) {
			return fmt.Errorf("qualifier %q contains invalid characters; only A-Z, 0-9, $, #, @ allowed", part)
		}
	}
	return nil
}

func ValidatePDSMemberName(member string) error {
	if member == "" {
		return fmt.Errorf("member name cannot be empty")
	}

	member = strings.ToUpper(member)
	if len(member) > 8 {
		return fmt.Errorf("member name %q exceeds 8 characters", member)
	}
	if member[0] >= '0' && member[0] <= '9' {
		return fmt.Errorf("member name %q is invalid: first character cannot be numeric", member)
	}
	if !memberRegex.MatchString(member) {
		return fmt.Errorf("member name %q contains invalid characters", member)
	}
	return nil
}

func ValidateDDName(name string) error {
	if name == "" {
		return fmt.Errorf("dd name cannot be empty")
	}
	if !ddNameRegex.MatchString(strings.ToUpper(name)) {
		return fmt.Errorf("dd name %q is invalid; 1-8 characters from A-Z, 0-9, $, #, @, not starting with a digit", name)
	}
	return nil
}

// SplitMember splits "A.B(MEM)" into "A.B" and "MEM". Names without a
// member return an empty member.
func SplitMember(name string) (base, member string, err error) {
	open := strings.Index(name, "(")
	if open == -1 {
		return name, "", nil
	}
	if !strings.HasSuffix(name, ")") {
		return "", "", fmt.Errorf("invalid data set name %q: unbalanced parenthesis for member name", name)
	}
	return name[:open], name[open+1 : len(name)-1], nil
}

// ValidateDataSetName validates a full data set name that may carry a
// member in parentheses.
func ValidateDataSetName(name string) error {
	base, member, err := SplitMember(name)
	if err != nil {
		return err
	}
	if err := ValidateDataSetQualifiers(base); err != nil {
		return err
	}
	if member != "" {
		return ValidatePDSMemberName(member)
	}
	return nil
}

// IsDataSetName reports whether name looks like an MVS data set rather than
// a Unix path. Anything containing a slash is treated as a Unix path.
func IsDataSetName(name string) bool {
	if name == "" || strings.Contains(name, "/") {
		return false
	}
	return ValidateDataSetName(name) == nil
}
