package schema

import (
	"fmt"
	"regexp"
	"strings"
)

var aliasPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// FieldError describes a single rule violation on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violation found in a payload. Validation is
// all-or-nothing: a payload either passes completely or the caller gets the
// full list of problems.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Details returns the violations as a field-indexed map, the shape the HTTP
// layer reports to clients.
func (e *ValidationError) Details() map[string]string {
	details := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		details[f.Field] = f.Message
	}
	return details
}

type violations struct {
	fields []FieldError
}

func (v *violations) add(field, message string) {
	v.fields = append(v.fields, FieldError{Field: field, Message: message})
}

func (v *violations) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}

// ValidateBuild checks a full build payload against the creation rules.
func ValidateBuild(in *BuildInput) error {
	var v violations

	if in.Name == "" {
		v.add("name", "Name is required")
	}
	if in.ActivityType == "" {
		v.add("activityType", "Activity type is required")
	}
	checkAlias(&v, "commandAlias", in.CommandAlias)
	checkWeapon(&v, "equipment.weapon", in.Equipment.Weapon)

	return v.err()
}

// ValidateBuildUpdate checks a partial payload. Every field is optional, but
// a field that is present must satisfy the same rule as on creation.
func ValidateBuildUpdate(upd *BuildUpdate) error {
	var v violations

	if upd.Name != nil && *upd.Name == "" {
		v.add("name", "Name is required")
	}
	if upd.ActivityType != nil && *upd.ActivityType == "" {
		v.add("activityType", "Activity type is required")
	}
	if upd.CommandAlias != nil {
		checkAlias(&v, "commandAlias", *upd.CommandAlias)
	}
	if upd.Equipment != nil {
		checkWeapon(&v, "equipment.weapon", upd.Equipment.Weapon)
	}

	return v.err()
}

func checkAlias(v *violations, field, alias string) {
	if alias == "" {
		v.add(field, "Command alias is required")
		return
	}
	if !aliasPattern.MatchString(alias) {
		v.add(field, "Command alias can only contain lowercase letters, numbers, and hyphens")
	}
}

func checkWeapon(v *violations, field string, weapon EquipmentPiece) {
	if weapon.Name == "" {
		v.add(field+".name", "Weapon name is required")
	}
	if weapon.Tier == "" {
		v.add(field+".tier", "Weapon tier is required")
	}
}
