package models

import (
	"database/sql/driver"
	"encoding/json"
)

// Provenance records where a case variable's current value came from
type Provenance string

const (
	ProvenanceUnset        Provenance = "unset"
	ProvenanceExtracted    Provenance = "extracted"
	ProvenanceUserProvided Provenance = "user_provided"
)

// CaseVariable is one required case fact and its resolution status
type CaseVariable struct {
	Name       string     `json:"name"`
	Value      string     `json:"value"`
	Provenance Provenance `json:"provenance"`
}

// Resolved reports whether the variable holds a usable value
func (v CaseVariable) Resolved() bool {
	return v.Provenance != ProvenanceUnset
}

// ExtractedFacts is the output of a fact extraction pass: variable name to
// value. Ephemeral, consumed by VariableLedger.Merge.
type ExtractedFacts map[string]string

// VariableLedger is the per-session record of required case variables.
// Its keys are always exactly the required-variable schema of the session's
// motion type; Merge drops anything outside the schema.
type VariableLedger struct {
	Motion    MotionType              `json:"motion"`
	Variables map[string]CaseVariable `json:"variables"`
}

// NewLedger creates a ledger with every schema variable Unset
func NewLedger(motion MotionType) VariableLedger {
	vars := make(map[string]CaseVariable, len(motion.Schema()))
	for _, spec := range motion.Schema() {
		vars[spec.Name] = CaseVariable{Name: spec.Name, Provenance: ProvenanceUnset}
	}
	return VariableLedger{Motion: motion, Variables: vars}
}

// Merge folds extracted facts into the ledger. A fact lands only when the
// variable exists in the schema and is not already UserProvided: user input
// is never silently overwritten by a later extraction. Returns the names
// that were newly resolved or updated.
func (l *VariableLedger) Merge(facts ExtractedFacts) []string {
	var applied []string
	for _, spec := range l.Motion.Schema() {
		value, ok := facts[spec.Name]
		if !ok || value == "" {
			continue
		}
		existing := l.Variables[spec.Name]
		if existing.Provenance == ProvenanceUserProvided {
			continue
		}
		l.Variables[spec.Name] = CaseVariable{
			Name:       spec.Name,
			Value:      value,
			Provenance: ProvenanceExtracted,
		}
		applied = append(applied, spec.Name)
	}
	return applied
}

// SetUserValue records a user-typed value. Always overwrites; provenance
// becomes UserProvided and stays there.
func (l *VariableLedger) SetUserValue(name, value string) bool {
	if _, ok := l.Motion.SchemaVariable(name); !ok {
		return false
	}
	l.Variables[name] = CaseVariable{
		Name:       name,
		Value:      value,
		Provenance: ProvenanceUserProvided,
	}
	return true
}

// Get returns the current state of a variable
func (l *VariableLedger) Get(name string) (CaseVariable, bool) {
	v, ok := l.Variables[name]
	return v, ok
}

// IsComplete reports whether every required variable is resolved
func (l *VariableLedger) IsComplete() bool {
	for _, spec := range l.Motion.Schema() {
		if !l.Variables[spec.Name].Resolved() {
			return false
		}
	}
	return true
}

// Missing returns the names of still-unset variables in fixed schema order,
// independent of the order facts arrived. Prompts built from it are stable
// across runs with identical inputs.
func (l *VariableLedger) Missing() []string {
	var missing []string
	for _, spec := range l.Motion.Schema() {
		if !l.Variables[spec.Name].Resolved() {
			missing = append(missing, spec.Name)
		}
	}
	return missing
}

// Value implements driver.Valuer for JSONB
func (l VariableLedger) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB
func (l *VariableLedger) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	if len(bytes) == 0 {
		return nil
	}

	if err := json.Unmarshal(bytes, l); err != nil {
		return err
	}
	l.normalize()
	return nil
}

// normalize restores the schema-key invariant after loading from storage:
// every schema variable present, nothing else.
func (l *VariableLedger) normalize() {
	vars := make(map[string]CaseVariable, len(l.Motion.Schema()))
	for _, spec := range l.Motion.Schema() {
		if v, ok := l.Variables[spec.Name]; ok {
			vars[spec.Name] = v
		} else {
			vars[spec.Name] = CaseVariable{Name: spec.Name, Provenance: ProvenanceUnset}
		}
	}
	l.Variables = vars
}
