package models

import "fmt"

// MotionType identifies which of the two supported bankruptcy motions a
// session targets. Chosen once at session creation and immutable afterwards.
type MotionType string

const (
	MotionValueSecuredClaim MotionType = "value_claim"
	MotionAvoidJudicialLien MotionType = "avoid_lien"
)

// ParseMotionType validates a motion type slug
func ParseMotionType(s string) (MotionType, error) {
	switch MotionType(s) {
	case MotionValueSecuredClaim, MotionAvoidJudicialLien:
		return MotionType(s), nil
	}
	return "", fmt.Errorf("unknown motion type: %q", s)
}

// Label returns the human-readable motion title
func (m MotionType) Label() string {
	switch m {
	case MotionValueSecuredClaim:
		return "Motion to Value Secured Claim"
	case MotionAvoidJudicialLien:
		return "Motion to Avoid Judicial Lien"
	}
	return string(m)
}

// Statute returns the Bankruptcy Code section the motion is brought under
func (m MotionType) Statute() string {
	switch m {
	case MotionValueSecuredClaim:
		return "11 U.S.C. § 506"
	case MotionAvoidJudicialLien:
		return "11 U.S.C. § 522(f)"
	}
	return ""
}

// VariableKind classifies a required variable for answer attribution.
// A free-text clarification answer may only be attributed to a variable
// whose kind matches the answer fragment.
type VariableKind string

const (
	KindText  VariableKind = "text"
	KindMoney VariableKind = "money"
	KindDate  VariableKind = "date"
)

// VariableSpec describes one required case variable in a motion's schema.
type VariableSpec struct {
	Name    string
	Kind    VariableKind
	Prompt  string   // how the variable is asked for in clarification prompts
	Aliases []string // alternate labels accepted when attributing answers
}

// valueClaimSchema and avoidLienSchema are the fixed required-variable
// schemas. Order is significant: missing-variable prompts always follow it.
var valueClaimSchema = []VariableSpec{
	{Name: "debtor_name", Kind: KindText, Prompt: "the debtor's full name", Aliases: []string{"debtor"}},
	{Name: "case_number", Kind: KindText, Prompt: "the bankruptcy case number", Aliases: []string{"case no", "case"}},
	{Name: "creditor_name", Kind: KindText, Prompt: "the secured creditor's full name", Aliases: []string{"creditor"}},
	{Name: "collateral_description", Kind: KindText, Prompt: "a description of the collateral", Aliases: []string{"collateral", "property"}},
	{Name: "collateral_value", Kind: KindMoney, Prompt: "the debtor's stated value of the collateral", Aliases: []string{"value", "property value"}},
	{Name: "claim_value", Kind: KindMoney, Prompt: "the total amount of the secured claim", Aliases: []string{"claim", "claim amount"}},
	{Name: "lien_date", Kind: KindDate, Prompt: "the date the lien was recorded", Aliases: []string{"lien recorded", "recording date"}},
}

var avoidLienSchema = []VariableSpec{
	{Name: "debtor_name", Kind: KindText, Prompt: "the debtor's full name", Aliases: []string{"debtor"}},
	{Name: "case_number", Kind: KindText, Prompt: "the bankruptcy case number", Aliases: []string{"case no", "case"}},
	{Name: "creditor_name", Kind: KindText, Prompt: "the judgment creditor's full name", Aliases: []string{"creditor", "judgment creditor"}},
	{Name: "property_description", Kind: KindText, Prompt: "a description of the exempt property", Aliases: []string{"property"}},
	{Name: "judgment_amount", Kind: KindMoney, Prompt: "the amount of the judgment", Aliases: []string{"judgment", "amount"}},
	{Name: "judgment_date", Kind: KindDate, Prompt: "the date the judgment was entered", Aliases: []string{"judgment entered"}},
	{Name: "exemption_statute", Kind: KindText, Prompt: "the exemption statute claimed", Aliases: []string{"exemption", "statute"}},
	{Name: "exemption_value", Kind: KindMoney, Prompt: "the value of the claimed exemption", Aliases: []string{"exemption amount"}},
}

// Schema returns the required-variable schema for a motion type, in fixed
// order. The returned slice must not be mutated.
func (m MotionType) Schema() []VariableSpec {
	switch m {
	case MotionValueSecuredClaim:
		return valueClaimSchema
	case MotionAvoidJudicialLien:
		return avoidLienSchema
	}
	return nil
}

// SchemaVariable looks up a variable spec by name in the motion's schema
func (m MotionType) SchemaVariable(name string) (VariableSpec, bool) {
	for _, spec := range m.Schema() {
		if spec.Name == name {
			return spec, true
		}
	}
	return VariableSpec{}, false
}
