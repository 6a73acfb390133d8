package service

import (
	"testing"

	"github.com/redmercy-dev/MotionsAssistant/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingSpecs(t *testing.T, motion models.MotionType, names ...string) []models.VariableSpec {
	t.Helper()
	var specs []models.VariableSpec
	for _, name := range names {
		spec, ok := motion.SchemaVariable(name)
		require.True(t, ok, "unknown variable %s", name)
		specs = append(specs, spec)
	}
	return specs
}

func TestAttributeLabeledPairs(t *testing.T) {
	pending := pendingSpecs(t, models.MotionValueSecuredClaim, "claim_value", "lien_date", "creditor_name")

	matched, unmatched := attributeAnswer(
		"claim_value: $12,500.00\nlien date: 03/14/2022\ncreditor: First Finance LLC",
		pending,
	)

	assert.Equal(t, "12500.00", matched["claim_value"])
	assert.Equal(t, "03/14/2022", matched["lien_date"])
	assert.Equal(t, "First Finance LLC", matched["creditor_name"])
	assert.Empty(t, unmatched)
}

func TestAttributeByAlias(t *testing.T) {
	pending := pendingSpecs(t, models.MotionAvoidJudicialLien, "judgment_amount")

	matched, unmatched := attributeAnswer("Judgment = $42,000", pending)

	assert.Equal(t, "42000", matched["judgment_amount"])
	assert.Empty(t, unmatched)
}

func TestAttributeUnlabeledTypedTokens(t *testing.T) {
	// One money token, one date token, one pending variable of each kind.
	pending := pendingSpecs(t, models.MotionValueSecuredClaim, "claim_value", "lien_date")

	matched, unmatched := attributeAnswer("It was $12,500 recorded on 03/14/2022", pending)

	assert.Equal(t, "12500", matched["claim_value"])
	assert.Equal(t, "03/14/2022", matched["lien_date"])
	assert.Empty(t, unmatched)
}

func TestAttributeAmbiguousMoneyStaysUnmatched(t *testing.T) {
	// Two unresolved money variables; one bare amount cannot be attributed.
	pending := pendingSpecs(t, models.MotionValueSecuredClaim, "collateral_value", "claim_value")

	matched, unmatched := attributeAnswer("around $9,000 I think", pending)

	assert.Empty(t, matched)
	assert.Equal(t, []string{"collateral_value", "claim_value"}, unmatched)
}

func TestAttributeTwoAmountsStayUnmatched(t *testing.T) {
	pending := pendingSpecs(t, models.MotionValueSecuredClaim, "claim_value")

	matched, unmatched := attributeAnswer("$9,000 or maybe $9,500", pending)

	assert.Empty(t, matched)
	assert.Equal(t, []string{"claim_value"}, unmatched)
}

func TestAttributeTextNeverGuessed(t *testing.T) {
	// Free text with no label cannot be attributed to a text variable.
	pending := pendingSpecs(t, models.MotionValueSecuredClaim, "creditor_name", "collateral_description")

	matched, unmatched := attributeAnswer("First Finance LLC", pending)

	assert.Empty(t, matched)
	assert.Len(t, unmatched, 2)
}

func TestAttributeMonthNameDate(t *testing.T) {
	pending := pendingSpecs(t, models.MotionAvoidJudicialLien, "judgment_date")

	matched, _ := attributeAnswer("the judgment came down March 14, 2022", pending)

	assert.Equal(t, "March 14, 2022", matched["judgment_date"])
}

func TestAttributeDateDigitsNotReadAsMoney(t *testing.T) {
	pending := pendingSpecs(t, models.MotionValueSecuredClaim, "claim_value", "lien_date")

	matched, unmatched := attributeAnswer("recorded 2021-06-30", pending)

	assert.Equal(t, "2021-06-30", matched["lien_date"])
	_, ok := matched["claim_value"]
	assert.False(t, ok)
	assert.Equal(t, []string{"claim_value"}, unmatched)
}

func TestAttributePartialLabeledAnswer(t *testing.T) {
	pending := pendingSpecs(t, models.MotionValueSecuredClaim, "debtor_name", "case_number", "claim_value")

	matched, unmatched := attributeAnswer("case number: 23-10482", pending)

	assert.Equal(t, "23-10482", matched["case_number"])
	assert.Equal(t, []string{"debtor_name", "claim_value"}, unmatched)
}
