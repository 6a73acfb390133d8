package service

import (
	"context"
	"testing"

	"github.com/redmercy-dev/MotionsAssistant/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeLedger(motion models.MotionType, values map[string]string) models.VariableLedger {
	ledger := models.NewLedger(motion)
	for name, value := range values {
		ledger.SetUserValue(name, value)
	}
	return ledger
}

func TestAssemblerRendersValueClaimMotion(t *testing.T) {
	jurisdiction := "Middle District of Florida"
	chapter := "13"
	req := ComposeRequest{
		Motion: models.MotionValueSecuredClaim,
		Ledger: completeLedger(models.MotionValueSecuredClaim, map[string]string{
			"debtor_name":            "Jane Q. Debtor",
			"case_number":            "23-10482",
			"creditor_name":          "First Finance LLC",
			"collateral_description": "2019 Honda Accord",
			"collateral_value":       "9000",
			"claim_value":            "12500",
			"lien_date":              "03/14/2022",
		}),
		Jurisdiction: &jurisdiction,
		Chapter:      &chapter,
		Citations: models.Citations{
			{Snippet: "valuation standard", Citation: "In re Case, 123 B.R. 456"},
		},
	}

	result, err := NewAssembler().Compose(context.Background(), req)
	require.NoError(t, err)

	assert.Contains(t, result.MotionText, "UNITED STATES BANKRUPTCY COURT")
	assert.Contains(t, result.MotionText, "MIDDLE DISTRICT OF FLORIDA")
	assert.Contains(t, result.MotionText, "In re: Jane Q. Debtor")
	assert.Contains(t, result.MotionText, "Case No. 23-10482")
	assert.Contains(t, result.MotionText, "Chapter 13")
	assert.Contains(t, result.MotionText, "11 U.S.C. § 506")
	assert.Contains(t, result.MotionText, "$12500")
	assert.Contains(t, result.MotionText, "In re Case, 123 B.R. 456")
	assert.NotContains(t, result.MotionText, "__________ DISTRICT")

	assert.Contains(t, result.ProposedOrderText, "ORDER GRANTING MOTION TO VALUE SECURED CLAIM")
	assert.Contains(t, result.ProposedOrderText, "secured to the extent of $9000")
}

func TestAssemblerRendersAvoidLienMotion(t *testing.T) {
	req := ComposeRequest{
		Motion: models.MotionAvoidJudicialLien,
		Ledger: completeLedger(models.MotionAvoidJudicialLien, map[string]string{
			"debtor_name":          "Jane Q. Debtor",
			"case_number":          "23-10482",
			"creditor_name":        "Judgment Holdings Inc",
			"property_description": "homestead at 12 Oak St",
			"judgment_amount":      "42000",
			"judgment_date":        "06/30/2021",
			"exemption_statute":    "Fla. Const. art. X, § 4",
			"exemption_value":      "42000",
		}),
	}

	result, err := NewAssembler().Compose(context.Background(), req)
	require.NoError(t, err)

	assert.Contains(t, result.MotionText, "11 U.S.C. § 522(f)")
	assert.Contains(t, result.MotionText, "Judgment Holdings Inc")
	assert.Contains(t, result.ProposedOrderText, "AVOIDED pursuant to 11 U.S.C. § 522(f)")
}

func TestAssemblerNotesCitationGap(t *testing.T) {
	req := ComposeRequest{
		Motion: models.MotionValueSecuredClaim,
		Ledger: models.NewLedger(models.MotionValueSecuredClaim),
	}

	result, err := NewAssembler().Compose(context.Background(), req)
	require.NoError(t, err)

	assert.Contains(t, result.MotionText, "Supporting authority could not be retrieved")
	// Unresolved variables render as blanks, never fabricated values.
	assert.Contains(t, result.MotionText, "__________")
}

func TestAssemblerIsDeterministic(t *testing.T) {
	req := ComposeRequest{
		Motion: models.MotionValueSecuredClaim,
		Ledger: completeLedger(models.MotionValueSecuredClaim, map[string]string{
			"debtor_name": "Jane Q. Debtor",
		}),
	}

	a := NewAssembler()
	first, err := a.Compose(context.Background(), req)
	require.NoError(t, err)
	second, err := a.Compose(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.MotionText, second.MotionText)
	assert.Equal(t, first.ProposedOrderText, second.ProposedOrderText)
}
