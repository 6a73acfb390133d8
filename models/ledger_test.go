package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLedgerMatchesSchema(t *testing.T) {
	for _, motion := range []MotionType{MotionValueSecuredClaim, MotionAvoidJudicialLien} {
		ledger := NewLedger(motion)

		require.Len(t, ledger.Variables, len(motion.Schema()))
		for _, spec := range motion.Schema() {
			v, ok := ledger.Variables[spec.Name]
			require.True(t, ok, "missing %s", spec.Name)
			assert.Equal(t, ProvenanceUnset, v.Provenance)
			assert.False(t, v.Resolved())
		}
	}
}

func TestMergeSetsExtractedProvenance(t *testing.T) {
	ledger := NewLedger(MotionValueSecuredClaim)

	applied := ledger.Merge(ExtractedFacts{
		"debtor_name":   "Jane Q. Debtor",
		"creditor_name": "First Finance LLC",
	})

	assert.ElementsMatch(t, []string{"debtor_name", "creditor_name"}, applied)
	debtor, _ := ledger.Get("debtor_name")
	assert.Equal(t, "Jane Q. Debtor", debtor.Value)
	assert.Equal(t, ProvenanceExtracted, debtor.Provenance)

	caseNo, _ := ledger.Get("case_number")
	assert.Equal(t, ProvenanceUnset, caseNo.Provenance)
}

func TestMergeDropsUnknownVariables(t *testing.T) {
	ledger := NewLedger(MotionValueSecuredClaim)

	applied := ledger.Merge(ExtractedFacts{
		"spouse_name": "not in schema",
		"debtor_name": "Jane Q. Debtor",
	})

	assert.Equal(t, []string{"debtor_name"}, applied)
	_, ok := ledger.Variables["spouse_name"]
	assert.False(t, ok)
	assert.Len(t, ledger.Variables, len(MotionValueSecuredClaim.Schema()))
}

func TestMergeNeverOverwritesUserProvided(t *testing.T) {
	ledger := NewLedger(MotionValueSecuredClaim)

	require.True(t, ledger.SetUserValue("claim_value", "15000"))
	applied := ledger.Merge(ExtractedFacts{"claim_value": "99999"})

	assert.Empty(t, applied)
	v, _ := ledger.Get("claim_value")
	assert.Equal(t, "15000", v.Value)
	assert.Equal(t, ProvenanceUserProvided, v.Provenance)
}

func TestMergeEmptyFactsIsIdempotent(t *testing.T) {
	ledger := NewLedger(MotionAvoidJudicialLien)
	ledger.Merge(ExtractedFacts{"debtor_name": "Jane Q. Debtor"})
	before := ledger.Variables["debtor_name"]

	applied := ledger.Merge(ExtractedFacts{})

	assert.Empty(t, applied)
	assert.Equal(t, before, ledger.Variables["debtor_name"])
	assert.Len(t, ledger.Variables, len(MotionAvoidJudicialLien.Schema()))
}

func TestSetUserValueRejectsUnknownName(t *testing.T) {
	ledger := NewLedger(MotionValueSecuredClaim)
	assert.False(t, ledger.SetUserValue("spouse_name", "x"))
	assert.Len(t, ledger.Variables, len(MotionValueSecuredClaim.Schema()))
}

func TestMissingFollowsSchemaOrder(t *testing.T) {
	ledger := NewLedger(MotionValueSecuredClaim)

	// Resolve out of schema order; Missing must still follow it.
	ledger.Merge(ExtractedFacts{"lien_date": "01/15/2023"})
	ledger.Merge(ExtractedFacts{"creditor_name": "First Finance LLC"})

	assert.Equal(t, []string{
		"debtor_name",
		"case_number",
		"collateral_description",
		"collateral_value",
		"claim_value",
	}, ledger.Missing())
}

func TestIsComplete(t *testing.T) {
	ledger := NewLedger(MotionValueSecuredClaim)
	assert.False(t, ledger.IsComplete())

	for _, spec := range MotionValueSecuredClaim.Schema() {
		ledger.SetUserValue(spec.Name, "filled")
	}
	assert.True(t, ledger.IsComplete())
	assert.Empty(t, ledger.Missing())
}

func TestLedgerJSONBRoundTrip(t *testing.T) {
	ledger := NewLedger(MotionAvoidJudicialLien)
	ledger.SetUserValue("judgment_amount", "42000")

	raw, err := ledger.Value()
	require.NoError(t, err)

	var loaded VariableLedger
	require.NoError(t, loaded.Scan(raw))

	assert.Equal(t, MotionAvoidJudicialLien, loaded.Motion)
	assert.Len(t, loaded.Variables, len(MotionAvoidJudicialLien.Schema()))
	v, _ := loaded.Get("judgment_amount")
	assert.Equal(t, "42000", v.Value)
	assert.Equal(t, ProvenanceUserProvided, v.Provenance)
}

func TestLedgerScanRestoresSchemaKeys(t *testing.T) {
	// Stored shape drifted: one schema key missing, one stray key present.
	stored := `{"motion":"value_claim","variables":{
		"debtor_name":{"name":"debtor_name","value":"Jane","provenance":"extracted"},
		"stray_key":{"name":"stray_key","value":"x","provenance":"extracted"}
	}}`

	var loaded VariableLedger
	require.NoError(t, loaded.Scan([]byte(stored)))

	assert.Len(t, loaded.Variables, len(MotionValueSecuredClaim.Schema()))
	_, ok := loaded.Variables["stray_key"]
	assert.False(t, ok)
	caseNo, ok := loaded.Get("case_number")
	require.True(t, ok)
	assert.Equal(t, ProvenanceUnset, caseNo.Provenance)
}
