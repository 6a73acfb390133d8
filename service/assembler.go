package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/redmercy-dev/MotionsAssistant/models"
)

// ComposeRequest carries everything needed to turn a complete ledger into
// draft text
type ComposeRequest struct {
	Motion       models.MotionType
	Ledger       models.VariableLedger
	Jurisdiction *string
	Chapter      *string
	Citations    models.Citations
	AgentID      string
}

// ComposeResult is the drafted motion body and proposed order
type ComposeResult struct {
	MotionText        string
	ProposedOrderText string
}

// DraftComposer produces the narrative draft. The production implementation
// delegates to the drafting agent; the Assembler below is the deterministic
// fallback when the agent is unavailable.
type DraftComposer interface {
	Compose(ctx context.Context, req ComposeRequest) (*ComposeResult, error)
}

// Assembler renders a DraftState deterministically from ledger values and
// retrieved citations. Same inputs, same text.
type Assembler struct{}

// NewAssembler creates a draft assembler
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Compose implements DraftComposer
func (a *Assembler) Compose(_ context.Context, req ComposeRequest) (*ComposeResult, error) {
	return &ComposeResult{
		MotionText:        a.renderMotion(req),
		ProposedOrderText: a.renderProposedOrder(req),
	}, nil
}

func (a *Assembler) value(req ComposeRequest, name string) string {
	if v, ok := req.Ledger.Get(name); ok && v.Resolved() {
		return v.Value
	}
	return "__________"
}

func (a *Assembler) caption(req ComposeRequest, title string) string {
	var b strings.Builder
	b.WriteString("UNITED STATES BANKRUPTCY COURT\n")
	if req.Jurisdiction != nil && *req.Jurisdiction != "" {
		b.WriteString(strings.ToUpper(*req.Jurisdiction) + "\n\n")
	} else {
		b.WriteString("__________ DISTRICT OF __________\n\n")
	}

	fmt.Fprintf(&b, "In re: %s,\n", a.value(req, "debtor_name"))
	fmt.Fprintf(&b, "       Debtor.\n\n")
	fmt.Fprintf(&b, "Case No. %s\n", a.value(req, "case_number"))
	if req.Chapter != nil && *req.Chapter != "" {
		fmt.Fprintf(&b, "Chapter %s\n", *req.Chapter)
	}
	b.WriteString("\n" + title + "\n\n")
	return b.String()
}

func (a *Assembler) authoritySection(req ComposeRequest) string {
	var b strings.Builder
	b.WriteString("SUPPORTING AUTHORITY\n\n")
	if len(req.Citations) == 0 {
		b.WriteString("Supporting authority could not be retrieved at drafting time and is to be supplied prior to filing.\n\n")
		return b.String()
	}
	for i, c := range req.Citations {
		fmt.Fprintf(&b, "%d. %s", i+1, c.Citation)
		if c.Snippet != "" {
			fmt.Fprintf(&b, ": %s", c.Snippet)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

func (a *Assembler) renderMotion(req ComposeRequest) string {
	var b strings.Builder
	title := strings.ToUpper(req.Motion.Label())
	b.WriteString(a.caption(req, title))

	switch req.Motion {
	case models.MotionValueSecuredClaim:
		fmt.Fprintf(&b,
			"The Debtor, %s, by and through undersigned counsel, moves this Court pursuant to %s "+
				"and Fed. R. Bankr. P. 3012 to value the secured claim of %s, and states:\n\n",
			a.value(req, "debtor_name"), req.Motion.Statute(), a.value(req, "creditor_name"))
		fmt.Fprintf(&b, "1. %s holds a claim in the amount of $%s secured by a lien recorded %s against the following collateral: %s.\n\n",
			a.value(req, "creditor_name"), a.value(req, "claim_value"),
			a.value(req, "lien_date"), a.value(req, "collateral_description"))
		fmt.Fprintf(&b, "2. The value of the collateral is $%s.\n\n", a.value(req, "collateral_value"))
		fmt.Fprintf(&b, "3. Pursuant to %s, the secured portion of the claim is limited to the value of the collateral, "+
			"and the remainder of the claim is unsecured.\n\n", req.Motion.Statute())
	case models.MotionAvoidJudicialLien:
		fmt.Fprintf(&b,
			"The Debtor, %s, by and through undersigned counsel, moves this Court pursuant to %s "+
				"to avoid the judicial lien of %s, and states:\n\n",
			a.value(req, "debtor_name"), req.Motion.Statute(), a.value(req, "creditor_name"))
		fmt.Fprintf(&b, "1. %s obtained a judgment against the Debtor on %s in the amount of $%s.\n\n",
			a.value(req, "creditor_name"), a.value(req, "judgment_date"), a.value(req, "judgment_amount"))
		fmt.Fprintf(&b, "2. The judgment constitutes a judicial lien against the Debtor's exempt property: %s.\n\n",
			a.value(req, "property_description"))
		fmt.Fprintf(&b, "3. The Debtor claimed an exemption in the property under %s in the amount of $%s, "+
			"and the lien impairs that exemption within the meaning of %s.\n\n",
			a.value(req, "exemption_statute"), a.value(req, "exemption_value"), req.Motion.Statute())
	}

	b.WriteString(a.authoritySection(req))

	fmt.Fprintf(&b, "WHEREFORE, the Debtor respectfully requests that the Court grant this %s and such other relief as is just.\n",
		req.Motion.Label())
	return b.String()
}

func (a *Assembler) renderProposedOrder(req ComposeRequest) string {
	var b strings.Builder
	b.WriteString(a.caption(req, "ORDER GRANTING "+strings.ToUpper(req.Motion.Label())))

	fmt.Fprintf(&b, "THIS MATTER came before the Court on the Debtor's %s. "+
		"The Court, having reviewed the motion and the record, and being otherwise fully advised, ORDERS:\n\n",
		req.Motion.Label())

	switch req.Motion {
	case models.MotionValueSecuredClaim:
		fmt.Fprintf(&b, "1. The motion is GRANTED.\n\n")
		fmt.Fprintf(&b, "2. The claim of %s is secured to the extent of $%s, the value of the collateral (%s), "+
			"and unsecured as to the remainder.\n",
			a.value(req, "creditor_name"), a.value(req, "collateral_value"), a.value(req, "collateral_description"))
	case models.MotionAvoidJudicialLien:
		fmt.Fprintf(&b, "1. The motion is GRANTED.\n\n")
		fmt.Fprintf(&b, "2. The judicial lien of %s against the property described as %s is AVOIDED pursuant to %s.\n",
			a.value(req, "creditor_name"), a.value(req, "property_description"), req.Motion.Statute())
	}

	return b.String()
}
