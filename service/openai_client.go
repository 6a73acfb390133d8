package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/redmercy-dev/MotionsAssistant/models"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
)

// OpenAIKnowledge binds the knowledge-store and drafting-agent contracts to
// the OpenAI API: vector store search for lookups, file upload for the admin
// knowledge pipeline, Responses for narrative drafting.
type OpenAIKnowledge struct {
	client openai.Client
}

// NewOpenAIKnowledge wraps an OpenAI client
func NewOpenAIKnowledge(client openai.Client) *OpenAIKnowledge {
	return &OpenAIKnowledge{client: client}
}

// Search implements KnowledgeSearcher against an OpenAI vector store
func (o *OpenAIKnowledge) Search(ctx context.Context, storeID, query string, limit int) ([]models.KnowledgeResult, error) {
	page, err := o.client.VectorStores.Search(ctx, storeID, openai.VectorStoreSearchParams{
		Query:         openai.VectorStoreSearchParamsQueryUnion{OfString: openai.String(query)},
		MaxNumResults: openai.Int(int64(limit)),
	})
	if err != nil {
		return nil, fmt.Errorf("vector store search: %w", err)
	}

	results := make([]models.KnowledgeResult, 0, len(page.Data))
	for _, item := range page.Data {
		var snippet strings.Builder
		for _, content := range item.Content {
			snippet.WriteString(content.Text)
		}
		results = append(results, models.KnowledgeResult{
			Snippet:  snippet.String(),
			Citation: item.Filename,
			Score:    item.Score,
		})
	}

	return results, nil
}

// CreateStore creates one vector store per motion type and returns its ID
func (o *OpenAIKnowledge) CreateStore(ctx context.Context, motion models.MotionType) (string, error) {
	store, err := o.client.VectorStores.New(ctx, openai.VectorStoreNewParams{
		Name: openai.String(string(motion) + "_store"),
	})
	if err != nil {
		return "", fmt.Errorf("create vector store: %w", err)
	}
	return store.ID, nil
}

// AttachKnowledgeFile uploads a reference document and indexes it into a
// motion's vector store
func (o *OpenAIKnowledge) AttachKnowledgeFile(ctx context.Context, storeID, filename string, data []byte) (string, error) {
	file, err := o.client.Files.New(ctx, openai.FileNewParams{
		File:    openai.File(bytes.NewReader(data), filename, "application/pdf"),
		Purpose: openai.FilePurposeAssistants,
	})
	if err != nil {
		return "", fmt.Errorf("upload knowledge file: %w", err)
	}

	_, err = o.client.VectorStores.Files.New(ctx, storeID, openai.VectorStoreFileNewParams{
		FileID: file.ID,
	})
	if err != nil {
		return "", fmt.Errorf("index knowledge file: %w", err)
	}

	return file.ID, nil
}

// composerInstructions frames the drafting agent. Tone constraints follow
// the house style for generated legal text.
const composerInstructions = "You are an expert bankruptcy attorney drafting motions for filing. " +
	"Use formal legal language. Use only the facts and authority provided; never invent facts, " +
	"amounts, dates, or citations. Avoid flowery adjectives and marketing language."

// orderMarker separates the motion body from the proposed order in the
// drafting agent's reply.
const orderMarker = "=== PROPOSED ORDER ==="

// Compose implements DraftComposer via the Responses API. The configured
// drafting-agent identifier selects the model.
func (o *OpenAIKnowledge) Compose(ctx context.Context, req ComposeRequest) (*ComposeResult, error) {
	if req.AgentID == "" {
		return nil, fmt.Errorf("%w: drafting agent not set", ErrNotConfigured)
	}

	resp, err := o.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:        shared.ResponsesModel(req.AgentID),
		Instructions: openai.String(composerInstructions),
		Input:        responses.ResponseNewParamsInputUnion{OfString: openai.String(composePrompt(req))},
	})
	if err != nil {
		return nil, fmt.Errorf("drafting agent: %w", err)
	}

	text := resp.OutputText()
	motionText, orderText, ok := strings.Cut(text, orderMarker)
	if !ok || strings.TrimSpace(motionText) == "" || strings.TrimSpace(orderText) == "" {
		return nil, fmt.Errorf("drafting agent reply missing proposed order section")
	}

	return &ComposeResult{
		MotionText:        strings.TrimSpace(motionText),
		ProposedOrderText: strings.TrimSpace(orderText),
	}, nil
}

// composePrompt lays out the fact sheet and retrieved authority for the
// drafting agent
func composePrompt(req ComposeRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Draft a %s under %s and its proposed order.\n\n", req.Motion.Label(), req.Motion.Statute())

	b.WriteString("CASE FACTS:\n")
	for _, spec := range req.Motion.Schema() {
		if v, ok := req.Ledger.Get(spec.Name); ok && v.Resolved() {
			fmt.Fprintf(&b, "- %s: %s\n", spec.Name, v.Value)
		}
	}

	if req.Jurisdiction != nil && *req.Jurisdiction != "" {
		fmt.Fprintf(&b, "\nJurisdiction: %s\n", *req.Jurisdiction)
	}
	if req.Chapter != nil && *req.Chapter != "" {
		fmt.Fprintf(&b, "Bankruptcy Chapter: %s\n", *req.Chapter)
	}

	if len(req.Citations) > 0 {
		b.WriteString("\nSUPPORTING AUTHORITY (cite only from this list):\n")
		for _, c := range req.Citations {
			fmt.Fprintf(&b, "- [%s] %s\n", c.Citation, c.Snippet)
		}
	} else {
		b.WriteString("\nNo supporting authority was retrieved. Cite only the governing statute and note that supporting authority is to be supplied.\n")
	}

	fmt.Fprintf(&b, "\nOutput the full motion text, then the line %q, then the full proposed order text. Plain text, no markdown.\n", orderMarker)
	b.WriteString("Use EXACT values from CASE FACTS. Do not estimate, round, or aggregate numbers.")
	return b.String()
}
