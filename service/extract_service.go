package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/redmercy-dev/MotionsAssistant/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/tidwall/gjson"
)

const (
	extractionAPI  = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"
	maxRetries     = 3
	initialBackoff = time.Second

	// noRelevantInfo is the sentinel the extraction prompt demands when a
	// document contains nothing from the schema.
	noRelevantInfo = "NO_RELEVANT_INFO"
)

// ExtractRequest carries one uploaded document through fact extraction
type ExtractRequest struct {
	Document   []byte
	Kind       models.DocumentKind
	MotionType models.MotionType
}

// FactExtractor extracts case variables from an uploaded document. The
// returned facts are restricted to the motion's required-variable schema;
// unreadable documents yield ErrExtractionFailed.
type FactExtractor interface {
	Extract(ctx context.Context, req ExtractRequest) (models.ExtractedFacts, error)
}

// GeminiExtractor implements FactExtractor against the Gemini generateContent
// API
type GeminiExtractor struct {
	client     *genai.Client
	httpClient *http.Client
}

// NewGeminiExtractor creates a Gemini-backed fact extractor
func NewGeminiExtractor(client *genai.Client) *GeminiExtractor {
	return &GeminiExtractor{
		client:     client,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Extract uploads the document inline and asks Gemini for a strict JSON
// object keyed by the motion's schema variable names. Retries with
// exponential backoff; all failures map to ErrExtractionFailed so callers
// degrade to "no new facts".
func (e *GeminiExtractor) Extract(ctx context.Context, req ExtractRequest) (models.ExtractedFacts, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY not set", ErrExtractionFailed)
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": extractionPrompt(req.MotionType)},
					{
						"inline_data": map[string]interface{}{
							"mime_type": req.Kind.MimeType(),
							"data":      base64.StdEncoding.EncodeToString(req.Document),
						},
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":        0.0,
			"response_mime_type": "application/json",
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrExtractionFailed, err)
	}

	var body []byte
	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, ctx.Err())
			}
			backoff *= 2
		}

		httpReq, err := http.NewRequestWithContext(ctx, "POST", extractionAPI, bytes.NewBuffer(jsonData))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("x-goog-api-key", apiKey)

		resp, err := e.httpClient.Do(httpReq)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, ctx.Err())
			}
			if attempt == maxRetries-1 {
				return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
			}
			continue
		}

		if resp.StatusCode == http.StatusOK {
			body, err = io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				if attempt == maxRetries-1 {
					return nil, fmt.Errorf("%w: read response: %v", ErrExtractionFailed, err)
				}
				continue
			}
			break
		}

		resp.Body.Close()

		// Don't retry on 400 or 401 errors
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: API error %d", ErrExtractionFailed, resp.StatusCode)
		}
		if attempt == maxRetries-1 {
			return nil, fmt.Errorf("%w: API error %d after %d attempts", ErrExtractionFailed, resp.StatusCode, maxRetries)
		}
	}

	text := gjson.GetBytes(body, "candidates.0.content.parts.0.text").String()
	if text == "" {
		log.Printf("Warning: extraction returned no candidate text")
		return nil, fmt.Errorf("%w: empty response", ErrExtractionFailed)
	}

	return parseExtractedFacts(req.MotionType, text), nil
}

// extractionPrompt builds the structured paralegal prompt for a motion type.
// The model is told to answer with a flat JSON object keyed by schema
// variable names, or the NO_RELEVANT_INFO sentinel.
func extractionPrompt(motion models.MotionType) string {
	var b strings.Builder
	b.WriteString("You are a paralegal assistant extracting factual data from bankruptcy petition and schedule documents.\n")
	fmt.Fprintf(&b, "The facts support drafting a %s under %s.\n\n", motion.Label(), motion.Statute())
	b.WriteString("Extract ONLY facts explicitly present in the document. Do not infer or fabricate.\n")
	b.WriteString("Respond with a single flat JSON object. Use exactly these keys, omitting any key whose value is not found:\n")
	for _, spec := range motion.Schema() {
		fmt.Fprintf(&b, "  %q: %s\n", spec.Name, spec.Prompt)
	}
	b.WriteString("\nAll values are strings. Dollar amounts keep their digits (e.g. \"12500.00\"). Dates use MM/DD/YYYY.\n")
	fmt.Fprintf(&b, "If the document contains none of these facts, respond with {\"status\": %q}.\n", noRelevantInfo)
	b.WriteString("Do not draft any motion text.")
	return b.String()
}

// parseExtractedFacts reads the model's JSON reply and keeps only values for
// the motion's schema. Unknown keys are dropped, never fabricated into the
// ledger.
func parseExtractedFacts(motion models.MotionType, text string) models.ExtractedFacts {
	if strings.Contains(text, noRelevantInfo) {
		return models.ExtractedFacts{}
	}

	parsed := gjson.Parse(text)
	if !parsed.IsObject() {
		return models.ExtractedFacts{}
	}

	facts := models.ExtractedFacts{}
	for _, spec := range motion.Schema() {
		if v := parsed.Get(spec.Name); v.Exists() {
			value := strings.TrimSpace(v.String())
			if value != "" {
				facts[spec.Name] = value
			}
		}
	}
	return facts
}
