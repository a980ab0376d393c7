package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/ranajunaid001/second-braind-junaid/internal/constant"
	"github.com/ranajunaid001/second-braind-junaid/pkg/ledger"
	"github.com/ranajunaid001/second-braind-junaid/pkg/llm"
)

// DefaultConfidenceThreshold is the hand-tuned cutoff below which a
// classification is confirmed with the user instead of auto-filed.
const DefaultConfidenceThreshold = 0.6

// Gateway classifies free text into a bucket with extracted fields. It may
// fail (network, malformed model output); callers fall back to Fallback for
// a classification that always exists.
type Gateway interface {
	Classify(ctx context.Context, text string) (ledger.Classification, error)
	ExtractFields(ctx context.Context, text string, bucket ledger.Bucket) (ledger.Fields, error)
}

// NeedsConfirmation reports whether a confidence is too weak to auto-file.
func NeedsConfirmation(confidence, threshold float64) bool {
	return confidence <= threshold
}

// Fallback is the deterministic classification used whenever the gateway
// errors or produces unparseable output: a low-confidence catch-all task.
func Fallback(text string) ledger.Classification {
	return ledger.Classification{
		Bucket:     ledger.BucketThings,
		Confidence: 0.3,
		Fields: ledger.ThingFields{
			Task:       firstRunes(text, 50),
			Status:     "Open",
			Due:        "",
			NextAction: "Review this item",
		},
	}
}

// forceRules map keywords to buckets checked before the model runs.
var forceRules = []struct {
	bucket   ledger.Bucket
	keywords []string
}{
	{ledger.BucketLinkedIn, []string{"draft"}},
}

// ForcedBucket returns the bucket a force rule pins the message to, if any.
func ForcedBucket(text string) (ledger.Bucket, bool) {
	lower := strings.ToLower(text)
	for _, rule := range forceRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.bucket, true
			}
		}
	}
	return "", false
}

// fieldSchemas are the JSON examples shown to the model per bucket.
var fieldSchemas = map[ledger.Bucket]string{
	ledger.BucketPeople:     `{"name": "person name", "context": "who they are", "follow_ups": "any action"}`,
	ledger.BucketIdeas:      `{"idea": "short title", "one_liner": "one sentence", "notes": "details"}`,
	ledger.BucketInterviews: `{"company": "company name", "role": "job role", "status": "Lead", "next_step": "action", "date": ""}`,
	ledger.BucketThings:     `{"task": "short title", "status": "Open", "due": "", "next_action": "concrete step"}`,
	ledger.BucketLinkedIn:   `{"idea": "post topic", "notes": "full content", "status": "Draft"}`,
}

// LLMGateway is the model-backed Gateway implementation.
type LLMGateway struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

var _ Gateway = &LLMGateway{}

func NewLLMGateway(provider llm.LLMProvider, logger *log.Logger) *LLMGateway {
	if logger == nil {
		logger = log.Default()
	}
	return &LLMGateway{
		provider: provider,
		logger:   logger,
	}
}

func (g *LLMGateway) Classify(ctx context.Context, text string) (ledger.Classification, error) {
	// Force rules beat the model. Confidence is pinned to 1.0; only the
	// fields still need extracting.
	if bucket, ok := ForcedBucket(text); ok {
		fields, err := g.ExtractFields(ctx, text, bucket)
		if err != nil {
			g.logger.Printf("[WARN] forced field extraction failed: %v", err)
			fields = forcedFields(text, bucket)
		}
		return ledger.Classification{Bucket: bucket, Confidence: 1.0, Fields: fields}, nil
	}

	response, err := g.provider.Generate(ctx, constant.ClassifierPrompt+text, llm.WithTemperature(0.3))
	if err != nil {
		return ledger.Classification{}, fmt.Errorf("classifier call: %w", err)
	}

	c, err := parseClassification(response)
	if err != nil {
		return ledger.Classification{}, fmt.Errorf("classifier output: %w", err)
	}
	return c, nil
}

func (g *LLMGateway) ExtractFields(ctx context.Context, text string, bucket ledger.Bucket) (ledger.Fields, error) {
	schema, ok := fieldSchemas[bucket]
	if !ok {
		return nil, fmt.Errorf("no field schema for bucket %q", bucket)
	}

	prompt := fmt.Sprintf(constant.ExtractFieldsPromptTemplate, bucket, schema, text)
	response, err := g.provider.Generate(ctx, prompt, llm.WithTemperature(0.3))
	if err != nil {
		return nil, fmt.Errorf("field extraction call: %w", err)
	}

	raw := extractJSON(response)
	if raw == "" {
		return nil, fmt.Errorf("no JSON in field extraction output")
	}
	return ledger.DecodeFields(bucket, []byte(raw))
}

// forcedFields keeps a force-rule hit alive when field extraction itself
// fails.
func forcedFields(text string, bucket ledger.Bucket) ledger.Fields {
	if bucket == ledger.BucketLinkedIn {
		return ledger.LinkedInFields{
			Idea:   firstRunes(text, 50),
			Notes:  text,
			Status: "Draft",
		}
	}
	fields, err := ledger.EmptyFields(bucket)
	if err != nil {
		return ledger.ThingFields{}
	}
	return fields
}

type classificationWire struct {
	Bucket     string          `json:"bucket"`
	Confidence float64         `json:"confidence"`
	Fields     json.RawMessage `json:"fields"`
}

func parseClassification(response string) (ledger.Classification, error) {
	raw := extractJSON(response)
	if raw == "" {
		return ledger.Classification{}, fmt.Errorf("no JSON found in response")
	}

	var wire classificationWire
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return ledger.Classification{}, fmt.Errorf("JSON unmarshal failed: %w", err)
	}

	bucket, ok := ledger.ParseBucket(wire.Bucket)
	if !ok {
		return ledger.Classification{}, fmt.Errorf("unknown bucket %q", wire.Bucket)
	}

	fields, err := ledger.DecodeFields(bucket, wire.Fields)
	if err != nil {
		return ledger.Classification{}, fmt.Errorf("decode fields: %w", err)
	}

	confidence := wire.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return ledger.Classification{
		Bucket:     bucket,
		Confidence: confidence,
		Fields:     fields,
	}, nil
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}

func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
