package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"papergraph/application/ports"
	apperrors "papergraph/pkg/errors"
	"papergraph/pkg/retry"
)

const (
	// promptContentLimit bounds how much of the paper is sent to the LLM.
	promptContentLimit = 5000

	// outlineCacheKeyLimit bounds how much of the content forms the cache
	// key. Inputs are client-supplied, hence the short TTL tier.
	outlineCacheKeyLimit = 100
)

const outlinePrompt = "Summarize the following academic paper's content and generate a structured outline " +
	"with main topics and subtopics. Format the outline as a JSON object where keys are main topics " +
	"and values are arrays of subtopics. Content: %s"

// jsonObjectPattern extracts the outermost {...} block from a completion
// that wraps its JSON in prose or a code fence.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// OutlineService turns paper content into a Mermaid flowchart definition:
// an LLM summarizes the content into a topic/subtopic outline, which is
// rendered as flowchart source. Rendering the source to an image is the
// caller's concern.
type OutlineService struct {
	cache   ports.Cache
	llm     ports.ChatCompleter
	retrier *retry.Retrier
	ttl     time.Duration
	logger  *zap.Logger
}

// NewOutlineService creates an OutlineService. ttl is the short, derived
// artifact cache tier.
func NewOutlineService(cache ports.Cache, llm ports.ChatCompleter, retrier *retry.Retrier, ttl time.Duration, logger *zap.Logger) *OutlineService {
	return &OutlineService{
		cache:   cache,
		llm:     llm,
		retrier: retrier,
		ttl:     ttl,
		logger:  logger,
	}
}

// outlineTopic preserves the outline's key order, which a plain
// map[string][]string would lose and with it the flowchart layout.
type outlineTopic struct {
	name      string
	subtopics []string
}

// GenerateFlowchart returns Mermaid flowchart source describing the
// content's topic structure.
func (s *OutlineService) GenerateFlowchart(ctx context.Context, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", apperrors.NewValidationError("content is required")
	}

	key := "flowchart-" + truncate(content, outlineCacheKeyLimit)
	if cached, ok := s.cache.Get(ctx, key); ok {
		if code, ok := cached.(string); ok {
			return code, nil
		}
	}

	prompt := fmt.Sprintf(outlinePrompt, truncate(content, promptContentLimit))

	var completion string
	err := s.retrier.Do(ctx, func() error {
		var cerr error
		completion, cerr = s.llm.Complete(ctx, prompt)
		return cerr
	})
	if err != nil {
		return "", err
	}

	topics, err := parseOutline(completion)
	if err != nil {
		s.logger.Warn("Unusable outline from LLM", zap.Error(err))
		return "", err
	}

	code := buildFlowchart(topics)

	if cerr := s.cache.Set(ctx, key, code, s.ttl); cerr != nil {
		s.logger.Warn("Failed to cache flowchart", zap.Error(cerr))
	}

	return code, nil
}

// parseOutline decodes the completion as a JSON object of main topics to
// subtopic arrays, falling back to the first {...} block when the model
// wraps the JSON in prose.
func parseOutline(completion string) ([]outlineTopic, error) {
	topics, err := decodeTopics(completion)
	if err == nil {
		return topics, nil
	}

	if match := jsonObjectPattern.FindString(completion); match != "" {
		return decodeTopics(match)
	}

	return nil, apperrors.NewValidationError("invalid outline format: expected a JSON object of topics")
}

// decodeTopics streams tokens rather than unmarshaling into a map so the
// outline keeps the model's topic order.
func decodeTopics(raw string) ([]outlineTopic, error) {
	dec := json.NewDecoder(strings.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, apperrors.NewValidationError("invalid outline format").WithCause(err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, apperrors.NewValidationError("invalid outline format: expected an object with main topics and subtopics")
	}

	var topics []outlineTopic
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, apperrors.NewValidationError("invalid outline format").WithCause(err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, apperrors.NewValidationError("invalid outline format: non-string topic")
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, apperrors.NewValidationError("invalid outline format").WithCause(err)
		}

		// A topic whose value is not an array is kept without subtopics
		// rather than failing the whole outline.
		var subtopics []string
		if err := json.Unmarshal(value, &subtopics); err != nil {
			var loose []interface{}
			if err := json.Unmarshal(value, &loose); err == nil {
				for _, v := range loose {
					subtopics = append(subtopics, fmt.Sprintf("%v", v))
				}
			}
		}

		topics = append(topics, outlineTopic{name: key, subtopics: subtopics})
	}

	return topics, nil
}

// buildFlowchart renders the outline as Mermaid flowchart source: a start
// node fanning out to main topics, each fanning out to its subtopics.
func buildFlowchart(topics []outlineTopic) string {
	var b strings.Builder
	b.WriteString("graph TD\n")
	b.WriteString("start[Start]\n")

	for i, topic := range topics {
		mainID := fmt.Sprintf("main%d", i)
		fmt.Fprintf(&b, "%s[%s]\n", mainID, sanitizeLabel(topic.name))
		fmt.Fprintf(&b, "start --> %s\n", mainID)

		for j, sub := range topic.subtopics {
			subID := fmt.Sprintf("sub%d_%d", i, j)
			fmt.Fprintf(&b, "%s[%s]\n", subID, sanitizeLabel(sub))
			fmt.Fprintf(&b, "%s --> %s\n", mainID, subID)
		}
	}

	return b.String()
}

// sanitizeLabel strips characters that break Mermaid node syntax.
var labelSanitizer = strings.NewReplacer(
	"{", "", "}", "",
	"[", "", "]", "",
	"(", "", ")", "",
	"#", "", ";", "",
	`"`, "'",
)

func sanitizeLabel(text string) string {
	return strings.TrimSpace(labelSanitizer.Replace(text))
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
