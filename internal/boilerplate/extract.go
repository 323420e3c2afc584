package boilerplate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Models wrap their JSON inconsistently: sometimes a tagged ```json fence,
// sometimes an untagged fence, sometimes bare JSON floating in prose. Each
// strategy locates a candidate span and hands it to encoding/json; the
// first one that parses wins.
var (
	fencedJSONBlock = regexp.MustCompile("(?i)```json\\s*(\\{[\\s\\S]*?\\})\\s*```")
	fencedAnyBlock  = regexp.MustCompile("```[\\w]*\\s*(\\{[\\s\\S]*?\\})\\s*```")
)

type extractStrategy func(text string) (string, bool)

// extractStrategies is the ordered fallback chain. Order matters: the
// tagged fence is the contract the prompt asks for, the untagged fence
// catches sloppy models, and the first-{/last-} span is the last resort.
var extractStrategies = []extractStrategy{
	extractTaggedFence,
	extractAnyFence,
	extractBraceSpan,
}

func extractTaggedFence(text string) (string, bool) {
	m := fencedJSONBlock.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func extractAnyFence(text string) (string, bool) {
	m := fencedAnyBlock.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// extractBraceSpan takes the substring from the first { to the last }.
// Known limitation, preserved from the original behavior: stray braces in
// surrounding prose can poison the span. A real JSON parse still gates the
// result, so the failure mode is a rejected manifest, never a bogus one.
func extractBraceSpan(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// ExtractManifest parses the model's raw response text into a Manifest.
// Strategies are tried in order; a strategy that locates a span but fails
// to parse does not stop the chain. When every strategy is exhausted the
// result is ErrMalformedManifest: no partial manifests, no field scraping.
func ExtractManifest(raw string) (*Manifest, error) {
	for _, strategy := range extractStrategies {
		span, ok := strategy(raw)
		if !ok {
			continue
		}
		var m Manifest
		if err := json.Unmarshal([]byte(span), &m); err != nil {
			continue
		}
		return &m, nil
	}
	return nil, fmt.Errorf("%w (response length %d)", ErrMalformedManifest, len(raw))
}
