package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/civicscan/fleetdoctor/schema"
)

// Classifier maps one execution result to a standardized health
// classification. The decision logic is an ordered list of rules evaluated
// in sequence; the first rule that matches wins.
type Classifier struct {
	cfg   schema.ClassifierConfig
	rules []classifyRule
}

// classifyInput carries one run plus precomputed lookups shared by all rules.
type classifyInput struct {
	res      schema.ExecutionResult
	logLower string
	now      time.Time
}

// classifyRule is one (predicate, outcome) step of the decision list.
type classifyRule struct {
	name  string
	apply func(in *classifyInput) (schema.Classification, bool)
}

// NewClassifier builds a classifier from the given tables.
func NewClassifier(cfg schema.ClassifierConfig) *Classifier {
	c := &Classifier{cfg: cfg}
	c.rules = []classifyRule{
		{name: "import_error", apply: c.ruleImportError},
		{name: "timeout", apply: c.ruleTimeout},
		{name: "ssl_error", apply: c.ruleSSLError},
		{name: "http_error", apply: c.ruleHTTPError},
		{name: "encoding_error", apply: c.ruleEncodingError},
		{name: "crash_unknown", apply: c.ruleCrashUnknown},
		{name: "selector_failure", apply: c.ruleSelectorFailure},
		{name: "javascript_required", apply: c.ruleJavascriptRequired},
		{name: "empty_result", apply: c.ruleEmptyResult},
		{name: "stale_success", apply: c.ruleStaleSuccess},
		{name: "success", apply: c.ruleSuccess},
	}
	return c
}

// Rules returns the names of the decision rules in evaluation order.
func (c *Classifier) Rules() []string {
	names := make([]string, 0, len(c.rules))
	for _, r := range c.rules {
		names = append(names, r.name)
	}
	return names
}

// Classify maps one execution result to a Classification. The now argument
// is the reference time for staleness so identical inputs always produce
// identical output.
func (c *Classifier) Classify(res schema.ExecutionResult, now time.Time) schema.Classification {
	in := &classifyInput{
		res:      res,
		logLower: strings.ToLower(res.LogText),
		now:      now,
	}
	for _, rule := range c.rules {
		if cls, ok := rule.apply(in); ok {
			return cls
		}
	}
	// No rule matched; this state should be unreachable.
	return c.build(schema.StatusUnknownFailure, schema.LowConfidence, c.fallbackEvidence(res.LogText))
}

// --- Failed-exit rules (exit code != 0) ---

func (c *Classifier) ruleImportError(in *classifyInput) (schema.Classification, bool) {
	if in.res.ExitCode == 0 || !containsAny(in.logLower, c.cfg.ImportMarkers) {
		return schema.Classification{}, false
	}
	return c.build(schema.StatusImportError, schema.HighConfidence, c.extractEvidence(in.res.LogText, c.cfg.ImportMarkers)), true
}

func (c *Classifier) ruleTimeout(in *classifyInput) (schema.Classification, bool) {
	if in.res.ExitCode == 0 {
		return schema.Classification{}, false
	}
	if containsAny(in.logLower, c.cfg.TimeoutMarkers) {
		return c.build(schema.StatusTimeout, schema.HighConfidence, c.extractEvidence(in.res.LogText, c.cfg.TimeoutMarkers)), true
	}
	if c.cfg.TimeoutCeilingSeconds > 0 && in.res.DurationSeconds > c.cfg.TimeoutCeilingSeconds {
		ev := []string{fmt.Sprintf("run lasted %.1fs, over the %.0fs ceiling", in.res.DurationSeconds, c.cfg.TimeoutCeilingSeconds)}
		return c.build(schema.StatusTimeout, schema.MediumConfidence, ev), true
	}
	return schema.Classification{}, false
}

func (c *Classifier) ruleSSLError(in *classifyInput) (schema.Classification, bool) {
	if in.res.ExitCode == 0 || !containsAny(in.logLower, c.cfg.SSLMarkers) {
		return schema.Classification{}, false
	}
	return c.build(schema.StatusSSLError, schema.HighConfidence, c.extractEvidence(in.res.LogText, c.cfg.SSLMarkers)), true
}

func (c *Classifier) ruleHTTPError(in *classifyInput) (schema.Classification, bool) {
	if in.res.ExitCode == 0 || !containsAny(in.logLower, c.cfg.HTTPCodes) {
		return schema.Classification{}, false
	}
	return c.build(schema.StatusHTTPError, schema.HighConfidence, c.extractEvidence(in.res.LogText, c.cfg.HTTPCodes)), true
}

func (c *Classifier) ruleEncodingError(in *classifyInput) (schema.Classification, bool) {
	if in.res.ExitCode == 0 || !containsAny(in.logLower, c.cfg.EncodingMarkers) {
		return schema.Classification{}, false
	}
	return c.build(schema.StatusEncodingError, schema.HighConfidence, c.extractEvidence(in.res.LogText, c.cfg.EncodingMarkers)), true
}

// ruleCrashUnknown catches any remaining nonzero exit.
func (c *Classifier) ruleCrashUnknown(in *classifyInput) (schema.Classification, bool) {
	if in.res.ExitCode == 0 {
		return schema.Classification{}, false
	}
	return c.build(schema.StatusUnknownFailure, schema.LowConfidence, c.fallbackEvidence(in.res.LogText)), true
}

// --- Clean-exit, zero-item rules ---

func (c *Classifier) ruleSelectorFailure(in *classifyInput) (schema.Classification, bool) {
	if in.res.ItemCount != 0 || !containsAny(in.logLower, c.cfg.SelectorMarkers) {
		return schema.Classification{}, false
	}
	return c.build(schema.StatusSelectorFailure, schema.HighConfidence, c.extractEvidence(in.res.LogText, c.cfg.SelectorMarkers)), true
}

func (c *Classifier) ruleJavascriptRequired(in *classifyInput) (schema.Classification, bool) {
	if in.res.ItemCount != 0 || !containsAny(in.logLower, c.cfg.JSMarkers) {
		return schema.Classification{}, false
	}
	return c.build(schema.StatusJavascript, schema.MediumConfidence, c.extractEvidence(in.res.LogText, c.cfg.JSMarkers)), true
}

func (c *Classifier) ruleEmptyResult(in *classifyInput) (schema.Classification, bool) {
	if in.res.ItemCount != 0 {
		return schema.Classification{}, false
	}
	return c.build(schema.StatusEmptyResult, schema.MediumConfidence, c.fallbackEvidence(in.res.LogText)), true
}

// --- Clean-exit, produced-items rules ---

func (c *Classifier) ruleStaleSuccess(in *classifyInput) (schema.Classification, bool) {
	if len(in.res.Items) == 0 {
		return schema.Classification{}, false
	}
	newest, ok := newestItemDate(in.res.Items)
	if !ok {
		return schema.Classification{}, false
	}
	age := in.now.Sub(newest)
	if age <= time.Duration(c.cfg.StalenessDays)*24*time.Hour {
		return schema.Classification{}, false
	}
	ev := []string{fmt.Sprintf("newest record dated %s, %d days old", newest.Format("2006-01-02"), int(age.Hours()/24))}
	return c.build(schema.StatusStaleSuccess, schema.HighConfidence, ev), true
}

func (c *Classifier) ruleSuccess(in *classifyInput) (schema.Classification, bool) {
	return c.build(schema.StatusSuccess, schema.HighConfidence, nil), true
}

// ClassifyDormancy classifies repository-level inactivity, independent of
// any single run outcome. Zero timestamps are treated as absent; the
// providers already swallow malformed timestamps upstream.
func (c *Classifier) ClassifyDormancy(lastCommit, lastRun, now time.Time) schema.Classification {
	if lastCommit.IsZero() && lastRun.IsZero() {
		return c.build(schema.StatusDormant, schema.MediumConfidence,
			[]string{"no commit or automated-run activity on record"})
	}

	newest := lastCommit
	if lastRun.After(newest) {
		newest = lastRun
	}
	ageDays := int(now.Sub(newest).Hours() / 24)
	if ageDays > c.cfg.DormancyDays {
		ev := []string{fmt.Sprintf("last activity %s, %d days ago", newest.Format("2006-01-02"), ageDays)}
		return c.build(schema.StatusDormant, schema.HighConfidence, ev)
	}
	ev := []string{fmt.Sprintf("last activity %s", newest.Format("2006-01-02"))}
	return c.build(schema.StatusActive, schema.HighConfidence, ev)
}

func (c *Classifier) build(status schema.Status, conf schema.Confidence, evidence []string) schema.Classification {
	return schema.Classification{
		Status:     status,
		Confidence: conf,
		Evidence:   evidence,
		Frequency:  schema.FrequencyForStatus(status),
	}
}

// extractEvidence scans the log line by line; every line matching a trigger
// keyword yields one snippet covering the surrounding context window. It
// stops after the configured snippet budget and falls back to the head of
// the log when nothing matched.
func (c *Classifier) extractEvidence(logText string, keywords []string) []string {
	lines := strings.Split(logText, "\n")
	var snippets []string

	for i := 0; i < len(lines) && len(snippets) < c.cfg.MaxSnippets; i++ {
		if !containsAny(strings.ToLower(lines[i]), keywords) {
			continue
		}
		lo := max(0, i-c.cfg.SnippetRadius)
		hi := min(len(lines), i+c.cfg.SnippetRadius+1)
		snippet := strings.TrimSpace(strings.Join(lines[lo:hi], " | "))
		if len(snippet) > c.cfg.SnippetMaxChars {
			snippet = snippet[:c.cfg.SnippetMaxChars]
		}
		snippets = append(snippets, snippet)
		i = hi - 1 // do not re-report lines already covered by this window
	}

	if len(snippets) == 0 {
		return c.fallbackEvidence(logText)
	}
	return snippets
}

func (c *Classifier) fallbackEvidence(logText string) []string {
	trimmed := strings.TrimSpace(logText)
	if trimmed == "" {
		return nil
	}
	if len(trimmed) > c.cfg.FallbackChars {
		trimmed = trimmed[:c.cfg.FallbackChars]
	}
	return []string{trimmed}
}

func containsAny(haystackLower string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(haystackLower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// dateLikeKeys marks item field names worth inspecting for record dates.
var dateLikeKeys = []string{"date", "time", "start", "end", "updated", "created"}

// itemDateLayouts are the record-date formats accepted, most specific first.
var itemDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"January 2, 2006",
}

// newestItemDate returns the most recent date-like value found across the
// extracted records. Unparseable values are skipped, never an error.
func newestItemDate(items []map[string]any) (time.Time, bool) {
	var newest time.Time
	for _, item := range items {
		for key, val := range item {
			if !isDateLikeKey(key) {
				continue
			}
			if t, ok := coerceTime(val); ok && t.After(newest) {
				newest = t
			}
		}
	}
	return newest, !newest.IsZero()
}

func isDateLikeKey(key string) bool {
	lower := strings.ToLower(key)
	for _, marker := range dateLikeKeys {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func coerceTime(val any) (time.Time, bool) {
	switch v := val.(type) {
	case time.Time:
		return v, !v.IsZero()
	case string:
		for _, layout := range itemDateLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
