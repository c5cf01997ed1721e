// Package verification turns raw compliance verdicts into the strict
// VerifierResult shape and merges in the deterministic SEO analysis.
package verification

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jonesrussell/north-cloud/review-responder/internal/domain"
	"github.com/jonesrussell/north-cloud/review-responder/internal/serviceerror"
)

// Defaults applied to malformed violation items.
const (
	DefaultViolationCode    = "INVALID"
	DefaultViolationMessage = "Verifier flagged this draft."
)

// NormalizeVerdict coerces an untrusted verifier document into a
// VerifierResult. The document must be a JSON object; anything else is a
// schema error. Inside the object every field is optional and malformed
// violation items are dropped rather than failing the verdict.
func NormalizeVerdict(raw json.RawMessage) (domain.VerifierResult, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		return domain.VerifierResult{}, serviceerror.Schema("Verifier output did not match the expected JSON schema.")
	}

	result := domain.VerifierResult{
		Pass:       coerceBool(firstPresent(doc, "pass", "passed")),
		Violations: normalizeViolations(firstPresent(doc, "violations")),
	}

	if rewrite, ok := coerceString(firstPresent(doc, "suggestedRewrite", "suggested_rewrite")); ok {
		result.SuggestedRewrite = domain.TrimmedOrNil(&rewrite)
	}

	return result, nil
}

func firstPresent(doc map[string]json.RawMessage, keys ...string) json.RawMessage {
	for _, key := range keys {
		if v, ok := doc[key]; ok && !isNull(v) {
			return v
		}
	}
	return nil
}

// normalizeViolations accepts a JSON array or a JSON string that encodes one.
func normalizeViolations(raw json.RawMessage) []domain.Violation {
	violations := make([]domain.Violation, 0)
	if raw == nil {
		return violations
	}

	var encoded string
	if json.Unmarshal(raw, &encoded) == nil {
		raw = json.RawMessage(encoded)
	}

	var items []json.RawMessage
	if json.Unmarshal(raw, &items) != nil {
		return violations
	}

	for _, item := range items {
		var fields map[string]json.RawMessage
		if json.Unmarshal(item, &fields) != nil || fields == nil {
			continue
		}

		v := domain.Violation{Code: DefaultViolationCode, Message: DefaultViolationMessage}
		if code, ok := coerceString(fields["code"]); ok {
			v.Code = code
		}
		if message, ok := coerceString(fields["message"]); ok {
			v.Message = message
		}
		if snippet, ok := coerceString(fields["snippet"]); ok {
			v.Snippet = &snippet
		}
		violations = append(violations, v)
	}
	return violations
}

// coerceString stringifies a scalar JSON value. Absent and null values
// report ok=false; objects and arrays are kept as compact JSON text.
func coerceString(raw json.RawMessage) (string, bool) {
	if raw == nil || isNull(raw) {
		return "", false
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s, true
	}
	var compact bytes.Buffer
	if json.Compact(&compact, raw) == nil {
		return compact.String(), true
	}
	return string(raw), true
}

func coerceBool(raw json.RawMessage) bool {
	if raw == nil {
		return false
	}
	var b bool
	if json.Unmarshal(raw, &b) == nil {
		return b
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		parsed, err := strconv.ParseBool(strings.TrimSpace(s))
		return err == nil && parsed
	}
	var n float64
	if json.Unmarshal(raw, &n) == nil {
		return n != 0
	}
	return false
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
