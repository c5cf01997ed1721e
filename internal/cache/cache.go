// Package cache memoizes provider responses in Redis. Identical requests to
// the same program configuration reuse the stored reply.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/north-cloud/review-responder/internal/capability"
	infralogger "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/review-responder/internal/telemetry"
)

const keyPrefix = "review-responder:"

// Cache lookup results for metrics.
const (
	resultHit    = "hit"
	resultMiss   = "miss"
	resultError  = "error"
	resultStored = "stored"
)

// Store wraps a Redis client with a TTL and a namespace. The namespace
// captures everything outside the request that changes a reply: the
// configured model and the program artifact version.
type Store struct {
	client    *redis.Client
	ttl       time.Duration
	telemetry *telemetry.Provider
	logger    infralogger.Logger
}

// NewStore creates a Store.
func NewStore(client *redis.Client, ttl time.Duration, tel *telemetry.Provider, log infralogger.Logger) *Store {
	return &Store{client: client, ttl: ttl, telemetry: tel, logger: log}
}

// Key hashes the parts into a namespaced cache key.
func Key(capabilityName string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	return keyPrefix + capabilityName + ":" + hex.EncodeToString(h.Sum(nil))
}

// get returns the cached value and whether it was found. Redis failures are
// logged and treated as misses.
func (s *Store) get(ctx context.Context, capabilityName, key string) (string, bool) {
	val, err := s.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		s.telemetry.RecordCache(capabilityName, resultHit)
		return val, true
	case errors.Is(err, redis.Nil):
		s.telemetry.RecordCache(capabilityName, resultMiss)
	default:
		s.telemetry.RecordCache(capabilityName, resultError)
		s.logger.Warn("Provider cache read failed",
			infralogger.String("capability", capabilityName),
			infralogger.Error(err),
		)
	}
	return "", false
}

func (s *Store) set(ctx context.Context, capabilityName, key, val string) {
	if err := s.client.Set(ctx, key, val, s.ttl).Err(); err != nil {
		s.logger.Warn("Provider cache write failed",
			infralogger.String("capability", capabilityName),
			infralogger.Error(err),
		)
		return
	}
	s.telemetry.RecordCache(capabilityName, resultStored)
}

var (
	_ capability.DraftGenerator     = (*DraftGenerator)(nil)
	_ capability.ComplianceVerifier = (*ComplianceVerifier)(nil)
)

// DraftGenerator caches non-empty drafts of an inner generator.
type DraftGenerator struct {
	inner     capability.DraftGenerator
	store     *Store
	namespace string
}

// NewDraftGenerator wraps inner. defaultModel is used in the key when a
// request carries no model override.
func NewDraftGenerator(inner capability.DraftGenerator, store *Store, defaultModel string) *DraftGenerator {
	return &DraftGenerator{
		inner:     inner,
		store:     store,
		namespace: defaultModel + "|" + capability.ArtifactVersionOf(inner),
	}
}

// Generate implements capability.DraftGenerator.
func (g *DraftGenerator) Generate(ctx context.Context, req capability.GenerateRequest) (string, error) {
	key := Key("draft",
		g.namespace,
		req.Model,
		req.EvidenceJSON,
		req.SEOBrief,
		req.PreviousDraftText,
		strconv.Itoa(req.Attempt),
	)

	if cached, ok := g.store.get(ctx, "draft", key); ok {
		return cached, nil
	}

	text, err := g.inner.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	if text != "" {
		g.store.set(ctx, "draft", key, text)
	}
	return text, nil
}

// ArtifactVersion reports the inner generator's artifact version.
func (g *DraftGenerator) ArtifactVersion() string {
	return capability.ArtifactVersionOf(g.inner)
}

// ComplianceVerifier caches verdicts of an inner verifier.
type ComplianceVerifier struct {
	inner     capability.ComplianceVerifier
	store     *Store
	namespace string
}

// NewComplianceVerifier wraps inner.
func NewComplianceVerifier(inner capability.ComplianceVerifier, store *Store, defaultModel string) *ComplianceVerifier {
	return &ComplianceVerifier{
		inner:     inner,
		store:     store,
		namespace: defaultModel + "|" + capability.ArtifactVersionOf(inner),
	}
}

// Verify implements capability.ComplianceVerifier.
func (v *ComplianceVerifier) Verify(ctx context.Context, req capability.VerifyRequest) (json.RawMessage, error) {
	key := Key("verify", v.namespace, req.Model, req.EvidenceJSON, req.DraftText, req.PolicyJSON)

	if cached, ok := v.store.get(ctx, "verify", key); ok && json.Valid([]byte(cached)) {
		return json.RawMessage(cached), nil
	}

	raw, err := v.inner.Verify(ctx, req)
	if err != nil {
		return nil, err
	}
	v.store.set(ctx, "verify", key, string(raw))
	return raw, nil
}

// ArtifactVersion reports the inner verifier's artifact version.
func (v *ComplianceVerifier) ArtifactVersion() string {
	return capability.ArtifactVersionOf(v.inner)
}
