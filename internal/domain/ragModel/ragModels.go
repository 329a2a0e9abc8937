package ragModel

import "context"

type Step string

// Ingestion walks these in order; any failure aborts before Invalidated,
// which leaves the corpus version (and every cached answer) untouched.
const (
	Idle             Step = "Idle"
	Loading          Step = "Loading"
	Splitting        Step = "Splitting"
	EmbeddingStoring Step = "Embedding&Storing"
	Invalidated      Step = "Invalidated"

	QueryInit    Step = "QueryInit"
	CacheCall    Step = "CacheCall"
	EmbeddingAPI Step = "EmbeddingAPI"
	VectorDBCall Step = "VectorDB"
	LLMCall      Step = "LLM"
	Complete     Step = "Complete"
)

// VersionStore tracks the corpus generation counter. BumpVersion failing is
// fatal to the caller - an unrecorded invalidation would serve stale answers
// forever.
type VersionStore interface {
	GetVersion(ctx context.Context) (int64, error)
	BumpVersion(ctx context.Context) error
}

// AnswerCache maps (current version, question) to a previously computed
// answer. Correctness never depends on it.
type AnswerCache interface {
	Get(ctx context.Context, question string) (string, bool)
	Put(ctx context.Context, question string, answer string) error
}
