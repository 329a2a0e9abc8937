package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//TODO:this will differ based on the embedding provider
	EmbeddingOutputDimensionality int32 = 1536
	DocumentCollectionName              = "pdf_collection"
	RetrievalTopK                       = 3

	//chunking - the retriever was tuned against these splitter defaults
	ChunkSize    = 500
	ChunkOverlap = 50

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 30 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//upload size cap (multipart form)
	MaxUploadSize = 32 << 20 //32mb

	//vectorDB
	QdrantHost             = "127.0.0.1"
	QdrantGrpcPort         = 6334
	QdrantUseTLS           = false //set for https
	QdrantPoolSize         = 1     //2-5 is preferred for prod according to documentation
	QdrantKeepAliveTimeout = 30 * time.Second

	//llm providers
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"

	OpenAIModelName      = "gpt-4o-mini"
	OpenAIEmbeddingModel = "text-embedding-3-small"

	ModelTemperature float32 = 0
	ModelContext             = "You are an assistant for question-answering tasks. " +
		"Use the following pieces of retrieved context to answer the question. " +
		"If you don't know the answer, say you don't know. " +
		"Use three sentences maximum and keep the answer concise."

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	//redis has 16 DB we can use
	RedisAnswerCacheDB = 0

	//cached answers are best effort - redis expires them on its own
	AnswerCacheTTL = 1 * time.Hour

	//corpus version key - bump it and every cached answer goes stale
	CorpusVersionKey = "corpus_version"
)

// Env values are resolved once by LoadFromEnv at process start;
// everything else reads the resolved values below.
var (
	ListenAddr     = ServerListenAddr
	RedisConnAddr  = RedisAddr
	QdrantConnHost = QdrantHost
	QdrantConnPort = QdrantGrpcPort
	GoogleAPIKey   = ""
	OpenAIAPIKey   = ""
	LLMProvider    = ProviderGemini
)

func LoadFromEnv() {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		ListenAddr = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		RedisConnAddr = v
	}
	if v := os.Getenv("QDRANT_HOST"); v != "" {
		QdrantConnHost = v
	}
	if v := os.Getenv("QDRANT_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			QdrantConnPort = p
		}
	}
	GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
	OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		LLMProvider = v
	}
}
