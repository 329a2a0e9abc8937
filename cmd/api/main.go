// @title           Document Intelligence API
// @version         1.0
// @description     This API ingests documents into a vector store and answers questions over them
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/DocIntel/internal/config"
	"github.com/akolanti/DocIntel/internal/data/store"
	"github.com/akolanti/DocIntel/internal/handlers"
	"github.com/akolanti/DocIntel/internal/rag"
	"github.com/akolanti/DocIntel/internal/rag/embedding"
	"github.com/akolanti/DocIntel/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/DocIntel/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/DocIntel/internal/rag/llm"
	"github.com/akolanti/DocIntel/internal/rag/llm/gemini"
	"github.com/akolanti/DocIntel/internal/rag/llm/openaiLLM"
	"github.com/akolanti/DocIntel/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/DocIntel/internal/server"
	"github.com/akolanti/DocIntel/pkg/logger_i"
	"github.com/joho/godotenv"
)

var listenAddr string

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config - env is read exactly once, here
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using process environment")
	}
	config.LoadFromEnv()

	flag.StringVar(&listenAddr, "listen-addr", config.ListenAddr, "server listen address")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//corpus version + answer cache share the redis connection
	versionStore := store.GetRedisVersionStore(serviceContext)
	if versionStore == nil {
		logger.Error("Redis is offline. Shutting down.")
		return
	}
	answerCache := store.GetRedisAnswerCache(serviceContext, versionStore)

	vectorDB := qdrantDB.GetQdrantClient(serviceContext)

	var embeddingService embedding.Embedder
	var llmProvider llm.Provider
	switch config.LLMProvider {
	case config.ProviderOpenAI:
		embeddingService = openaiEmbedding.GetOpenAIEmbeddingClient(config.OpenAIEmbeddingModel, config.OpenAIAPIKey)
		llmProvider = openaiLLM.GetOpenAIClient(config.OpenAIModelName, config.OpenAIAPIKey)
	default:
		embeddingService = googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, config.GoogleAPIKey)
		llmProvider = gemini.GetGeminiClient(serviceContext, config.GeminiModelName, config.GoogleAPIKey)
	}

	if vectorDB == nil || embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorDB", vectorDB != nil, "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	ragService := rag.NewService(vectorDB, llmProvider, embeddingService, answerCache, versionStore)
	handler := handlers.NewHandler(ragService)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr, handler)

	<-stopExecution
	logger.Info("Server stopped")
}
