package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/gin-gonic/gin"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"

	"voice-call-relay/application/services"
	"voice-call-relay/config"
	"voice-call-relay/infrastructure/adapters"
	"voice-call-relay/infrastructure/gin_interface/controllers"
	"voice-call-relay/infrastructure/media_stream"
	"voice-call-relay/middleware"
	mockcollaborators "voice-call-relay/mock"
)

func main() {
	sess := session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	}))

	elevenLabsConfig, err := config.GetElevenLabsConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get eleven labs config")
	}

	mediaStreamConfig, err := config.GetMediaStreamConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get media stream config")
	}

	dynamoConfig, err := config.GetDynamoConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get dynamo config")
	}

	collaboratorsConfig, err := config.GetCollaboratorsConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get collaborators config")
	}

	authConfig, err := config.NewAuthorizerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get authorizer config")
	}

	jwksUrl := os.Getenv("JWKS_URL")
	if jwksUrl == "" {
		log.Fatal().Msg("JWKS_URL is not set!")
	}

	zeroLogger := adapters.NewZerologWrapper()

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	workerPool, err := ants.NewPool(120, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	dynamoClient := dynamodb.New(sess)

	sessionStore := adapters.NewMemorySessionStore(zeroLogger)

	synthesizer := adapters.NewSpeechSynthesizer(zeroLogger, elevenLabsConfig)

	authorizer := adapters.NewCognitoAuthorizer(zeroLogger, authConfig)

	workflowClient := adapters.NewWorkflowClient(collaboratorsConfig, authorizer, zeroLogger)

	smsClient := adapters.NewSmsClient(collaboratorsConfig, authorizer, zeroLogger)

	callRecorder := adapters.NewDynamoCallRecorder(zeroLogger, dynamoClient, dynamoConfig)

	transmitters := media_stream.NewTransmitterRegistry()

	callControl := services.NewCallControl(zeroLogger, sessionStore, synthesizer, transmitters,
		workflowClient, smsClient, workerPool, mediaStreamConfig.FrameBytes)

	workflowDispatcher := services.NewWorkflowDispatcher(zeroLogger, workflowClient, workerPool)

	mediaGateway := media_stream.NewGateway(zeroLogger, sessionStore, callControl, transmitters,
		callRecorder, workflowDispatcher, workerPool, media_stream.GatewayConfig{
			FrameInterval:    mediaStreamConfig.FrameInterval,
			WriteTimeout:     mediaStreamConfig.WriteTimeout,
			InboundBufferMax: mediaStreamConfig.InboundBufferMax,
			DefaultVoiceID:   elevenLabsConfig.DefaultVoiceID,
		})

	streamController := controllers.NewStreamController(zeroLogger, callControl)
	voiceController := controllers.NewVoiceController(zeroLogger, sessionStore, mediaGateway, mediaStreamConfig)

	router := gin.Default()

	err = router.SetTrustedProxies(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	authHandler, err := middleware.NewAuthHandler(jwksUrl)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth handler!")
	}

	router.Use(authHandler.AuthMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if os.Getenv("ENABLE_MOCK_COLLABORATORS") == "true" {
		mockcollaborators.Init(router, zeroLogger)
	}

	streamController.RegisterRoutes(router)
	voiceController.RegisterRoutes(router)

	err = router.Run(":8080")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}
