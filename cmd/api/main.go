package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"swapmarket/internal/adapter/api"
	"swapmarket/internal/adapter/api/handler"
	apimiddleware "swapmarket/internal/adapter/api/middleware"
	"swapmarket/internal/adapter/api/router"
	"swapmarket/internal/adapter/repository"
	"swapmarket/internal/infrastructure/firebase"
	"swapmarket/internal/infrastructure/ratelimit"
	"swapmarket/internal/infrastructure/websocket"
	"swapmarket/internal/usecase"
	"swapmarket/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	} else if serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); serviceAccountPath != "" {
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	messagingClient, err := firebaseApp.Messaging(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Messaging: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	productRepo := repository.NewFirestoreProductRepository(firestoreClient)
	swipeRepo := repository.NewFirestoreSwipeRepository(firestoreClient)
	matchRepo := repository.NewFirestoreMatchRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)
	swapOrderRepo := repository.NewFirestoreSwapOrderRepository(firestoreClient)
	cartRepo := repository.NewFirestoreCartRepository(firestoreClient)
	orderRepo := repository.NewFirestoreOrderRepository(firestoreClient)
	notificationRepo := repository.NewFirestoreNotificationRepository(firestoreClient)
	wishRepo := repository.NewFirestoreWishRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient)
	pushSender := firebase.NewPushSender(messagingClient)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	notifier := usecase.NewNotifier(notificationRepo, userRepo, pushSender, wsManager)

	authUseCase := usecase.NewAuthUseCase(firebaseAuthClient, userRepo)
	productUseCase := usecase.NewProductUseCase(productRepo, userRepo)
	matchUseCase := usecase.NewMatchUseCase(matchRepo, swipeRepo, productRepo, notifier)
	negotiationUseCase := usecase.NewNegotiationUseCase(matchRepo, chatRepo, swapOrderRepo, productRepo, rateLimiter, wsManager, notifier)
	checkoutUseCase := usecase.NewCheckoutUseCase(cartRepo, orderRepo, productRepo, notifier)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, notifier)
	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo)
	wishUseCase := usecase.NewWishUseCase(wishRepo, userRepo, notifier)

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)

	handler.Setup(
		authUseCase,
		productUseCase,
		matchUseCase,
		negotiationUseCase,
		checkoutUseCase,
		orderUseCase,
		notificationUseCase,
		wishUseCase,
		wsManager,
		authMiddleware,
	)

	e := echo.New()

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	e.Validator = api.NewValidator()

	router.Setup(e, authMiddleware)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
