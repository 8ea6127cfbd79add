package main

import (
	"log"
	"os"

	"github.com/test-kooza/rental-management-system-sub000/routes"
	"github.com/test-kooza/rental-management-system-sub000/storage"
	"github.com/test-kooza/rental-management-system-sub000/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With, Stripe-Signature")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	user := app.Party("/api/users")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		user.Post("/logout", refreshTokenVerifierMiddleware, utils.Logout)
	}

	property := app.Party("/api/properties")
	{
		property.Get("/{id:uint}", routes.GetProperty)
		property.Get("/{id:uint}/availability", routes.CheckPropertyAvailability)
		property.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateProperty)
		property.Get("/mine", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetMyProperties)
		property.Patch("/{id:uint}/listed", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.SetPropertyListed)
	}

	booking := app.Party("/api/bookings", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		booking.Post("/checkout", routes.InitiateBookingCheckout)
		booking.Get("/checkout/confirm", routes.ConfirmBookingPayment)
		booking.Get("/", routes.GetMyBookings)
		booking.Post("/{id:uint}/decision", routes.DecideBooking)
	}

	host := app.Party("/api/host", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		host.Get("/bookings", routes.GetHostBookings)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/bookings", routes.AdminListBookings)
	}

	// Webhook is unauthenticated; the signature check stands in for auth
	app.Post("/api/payments/webhook", routes.StripeWebhook)

	conversation := app.Party("/api/conversations", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		conversation.Get("/", routes.GetMyConversations)
	}

	message := app.Party("/api/messages", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		message.Get("/", routes.ListMessages)
		message.Post("/", routes.CreateMessage)
	}

	notification := app.Party("/api/notifications", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		notification.Get("/", routes.GetMyNotifications)
		notification.Patch("/{id:uint}/read", routes.MarkNotificationRead)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	log.Println("Starting server on port " + port)
	app.Listen(":" + port)
}
