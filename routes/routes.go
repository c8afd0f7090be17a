package routes

import (
	"prakthub/auth"
	"prakthub/events"
	"prakthub/live"
	"prakthub/middleware"
	"prakthub/portfolio"
	"prakthub/profile"
	"prakthub/ratelim"
	"prakthub/reservations"

	"github.com/julienschmidt/httprouter"
)

func RoutesWrapper(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	AddAuthRoutes(router, rateLimiter)
	AddReservationRoutes(router, rateLimiter)
	AddFoodOrderRoutes(router, rateLimiter)
	AddPortfolioRoutes(router, rateLimiter)
	AddUserRoutes(router, rateLimiter)
	AddLiveRoutes(router, rateLimiter)
}

func AddAuthRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rateLimiter.Limit(auth.Register))
	router.POST("/api/auth/login", rateLimiter.Limit(auth.Login))
	router.POST("/api/auth/guest", rateLimiter.Limit(auth.GuestLogin))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.LogoutUser))
	router.POST("/api/auth/token/refresh", rateLimiter.Limit(auth.RefreshToken))
}

func AddReservationRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/reservations", reservations.ListReservations)
	router.GET("/api/reservations/:date", reservations.GetReservation)
	router.POST("/api/reservations/:date/toggle", rateLimiter.Limit(middleware.RequireUser(reservations.ToggleReservation)))
}

func AddFoodOrderRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/foodorders", middleware.OptionalAuth(events.ListFoodOrders))
	router.POST("/api/foodorders", rateLimiter.Limit(middleware.RequireUser(events.CreateFoodOrder)))
	// Not nested under /api/foodorders/:id because httprouter rejects a
	// static segment next to a wildcard.
	router.GET("/api/orderdetails", middleware.RequireUser(events.MyOrderDetails))
	router.GET("/api/foodorders/:id", middleware.OptionalAuth(events.GetFoodOrder))
	router.PUT("/api/foodorders/:id", rateLimiter.Limit(middleware.RequireUser(events.EditFoodOrder)))
	router.DELETE("/api/foodorders/:id", rateLimiter.Limit(middleware.RequireUser(events.DeleteFoodOrder)))

	// Item addition is the one mutation open to guests.
	router.POST("/api/foodorders/:id/items", rateLimiter.Limit(middleware.Authenticate(events.AddOrderItem)))
	router.DELETE("/api/foodorders/:id/items/:itemid", rateLimiter.Limit(middleware.RequireUser(events.RemoveOrderItem)))
	router.POST("/api/foodorders/:id/paid", rateLimiter.Limit(middleware.RequireUser(events.TogglePaidStatus)))
	router.POST("/api/foodorders/:id/state", rateLimiter.Limit(middleware.RequireUser(events.ToggleOrderState)))

	router.POST("/api/foodorders/:id/vote", rateLimiter.Limit(middleware.RequireUser(events.ToggleVote)))
	router.POST("/api/foodorders/:id/options", rateLimiter.Limit(middleware.RequireUser(events.AddVotingOption)))
	router.POST("/api/foodorders/:id/order-from-vote", rateLimiter.Limit(middleware.RequireUser(events.CreateOrderFromVote)))
}

func AddPortfolioRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/portfolio", middleware.RequireUser(portfolio.ListMyPortfolio))
	router.GET("/api/portfolio/user/:userid", portfolio.ListUserPortfolio)
	router.PUT("/api/portfolio/:id", rateLimiter.Limit(middleware.RequireUser(portfolio.UpsertPortfolioItem)))
	router.DELETE("/api/portfolio/:id", rateLimiter.Limit(middleware.RequireUser(portfolio.RemovePortfolioItem)))
	router.POST("/api/portfolio/:id/visibility", rateLimiter.Limit(middleware.RequireUser(portfolio.ToggleItemVisibility)))

	router.GET("/api/status", middleware.RequireUser(portfolio.GetWeeklyStatus))
	router.POST("/api/status", rateLimiter.Limit(middleware.RequireUser(portfolio.UpdateWeeklyStatus)))
}

func AddUserRoutes(router *httprouter.Router, _ *ratelim.RateLimiter) {
	router.GET("/api/users", profile.ListUsers)
	router.GET("/api/users/:userid", profile.GetUser)
	router.GET("/api/users/:userid/name", profile.GetUserName)
}

func AddLiveRoutes(router *httprouter.Router, _ *ratelim.RateLimiter) {
	router.GET("/ws/:collection", live.HandleWS)
}
