package internal

import (
	"net/http"

	"fixd/internal/controllers"
	"fixd/internal/providers"
	"fixd/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, accountController *controllers.AccountController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/scan", http.HandlerFunc(apiController.RegisterScan))
	routers.Get("/scan/allowance", http.HandlerFunc(apiController.GetAllowance))
	routers.Get("/history", http.HandlerFunc(apiController.GetHistory))
	routers.Get("/history/archived", http.HandlerFunc(apiController.GetArchivedSession))
	routers.Post("/submissions", http.HandlerFunc(apiController.ReceiveSubmission))
	routers.Get("/submissions/mine", http.HandlerFunc(apiController.GetMyRepairs))
	routers.Get("/stats", http.HandlerFunc(apiController.GetStats))
	routers.Get("/followups", http.HandlerFunc(apiController.GetFollowUps))
	routers.Post("/followups/complete", http.HandlerFunc(apiController.CompleteFollowUp))
	routers.Get("/settings", http.HandlerFunc(accountController.GetSettings))
	routers.Put("/settings", http.HandlerFunc(accountController.PutSettings))
	routers.Post("/entitlements", http.HandlerFunc(accountController.ReceiveEntitlements))
	routers.Get("/offerings", http.HandlerFunc(accountController.GetOfferings))
	routers.Post("/purchase", http.HandlerFunc(accountController.Purchase))
	routers.Post("/restore", http.HandlerFunc(accountController.RestorePurchases))
	return routers
}
