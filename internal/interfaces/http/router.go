package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gadgetops/resale-api/internal/application/dailystock"
	"github.com/gadgetops/resale-api/internal/application/lifecycle"
	"github.com/gadgetops/resale-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC   *usecase.CompanyUseCase
	LifecycleUC *lifecycle.UseCase
	DailyUC     *dailystock.UseCase
	AnalyticsUC *usecase.AnalyticsUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Companies (público por ahora; se puede proteger con AuthMiddleware(deps.JWTSecret))
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Items (protegido)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.LifecycleUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.UpdateGeneral)
	items.Delete("/:id", RequireRole("admin"), itemHandler.Delete)
	items.Put("/:id/prices", itemHandler.UpdatePrices)
	items.Get("/:id/history", itemHandler.ChangeHistory)

	// Ciclo de vida (protegido)
	lifecycleHandler := NewLifecycleHandler(deps.LifecycleUC)
	items.Post("/:id/repair", lifecycleHandler.SendToRepair)
	items.Post("/:id/repair/complete", lifecycleHandler.CompleteRepair)
	items.Post("/:id/sell", lifecycleHandler.MarkSold)
	items.Post("/:id/collect", lifecycleHandler.CollectUnpaid)
	items.Put("/:id/payments", lifecycleHandler.UpdatePayments)
	items.Delete("/:id/collector", lifecycleHandler.RemoveCollector)
	items.Post("/:id/returns", lifecycleHandler.ProcessReturn)
	items.Get("/:id/returns", lifecycleHandler.ListReturns)
	protected.Get("/returns/:id", lifecycleHandler.GetReturn)

	// Sesiones diarias de stock (protegido)
	sessions := protected.Group("/sessions")
	sessionHandler := NewSessionHandler(deps.DailyUC)
	sessions.Post("/open", sessionHandler.OpenDay)
	sessions.Post("/close", sessionHandler.CloseDay)
	sessions.Get("/current", sessionHandler.GetCurrent)
	sessions.Post("/transactions", sessionHandler.RecordTransaction)
	sessions.Post("/report", sessionHandler.SendReport)
	sessions.Get("/", sessionHandler.List)
	sessions.Get("/:date", sessionHandler.GetByDate)
	sessions.Get("/:date/report", sessionHandler.GetReport)

	// Analytics (protegido)
	analytics := protected.Group("/analytics")
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsUC)
	analytics.Get("/monthly", analyticsHandler.MonthlyMetrics)
	analytics.Get("/revenue", analyticsHandler.RevenueInRange)
}
