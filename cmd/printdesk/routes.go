package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getadmin "printdesk/http-server/admin/get"
	upadmin "printdesk/http-server/admin/update"
	getcustomers "printdesk/http-server/customers/get"
	savecustomers "printdesk/http-server/customers/save"
	upcustomers "printdesk/http-server/customers/update"
	eventstream "printdesk/http-server/events"
	getjobtypes "printdesk/http-server/jobtypes/get"
	"printdesk/http-server/queue"
	generate_excel "printdesk/http-server/report/generate-excel"
	gettickets "printdesk/http-server/tickets/get"
	getworkers "printdesk/http-server/workers/get"
	saveworkers "printdesk/http-server/workers/save"
	"printdesk/internal/config"
	"printdesk/internal/events"
	"printdesk/internal/middleware/actor"
	"printdesk/internal/middleware/auth"
	"printdesk/internal/service/production"
	"printdesk/internal/service/report"
	"printdesk/internal/storage/mysql"
)

func routes(cfg config.Config, log *slog.Logger, storage *mysql.Storage,
	productionService *production.Service, reportService *report.Service, broker *events.Broker) *chi.Mux {

	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8081", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Actor-ID"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// production queue and ticket views need a resolved actor
	router.Group(func(r chi.Router) {
		r.Use(actor.Resolve(storage))

		r.Get("/api/tickets", gettickets.GetTicketsFilter(log, storage))
		r.Get("/api/tickets/{ticketNumber}", gettickets.GetTicketByNumber(log, storage))

		r.Post("/api/queue/{ticketId}/start", queue.StartTicket(log, productionService))
		r.Post("/api/queue/{ticketId}/update", queue.UpdateProgress(log, productionService))
		r.Post("/api/queue/{ticketId}/complete", queue.CompleteTicket(log, productionService))
		r.Post("/api/queue/{ticketId}/assign-users", queue.AssignUsers(log, productionService))
	})

	router.Get("/api/customers", getcustomers.GetCustomers(log, storage))
	router.Post("/api/customers", savecustomers.SaveCustomer(log, storage))
	router.Put("/api/customers/{id}", upcustomers.UpdateCustomer(log, storage))

	router.Get("/api/workers/all", getworkers.GetWorkers(log, storage))
	router.Post("/api/workers", saveworkers.SaveWorker(log, storage))

	router.Get("/api/job-types", getjobtypes.GetJobTypes(log, storage))
	router.Get("/api/workflow-steps", getjobtypes.GetStepCatalog(log))

	router.Get("/api/report/excel", generate_excel.GenerateReportExcel(log, reportService))

	// push channel: status changes trigger a full reload on the client
	router.Get("/api/events", eventstream.StreamTicketEvents(log, broker))

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Get("/job-types", getadmin.GetJobTypesAdmin(log, storage))
	adminRouter.Put("/job-types/{id}/workflow-config", upadmin.UpdateJobTypeConfigAdmin(log, storage))
	adminRouter.Get("/employees", getadmin.GetAllEmployeesAdmin(log, storage))
	adminRouter.Put("/employees/{id}", upadmin.UpdateEmployeeAdmin(log, storage))

	router.Mount("/api/admin", adminRouter)

	return router
}
