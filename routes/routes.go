package routes

import (
	"eduglobal_go/controllers"
	"eduglobal_go/middleware"
	"eduglobal_go/services/websocket"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, wsHub *websocket.Hub) {
	// Initialize controllers
	authController := &controllers.AuthController{}
	staffController := &controllers.StaffController{}
	universityController := &controllers.UniversityController{}
	courseController := &controllers.CourseController{}
	sessionController := &controllers.AcademicSessionController{}
	agentController := &controllers.AgentController{}
	studentController := &controllers.StudentController{}
	hostelController := &controllers.HostelController{}
	feeTypeController := &controllers.FeeTypeController{}
	feeStructureController := &controllers.FeeStructureController{}
	feePaymentController := controllers.NewFeePaymentController()
	invoiceController := controllers.NewInvoiceController()
	expenseController := &controllers.ExpenseController{}
	salaryController := &controllers.SalaryController{}
	reportController := controllers.NewReportController()
	notificationController := &controllers.NotificationController{}
	logController := controllers.NewLogController()
	wsController := controllers.NewWebSocketController(wsHub)

	// API group
	api := app.Group("/api")

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware())

	protected.Post("/auth/logout", authController.Logout)
	protected.Get("/profile", authController.GetProfile)
	protected.Put("/profile/password", authController.ChangePassword)

	// Staff management (owner/admin only)
	staff := protected.Group("/staff", middleware.RequireOwnerOrAdmin())
	staff.Get("/", staffController.GetStaff)
	staff.Get("/:id", staffController.GetStaffMember)
	staff.Post("/", staffController.CreateStaff)
	staff.Put("/:id", staffController.UpdateStaff)
	staff.Patch("/:id/country", staffController.UpdateStaffCountry)
	staff.Post("/:id/reset-password", staffController.ResetStaffPassword)
	staff.Delete("/:id", staffController.DeactivateStaff)

	// University management
	universities := protected.Group("/universities")
	universities.Get("/", middleware.RequireStaff(), universityController.GetUniversities)
	universities.Get("/:id", middleware.RequireStaff(), universityController.GetUniversity)
	universities.Post("/", middleware.RequireOwnerOrAdmin(), universityController.CreateUniversity)
	universities.Put("/:id", middleware.RequireOwnerOrAdmin(), universityController.UpdateUniversity)
	universities.Delete("/:id", middleware.RequireOwnerOrAdmin(), universityController.DeleteUniversity)

	// Course management
	courses := protected.Group("/courses")
	courses.Get("/", middleware.RequireStaff(), courseController.GetCourses)
	courses.Get("/:id", middleware.RequireStaff(), courseController.GetCourse)
	courses.Post("/", middleware.RequireOwnerOrAdmin(), courseController.CreateCourse)
	courses.Put("/:id", middleware.RequireOwnerOrAdmin(), courseController.UpdateCourse)
	courses.Delete("/:id", middleware.RequireOwnerOrAdmin(), courseController.DeleteCourse)

	// Academic sessions
	sessions := protected.Group("/academic-sessions")
	sessions.Get("/", middleware.RequireStaff(), sessionController.GetAcademicSessions)
	sessions.Post("/", middleware.RequireOwnerOrAdmin(), sessionController.CreateAcademicSession)
	sessions.Put("/:id", middleware.RequireOwnerOrAdmin(), sessionController.UpdateAcademicSession)
	sessions.Delete("/:id", middleware.RequireOwnerOrAdmin(), sessionController.DeleteAcademicSession)

	// Agent management
	agents := protected.Group("/agents")
	agents.Get("/", middleware.RequireStaff(), agentController.GetAgents)
	agents.Get("/:id", middleware.RequireStaff(), agentController.GetAgent)
	agents.Post("/", middleware.RequireOwnerOrAdmin(), agentController.CreateAgent)
	agents.Put("/:id", middleware.RequireOwnerOrAdmin(), agentController.UpdateAgent)
	agents.Delete("/:id", middleware.RequireOwnerOrAdmin(), agentController.DeleteAgent)
	agents.Patch("/:id/commission-payout", middleware.RequireAccountantOrAbove(), agentController.SetCommissionPayout)

	// Student management
	students := protected.Group("/students")
	students.Get("/", middleware.RequireStaff(), studentController.GetStudents)
	students.Get("/:id", middleware.RequireStaff(), studentController.GetStudent)
	students.Post("/", middleware.RequireStaff(), studentController.CreateStudent)
	students.Put("/:id", middleware.RequireStaff(), studentController.UpdateStudent)
	students.Delete("/:id", middleware.RequireOwnerOrAdmin(), studentController.DeleteStudent)
	students.Post("/import", middleware.RequireOwnerOrAdmin(), studentController.ImportStudents)
	students.Post("/:id/documents", middleware.RequireStaff(), studentController.UploadDocuments)
	students.Delete("/:id/documents/:type", middleware.RequireStaff(), studentController.DeleteDocument)

	// Hostel management
	hostels := protected.Group("/hostels")
	hostels.Get("/", middleware.RequireStaff(), hostelController.GetHostels)
	hostels.Get("/:id", middleware.RequireStaff(), hostelController.GetHostel)
	hostels.Post("/", middleware.RequireOwnerOrAdmin(), hostelController.CreateHostel)
	hostels.Put("/:id", middleware.RequireOwnerOrAdmin(), hostelController.UpdateHostel)
	hostels.Delete("/:id", middleware.RequireOwnerOrAdmin(), hostelController.DeleteHostel)

	// Fee catalog
	feeTypes := protected.Group("/fee-types")
	feeTypes.Get("/", middleware.RequireStaff(), feeTypeController.GetFeeTypes)
	feeTypes.Post("/", middleware.RequireOwnerOrAdmin(), feeTypeController.CreateFeeType)
	feeTypes.Put("/:id", middleware.RequireOwnerOrAdmin(), feeTypeController.UpdateFeeType)
	feeTypes.Delete("/:id", middleware.RequireOwnerOrAdmin(), feeTypeController.DeleteFeeType)

	// Fee structures
	feeStructures := protected.Group("/fee-structures")
	feeStructures.Get("/", middleware.RequireStaff(), feeStructureController.GetFeeStructures)
	feeStructures.Get("/:id", middleware.RequireStaff(), feeStructureController.GetFeeStructure)
	feeStructures.Post("/", middleware.RequireOwnerOrAdmin(), feeStructureController.CreateFeeStructure)
	feeStructures.Put("/:id", middleware.RequireOwnerOrAdmin(), feeStructureController.UpdateFeeStructure)
	feeStructures.Post("/:id/components", middleware.RequireOwnerOrAdmin(), feeStructureController.AddComponent)
	feeStructures.Delete("/components/:componentId", middleware.RequireOwnerOrAdmin(), feeStructureController.RemoveComponent)
	feeStructures.Post("/assign", middleware.RequireAccountantOrAbove(), feePaymentController.AssignStructure)

	// Fee ledger
	feePayments := protected.Group("/fee-payments", middleware.RequireAccountantOrAbove())
	feePayments.Get("/", feePaymentController.GetPayments)
	feePayments.Put("/:id", feePaymentController.UpdatePayment)
	feePayments.Get("/student/:studentId", feePaymentController.GetStudentLedger)
	feePayments.Post("/customize", feePaymentController.CustomizeFee)
	feePayments.Get("/customizations/:studentId", feePaymentController.GetCustomizations)

	// Invoices
	invoices := protected.Group("/invoices", middleware.RequireAccountantOrAbove())
	invoices.Get("/", invoiceController.GetInvoices)
	invoices.Get("/:id", invoiceController.GetInvoice)
	invoices.Post("/", invoiceController.GenerateInvoice)
	invoices.Patch("/:id/mark-paid", invoiceController.MarkInvoicePaid)

	// Expenses
	expenses := protected.Group("/expenses", middleware.RequireAccountantOrAbove())
	expenses.Get("/hostel", expenseController.GetHostelExpenses)
	expenses.Post("/hostel", expenseController.CreateHostelExpense)
	expenses.Put("/hostel/:id", expenseController.UpdateHostelExpense)
	expenses.Delete("/hostel/:id", expenseController.DeleteHostelExpense)
	expenses.Get("/office", expenseController.GetOfficeExpenses)
	expenses.Post("/office", expenseController.CreateOfficeExpense)
	expenses.Put("/office/:id", expenseController.UpdateOfficeExpense)
	expenses.Delete("/office/:id", expenseController.DeleteOfficeExpense)
	// Personal expenses are the owner's drawings
	expenses.Get("/personal", middleware.RequireRole("owner"), expenseController.GetPersonalExpenses)
	expenses.Post("/personal", middleware.RequireRole("owner"), expenseController.CreatePersonalExpense)
	expenses.Delete("/personal/:id", middleware.RequireRole("owner"), expenseController.DeletePersonalExpense)

	// Salaries
	salaries := protected.Group("/salaries", middleware.RequireOwnerOrAdmin())
	salaries.Get("/", salaryController.GetSalaries)
	salaries.Post("/", salaryController.CreateSalary)
	salaries.Patch("/:id/mark-paid", salaryController.MarkSalaryPaid)
	salaries.Delete("/:id", salaryController.DeleteSalary)

	// Reports
	reports := protected.Group("/reports", middleware.RequireAccountantOrAbove())
	reports.Get("/agent-wise", reportController.AgentWise)
	reports.Get("/university-fees", reportController.UniversityFees)
	reports.Get("/profit-loss", reportController.ProfitAndLoss)
	reports.Get("/hostel-expenses", reportController.HostelExpenses)
	reports.Get("/due-alerts", reportController.DueAlerts)
	reports.Get("/agent-commissions", reportController.AgentCommissions)
	reports.Get("/agent-wise/export", reportController.ExportAgentWise)
	reports.Get("/university-fees/export", reportController.ExportUniversityFees)
	reports.Get("/profit-loss/export", reportController.ExportProfitAndLoss)
	reports.Get("/hostel-expenses/export", reportController.ExportHostelExpenses)
	reports.Get("/due-alerts/export", reportController.ExportDueAlerts)
	reports.Get("/agent-commissions/export", reportController.ExportAgentCommissions)

	// Notifications
	notifications := protected.Group("/notifications")
	notifications.Get("/", notificationController.GetNotifications)
	notifications.Patch("/:id/read", notificationController.MarkAsRead)
	notifications.Patch("/read-all", notificationController.MarkAllAsRead)

	// Activity logs (owner/admin only)
	logs := protected.Group("/logs", middleware.RequireOwnerOrAdmin())
	logs.Get("/", logController.GetLogs)
	logs.Get("/stats", logController.GetLogStats)
	logs.Get("/export", logController.ExportLogs)
	logs.Post("/flush", logController.FlushLogs)
	logs.Get("/archives", logController.GetArchives)
	logs.Get("/archives/:id/download", logController.DownloadArchive)

	// WebSocket dashboard feed
	protected.Get("/ws/stats", wsController.Stats)
	protected.Get("/ws", wsController.UpgradeGuard, wsController.Handler())
}
