package services

// ServiceContainer bundles all service facades for injection into handlers.
type ServiceContainer struct {
	User         UserSvcFacade
	Project      ProjectSvcFacade
	Advance      AdvanceSvcFacade
	Expense      ExpenseSvcFacade
	Notification NotificationSvcFacade
	Token        TokenSvcFacade
}
