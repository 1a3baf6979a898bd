// controller/controllers.go
package controller

import "github.com/dev-mohitbeniwal/permy/service"

type Controllers struct {
	Permission *PermissionController
}

func InitializeControllers(services *service.Services) *Controllers {
	return &Controllers{
		Permission: NewPermissionController(services.Permission),
	}
}
