package auth

import "estate_backend/internal/models"

// Разрешения на уровне маршрутов. Проверки владения (свой объект, своя бронь)
// выполняют сервисы.
const (
	PermBookingsCreate       = "bookings:create"
	PermBookingsUpdateStatus = "bookings:update_status"
	PermBookingsCancel       = "bookings:cancel"
	PermTransactionsRead     = "transactions:read"
	PermPropertiesSetStatus  = "properties:set_status"
	PermPropertiesCreate     = "properties:create"
	PermSavedProperties      = "saved_properties:manage"
	PermTicketsCreate        = "tickets:create"
	PermTicketsRead          = "tickets:read"
	PermTicketsManage        = "tickets:manage"
)

// Permissions - разрешения каждой роли
var Permissions = map[models.UserRole][]string{
	models.UserRoleAdmin: {
		PermBookingsUpdateStatus,
		PermTransactionsRead,
		PermPropertiesSetStatus,
		PermTicketsRead,
		PermTicketsManage,
	},
	models.UserRoleSeller: {
		PermBookingsUpdateStatus,
		PermPropertiesSetStatus,
		PermPropertiesCreate,
	},
	models.UserRoleBuyer: {
		PermBookingsCreate,
		PermBookingsCancel,
		PermTransactionsRead,
		PermSavedProperties,
		PermTicketsCreate,
		PermTicketsRead,
	},
}

// HasPermission проверяет есть ли у роли указанное разрешение
func HasPermission(role models.UserRole, permission string) bool {
	for _, p := range Permissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

