package services

import "slices"

// Permission strings are "<module>.<action>".
const (
	PermReservationView   = "reservationManagement.view"
	PermReservationCreate = "reservationManagement.create"
	PermReservationEdit   = "reservationManagement.edit"
	PermReservationCancel = "reservationManagement.cancel"

	PermRoomView       = "roomManagement.view"
	PermRoomCreate     = "roomManagement.create"
	PermRoomEdit       = "roomManagement.edit"
	PermRoomDelete     = "roomManagement.delete"
	PermRoomEditStatus = "roomManagement.editStatus"

	PermPOSView   = "pointOfSale.view"
	PermPOSCreate = "pointOfSale.create"
	PermPOSCancel = "pointOfSale.cancel"

	PermKitchenView    = "kitchen.view"
	PermKitchenAdvance = "kitchen.advance"

	PermProductCreate = "productCatalog.create"
	PermProductEdit   = "productCatalog.edit"

	PermFinanceView   = "finance.view"
	PermFinanceCreate = "finance.create"
	PermFinanceEdit   = "finance.edit"

	PermEventView   = "eventManagement.view"
	PermEventCreate = "eventManagement.create"
	PermEventEdit   = "eventManagement.edit"

	PermCustomerView   = "customerList.view"
	PermCustomerCreate = "customerList.create"

	PermSettingsView = "settings.view"
	PermSettingsEdit = "settings.edit"

	PermRolesView = "rolesAndPermissions.view"
	PermRolesEdit = "rolesAndPermissions.edit"

	PermAuditView = "auditLog.view"
)

var AllPermissions = []string{
	PermReservationView, PermReservationCreate, PermReservationEdit, PermReservationCancel,
	PermRoomView, PermRoomCreate, PermRoomEdit, PermRoomDelete, PermRoomEditStatus,
	PermPOSView, PermPOSCreate, PermPOSCancel,
	PermKitchenView, PermKitchenAdvance,
	PermProductCreate, PermProductEdit,
	PermFinanceView, PermFinanceCreate, PermFinanceEdit,
	PermEventView, PermEventCreate, PermEventEdit,
	PermCustomerView, PermCustomerCreate,
	PermSettingsView, PermSettingsEdit,
	PermRolesView, PermRolesEdit,
	PermAuditView,
}

// DefaultRolePermissions is what seeding grants each built-in role.
var DefaultRolePermissions = map[string][]string{
	"owner": AllPermissions,
	"Manager": {
		PermReservationView, PermReservationCreate, PermReservationEdit, PermReservationCancel,
		PermRoomView, PermRoomCreate, PermRoomEdit, PermRoomEditStatus,
		PermPOSView, PermPOSCreate, PermPOSCancel,
		PermKitchenView, PermKitchenAdvance,
		PermProductCreate, PermProductEdit,
		PermFinanceView, PermFinanceCreate, PermFinanceEdit,
		PermEventView, PermEventCreate, PermEventEdit,
		PermCustomerView, PermCustomerCreate,
		PermSettingsView, PermAuditView,
	},
	"Receptionist": {
		PermReservationView, PermReservationCreate, PermReservationEdit, PermReservationCancel,
		PermRoomView, PermRoomEditStatus,
		PermPOSView, PermPOSCreate,
		PermEventView, PermCustomerView, PermCustomerCreate,
	},
	"Kitchen": {
		PermPOSView, PermPOSCancel, PermKitchenView, PermKitchenAdvance,
	},
	"Cleaner": {
		PermRoomView, PermRoomEditStatus,
	},
}

func IsKnownPermission(p string) bool {
	return slices.Contains(AllPermissions, p)
}
