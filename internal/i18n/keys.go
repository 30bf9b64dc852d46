// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAdminAccessDenied      = "admin.access_denied"

	// Products
	KeyProductCreated  = "product.created"
	KeyProductUpdated  = "product.updated"
	KeyProductDeleted  = "product.deleted"
	KeyProductNotFound = "product.not_found"

	// Suppliers
	KeySupplierCreated     = "supplier.created"
	KeySupplierUpdated     = "supplier.updated"
	KeySupplierDeleted     = "supplier.deleted"
	KeySupplierNotFound    = "supplier.not_found"
	KeySupplierHasProducts = "supplier.has_products"

	// Customers
	KeyCustomerCreated   = "customer.created"
	KeyCustomerUpdated   = "customer.updated"
	KeyCustomerDeleted   = "customer.deleted"
	KeyCustomerNotFound  = "customer.not_found"
	KeyCustomerHasOrders = "customer.has_orders"

	// Orders
	KeyOrderCreated           = "order.created"
	KeyOrderUpdated           = "order.updated"
	KeyOrderDeleted           = "order.deleted"
	KeyOrderNotFound          = "order.not_found"
	KeyOrderInsufficientStock = "order.insufficient_stock"
	KeyOrderInvalidStatus     = "order.invalid_status"

	// Notifications
	KeyNotificationSent       = "notification.sent"
	KeyNotificationFailed     = "notification.failed"
	KeyNotificationOrderReady = "notification.order_ready"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
)
