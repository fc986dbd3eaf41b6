package errors

// User-friendly error messages
const (
	MsgInvalidParameters = "The provided parameters are invalid. Please check your input and try again."
	MsgValidation        = "The property details are incomplete or invalid."
	MsgPropertyNotFound  = "Property not found."
	MsgDatastore         = "Failed to fetch properties"
	MsgUnauthorized      = "Authentication is required to access this resource."
	MsgForbidden         = "You do not have permission to perform this action."
	MsgRateLimited       = "You're searching too quickly! Please wait a moment and try again."
	MsgInternalError     = "Something went wrong on our end. Please try again later."
)
