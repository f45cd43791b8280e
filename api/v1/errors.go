package v1

var (
	// common errors
	ErrSuccess             = newError(0, "ok")
	ErrBadRequest          = newError(400, "bad request")
	ErrUnauthorized        = newError(401, "unauthorized")
	ErrForbidden           = newError(403, "forbidden")
	ErrNotFound            = newError(404, "not found")
	ErrInternalServerError = newError(500, "internal server error")

	// user errors
	ErrEmailAlreadyUse    = newError(1001, "The email is already in use.")
	ErrUsernameAlreadyUse = newError(1002, "The username is already in use.")

	// vm errors
	ErrVMNameAlreadyUse   = newError(2001, "vm name already in use")
	ErrVMBusy             = newError(2002, "vm has a task in progress")
	ErrTaskAlreadyRunning = newError(2003, "a reinstall task is already running for this vm")
	ErrTaskQueueFull      = newError(2004, "task queue is full, try again later")
	ErrVMNotStopped       = newError(2005, "vm must be stopped for this operation")
	ErrLeaseExpired       = newError(2006, "vm lease has expired")
	ErrNoGuestIP          = newError(2007, "vm has no known guest ip yet")
	ErrVmxPathAlreadyUse  = newError(2008, "vmx path already registered")
	ErrVMNotRunning       = newError(2009, "vm is not running")
	ErrMacUnknown         = newError(2010, "vm mac address is not known yet")

	// network errors
	ErrHostPortInUse = newError(2101, "host port already mapped")
)
