package loadcheck

// HTTP status code constants.
const (
	StatusOK         = 200
	StatusBadRequest = 400
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	PercentageMultiplier = 100
)

// Messages the service returns in the error field.
const (
	msgOperationCount = "Exactly one operation is required"
	msgInvalidRequest = "Invalid request"
)
