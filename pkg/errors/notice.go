package errors

// FallbackMessage is shown for failures that carry no user-facing explanation.
const FallbackMessage = "Sorry, I encountered an error. Please try again."

// Notice is the failure notification handed to the UI for chat-style display.
// It never carries a raw internal fault.
type Notice struct {
	Kind    ErrorType `json:"kind"`
	Message string    `json:"message"`
}

// ToNotice converts any error into a Notice. Internal and unknown errors
// collapse to the fallback message.
func ToNotice(err error) Notice {
	if err == nil {
		return Notice{}
	}
	appErr := GetAppError(err)
	if appErr == nil || appErr.Type == ErrorTypeInternal {
		return Notice{Kind: ErrorTypeInternal, Message: FallbackMessage}
	}
	return Notice{Kind: appErr.Type, Message: appErr.Message}
}
