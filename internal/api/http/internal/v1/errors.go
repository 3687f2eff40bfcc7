package v1

// Errors
const (
	UnknownErrorCode    = 0
	UnknownErrorMessage = "internal error"

	ValidationErrorCode       = 1000
	InvalidRequestBodyMessage = "invalid request body"

	EmailAlreadyRegisteredCode    = 1001
	EmailAlreadyRegisteredMessage = "this email is already registered, please log in"
	UsernameTakenCode             = 1002
	UsernameTakenMessage          = "this username is already taken"
	TooManyCodesCode              = 1003
	TooManyCodesMessage           = "too many code requests, please try again in 1 hour"
	DeliveryFailedCode            = 1004
	DeliveryFailedMessage         = "failed to send the verification email, please try again later"
	InvalidCodeCode               = 1005
	InvalidCodeMessage            = "verification code is incorrect or expired, please request a new one"
	NotRegisteredCode             = 1006
	NotRegisteredMessage          = "email is not registered or not verified"
	WrongPasswordCode             = 1007
	WrongPasswordMessage          = "wrong password"
)

type ErrorCode int

type ErrorStruct struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	ErrorCode ErrorCode `json:"error_code"`
} // @name ErrorStruct

func getErrorStruct(code ErrorCode) *ErrorStruct {
	errorStruct := &ErrorStruct{
		ErrorCode: UnknownErrorCode,
		Message:   UnknownErrorMessage,
	}

	switch code {
	case ValidationErrorCode:
		errorStruct.ErrorCode = ValidationErrorCode
		errorStruct.Message = InvalidRequestBodyMessage
	case EmailAlreadyRegisteredCode:
		errorStruct.ErrorCode = EmailAlreadyRegisteredCode
		errorStruct.Message = EmailAlreadyRegisteredMessage
	case UsernameTakenCode:
		errorStruct.ErrorCode = UsernameTakenCode
		errorStruct.Message = UsernameTakenMessage
	case TooManyCodesCode:
		errorStruct.ErrorCode = TooManyCodesCode
		errorStruct.Message = TooManyCodesMessage
	case DeliveryFailedCode:
		errorStruct.ErrorCode = DeliveryFailedCode
		errorStruct.Message = DeliveryFailedMessage
	case InvalidCodeCode:
		errorStruct.ErrorCode = InvalidCodeCode
		errorStruct.Message = InvalidCodeMessage
	case NotRegisteredCode:
		errorStruct.ErrorCode = NotRegisteredCode
		errorStruct.Message = NotRegisteredMessage
	case WrongPasswordCode:
		errorStruct.ErrorCode = WrongPasswordCode
		errorStruct.Message = WrongPasswordMessage
	}

	return errorStruct
}
