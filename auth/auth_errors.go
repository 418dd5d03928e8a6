package auth

import "fmt"

// Messages returned to clients. Login failures share one message so a caller
// cannot tell an unknown email from a wrong password.
const (
	MsgCredentialsRequired = "Email and password required"
	MsgInvalidPayload      = "Invalid payload"
	MsgEmailRegistered     = "Email already registered"
	MsgInvalidCredentials  = "Invalid email or password"
	MsgMissingToken        = "Missing token"
	MsgInvalidToken        = "Invalid token"
)

func MsgWeakPassword(minLength int) string {
	return fmt.Sprintf("Password must be at least %d characters", minLength)
}

func MsgPasswordTooLong(maxBytes int) string {
	return fmt.Sprintf("Password must be at most %d bytes", maxBytes)
}
