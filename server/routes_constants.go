package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteAuthRegister = "/api/auth/register"
	RouteAuthLogin    = "/api/auth/login"
	RouteAuthMe       = "/api/auth/me"

	// Infrastructure
	RouteHealth = "/api/health"
)
