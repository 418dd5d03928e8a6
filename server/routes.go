package server

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("POST "+RouteAuthRegister, ChainMiddleware(s.RegisterHandler(), s.AuthAttemptMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.AuthAttemptMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteAuthMe, s.MeHandler())

	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
}
