package config

import "strings"

type Cors struct {
	Origins       []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	DefaultOrigin string   `env:"DEFAULT_ORIGIN" envDefault:"http://localhost:5173"`
}

var _ CorsConfig = Cors{}

// AllowedOrigins is an allow-list of origins. An empty list allows every origin.
type AllowedOrigins map[string]struct{}
type nullValue = struct{}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	if len(a) == 0 {
		return true
	}
	_, ok := a[origin]
	return ok
}

func (a AllowedOrigins) String() string {
	var origins []string
	for k := range a {
		origins = append(origins, k)
	}
	return strings.Join(origins, ", ")
}

func (c Cors) GetAllowedOrigins() AllowedOrigins {
	origins := make(AllowedOrigins, len(c.Origins))
	for _, o := range c.Origins {
		if o = strings.TrimSpace(o); o != "" {
			origins[o] = nullValue{}
		}
	}
	return origins
}

func (c Cors) GetDefaultOrigin() string {
	return c.DefaultOrigin
}

func (Cors) GetAllowedMethods() string {
	return "GET,POST,PUT,PATCH,DELETE,OPTIONS"
}

func (Cors) GetAllowedHeaders() string {
	return "Origin, X-Requested-With, Content-Type, Accept, Authorization"
}
