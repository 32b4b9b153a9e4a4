package types

// LoginRequest is the JSON body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and the role it was issued for.
type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// RoleAdmin unlocks the processing-log view.
const RoleAdmin = "admin"

// Session is the client-side view of an authenticated login. Remember decides
// whether it survives the current invocation.
type Session struct {
	Token    string `yaml:"token"`
	Role     string `yaml:"role"`
	Remember bool   `yaml:"remember"`
}
