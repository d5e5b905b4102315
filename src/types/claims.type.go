package types

import "github.com/golang-jwt/jwt/v5"

type Claims struct {
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	AgentID     *uint    `json:"agent_id,omitempty"`
	jwt.RegisteredClaims
}
