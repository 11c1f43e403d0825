package entities

import "time"

// AccountSession is the connected wallet session. It is created on successful
// authentication, destroyed on logout, and passed explicitly to any component
// that needs the address. At most one session is active per session id.
type AccountSession struct {
	SessionID     string    `json:"sessionId"`
	Address       string    `json:"address"`
	LoginProvider string    `json:"loginProvider,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// LoginProviderConfig maps a social-login provider to the verifier and client
// id registered with the hosted wallet service.
type LoginProviderConfig struct {
	Name        string `json:"name"`
	Verifier    string `json:"verifier"`
	TypeOfLogin string `json:"typeOfLogin"`
	ClientID    string `json:"clientId"`
}

// ConnectInput is the payload of a login request.
type ConnectInput struct {
	Provider string `json:"provider" binding:"required"`
	IDToken  string `json:"idToken"`
}

// SessionResponse is returned after a successful connect.
type SessionResponse struct {
	SessionID    string `json:"sessionId"`
	Address      string `json:"address"`
	ShortAddress string `json:"shortAddress"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
