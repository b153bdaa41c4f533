package domain

import "time"

// Role classifies dashboard access. The server is authoritative; the client
// only mirrors what the API returned.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// TradingAccount carries the settings the trading backend needs to drive the
// user's MT5 account. Both MT5 fields are optional until the user connects a
// brokerage account.
type TradingAccount struct {
	MT5Login    string      `json:"mt5Login,omitempty"`
	MT5Server   string      `json:"mt5Server,omitempty"`
	RiskProfile RiskProfile `json:"riskProfile"`
}

// User is the denormalized client-side snapshot of the server's user record.
type User struct {
	ID             string          `json:"id"`
	Email          string          `json:"email"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	Avatar         string          `json:"avatar,omitempty"`
	Role           Role            `json:"role"`
	IsVerified     bool            `json:"isVerified"`
	TradingAccount *TradingAccount `json:"tradingAccount,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// FullName joins first and last name for display.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// UserPatch is a partial profile update. Nil fields are left untouched
// server-side.
type UserPatch struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
}
