package domain

import "time"

// Theme holds the colors of a public profile page.
type Theme struct {
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	ButtonColor     string `json:"buttonColor"`
	ButtonTextColor string `json:"buttonTextColor"`
}

type Profile struct {
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	Avatar      string `json:"avatar"`
	Theme       Theme  `json:"theme"`
}

// User is an account owning a list of links.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Profile      Profile   `json:"profile"`
	IsVerified   bool      `json:"isVerified"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func DefaultTheme() Theme {
	return Theme{
		BackgroundColor: "#ffffff",
		TextColor:       "#000000",
		ButtonColor:     "#000000",
		ButtonTextColor: "#ffffff",
	}
}

// PublicUser is the part of a User that anyone may see.
type PublicUser struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Profile  Profile `json:"profile"`
}

type PublicProfile struct {
	User  PublicUser   `json:"user"`
	Links []PublicLink `json:"links"`
}
