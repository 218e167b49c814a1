package model

import "time"

type Actor struct {
	DisplayLogin string `json:"display_login"`
	URL          string `json:"url"`
	AvatarURL    string `json:"avatar_url"`
}

type EventRepository struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type ActivityEvent struct {
	Type       string          `json:"type"`
	Actor      Actor           `json:"actor"`
	Repository EventRepository `json:"repo"`
	CreatedAt  time.Time       `json:"created_at"`
}
