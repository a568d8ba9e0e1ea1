package models

// Provider represents a bookable service provider as returned by the
// upstream appointments API. Immutable once fetched; the list is loaded
// once per booking session.
type Provider struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}
