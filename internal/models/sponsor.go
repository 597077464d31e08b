// internal/models/sponsor.go
package models

// Sponsor tiers attached to booth records.
const (
	TierPlatinum = "platinum"
	TierGold     = "gold"
	TierSilver   = "silver"
)

// Sponsor is a booth record flagged isSponsor, carrying the branding shown
// in outgoing emails.
type Sponsor struct {
	EventID    string `json:"eventId"`
	BoothID    string `json:"boothId"`
	Name       string `json:"name"`
	Tier       string `json:"tier"`
	LogoURL    string `json:"logoUrl"`
	WebsiteURL string `json:"websiteUrl"`
}

// SponsorTiers partitions an event's sponsors by tier. Recomputed on every
// dispatch run.
type SponsorTiers struct {
	Platinum *Sponsor  `json:"platinum"`
	Gold     []Sponsor `json:"gold"`
	Silver   []Sponsor `json:"silver"`
}
