package account

import "time"

// Preferences is the nested per-account analysis preferences record.
type Preferences struct {
	IncludeProjects bool     `json:"includeProjects"`
	Keywords        []string `json:"keywords"`
	Sections        []string `json:"sections"`
	Tone            string   `json:"tone"`
}

// DefaultPreferences returns the preferences a fresh account starts with.
func DefaultPreferences() Preferences {
	return Preferences{
		IncludeProjects: true,
		Keywords:        []string{},
		Sections:        []string{},
		Tone:            "professional",
	}
}

// Account is a registered user identity with credentials and profile data.
// The password hash never leaves the server: it is excluded from JSON.
type Account struct {
	ID              int64       `json:"id"`
	Email           string      `json:"email"`
	PasswordHash    string      `json:"-"`
	Name            string      `json:"name"`
	Bio             string      `json:"bio"`
	Avatar          string      `json:"avatar"`
	Theme           string      `json:"theme"`
	TargetRole      string      `json:"targetRole"`
	ExperienceLevel string      `json:"experienceLevel"`
	LinkedInURL     string      `json:"linkedinUrl"`
	GitHubURL       string      `json:"githubUrl"`
	Preferences     Preferences `json:"preferences"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// ProfileUpdate is a partial update: nil fields retain their prior values.
type ProfileUpdate struct {
	Name            *string
	Bio             *string
	Theme           *string
	TargetRole      *string
	ExperienceLevel *string
	LinkedInURL     *string
	GitHubURL       *string
	Preferences     *Preferences
}
