package domain

// SettingGitHubToken is the settings slot holding the GitHub access token.
const SettingGitHubToken = "github_token"

// TokenStatus describes the stored token without revealing it.
type TokenStatus struct {
	Configured bool
	// Hint is "..." plus the last four characters of the token, empty when not
	// configured or when the token is too short to mask.
	Hint string
}
