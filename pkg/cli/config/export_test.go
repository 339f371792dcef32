package config

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channelID, apiURL string) *Slack {
	return &Slack{
		botToken:  botToken,
		channelID: channelID,
		apiURL:    apiURL,
	}
}

// NewIdentityForTest creates an Identity config for testing purposes
func NewIdentityForTest(userID, role string) *Identity {
	return &Identity{userID: userID, role: role}
}

// NewPanelForTest creates a Panel config for testing purposes
func NewPanelForTest(path string, scopes, kinds []string, timezone string) *Panel {
	return &Panel{path: path, scopes: scopes, kinds: kinds, timezone: timezone}
}

// NewSeedForTest creates a Seed config for testing purposes
func NewSeedForTest(path string) *Seed {
	return &Seed{path: path}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, redisURL string) *Repository {
	return &Repository{backend: backend, redisURL: redisURL}
}

// NewAPIForTest creates an API config for testing purposes
func NewAPIForTest(url, token string) *API {
	return &API{url: url, token: token}
}
