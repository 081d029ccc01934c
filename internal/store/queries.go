package store

// Credential queries. The table holds a single row keyed by name.
const (
	queryEnsureCredential = `
		INSERT INTO oauth_credentials (name)
		VALUES (@name)
		ON CONFLICT (name) DO NOTHING`

	querySelectCredential = `
		SELECT access_token, refresh_token, expires_at
		FROM oauth_credentials
		WHERE name = @name`

	querySelectCredentialForUpdate = querySelectCredential + `
		FOR UPDATE`

	queryUpdateCredential = `
		UPDATE oauth_credentials SET
			access_token = @access_token,
			refresh_token = @refresh_token,
			expires_at = @expires_at,
			updated_at = now()
		WHERE name = @name`
)
