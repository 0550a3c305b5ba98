package bucket

import "errors"

// Config holds object storage settings
type Config struct {
	// BucketName is the bucket holding one blob per game
	BucketName string

	// ProjectID is the cloud project owning the bucket; used when the
	// bucket has to be created
	ProjectID string

	// CredentialsFile is an optional path to a service account key.
	// When empty, application default credentials are used.
	CredentialsFile string
}

// Validate checks that required settings are present
func (c Config) Validate() error {
	if c.BucketName == "" {
		return errors.New("bucket name is required")
	}
	if c.ProjectID == "" {
		return errors.New("project id is required")
	}
	return nil
}
