package config

// StorageConfig holds settings for the S3-compatible object store that
// keeps the actual file contents. PublicBaseURL is the externally
// reachable prefix under which stored objects can be fetched (for AWS
// this is the bucket's virtual-hosted URL; for S3-compatible providers
// it is whatever CDN or gateway fronts the bucket). Endpoint is optional
// and only needed for non-AWS providers.
type StorageConfig struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
	KeyPrefix     string
}

// LoadStorageConfig reads the object-store settings. Bucket, region and
// public base URL are required; the credentials themselves are resolved
// by the AWS SDK's default chain (env vars, shared config, IAM role).
func LoadStorageConfig() StorageConfig {
	return StorageConfig{
		Bucket:        must("S3_BUCKET"),
		Region:        must("S3_REGION"),
		Endpoint:      envStr("S3_ENDPOINT", ""),
		PublicBaseURL: must("S3_PUBLIC_BASE_URL"),
		KeyPrefix:     envStr("S3_KEY_PREFIX", "cloudvault"),
	}
}
