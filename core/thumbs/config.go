package thumbs

// Config holds configuration for thumbnail storage.
type Config struct {
	// Driver selects the backend (local, s3).
	Driver string `mapstructure:"driver" default:"local"`
	// Dir is the directory thumbnails are written to by the local backend.
	Dir string `mapstructure:"dir" default:"static/img/thumbs"`
	// Prefix is the object key prefix used by the s3 backend.
	Prefix string `mapstructure:"prefix" default:"thumbs"`
	// Placeholder is an image file substituted when a thumbnail cannot be
	// fetched. When empty a plain grey JPEG is generated.
	Placeholder string `mapstructure:"placeholder" default:""`
	// Size is the thumbnail size requested from the provider.
	Size string `mapstructure:"size" default:"w128h128"`
	// Format is the thumbnail format requested from the provider.
	Format string `mapstructure:"format" default:"jpeg"`
}

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)
