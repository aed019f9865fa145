package util

const (
	StorageLocal      = "local"
	StorageMinio      = "minio"
	StorageOSS        = "oss"
	StorageCloudinary = "cloudinary"
)

const (
	MimeImage = "image/"
)

// MaxQuestionImageSize caps uploaded question images (bytes).
const MaxQuestionImageSize = 5 << 20

// MaxOptionsPerQuestion caps answers_count; larger values are clamped.
const MaxOptionsPerQuestion = 20

var (
	AllowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
)
