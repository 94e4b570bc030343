package validator

const MaxUploadSize = 10 << 20

var AllowedMIMETypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"application/pdf",
	"text/plain",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// FileMeta is what the upload handler knows about a multipart file before it is stored.
// ContentType must already be stripped of parameters.
type FileMeta struct {
	Filename    string
	Size        int64  `validate:"lte=10485760"`
	ContentType string `validate:"required,oneof=image/jpeg image/png image/gif application/pdf text/plain application/msword application/vnd.openxmlformats-officedocument.wordprocessingml.document"`
}

func ValidateFileUpload(meta *FileMeta) Result {
	if meta == nil {
		return invalid("no file uploaded")
	}
	return check(*meta)
}
