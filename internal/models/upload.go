package models

type UploadStatus string

const (
	UploadStatusPending   UploadStatus = "pending"
	UploadStatusUploading UploadStatus = "uploading"
	UploadStatusDone      UploadStatus = "done"
	UploadStatusError     UploadStatus = "error"
)

// UploadFile tracks one file through the upload pipeline. Progress is a
// coarse checkpoint percentage, not a byte-accurate figure.
type UploadFile struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Data     []byte       `json:"-"`
	Title    string       `json:"title,omitempty"`
	Status   UploadStatus `json:"status"`
	Progress int          `json:"progress"`
	Error    string       `json:"error,omitempty"`
	PhotoID  string       `json:"photoId,omitempty"`
}
