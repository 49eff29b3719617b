package pipeline

import "context"

// LakeUploader defines the interface for copying a staged lake tree to
// object storage. Upload is sequential and best effort: the returned
// keys are the objects that made it before any failure.
type LakeUploader interface {
	UploadTree(ctx context.Context, dir string) ([]string, error)
}
