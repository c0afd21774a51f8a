package downscaler

import "errors"

var (
	ErrInvalidAnnotation   = errors.New("invalid annotation")
	ErrInvalidTimeSpec     = errors.New("invalid time spec")
	ErrUnknownResourceKind = errors.New("unknown resource kind")
	ErrListPods            = errors.New("list pods")
	ErrListResources       = errors.New("list resources")
	ErrGetNamespace        = errors.New("get namespace")
	ErrPatchResource       = errors.New("patch resource")
)
