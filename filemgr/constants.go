package filemgr

import "errors"

type EntityType string
type PictureType string

const (
	EntityProduct  EntityType = "product"
	EntityCarousel EntityType = "carousel"
	EntityAbout    EntityType = "about"

	PicPhoto PictureType = "photo"
	PicThumb PictureType = "thumb"
)

const (
	// MaxImageSize bounds an uploaded image before decoding.
	MaxImageSize = 10 << 20
	// MaxImageWidth is the widest stored original; larger uploads are scaled down.
	MaxImageWidth = 1600
	ThumbWidth    = 200
)

var (
	AllowedExtensions = map[PictureType][]string{
		PicPhoto: {".jpg", ".jpeg", ".png", ".gif", ".webp"},
		PicThumb: {".jpg"},
	}

	AllowedMIMEs = map[PictureType][]string{
		PicPhoto: {"image/jpeg", "image/png", "image/gif", "image/webp"},
		PicThumb: {"image/jpeg"},
	}

	PictureSubfolders = map[PictureType]string{
		PicPhoto: "photo",
		PicThumb: "thumb",
	}

	ErrInvalidExtension = errors.New("invalid file extension")
	ErrInvalidMIME      = errors.New("invalid MIME type")
	ErrFileTooLarge     = errors.New("file size exceeds limit")
)
