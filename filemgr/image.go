// Package filemgr validates uploaded images, normalizes them and hands the
// result to a Storage backend.
package filemgr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"

	"shoestore/apperr"
)

// ResolveKey is the storage key of an image: entity/subfolder/name.
func ResolveKey(entity EntityType, picType PictureType, name string) string {
	subfolder, ok := PictureSubfolders[picType]
	if !ok || subfolder == "" {
		subfolder = "misc"
	}
	return path.Join(strings.ToLower(string(entity)), subfolder, name)
}

func isExtensionAllowed(ext string, picType PictureType) bool {
	return slices.Contains(AllowedExtensions[picType], ext)
}

func isMIMEAllowed(mimeType string, picType PictureType) bool {
	return slices.Contains(AllowedMIMEs[picType], mimeType)
}

// detectMIME sniffs the content type, falling back to the form's declared
// type when sniffing is inconclusive.
func detectMIME(buf []byte, header *multipart.FileHeader) string {
	mimeType := http.DetectContentType(buf)
	if mimeType == "application/octet-stream" {
		if formMime := header.Header.Get("Content-Type"); formMime != "" {
			mimeType = formMime
		}
	}
	return mimeType
}

// stripEXIF re-encodes img as JPEG, which drops any metadata the upload
// carried.
func stripEXIF(img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Prepare validates raw upload bytes and returns the normalized original
// and its thumbnail, both JPEG.
func Prepare(raw []byte, header *multipart.FileHeader) (original, thumb []byte, err error) {
	if len(raw) > MaxImageSize {
		return nil, nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, len(raw))
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !isExtensionAllowed(ext, PicPhoto) {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidExtension, ext)
	}

	sniff := raw
	if len(sniff) > 512 {
		sniff = sniff[:512]
	}
	if mimeType := detectMIME(sniff, header); !isMIMEAllowed(mimeType, PicPhoto) {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidMIME, mimeType)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("decode %q: %w", header.Filename, err)
	}

	if img.Bounds().Dx() > MaxImageWidth {
		img = imaging.Resize(img, MaxImageWidth, 0, imaging.Lanczos)
	}
	if original, err = stripEXIF(img); err != nil {
		return nil, nil, fmt.Errorf("encode image: %w", err)
	}

	small := imaging.Resize(img, ThumbWidth, 0, imaging.Lanczos)
	if thumb, err = encodeJPEG(small, 85); err != nil {
		return nil, nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return original, thumb, nil
}

// SaveImage stores an uploaded image and its thumbnail and returns the URL
// of the original. Rejected uploads come back as validation errors on the
// "image" field.
func SaveImage(ctx context.Context, storage Storage, file multipart.File, header *multipart.FileHeader, entity EntityType) (string, error) {
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	original, thumb, err := Prepare(raw, header)
	if errors.Is(err, ErrFileTooLarge) {
		return "", apperr.Validation("image", apperr.MsgFileTooLarge)
	}
	if err != nil {
		zap.L().Info("rejected image upload", zap.String("filename", header.Filename), zap.Error(err))
		return "", apperr.Validation("image", apperr.MsgInvalidImage)
	}

	name := uuid.New().String() + ".jpg"
	url, err := storage.Put(ctx, ResolveKey(entity, PicPhoto, name), original, "image/jpeg")
	if err != nil {
		return "", apperr.Persistence("store image", err)
	}
	if _, err := storage.Put(ctx, ResolveKey(entity, PicThumb, name), thumb, "image/jpeg"); err != nil {
		zap.L().Warn("store thumbnail", zap.String("name", name), zap.Error(err))
	}
	return url, nil
}

// SaveFormImage stores the image in form field key. It returns "" when the
// field is absent and required is false.
func SaveFormImage(ctx context.Context, storage Storage, r *http.Request, key string, entity EntityType, required bool) (string, error) {
	file, header, err := r.FormFile(key)
	if errors.Is(err, http.ErrMissingFile) {
		if required {
			return "", apperr.Validation(key, apperr.MsgFieldRequired)
		}
		return "", nil
	}
	if err != nil {
		return "", apperr.Validation(key, apperr.MsgInvalidBody)
	}
	return SaveImage(ctx, storage, file, header, entity)
}
