// Package imagefile сохраняет изображения товаров на диск и строит миниатюры.
package imagefile

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// ErrUnsupportedFormat возвращается для файлов, которые не являются JPEG, PNG или GIF.
var ErrUnsupportedFormat = errors.New("unsupported image format")

var allowedExt = map[string]string{
	".jpg":  ".jpg",
	".jpeg": ".jpg",
	".png":  ".png",
	".gif":  ".gif",
}

// Store каталог с изображениями и правила построения публичных ссылок.
type Store struct {
	dir          string
	publicPrefix string
	thumbWidth   int
	thumbHeight  int
}

// NewStore создаёт хранилище в каталоге dir. Ссылки строятся от publicPrefix.
func NewStore(dir, publicPrefix string, thumbWidth, thumbHeight int) *Store {
	return &Store{
		dir:          dir,
		publicPrefix: strings.TrimRight(publicPrefix, "/"),
		thumbWidth:   thumbWidth,
		thumbHeight:  thumbHeight,
	}
}

// Dir возвращает каталог хранилища.
func (s *Store) Dir() string {
	return s.dir
}

// Save декодирует изображение, сохраняет оригинал как <name><ext> и миниатюру
// как <name>_thumb<ext>, обрезанную по центру. Возвращает публичные ссылки.
func (s *Store) Save(name, filename string, r io.Reader) (string, string, error) {
	const op = "imagefile.Save"
	ext, ok := allowedExt[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return "", "", fmt.Errorf("%s: %w", op, ErrUnsupportedFormat)
	}

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", "", fmt.Errorf("%s: %w: %v", op, ErrUnsupportedFormat, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	original := name + ext
	thumb := name + "_thumb" + ext
	if err := imaging.Save(img, filepath.Join(s.dir, original)); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	if err := imaging.Save(s.thumbnail(img), filepath.Join(s.dir, thumb)); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return s.url(original), s.url(thumb), nil
}

func (s *Store) thumbnail(img image.Image) image.Image {
	return imaging.Fill(img, s.thumbWidth, s.thumbHeight, imaging.Center, imaging.Lanczos)
}

func (s *Store) url(file string) string {
	return path.Join(s.publicPrefix, file)
}
