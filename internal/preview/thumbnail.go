package preview

import (
	"fmt"

	"github.com/disintegration/imaging"
)

// thumbnailWidth matches the display size the tracking site renders in
// browse views; height follows the source aspect ratio.
const thumbnailWidth = 720

// WriteThumbnail downscales the poster still at srcPath into a thumbnail at
// dstPath. The output format follows the destination extension.
func WriteThumbnail(srcPath, dstPath string) error {
	img, err := imaging.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open poster %s: %w", srcPath, err)
	}
	if img.Bounds().Dx() > thumbnailWidth {
		img = imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)
	}
	if err := imaging.Save(img, dstPath); err != nil {
		return fmt.Errorf("write thumbnail %s: %w", dstPath, err)
	}
	return nil
}
