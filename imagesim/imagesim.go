// Package imagesim scores visual similarity between two rectangular
// regions of page images using structural similarity (SSIM) over
// intensity. It is an optional matching signal: callers without source
// images simply skip it.
package imagesim

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/isuzumi2025-cell/MEKIKI-sub002/model"
)

// NormSize is the edge length both crops are resized to before comparison.
const NormSize = 64

// SSIM stabilizing constants for 8-bit intensity, the standard
// (K1*L)^2 / (K2*L)^2 values with K1=0.01, K2=0.03, L=255.
const (
	ssimC1 = 6.5025
	ssimC2 = 58.5225
)

// ssimWindow is the local window edge length for the mean/variance/
// covariance statistics.
const ssimWindow = 8

// Compare crops the two regions from their source images, resizes both
// crops to NormSize x NormSize, and returns their structural similarity
// in [0,1]. A region that clamps to zero area against its image bounds
// scores 0.
func Compare(imgA image.Image, rectA model.Rect, imgB image.Image, rectB model.Rect) float64 {
	cropA := CropGray(imgA, rectA)
	cropB := CropGray(imgB, rectB)
	if cropA == nil || cropB == nil {
		return 0
	}
	return SSIMGray(resizeGray(cropA, NormSize, NormSize), resizeGray(cropB, NormSize, NormSize))
}

// CropGray extracts a region from an image as single-channel intensity.
// The rectangle is clamped to the image bounds first; a clamped rectangle
// with zero area yields nil.
func CropGray(img image.Image, rect model.Rect) *image.Gray {
	if img == nil {
		return nil
	}
	clamped := clamp(rect, img.Bounds())
	if clamped.IsEmpty() {
		return nil
	}

	gray := image.NewGray(image.Rect(0, 0, clamped.Width(), clamped.Height()))
	xdraw.Draw(gray, gray.Bounds(), img, image.Pt(clamped.X1, clamped.Y1), xdraw.Src)
	return gray
}

// clamp restricts a rectangle to an image's bounds.
func clamp(r model.Rect, bounds image.Rectangle) model.Rect {
	clamped := r.Intersection(model.Rect{
		X1: bounds.Min.X, Y1: bounds.Min.Y,
		X2: bounds.Max.X, Y2: bounds.Max.Y,
	})
	return clamped
}

// resizeGray scales a grayscale image to the given dimensions.
func resizeGray(src *image.Gray, w, h int) *image.Gray {
	if src.Bounds().Dx() == w && src.Bounds().Dy() == h {
		return src
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// SSIMGray computes the mean structural similarity of two equally sized
// grayscale images over non-overlapping local windows, clamped to [0,1].
// Images of different sizes score 0.
func SSIMGray(a, b *image.Gray) float64 {
	w, h := a.Bounds().Dx(), a.Bounds().Dy()
	if w != b.Bounds().Dx() || h != b.Bounds().Dy() || w == 0 || h == 0 {
		return 0
	}

	sum, windows := 0.0, 0
	for y := 0; y < h; y += ssimWindow {
		for x := 0; x < w; x += ssimWindow {
			ww := min(ssimWindow, w-x)
			wh := min(ssimWindow, h-y)
			sum += ssimAt(a, b, x, y, ww, wh)
			windows++
		}
	}
	if windows == 0 {
		return 0
	}
	score := sum / float64(windows)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// ssimAt computes SSIM for one local window from its intensity mean,
// variance, and covariance.
func ssimAt(a, b *image.Gray, x0, y0, w, h int) float64 {
	n := float64(w * h)
	var sumA, sumB float64
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			sumA += float64(a.GrayAt(x, y).Y)
			sumB += float64(b.GrayAt(x, y).Y)
		}
	}
	muA, muB := sumA/n, sumB/n

	var varA, varB, cov float64
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			da := float64(a.GrayAt(x, y).Y) - muA
			db := float64(b.GrayAt(x, y).Y) - muB
			varA += da * da
			varB += db * db
			cov += da * db
		}
	}
	varA /= n
	varB /= n
	cov /= n

	num := (2*muA*muB + ssimC1) * (2*cov + ssimC2)
	den := (muA*muA + muB*muB + ssimC1) * (varA + varB + ssimC2)
	return num / den
}
