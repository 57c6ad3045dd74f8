// Package imaging provides the pixel-level primitives behind the invoice
// normalization pipeline.
//
// The package covers three concerns:
//
// Decoding: Decode validates raw photo bytes (size limit, format sniffing)
// and produces an image.Image. Supported formats are JPEG, PNG, WEBP and GIF.
// An ImageCache offers path-keyed decoding for the tool surface so repeated
// calls against the same photo decode once.
//
// Filtering: grayscale conversion, median / Gaussian / bilateral smoothing,
// contrast-limited adaptive histogram equalization (CLAHE), morphological
// open/close, unsharp sharpening, and global (Otsu) plus locally adaptive
// thresholding. Filters consume and return *image.Gray; none mutates its
// input. Standard kernels (median, Gaussian, dilate/erode, unsharp mask) are
// delegated to github.com/anthonynsimon/bild; the kernels bild does not
// provide in pure Go (bilateral, CLAHE, adaptive mean threshold) are
// implemented here with bild's row-parallel scheduler.
//
// Geometry and encoding: crop extraction with defensive bounds checking,
// PNG and base64-PNG encoding, region outline rendering for preview tools,
// and dominant-color sampling for diagnostics.
//
// # Error Sentinels
//
// Input validation failures are reported through exported sentinels
// (ErrSizeLimit, ErrUnsupportedFormat, ErrInvalidImage,
// ErrRegionOutOfBounds) so callers can classify failures with errors.Is
// without string matching.
package imaging
