package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Activity measurement constants.
const (
	// activityBlurKernel is the Gaussian kernel size used to suppress
	// sensor noise before differencing.
	activityBlurKernel = 21
	// activityDiffThreshold is the per-pixel binary threshold applied to
	// the frame difference.
	activityDiffThreshold = 25
)

// ActivityDetector measures how much of the scene changed between
// consecutive frames. The pipeline uses it to drop to an idle frame rate
// when a room is still.
type ActivityDetector struct {
	mu       sync.Mutex
	previous gocv.Mat
	primed   bool
}

// NewActivityDetector creates an ActivityDetector. The first measured frame
// only establishes the baseline and reports zero activity.
func NewActivityDetector() *ActivityDetector {
	return &ActivityDetector{
		previous: gocv.NewMat(),
	}
}

// Measure returns the percentage of pixels (0-100) that changed since the
// previous frame. Nil or empty frames report zero without touching state.
func (a *ActivityDetector) Measure(frame *gocv.Mat) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if frame == nil || frame.Empty() {
		return 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: activityBlurKernel, Y: activityBlurKernel}, 0, 0, gocv.BorderDefault)

	if !a.primed {
		blurred.CopyTo(&a.previous)
		a.primed = true
		return 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, a.previous, &diff)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(diff, &mask, activityDiffThreshold, 255, gocv.ThresholdBinary)

	changed := gocv.CountNonZero(mask)
	total := mask.Rows() * mask.Cols()

	blurred.CopyTo(&a.previous)

	if total == 0 {
		return 0
	}
	return float64(changed) / float64(total) * 100
}

// Reset discards the baseline so the next frame primes a fresh one.
func (a *ActivityDetector) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.previous.Empty() {
		a.previous.Close()
		a.previous = gocv.NewMat()
	}
	a.primed = false
}

// Close releases the detector's resources.
func (a *ActivityDetector) Close() {
	a.Reset()
}
