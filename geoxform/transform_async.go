package geoxform

import (
	"context"

	"github.com/golang/geo/r3"
	goutils "go.viam.com/utils"
)

// TransformAsync applies xform to cloud on a worker goroutine and streams
// the transformed points back. This is the one documented safe parallel
// surface of the model: the transform may run off the owning thread, but
// everything after the hand-off (sliding, aggregation) must stay on it.
// Points with non-finite coordinates before or after the transform are
// dropped, the same policy ApplyAll applies synchronously. The channel is
// closed once the cloud is exhausted or ctx is done.
func TransformAsync(ctx context.Context, xform Affine3D, cloud []r3.Vector) <-chan r3.Vector {
	out := make(chan r3.Vector)
	goutils.PanicCapturingGo(func() {
		defer close(out)
		for _, p := range cloud {
			if !finiteVec(p) {
				continue
			}
			tp := xform.Apply(p)
			if !finiteVec(tp) {
				continue
			}
			select {
			case out <- tp:
			case <-ctx.Done():
				return
			}
		}
	})
	return out
}
