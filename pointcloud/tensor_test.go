package pointcloud

import (
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gorgonia.org/tensor"
)

func TestTensor(t *testing.T) {
	logger := golog.NewTestLogger(t)
	pts := []r3.Vector{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}}

	ps, err := New(pts, WithLogger(logger))
	test.That(t, err, test.ShouldBeNil)
	tt := ps.Tensor()
	test.That(t, tt.Shape(), test.ShouldResemble, tensor.Shape{2, 3})
	test.That(t, tt.Dtype(), test.ShouldEqual, tensor.Float32)
	test.That(t, tt.Data(), test.ShouldResemble, []float32{1, 2, 3, 4, 5, 6})
	v, err := tt.At(1, 2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, float32(6))

	withNormals, err := New(pts, WithNormals([]r3.Vector{{Z: 1}, {X: -1}}), WithLogger(logger))
	test.That(t, err, test.ShouldBeNil)
	tt = withNormals.Tensor()
	test.That(t, tt.Shape(), test.ShouldResemble, tensor.Shape{2, 6})
	v, err = tt.At(1, 3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, float32(-1))

	empty, err := New(nil, WithLogger(logger))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, empty.Tensor(), test.ShouldBeNil)
}
