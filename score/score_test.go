package score

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestColumn(t *testing.T) {
	expect.EQ(t, Column([4]float64{1, 0, 0, 0}, [4]float64{1, 0, 0, 0}), 1.0)
	expect.EQ(t, Column([4]float64{1, 0, 0, 0}, [4]float64{0, 0, 0, 1}), 0.0)
	expect.EQ(t, Column([4]float64{0.5, 0.5, 0, 0}, [4]float64{0.5, 0.5, 0, 0}), 0.5)
}

func TestQuantizerBasic(t *testing.T) {
	q, err := NewQuantizer([]float64{0, 0.5, 1}, 10)
	expect.NoError(t, err)
	expect.EQ(t, q.Quantize(0), 0)
	expect.EQ(t, q.Quantize(1), 9)
	expect.EQ(t, q.MaxColumnScore(), 9)
	expect.False(t, q.Degenerate)
}

func TestQuantizerDegenerate(t *testing.T) {
	q, err := NewQuantizer([]float64{0.25, 0.25, 0.25}, 100)
	expect.NoError(t, err)
	expect.True(t, q.Degenerate)
	expect.EQ(t, q.Quantize(0.25), 0)
	expect.EQ(t, q.Quantize(99), 0)
}

func TestQuantizerInvalidBins(t *testing.T) {
	_, err := NewQuantizer([]float64{0, 1}, 0)
	expect.NotNil(t, err)
}
