package trainer

import (
	"fmt"
	"io"

	"github.com/born-ml/ecgnet/internal/autodiff"
	"github.com/born-ml/ecgnet/internal/dataset"
	"github.com/born-ml/ecgnet/internal/metrics"
	"github.com/born-ml/ecgnet/internal/nn"
	"github.com/born-ml/ecgnet/internal/tensor"
)

// Evaluate scores net on test once in evaluation mode, printing the report
// and the mean loss to out. It returns the mean test loss.
func Evaluate[B autodiff.BackwardCapable](
	net Network[B],
	test dataset.Loader,
	backend B,
	threshold float32,
	out io.Writer,
) (float64, error) {
	if test.Len() == 0 {
		return 0, ErrEmptyLoader
	}

	net.SetTraining(false)
	pass := evaluate(net, test, backend, nn.NewBCEWithLogitsLoss(backend), threshold)

	fmt.Fprintln(out, "Test metrics:")
	if err := pass.report(out); err != nil {
		return pass.loss, fmt.Errorf("test: %w", err)
	}
	fmt.Fprintf(out, "test Loss: %.4f\n", pass.loss)
	return pass.loss, nil
}

// evalPass collects the outputs of one gradient-free pass.
type evalPass struct {
	loss   float64
	labels [][]float32
	preds  [][]float32
	probs  [][]float32
}

// evaluate runs every batch of loader through net without recording and
// keeps labels, thresholded predictions and probabilities row by row.
func evaluate[B autodiff.BackwardCapable](
	net Network[B],
	loader dataset.Loader,
	backend B,
	criterion *nn.BCEWithLogitsLoss[B],
	threshold float32,
) evalPass {
	var pass evalPass
	batches := loader.Batches()

	autodiff.NoGrad(backend, func() {
		for _, batch := range batches {
			labels := tensor.New(batch.Labels, backend)
			logits := net.Forward(tensor.New(batch.Signals, backend))
			pass.loss += float64(criterion.Forward(logits, labels).Item())

			probs := nn.Sigmoid(logits)
			pass.labels = appendRows(pass.labels, labels)
			pass.probs = appendRows(pass.probs, probs)
		}
	})
	pass.loss /= float64(len(batches))

	pass.preds = make([][]float32, len(pass.probs))
	for i, row := range pass.probs {
		pass.preds[i] = make([]float32, len(row))
		for k, p := range row {
			if p > threshold {
				pass.preds[i][k] = 1
			}
		}
	}
	return pass
}

// report prints the metric report of the pass. The report is printed even
// when scoring fails, so the counts that were computed are still shown.
func (p evalPass) report(out io.Writer) error {
	rep, err := metrics.Compute(p.labels, p.preds, p.probs)
	if rep != nil {
		if perr := rep.Print(out); perr != nil {
			return perr
		}
	}
	return err
}

// appendRows copies the rows of a [N, C] tensor onto rows.
func appendRows[B autodiff.BackwardCapable](rows [][]float32, t *tensor.Tensor[B]) [][]float32 {
	shape := t.Shape()
	n, c := shape[0], shape[1]
	data := t.Data()
	for i := 0; i < n; i++ {
		row := make([]float32, c)
		copy(row, data[i*c:(i+1)*c])
		rows = append(rows, row)
	}
	return rows
}
