// Package trainer runs the epoch loop and the held-out evaluation of a
// multi-label classifier, printing a metric report after each pass.
package trainer

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/born-ml/ecgnet/internal/autodiff"
	"github.com/born-ml/ecgnet/internal/dataset"
	"github.com/born-ml/ecgnet/internal/nn"
	"github.com/born-ml/ecgnet/internal/optim"
	"github.com/born-ml/ecgnet/internal/tensor"
)

// ErrEmptyLoader is returned when a loader yields no batches.
var ErrEmptyLoader = errors.New("trainer: loader has no batches")

// Network is a classifier whose forward pass maps [N, leads, L] signals to
// [N, classes] logits and which can switch between training and evaluation.
type Network[B tensor.Backend] interface {
	nn.Module[B]
	nn.Trainable
}

// Config holds the loop knobs.
type Config struct {
	Epochs int

	// Threshold is the probability above which a label is predicted.
	Threshold float32

	// Logger defaults to the logrus standard logger.
	Logger logrus.FieldLogger
}

// History holds the mean loss of every epoch.
type History struct {
	TrainLoss []float64
	ValLoss   []float64
}

// Train runs cfg.Epochs epochs of training on train followed by a pass over
// val, printing the validation report and both losses to out. net is updated
// in place.
//
// A metric error ends training; the history collected so far is returned
// with it.
func Train[B autodiff.BackwardCapable](
	net Network[B],
	opt optim.Optimizer,
	train, val dataset.Loader,
	backend B,
	cfg Config,
	out io.Writer,
) (*History, error) {
	if train.Len() == 0 || val.Len() == 0 {
		return nil, ErrEmptyLoader
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	criterion := nn.NewBCEWithLogitsLoss(backend)
	tape := backend.GetTape()
	history := &History{}

	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		fmt.Fprintf(out, "Epoch %d/%d:\n", epoch, cfg.Epochs)
		start := time.Now()
		log := logger.WithField("epoch", epoch)

		net.SetTraining(true)
		tape.Clear()
		tape.StartRecording()

		var trainLoss float64
		batches := train.Batches()
		for i, batch := range batches {
			opt.ZeroGrad()

			logits := net.Forward(tensor.New(batch.Signals, backend))
			loss := criterion.Forward(logits, tensor.New(batch.Labels, backend))

			grads := autodiff.Backward(loss, backend)
			opt.Step(grads)

			value := float64(loss.Item())
			trainLoss += value
			log.WithFields(logrus.Fields{"batch": i + 1, "loss": value}).Debug("train step")

			tape.Clear()
		}
		tape.StopRecording()
		trainLoss /= float64(len(batches))
		history.TrainLoss = append(history.TrainLoss, trainLoss)

		net.SetTraining(false)
		pass := evaluate(net, val, backend, criterion, cfg.Threshold)
		history.ValLoss = append(history.ValLoss, pass.loss)

		fmt.Fprintln(out, "Validation metrics:")
		if err := pass.report(out); err != nil {
			return history, fmt.Errorf("epoch %d validation: %w", epoch, err)
		}
		fmt.Fprintf(out, "train Loss: %.4f\nval Loss: %.4f\n", trainLoss, pass.loss)

		log.WithFields(logrus.Fields{
			"train_loss": trainLoss,
			"val_loss":   pass.loss,
			"elapsed":    time.Since(start).Round(time.Millisecond),
		}).Info("epoch done")
	}
	return history, nil
}
