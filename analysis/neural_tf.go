//go:build tensorflow

package analysis

import (
	"fmt"
	"os"

	tf "github.com/wamuir/graft/tensorflow"
)

// tfPitchModel runs a TensorFlow SavedModel that maps a fixed-length mono
// input to a confidence distribution over log-spaced frequency bins.
type tfPitchModel struct {
	model    *tf.SavedModel
	inputOp  string
	outputOp string
	cfg      PitchConfig
}

// LoadPitchModel loads a SavedModel pitch estimator from cfg.ModelPath.
// Only available in builds with the tensorflow tag; other builds report
// the capability as absent and the tracker stays on autocorrelation.
func LoadPitchModel(cfg PitchConfig) (PitchModel, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("pitch model not found at %s: %w", cfg.ModelPath, err)
	}

	model, err := tf.LoadSavedModel(cfg.ModelPath, []string{"serve"}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load SavedModel: %w", err)
	}

	return &tfPitchModel{
		model:    model,
		inputOp:  "serving_default_audio",
		outputOp: "StatefulPartitionedCall",
		cfg:      cfg,
	}, nil
}

func (m *tfPitchModel) Estimate(samples []float32, sampleRate int) (ModelEstimate, error) {
	input := resampleLinear(samples, sampleRate, m.cfg.NeuralSampleRate, m.cfg.NeuralInputLength)
	normalizeInput(input)

	batch := [][]float32{input}
	inputTensor, err := tf.NewTensor(batch)
	if err != nil {
		return ModelEstimate{}, fmt.Errorf("failed to create input tensor: %w", err)
	}

	inputOp := m.model.Graph.Operation(m.inputOp)
	if inputOp == nil {
		return ModelEstimate{}, fmt.Errorf("input operation %q not found", m.inputOp)
	}
	outputOp := m.model.Graph.Operation(m.outputOp)
	if outputOp == nil {
		return ModelEstimate{}, fmt.Errorf("output operation %q not found", m.outputOp)
	}

	outputs, err := m.model.Session.Run(
		map[tf.Output]*tf.Tensor{
			inputOp.Output(0): inputTensor,
		},
		[]tf.Output{
			outputOp.Output(0), // bin activations [batch, bins]
		},
		nil,
	)
	if err != nil {
		return ModelEstimate{}, fmt.Errorf("inference failed: %w", err)
	}

	var activation []float32
	switch v := outputs[0].Value().(type) {
	case [][]float32:
		if len(v) == 0 {
			return ModelEstimate{}, fmt.Errorf("empty model output")
		}
		activation = v[0]
	case []float32:
		activation = v
	default:
		return ModelEstimate{}, fmt.Errorf("unexpected output type: %T", v)
	}

	return decodeActivation(activation, m.cfg.NeuralMinFreq, m.cfg.NeuralMaxFreq), nil
}

func (m *tfPitchModel) Close() error {
	if m.model != nil && m.model.Session != nil {
		return m.model.Session.Close()
	}
	return nil
}
