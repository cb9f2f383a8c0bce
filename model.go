package feelnet

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/mat"
)

// maxentModel is a maximum-entropy classifier over sparse text
// features. The mapping joins feature name, feature value and label
// into a single weight index.
type maxentModel struct {
	name    string
	mapping map[string]int
	weights *mat.VecDense
	labels  []string
}

// modelFile is the on-disk msgpack layout of a pretrained model.
type modelFile struct {
	Name    string         `msgpack:"name"`
	Labels  []string       `msgpack:"labels"`
	Mapping map[string]int `msgpack:"mapping"`
	Weights []float64      `msgpack:"weights"`
}

// loadMaxentModel reads a pretrained model from a msgpack file.
func loadMaxentModel(path string) (*maxentModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}

	var file modelFile
	if err := msgpack.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decoding model file: %w", err)
	}

	return newMaxentModel(file.Name, file.Mapping, file.Weights, file.Labels)
}

// newMaxentModel validates raw model data and wraps the weights in a
// dense vector.
func newMaxentModel(name string, mapping map[string]int, weights []float64, labels []string) (*maxentModel, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("model %q has no labels", name)
	}
	if len(weights) != len(mapping) {
		return nil, fmt.Errorf("model %q has %d weights for %d features", name, len(weights), len(mapping))
	}
	for entry, id := range mapping {
		if id < 0 || id >= len(weights) {
			return nil, fmt.Errorf("model %q maps %q out of range", name, entry)
		}
	}
	return &maxentModel{
		name:    name,
		mapping: mapping,
		weights: mat.NewVecDense(len(weights), weights),
		labels:  labels,
	}, nil
}

// marshal writes the model back out in its msgpack file layout.
func (m *maxentModel) marshal(path string) error {
	raw := make([]float64, m.weights.Len())
	for i := range raw {
		raw[i] = m.weights.AtVec(i)
	}
	data, err := msgpack.Marshal(modelFile{
		Name:    m.name,
		Labels:  m.labels,
		Mapping: m.mapping,
		Weights: raw,
	})
	if err != nil {
		return fmt.Errorf("encoding model file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// classify returns a probability per label for the given features via
// softmax over each label's summed feature weights.
func (m *maxentModel) classify(features map[string]string) map[string]float64 {
	scores := make([]float64, len(m.labels))
	for i, label := range m.labels {
		scores[i] = m.score(features, label)
	}

	// Softmax with max subtraction for numerical stability.
	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}
	var total float64
	for i := range scores {
		scores[i] = math.Exp(scores[i] - maxScore)
		total += scores[i]
	}

	probs := make(map[string]float64, len(m.labels))
	for i, label := range m.labels {
		probs[label] = scores[i] / total
	}
	return probs
}

// score sums the weights of features active under the given label,
// including the bias feature.
func (m *maxentModel) score(features map[string]string, label string) float64 {
	var sum float64
	for fname, fval := range features {
		entry := strings.Join([]string{fname, fval, label}, "-")
		if id, found := m.mapping[entry]; found {
			sum += m.weights.AtVec(id)
		}
	}
	if id, found := m.mapping[strings.Join([]string{"__BIAS__", "1", label}, "-")]; found {
		sum += m.weights.AtVec(id)
	}
	return sum
}

// textFeatures extracts the sparse unigram features the model consumes.
func textFeatures(tokens []string) map[string]string {
	features := make(map[string]string)
	for _, token := range tokens {
		word := strings.ToLower(token)
		if len(word) > 2 {
			features["word:"+word] = "1"
		}
	}
	return features
}
