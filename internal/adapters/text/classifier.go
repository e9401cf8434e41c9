package text

import (
	"fmt"
	"math"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

const defaultSeqLen = 128

// modelLabels is the output order of the emotion model head. Exports of
// the common English emotion finetunes all use this alphabetical order.
var modelLabels = []string{"anger", "disgust", "fear", "joy", "neutral", "sadness", "surprise"}

// ortEnv manages the process-wide ONNX Runtime initialization.
var ortEnv struct {
	once sync.Once
	err  error
}

// initORT initializes the ONNX Runtime environment once; later calls
// return the first result.
func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// Classifier scores text against the ONNX emotion model. It is safe for
// concurrent use only through a single caller; the REST layer serializes
// calls per request.
type Classifier struct {
	session    *ort.DynamicAdvancedSession
	tokenizer  *tokenizer
	inputNames []string
	seqLen     int
}

// NewClassifier loads the ONNX model and its WordPiece vocabulary. The
// runtime shared library is expected next to the model file.
func NewClassifier(modelPath, vocabPath string, seqLen int) (*Classifier, error) {
	if seqLen <= 0 {
		seqLen = defaultSeqLen
	}

	tok, err := newTokenizer(vocabPath, seqLen)
	if err != nil {
		return nil, fmt.Errorf("text model: %w", err)
	}

	libPath := filepath.Join(filepath.Dir(modelPath), "libonnxruntime.so")
	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("text model: initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("text model: read model info: %w", err)
	}

	inputNames, err := classifierInputs(inputs)
	if err != nil {
		return nil, err
	}

	if len(outputs) == 0 {
		return nil, fmt.Errorf("text model: model has no outputs")
	}
	dims := outputs[0].Dimensions
	if len(dims) != 2 {
		return nil, fmt.Errorf("text model: expected 2D logits, got %v", dims)
	}
	if dims[1] > 0 && int(dims[1]) != len(modelLabels) {
		return nil, fmt.Errorf("text model: expected %d emotion classes, got %d", len(modelLabels), dims[1])
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("text model: create session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(4)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		inputNames,
		[]string{outputs[0].Name},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("text model: create session: %w", err)
	}

	return &Classifier{
		session:    session,
		tokenizer:  tok,
		inputNames: inputNames,
		seqLen:     seqLen,
	}, nil
}

// classifierInputs checks for the transformer inputs the model declares.
// token_type_ids is optional: distilled exports drop it.
func classifierInputs(inputs []ort.InputOutputInfo) ([]string, error) {
	declared := make(map[string]bool, len(inputs))
	for _, inp := range inputs {
		declared[inp.Name] = true
	}
	for _, name := range []string{"input_ids", "attention_mask"} {
		if !declared[name] {
			return nil, fmt.Errorf("text model: missing required input %q", name)
		}
	}
	names := []string{"input_ids", "attention_mask"}
	if declared["token_type_ids"] {
		names = append(names, "token_type_ids")
	}
	return names, nil
}

// Classify tokenizes the text, runs the model, and returns softmaxed
// scores keyed by model label.
func (c *Classifier) Classify(input string) (map[string]float64, error) {
	ids, mask, typeIDs := c.tokenizer.tokenize(input)

	shape := ort.NewShape(1, int64(c.seqLen))
	tensorData := map[string][]int64{
		"input_ids":      ids,
		"attention_mask": mask,
		"token_type_ids": typeIDs,
	}

	values := make([]ort.Value, 0, len(c.inputNames))
	defer func() {
		for _, v := range values {
			v.Destroy()
		}
	}()
	for _, name := range c.inputNames {
		tensor, err := ort.NewTensor(shape, tensorData[name])
		if err != nil {
			return nil, fmt.Errorf("text model: create %s tensor: %w", name, err)
		}
		values = append(values, tensor)
	}

	outShape := ort.NewShape(1, int64(len(modelLabels)))
	out, err := ort.NewEmptyTensor[float32](outShape)
	if err != nil {
		return nil, fmt.Errorf("text model: create output tensor: %w", err)
	}
	defer out.Destroy()

	if err := c.session.Run(values, []ort.Value{out}); err != nil {
		return nil, fmt.Errorf("text model: inference failed: %w", err)
	}

	logits := out.GetData()
	if len(logits) != len(modelLabels) {
		return nil, fmt.Errorf("text model: expected %d logits, got %d", len(modelLabels), len(logits))
	}

	probs := softmax(logits)
	scores := make(map[string]float64, len(modelLabels))
	for i, label := range modelLabels {
		scores[label] = probs[i]
	}
	return scores, nil
}

// Close releases the session resources.
func (c *Classifier) Close() error {
	return c.session.Destroy()
}

// softmax turns raw logits into a probability distribution. The max is
// subtracted first to keep the exponentials finite.
func softmax(logits []float32) []float64 {
	if len(logits) == 0 {
		return nil
	}

	maxLogit := logits[0]
	for _, l := range logits[1:] {
		if l > maxLogit {
			maxLogit = l
		}
	}

	out := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		e := math.Exp(float64(l - maxLogit))
		out[i] = e
		sum += e
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
