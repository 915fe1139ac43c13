// Package provider holds the contract shared by the per-provider
// deserializers.
package provider

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/matchfeed/internal/domain/event"
	"github.com/riskibarqy/matchfeed/internal/pipeline"
	"github.com/riskibarqy/matchfeed/internal/platform/logging"
)

// PitchLength and PitchWidth are the source pitch both providers declare.
const (
	PitchLength = 105
	PitchWidth  = 68
)

// Inputs are the two correlated documents of one match.
type Inputs struct {
	// Metadata is the lineup document (StatsPerform MA1, UEFA lineups).
	Metadata []byte
	// Events is the event document (StatsPerform MA3, UEFA events).
	Events []byte
}

type Options struct {
	Factory     event.Factory
	Transformer event.TransformerFactory
	Include     event.Predicate
	Logger      *logging.Logger
	Recorder    pipeline.Recorder
}

// Deserializer turns one match worth of provider documents into a dataset.
type Deserializer interface {
	Provider() event.Provider
	Deserialize(ctx context.Context, inputs Inputs) (*event.Dataset, error)
}

// EngineConfig resolves the options into an engine configuration for the
// declared source pitch.
func (o Options) EngineConfig(logger *logging.Logger) pipeline.Config {
	transformerFactory := o.Transformer
	if transformerFactory == nil {
		transformerFactory = event.NewIdentityTransformer
	}
	return pipeline.Config{
		Factory:     o.Factory,
		Transformer: transformerFactory(PitchLength, PitchWidth),
		Include:     o.Include,
		Logger:      logger,
		Recorder:    o.Recorder,
	}
}

func (o Options) ResolveLogger(name string) *logging.Logger {
	logger := o.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return logger.Named(name)
}

// ID is an identifier that providers publish either as a JSON string or as
// a JSON number.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if trimmed[0] == '"' {
		var text string
		if err := sonic.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(text))
		return nil
	}

	if _, err := strconv.ParseFloat(string(trimmed), 64); err != nil {
		return err
	}
	*id = ID(string(trimmed))
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Int parses the identifier as an integer.
func (id ID) Int() (int, error) {
	return strconv.Atoi(strings.TrimSpace(string(id)))
}
