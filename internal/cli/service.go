// internal/cli/service.go
package passageqa

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/mwiater/passageqa/internal/appconfig"
	"github.com/mwiater/passageqa/internal/providerfactory"
	"github.com/mwiater/passageqa/internal/rag"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// requireConfig returns the merged configuration loaded by the root command.
func requireConfig() (*appconfig.Config, error) {
	cfg := GetConfig()
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return cfg, nil
}

// openService wires the configured providers to the persisted index.
func openService(cfg *appconfig.Config) (*rag.Service, error) {
	embedder, err := providerfactory.NewEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	extractor, err := providerfactory.NewExtractor(cfg)
	if err != nil {
		return nil, err
	}
	return rag.OpenService(rag.ServiceConfigFromConfig(*cfg), embedder, extractor)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
