// Package export writes a snapshot to a stream in a chosen format.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/shoplist/internal/model"
	"github.com/idilsaglam/shoplist/internal/store/jsonstore"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Write encodes lines as format. JSON is the data file layout; YAML mirrors it
// as an ordered mapping of name to [quantity, price].
func Write(w io.Writer, lines []model.Line, format string) error {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		b, err := jsonstore.Encode(lines)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case FormatYAML, "yml":
		return writeYAML(w, lines)
	}
	return fmt.Errorf("unknown export format %q (json, yaml)", format)
}

func writeYAML(w io.Writer, lines []model.Line) error {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, ln := range lines {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: ln.Name}
		val := &yaml.Node{
			Kind:  yaml.SequenceNode,
			Style: yaml.FlowStyle,
			Content: []*yaml.Node{
				{Kind: yaml.ScalarNode, Value: strconv.FormatInt(ln.Entry.Quantity, 10)},
				{Kind: yaml.ScalarNode, Value: ln.Entry.UnitPrice.String()},
			},
		}
		doc.Content = append(doc.Content, key, val)
	}
	if len(lines) == 0 {
		doc.Style = yaml.FlowStyle
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
