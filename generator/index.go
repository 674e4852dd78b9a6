package generator

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/m4gshm/gollections/collection/immutable"
	"github.com/m4gshm/gollections/map_"
	"gopkg.in/yaml.v3"

	"github.com/m4gshm/crudr/logger"
)

// IndexPath is the bundle routing index location relative to the bundle root.
var IndexPath = filepath.Join("Resources", "config", "routing.yml")

// RouteNames parses the top level route names of a routing index.
func RouteNames(content []byte) (immutable.Set[string], error) {
	routes := map[string]yaml.Node{}
	if err := yaml.Unmarshal(content, &routes); err != nil {
		return immutable.Set[string]{}, err
	}
	return immutable.NewSet(map_.Keys(routes)...), nil
}

// HasRoute reports whether the index declares the route.
// Unparsable content is checked by substring match, which may be fooled by route names sharing a prefix.
func HasRoute(content []byte, route string) bool {
	names, err := RouteNames(content)
	if err != nil {
		logger.Debugf("routing index is not parsable, fallback to substring check: %v", err)
		return bytes.Contains(content, []byte(route))
	}
	return names.Contains(route)
}

// MergeIndex appends the block when the index does not declare the route yet.
func MergeIndex(content []byte, route string, block []byte) ([]byte, bool) {
	if HasRoute(content, route) {
		return content, false
	}
	existing := strings.TrimRight(string(content), "\n")
	if len(strings.TrimSpace(existing)) == 0 {
		return block, true
	}
	return []byte(existing + "\n\n" + string(block)), true
}

func (g *Generator) updateIndex(root, route string, block []byte, blockErr error) (string, bool, error) {
	path := filepath.Join(root, IndexPath)
	if blockErr != nil {
		return path, false, &IndexUpdateError{Path: path, Err: blockErr}
	}
	content, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return path, false, &IndexUpdateError{Path: path, Err: err}
	}
	merged, changed := MergeIndex(content, route, block)
	if !changed {
		return path, false, nil
	}
	if err := writeFile(path, merged); err != nil {
		return path, false, &IndexUpdateError{Path: path, Err: err}
	}
	return path, true, nil
}
