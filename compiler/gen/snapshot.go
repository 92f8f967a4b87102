package gen

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/gazorby/strawberry"
	"github.com/gazorby/strawberry/compiler/load"
)

// snapshot is the wire form of a graph. Because the graph is a pure
// function of its descriptors and config, only those are encoded; decoding
// reassembles the graph through a fresh registry, which also revalidates it.
type snapshot struct {
	Models    []*load.Model     `msgpack:"models"`
	TypeNames map[string]string `msgpack:"type_names,omitempty"`
}

// Encode returns a canonical binary encoding of the graph: the registered
// descriptors sorted by identity, plus the assembly config. Equal graphs
// produce identical encodings; map keys are sorted so the naming overrides
// encode deterministically.
func (g *Graph) Encode() ([]byte, error) {
	s := &snapshot{TypeNames: g.Config.TypeNames}
	for _, n := range g.Nodes {
		s.Models = append(s.Models, n.model)
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("strawberry: encoding snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeGraph reassembles a graph from an Encode buffer.
func DecodeGraph(buf []byte) (*Graph, error) {
	s := &snapshot{}
	if err := msgpack.Unmarshal(buf, s); err != nil {
		return nil, fmt.Errorf("strawberry: decoding snapshot: %w", err)
	}
	return NewGraph(&Config{TypeNames: s.TypeNames}, s.Models...)
}

// Fingerprint returns the hex sha256 digest of the canonical encoding.
// It changes exactly when a descriptor or a naming override changes.
func (g *Graph) Fingerprint() (string, error) {
	buf, err := g.Encode()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:]), nil
}

// SaveSnapshot stores the graph encoding in the cache under the given key.
func SaveSnapshot(ctx context.Context, cache strawberry.Cache, key string, g *Graph, ttl time.Duration) error {
	buf, err := g.Encode()
	if err != nil {
		return err
	}
	return cache.Set(ctx, key, buf, ttl)
}

// LoadSnapshot reassembles a graph previously stored under the given key.
// A cache miss returns nil, nil.
func LoadSnapshot(ctx context.Context, cache strawberry.Cache, key string) (*Graph, error) {
	buf, err := cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if buf == nil {
		return nil, nil
	}
	return DecodeGraph(buf)
}
