package netlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

type document struct {
	Title      string         `json:"title,omitempty"`
	Components []componentDoc `json:"components"`
	Externals  map[int]string `json:"externals,omitempty"`
}

type componentDoc struct {
	Name   string             `json:"name"`
	Type   string             `json:"type"`
	Params map[string]float64 `json:"params"`
	Nets   []int              `json:"nets"`
}

// Save writes the netlist as an indented JSON document.
func Save(w io.Writer, nl *Netlist) error {
	doc := document{
		Title:      nl.Title,
		Components: make([]componentDoc, 0, nl.Len()),
		Externals:  nl.Externals,
	}
	for _, c := range nl.components {
		doc.Components = append(doc.Components, componentDoc{
			Name:   c.Name,
			Type:   c.Type,
			Params: c.Params,
			Nets:   c.Nets,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("saving netlist: %w", err)
	}
	return nil
}

// Load rebuilds a netlist written by Save. Models are resolved through the
// device registry. Either the whole document loads or a *LoadError is returned.
func Load(r io.Reader) (*Netlist, error) {
	nl, err := load(r)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	return nl, nil
}

func load(r io.Reader) (*Netlist, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	if doc.Components == nil {
		return nil, errors.New("document has no component list")
	}

	nl := New()
	nl.Title = doc.Title
	for i, cd := range doc.Components {
		if cd.Type == "" {
			return nil, fmt.Errorf("component %d (%s): missing type", i, cd.Name)
		}
		c, err := NewComponent(cd.Name, cd.Type, cd.Params, cd.Nets)
		if err != nil {
			return nil, err
		}
		if err := nl.Add(c); err != nil {
			return nil, err
		}
	}
	for id, label := range doc.Externals {
		if id >= 0 {
			return nil, fmt.Errorf("external label %q on internal net %d", label, id)
		}
		nl.Externals[id] = label
	}
	return nl, nil
}

func SaveFile(filename string, nl *Netlist) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Save(file, nl); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func LoadFile(filename string) (*Netlist, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, &LoadError{Source: filename, Err: err}
	}
	defer file.Close()

	nl, err := load(file)
	if err != nil {
		return nil, &LoadError{Source: filename, Err: err}
	}
	return nl, nil
}
