// Copyright 2026 The Spatialkit Authors.
//
// Use of this software is governed by the MIT License
// included in the file LICENSE.

// Package config handles the gmlconv configuration file.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the defaults a configuration file can set for gmlconv.
// Command-line flags override anything set here.
type Config struct {
	// From pins the input dialect instead of resolving it from the
	// document's namespace.
	From string `yaml:"from,omitempty"`
	// To selects the output format.
	To string `yaml:"to,omitempty"`
	// SRS is the reference system assumed for documents that declare none.
	SRS string `yaml:"srs,omitempty"`
	// SRSName overrides the srsName written on encoded documents.
	SRSName string `yaml:"srs_name,omitempty"`
	// ID seeds the gml:id attributes of encoded documents.
	ID string `yaml:"id,omitempty"`
	// Digits truncates GeoJSON coordinates; 0 or negative keeps full
	// precision.
	Digits int `yaml:"digits,omitempty"`
	// Pretty enables indented output.
	Pretty bool `yaml:"pretty,omitempty"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
