// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package campaign

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/someonegg/budalloc/internal/tracing"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCBOR = "cbor"
)

var ErrUnknownFormat = errors.New("campaign: unknown format")

// FormatOf guesses a document format from the URL extension, JSON by default.
func FormatOf(url string) string {
	switch strings.ToLower(path.Ext(url)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".cbor":
		return FormatCBOR
	default:
		return FormatJSON
	}
}

// LoadInstance reads a JSON or YAML instance from url.
func LoadInstance(ctx context.Context, fs afs.Service, url string) (inst *Instance, err error) {
	ctx, span := tracing.StartSpan(ctx, "campaign.load", tracing.KindClient)
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"url": url})

	data, err := fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("campaign: load %s: %w", url, err)
	}

	inst = &Instance{}
	switch format := FormatOf(url); format {
	case FormatJSON:
		err = json.Unmarshal(data, inst)
	case FormatYAML:
		err = yaml.Unmarshal(data, inst)
	default:
		err = fmt.Errorf("%w: %s for instances", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("campaign: decode %s: %w", url, err)
	}
	return inst, nil
}

// SaveInstance writes inst to url as JSON or YAML, by extension.
func SaveInstance(ctx context.Context, fs afs.Service, url string, inst *Instance) error {
	format := FormatOf(url)
	if format == FormatCBOR {
		return fmt.Errorf("%w: %s for instances", ErrUnknownFormat, format)
	}
	data, err := encode(format, inst)
	if err != nil {
		return err
	}
	return fs.Upload(ctx, url, file.DefaultFileOsMode, bytes.NewReader(data))
}

// WriteReport encodes report in format and uploads it to url. An empty
// format is guessed from url.
func WriteReport(ctx context.Context, fs afs.Service, url, format string, report *Report) (err error) {
	ctx, span := tracing.StartSpan(ctx, "campaign.write", tracing.KindClient)
	defer func() { tracing.EndSpan(span, err) }()

	if format == "" {
		format = FormatOf(url)
	}
	span.WithAttributes(map[string]string{"url": url, "format": format})

	data, err := encode(format, report)
	if err != nil {
		return err
	}
	if err = fs.Upload(ctx, url, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("campaign: write %s: %w", url, err)
	}
	return nil
}

// ReadReport is the inverse of WriteReport.
func ReadReport(ctx context.Context, fs afs.Service, url, format string) (*Report, error) {
	if format == "" {
		format = FormatOf(url)
	}
	data, err := fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("campaign: read %s: %w", url, err)
	}

	report := &Report{}
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, report)
	case FormatYAML:
		err = yaml.Unmarshal(data, report)
	case FormatCBOR:
		err = cbor.Unmarshal(data, report)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

func encode(format string, v interface{}) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(v, "", "  ")
	case FormatYAML:
		return yaml.Marshal(v)
	case FormatCBOR:
		return cbor.Marshal(v)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
