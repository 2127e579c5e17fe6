//
//  Copyright 2012 Dmitry Kolesnikov, All Rights Reserved
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.
//


package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fogfish/uidmap"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Output renders command results in the configured format
type Output struct {
	Format string
	Writer io.Writer
}

// Render writes data as JSON or YAML, the text format is produced by text
func (o *Output) Render(data any, text func(w io.Writer) error) error {
	switch o.Format {
	case FormatJSON:
		enc := json.NewEncoder(o.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(o.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(o.Writer)
	}
}

// uidView is identifier with its decomposition
type uidView struct {
	UID       string `json:"uid" yaml:"uid"`
	Hex       string `json:"hex" yaml:"hex"`
	Time      string `json:"time" yaml:"time"`
	Timestamp uint64 `json:"timestamp_ms" yaml:"timestamp_ms"`
	Origin    uint64 `json:"origin_id" yaml:"origin_id"`
	Process   uint64 `json:"process_id" yaml:"process_id"`
	Sequence  uint64 `json:"sequence" yaml:"sequence"`
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

func newUIDView(uid uidmap.UID) uidView {
	info := uidmap.Parse(uid)
	return uidView{
		UID:       uid.String(),
		Hex:       uid.Hex(),
		Time:      info.Time().Format(timeLayout),
		Timestamp: info.Timestamp,
		Origin:    info.Origin,
		Process:   info.Process,
		Sequence:  info.Sequence,
	}
}

func (v uidView) text(w io.Writer) {
	fmt.Fprintf(w, "uid        %s\n", v.UID)
	fmt.Fprintf(w, "hex        %s\n", v.Hex)
	fmt.Fprintf(w, "time       %s\n", v.Time)
	fmt.Fprintf(w, "timestamp  %d\n", v.Timestamp)
	fmt.Fprintf(w, "origin     %d\n", v.Origin)
	fmt.Fprintf(w, "process    %d\n", v.Process)
	fmt.Fprintf(w, "sequence   %d\n", v.Sequence)
}

// mappingView is (symbol, context, uid) triple
type mappingView struct {
	Name    string `json:"name" yaml:"name"`
	Context string `json:"context" yaml:"context"`
	UID     string `json:"uid" yaml:"uid"`
	Hex     string `json:"hex" yaml:"hex"`
}

func newMappingView(m uidmap.Mapping) mappingView {
	return mappingView{
		Name:    m.Name,
		Context: m.Context.String(),
		UID:     m.UID.String(),
		Hex:     m.UID.Hex(),
	}
}

func renderMappings(out *Output, seq []uidmap.Mapping) error {
	views := make([]mappingView, 0, len(seq))
	for _, m := range seq {
		views = append(views, newMappingView(m))
	}

	return out.Render(views, func(w io.Writer) error {
		for _, v := range views {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", v.UID, v.Hex, v.Context, v.Name)
		}
		return nil
	})
}
